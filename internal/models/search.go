package models

// SearchOption es un resultado de /genre_search, /studio_search, etc.
// Mismo formato que espera Select2 en processResults.
type SearchOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}
