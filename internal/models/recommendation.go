package models

// RecommendationItem es una película tal como la devuelve /recommend.
// Es inmutable del lado del cliente.
type RecommendationItem struct {
	MovieID     int        `json:"movie_id" validate:"required"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PosterURL   string     `json:"poster_url"`
	PageURL     string     `json:"page_url"`
	Year        int        `json:"year"`
	Duration    int        `json:"duration"`
	Sim         LooseFloat `json:"sim"`
	AvgRating   LooseFloat `json:"avg_rating"`
	Genres      []string   `json:"genres"`
	Studios     []string   `json:"studios"`
	Producers   []string   `json:"producers"`
	Cast        []string   `json:"cast"`
	Director    string     `json:"director"`
	Faved       Flag       `json:"faved"`
}

// RecommendationPage es el cuerpo JSON de GET /recommend con X-Requested-With.
type RecommendationPage struct {
	Movies     []RecommendationItem `json:"movies" validate:"dive"`
	NextOffset int                  `json:"next_offset" validate:"gte=0"`
	HasMore    bool                 `json:"has_more"`
}

// Cursor es la posición de paginación. Offset solo avanza con el
// next_offset del servidor.
type Cursor struct {
	Offset int
	Limit  int
}
