package devbackend

import (
	"net/http"

	"github.com/goccy/go-json"
)

type SearchHandler struct {
	store *Store
}

func newSearchHandler(store *Store) *SearchHandler { return &SearchHandler{store: store} }

// For devuelve el handler de /<field>_search?q=: [{id, text}], máximo 20.
func (h *SearchHandler) For(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.store.Lookup(field, r.URL.Query().Get("q")))
	}
}

// Health: GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("ok"))
}
