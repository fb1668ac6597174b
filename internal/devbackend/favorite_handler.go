package devbackend

import (
	"net/http"
	"strconv"

	"movierec-web/internal/logging"

	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	store *Store
}

func newFavoriteHandler(s *Server) *FavoriteHandler { return &FavoriteHandler{store: s.store} }

// Toggle atiende POST /favorite/{id}: alterna el favorito y contesta 204
// a AJAX; un POST normal vuelve a la página de origen.
func (h *FavoriteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !h.store.Exists(id) {
		http.Error(w, "película no encontrada", http.StatusNotFound)
		return
	}

	faved := h.store.ToggleFavorite(id)
	logging.Debug().Int("movie_id", id).Bool("faved", faved).Msg("[devbackend] toggle_fav")

	if isAJAX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	next := r.PostFormValue("next")
	if next == "" {
		next = r.Referer()
	}
	if next == "" {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusFound)
}
