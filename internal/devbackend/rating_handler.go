package devbackend

import (
	"net/http"
	"strconv"

	"movierec-web/internal/logging"
	"movierec-web/internal/models"
)

type RatingHandler struct {
	store *Store
}

func newRatingHandler(s *Server) *RatingHandler { return &RatingHandler{store: s.store} }

// RateModel atiende POST /rate_model (movie_id, model_rating 1..10) y
// guarda o reemplaza la valoración.
func (h *RatingHandler) RateModel(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(r.PostFormValue("movie_id"))
	if err != nil {
		http.Error(w, "movie_id inválido", 400)
		return
	}
	score, err := strconv.Atoi(r.PostFormValue("model_rating"))
	if err != nil || score < models.MinModelRating || score > models.MaxModelRating {
		http.Error(w, "model_rating inválido", 400)
		return
	}
	if !h.store.Exists(movieID) {
		http.Error(w, "película no encontrada", http.StatusNotFound)
		return
	}

	h.store.Rate(movieID, score)
	logging.Debug().Int("movie_id", movieID).Int("score", score).Msg("[devbackend] rate_model")

	if isAJAX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	next := r.Referer()
	if next == "" {
		next = "/recommend"
	}
	http.Redirect(w, r, next, http.StatusFound)
}
