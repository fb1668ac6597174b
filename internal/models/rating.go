package models

import (
	"net/url"
	"strconv"
)

// Valores posibles del formulario de rating (10 estrellas, 10 primero)
const (
	MinModelRating = 1
	MaxModelRating = 10
)

// ModelRating es lo que se envía a /rate_model cuando cambia una estrella.
type ModelRating struct {
	MovieID int `validate:"required"`
	Score   int `validate:"gte=1,lte=10"`
}

// RatingForm son los campos del formulario tal cual (csrf_token, movie_id,
// model_rating, y lo que el servidor haya añadido).
type RatingForm struct {
	Action string
	Values url.Values
}

// Rating extrae movie_id y model_rating del formulario.
func (f RatingForm) Rating() (ModelRating, error) {
	mid, err := strconv.Atoi(f.Values.Get("movie_id"))
	if err != nil {
		return ModelRating{}, err
	}
	score, err := strconv.Atoi(f.Values.Get("model_rating"))
	if err != nil {
		return ModelRating{}, err
	}
	return ModelRating{MovieID: mid, Score: score}, nil
}
