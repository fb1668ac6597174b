package service

import (
	"context"
	"fmt"

	"movierec-web/internal/logging"
	"movierec-web/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RatingService struct {
	api Backend
}

func NewRatingService(api Backend) *RatingService {
	return &RatingService{api: api}
}

// Submit manda el formulario tal cual lo tiene la página. Antes comprueba
// que movie_id y model_rating sean válidos para no mandar basura.
func (s *RatingService) Submit(ctx context.Context, form models.RatingForm) error {
	rating, err := form.Rating()
	if err == nil {
		err = validate.Struct(rating)
	}
	if err != nil {
		err = fmt.Errorf("formulario de rating inválido: %w", err)
		logging.Ctx(ctx).Error().Err(err).Msg("model-rating failed")
		return err
	}

	if err := s.api.SubmitRating(ctx, form); err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Int("movie_id", rating.MovieID).
			Int("score", rating.Score).
			Msg("model-rating failed")
		return err
	}

	logging.Ctx(ctx).Info().
		Int("movie_id", rating.MovieID).
		Int("score", rating.Score).
		Msg("rated movie")
	return nil
}
