package service

import (
	"context"

	"movierec-web/internal/logging"
	"movierec-web/internal/models"
)

type FavoriteService struct {
	api Backend
}

func NewFavoriteService(api Backend) *FavoriteService {
	return &FavoriteService{api: api}
}

// Toggle invierte el favorito de una película. Con 204 devuelve el estado
// nuevo; con cualquier otra respuesta loguea y devuelve el estado actual
// sin tocarlo.
func (s *FavoriteService) Toggle(ctx context.Context, movieID int, faved models.Flag) (models.Flag, error) {
	if err := s.api.ToggleFavorite(ctx, movieID); err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Int("movie_id", movieID).
			Bool("faved", bool(faved)).
			Msg("favorite toggle failed")
		return faved, err
	}
	return !faved, nil
}
