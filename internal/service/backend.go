package service

import (
	"context"
	"net/url"

	"movierec-web/internal/models"
)

// Backend son las llamadas al servidor que usan los servicios.
// *client.Client lo implementa.
type Backend interface {
	ToggleFavorite(ctx context.Context, movieID int) error
	SubmitRating(ctx context.Context, form models.RatingForm) error
	Recommendations(ctx context.Context, params url.Values) (*models.RecommendationPage, error)
	Search(ctx context.Context, endpoint, term string) ([]models.SearchOption, error)
}
