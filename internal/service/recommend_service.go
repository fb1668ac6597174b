package service

import (
	"context"
	"net/url"
	"strconv"

	"movierec-web/internal/logging"
	"movierec-web/internal/models"
)

// DefaultLimit es el tamaño de página de "Load More".
const DefaultLimit = 5

type RecommendService struct {
	api Backend
}

func NewRecommendService(api Backend) *RecommendService {
	return &RecommendService{api: api}
}

// PageParams copia los filtros de la página y fija offset/limit del cursor.
// No modifica base.
func PageParams(base url.Values, cur models.Cursor) url.Values {
	params := make(url.Values, len(base)+2)
	for k, v := range base {
		params[k] = append([]string(nil), v...)
	}
	limit := cur.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params.Set("offset", strconv.Itoa(cur.Offset))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// Next pide la página que empieza en cur. No calcula ningún offset: el
// siguiente es el next_offset que devuelva el servidor.
func (s *RecommendService) Next(ctx context.Context, filters url.Values, cur models.Cursor) (*models.RecommendationPage, error) {
	page, err := s.api.Recommendations(ctx, PageParams(filters, cur))
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Int("offset", cur.Offset).
			Int("limit", cur.Limit).
			Msg("load more failed")
		return nil, err
	}
	logging.Ctx(ctx).Debug().
		Int("offset", cur.Offset).
		Int("movies", len(page.Movies)).
		Int("next_offset", page.NextOffset).
		Bool("has_more", page.HasMore).
		Msg("recommendation page")
	return page, nil
}
