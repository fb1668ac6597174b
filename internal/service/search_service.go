package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"movierec-web/internal/cache"
	"movierec-web/internal/logging"
	"movierec-web/internal/models"
)

// Valores de los selects remotos
const (
	MinSearchChars = 2
	SearchDelay    = 250 * time.Millisecond
	DefaultTTL     = 60 * time.Second
)

type SearchService struct {
	api   Backend
	cache cache.JSONCache
	ttl   time.Duration
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewSearchService(api Backend, c cache.JSONCache, ttl time.Duration) *SearchService {
	if c == nil {
		c = cache.Noop{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SearchService{
		api:    api,
		cache:  c,
		ttl:    ttl,
		delay:  SearchDelay,
		timers: make(map[string]*time.Timer),
	}
}

// WithDelay cambia la espera del debounce (tests).
func (s *SearchService) WithDelay(d time.Duration) *SearchService {
	s.delay = d
	return s
}

func searchKey(endpoint, term string) string {
	return fmt.Sprintf("search:%s:%s", endpoint, strings.ToLower(term))
}

// Search consulta el endpoint si term tiene al menos 2 caracteres; con
// menos no hay consulta y el resultado es vacío.
func (s *SearchService) Search(ctx context.Context, endpoint, term string) ([]models.SearchOption, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchChars {
		return []models.SearchOption{}, nil
	}

	key := searchKey(endpoint, term)
	var cached []models.SearchOption
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("[cache] lectura fallida")
	}

	opts, err := s.api.Search(ctx, endpoint, term)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("endpoint", endpoint).Str("term", term).Msg("search failed")
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, opts, s.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("[cache] escritura fallida")
	}
	return opts, nil
}

// Type es lo que pasa al escribir en un select: cada llamada reinicia la
// espera del endpoint y solo la última dispara la búsqueda. done recibe el
// resultado desde otra goroutine.
func (s *SearchService) Type(ctx context.Context, endpoint, term string, done func([]models.SearchOption, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[endpoint]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.timers[endpoint] != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, endpoint)
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		done(s.Search(ctx, endpoint, term))
	})
	s.timers[endpoint] = t
}

// Stop cancela las búsquedas pendientes.
func (s *SearchService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.timers {
		t.Stop()
		delete(s.timers, k)
	}
}
