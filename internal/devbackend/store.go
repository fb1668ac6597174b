package devbackend

import (
	"sort"
	"strings"
	"sync"

	"movierec-web/internal/models"
)

// Filters son los filtros de /recommend que entiende el backend de
// desarrollo. Vacío = sin filtro. En las listas basta con que la película
// tenga uno de los valores.
type Filters struct {
	Genres     []string
	Studios    []string
	Directors  []string
	Producers  []string
	Cast       []string
	YearFrom   int
	YearTo     int
	RatingFrom float64
	RatingTo   float64
}

// Store guarda películas, favoritos y ratings en memoria (un solo usuario).
type Store struct {
	mu        sync.Mutex
	movies    []models.RecommendationItem
	favorites map[int]bool
	ratings   map[int]int
}

func NewStore(movies []models.RecommendationItem) *Store {
	sorted := make([]models.RecommendationItem, len(movies))
	copy(sorted, movies)
	// sin descripción la app de Flask ordena por título
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Title < sorted[j].Title })

	favs := make(map[int]bool)
	for _, m := range sorted {
		if m.Faved {
			favs[m.MovieID] = true
		}
	}
	return &Store{movies: sorted, favorites: favs, ratings: make(map[int]int)}
}

// Page devuelve movies[offset:offset+limit] ya filtradas, con faved
// actualizado. next_offset = offset + limit, como Flask.
func (s *Store) Page(f Filters, offset, limit int) models.RecommendationPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.RecommendationItem
	for _, m := range s.movies {
		if f.match(m) {
			all = append(all, m)
		}
	}

	page := models.RecommendationPage{
		Movies:     []models.RecommendationItem{},
		NextOffset: offset + limit,
		HasMore:    len(all) > offset+limit,
	}
	if offset < len(all) {
		end := min(offset+limit, len(all))
		for _, m := range all[offset:end] {
			m.Faved = models.Flag(s.favorites[m.MovieID])
			page.Movies = append(page.Movies, m)
		}
	}
	return page
}

func (s *Store) Exists(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.movies {
		if m.MovieID == movieID {
			return true
		}
	}
	return false
}

// ToggleFavorite devuelve el estado nuevo.
func (s *Store) ToggleFavorite(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites[movieID] {
		delete(s.favorites, movieID)
		return false
	}
	s.favorites[movieID] = true
	return true
}

func (s *Store) IsFavorite(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites[movieID]
}

// Rate hace upsert del rating del modelo para una película.
func (s *Store) Rate(movieID, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[movieID] = score
}

func (s *Store) Rating(movieID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.ratings[movieID]
	return v, ok
}

// Lookup busca nombres distintos de un campo (genres, studios, ...) que
// contengan q, sin distinguir mayúsculas. Ordenados, máximo 20.
func (s *Store) Lookup(field, q string) []models.SearchOption {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make(map[string]bool)
	for _, m := range s.movies {
		for _, n := range fieldValues(m, field) {
			names[n] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	q = strings.ToLower(q)
	out := []models.SearchOption{}
	for i, n := range sorted {
		if !strings.Contains(strings.ToLower(n), q) {
			continue
		}
		// id estable: posición en la lista ordenada
		out = append(out, models.SearchOption{ID: i + 1, Text: n})
		if len(out) == 20 {
			break
		}
	}
	return out
}

// Bounds son los límites de los sliders: años y rating promedio.
func (s *Store) Bounds() (minYear, maxYear int, minRating, maxRating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.movies) == 0 {
		return 1900, 2025, 0, 10
	}
	minYear, maxYear = s.movies[0].Year, s.movies[0].Year
	minRating, maxRating = float64(s.movies[0].AvgRating), float64(s.movies[0].AvgRating)
	for _, m := range s.movies[1:] {
		minYear = min(minYear, m.Year)
		maxYear = max(maxYear, m.Year)
		minRating = min(minRating, float64(m.AvgRating))
		maxRating = max(maxRating, float64(m.AvgRating))
	}
	return minYear, maxYear, minRating, maxRating
}

func fieldValues(m models.RecommendationItem, field string) []string {
	switch field {
	case "genre":
		return m.Genres
	case "studio":
		return m.Studios
	case "producer":
		return m.Producers
	case "cast":
		return m.Cast
	case "director":
		if m.Director == "" {
			return nil
		}
		return []string{m.Director}
	}
	return nil
}

func (f Filters) match(m models.RecommendationItem) bool {
	if !anyFold(m.Genres, f.Genres) || !anyFold(m.Studios, f.Studios) ||
		!anyFold([]string{m.Director}, f.Directors) || !anyFold(m.Producers, f.Producers) ||
		!anyFold(m.Cast, f.Cast) {
		return false
	}
	if f.YearFrom > 0 && m.Year < f.YearFrom {
		return false
	}
	if f.YearTo > 0 && m.Year > f.YearTo {
		return false
	}
	if f.RatingFrom > 0 && float64(m.AvgRating) < f.RatingFrom {
		return false
	}
	if f.RatingTo > 0 && float64(m.AvgRating) > f.RatingTo {
		return false
	}
	return true
}

// anyFold: want vacío no filtra; si no, list debe tener alguno de want.
func anyFold(list, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, s := range list {
			if strings.EqualFold(s, w) {
				return true
			}
		}
	}
	return false
}
