package devbackend

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"movierec-web/internal/logging"
	"movierec-web/internal/render"

	"github.com/goccy/go-json"
)

const defaultLimit = 5

var errBadParam = errors.New("parámetro inválido")

type RecommendHandler struct {
	srv      *Server
	renderer *render.Renderer
}

func newRecommendHandler(s *Server) *RecommendHandler {
	return &RecommendHandler{srv: s, renderer: render.NewRenderer(s.csrfToken)}
}

// Index es la página de filtros con los widgets y los rangos del catálogo.
func (h *RecommendHandler) Index(w http.ResponseWriter, r *http.Request) {
	minY, maxY, minR, maxR := h.srv.store.Bounds()
	body, err := renderPage(pageData{
		Title:      "MovieRec",
		CSRFToken:  h.srv.csrfToken,
		YearFrom:   minY,
		YearTo:     maxY,
		RatingFrom: render.Fixed(minR, 1),
		RatingTo:   render.Fixed(maxR, 1),
		Scripts:    []string{JQueryScript, Select2Script, NoUISliderJS, PageScriptPath},
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// Submit replica el POST del formulario: redirige a GET /recommend con los
// filtros en la query y la paginación reiniciada.
func (h *RecommendHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulario inválido", 400)
		return
	}
	params := url.Values{}
	for field, key := range map[string]string{
		"description": "description",
		"genres":      "genre",
		"studios":     "studio",
		"directors":   "director",
		"producers":   "producer",
		"cast_member": "cast_member",
		"year_from":   "year_from",
		"year_to":     "year_to",
		"rating_from": "rating_from",
		"rating_to":   "rating_to",
	} {
		// los selects múltiples mandan un valor por opción
		for _, v := range r.PostForm[field] {
			if v != "" {
				params.Add(key, v)
			}
		}
	}
	params.Set("offset", "0")
	params.Set("limit", strconv.Itoa(defaultLimit))
	http.Redirect(w, r, "/recommend?"+params.Encode(), http.StatusSeeOther)
}

// Recommend atiende GET /recommend?filtros&offset&limit. Con
// X-Requested-With devuelve {movies, next_offset, has_more}; sin él, la
// página con las tarjetas y el control de Load More.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	offset, err := intParam(q, "offset", 0)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	limit, err := intParam(q, "limit", defaultLimit)
	if err != nil || limit == 0 {
		http.Error(w, fmt.Sprintf("limit inválido: %q", q.Get("limit")), 400)
		return
	}
	filters, err := parseFilters(q)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	page := h.srv.store.Page(filters, offset, limit)

	if isAJAX(r) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
		return
	}

	cards := make([]template.HTML, 0, len(page.Movies))
	for _, m := range page.Movies {
		markup, err := h.renderer.HTML(m)
		if err == nil && h.srv.legacy {
			markup, err = legacyCard(markup)
		}
		if err != nil {
			logging.Error().Err(err).Int("movie_id", m.MovieID).Msg("[devbackend] render card")
			http.Error(w, err.Error(), 500)
			return
		}
		// markup ya sale escapado de html/template
		cards = append(cards, template.HTML(markup))
	}

	body, err := renderPage(pageData{
		Title:       "Recommendations",
		CSRFToken:   h.srv.csrfToken,
		Description: q.Get("description"),
		YearFrom:    filters.YearFrom,
		YearTo:      filters.YearTo,
		RatingFrom:  q.Get("rating_from"),
		RatingTo:    q.Get("rating_to"),
		Results:     true,
		Cards:       cards,
		HasMore:     page.HasMore,
		NextOffset:  page.NextOffset,
		Scripts:     []string{PageScriptPath},
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

func parseFilters(q url.Values) (Filters, error) {
	f := Filters{
		Genres:    values(q, "genre"),
		Studios:   values(q, "studio"),
		Directors: values(q, "director"),
		Producers: values(q, "producer"),
		Cast:      values(q, "cast_member"),
	}
	var err error
	if f.YearFrom, err = intParam(q, "year_from", 0); err != nil {
		return f, err
	}
	if f.YearTo, err = intParam(q, "year_to", 0); err != nil {
		return f, err
	}
	if f.RatingFrom, err = floatParam(q, "rating_from"); err != nil {
		return f, err
	}
	if f.RatingTo, err = floatParam(q, "rating_to"); err != nil {
		return f, err
	}
	return f, nil
}

func values(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q", errBadParam, key, raw)
	}
	return v, nil
}

func floatParam(q url.Values, key string) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadParam, key, raw)
	}
	return v, nil
}
