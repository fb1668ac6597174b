// Package devbackend es un backend en memoria con los mismos contratos HTTP
// que la app real (/recommend, /favorite/{id}, /rate_model, búsquedas).
// Sirve para desarrollo local y para los tests de client y page.
package devbackend

import (
	"net/http"
	"net/url"
	"sync"
	"time"

	"movierec-web/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultCSRFToken = "dev-csrf-token"
	HeaderCSRF       = "X-CSRFToken"
	HeaderAJAX       = "X-Requested-With"
)

// RecordedRequest es una petición recibida, para que los tests verifiquen
// cabeceras y query.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Header  http.Header
	Form    url.Values
	Cookies []*http.Cookie
}

type Option func(*Server)

// WithCSRFToken fija el token que se publica en la meta y se exige en POST.
func WithCSRFToken(token string) Option {
	return func(s *Server) { s.csrfToken = token }
}

// WithSession exige la cookie name=value en las rutas que cambian estado.
func WithSession(name, value string) Option {
	return func(s *Server) {
		s.sessionName = name
		s.sessionValue = value
	}
}

// WithLegacyMarkup hace que las tarjetas de /recommend salgan con onclick
// en lugar de data-action, como las plantillas antiguas.
func WithLegacyMarkup() Option {
	return func(s *Server) { s.legacy = true }
}

// Server agrupa store, router y los hooks de test.
type Server struct {
	store        *Store
	csrfToken    string
	sessionName  string
	sessionValue string
	legacy       bool
	router       chi.Router

	mu       sync.Mutex
	failures map[string]int
	requests []RecordedRequest
}

func New(store *Store, opts ...Option) *Server {
	s := &Server{
		store:     store,
		csrfToken: DefaultCSRFToken,
		failures:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	recH := newRecommendHandler(s)
	favH := newFavoriteHandler(s)
	rateH := newRatingHandler(s)
	searchH := newSearchHandler(s.store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Get("/health", Health)
	r.Get("/", recH.Index)

	r.Get("/recommend", recH.Recommend)
	r.Post("/recommend", recH.Submit)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Use(s.requireCSRF)

		r.Post("/favorite/{id}", favH.Toggle)
		r.Post("/rate_model", rateH.RateModel)
	})

	r.Get("/genre_search", searchH.For("genre"))
	r.Get("/studio_search", searchH.For("studio"))
	r.Get("/director_search", searchH.For("director"))
	r.Get("/producer_search", searchH.For("producer"))
	r.Get("/cast_search", searchH.For("cast"))

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) CSRFToken() string { return s.csrfToken }

// FailNext hace que la próxima petición a path responda status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Requests devuelve una copia de todas las peticiones recibidas.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo filtra Requests por path.
func (s *Server) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, req := range s.Requests() {
		if req.Path == path {
			out = append(out, req)
		}
	}
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Query:   r.URL.Query(),
			Header:  r.Header.Clone(),
			Cookies: r.Cookies(),
		}
		if r.Method == http.MethodPost {
			// ParseForm consume el body; los handlers leen r.Form después
			_ = r.ParseForm()
			rec.Form = cloneValues(r.PostForm)
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.URL.Path]
		if ok {
			delete(s.failures, r.URL.Path)
		}
		s.mu.Unlock()

		if ok {
			http.Error(w, "fallo inyectado", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessionName != "" {
			c, err := r.Cookie(s.sessionName)
			if err != nil || c.Value != s.sessionValue {
				http.Error(w, "login requerido", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireCSRF acepta el token en la cabecera o en el campo csrf_token.
func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(HeaderCSRF)
		if token == "" {
			token = r.PostFormValue("csrf_token")
		}
		if token == "" || token != s.csrfToken {
			http.Error(w, "The CSRF token is missing or invalid.", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("[devbackend]")
	})
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get(HeaderAJAX) == "XMLHttpRequest"
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
