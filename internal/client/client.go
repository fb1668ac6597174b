// Package client habla con el backend que renderiza la app: páginas HTML,
// /favorite/{id}, /rate_model, /recommend y los endpoints de búsqueda de
// los filtros.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"movierec-web/internal/config"
	"movierec-web/internal/logging"
	"movierec-web/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Cabeceras que manda el navegador en las llamadas AJAX
const (
	HeaderCSRF          = "X-CSRFToken"
	HeaderRequestedWith = "X-Requested-With"
	AJAXMarker          = "XMLHttpRequest"
)

const RecommendPath = "/recommend"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidPage      = errors.New("invalid recommendation page")
	ErrNoCSRFToken      = errors.New("missing csrf token")
)

// StatusError es una respuesta con un status distinto del esperado.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Page es una página HTML descargada del backend.
type Page struct {
	URL  *url.URL
	Body []byte
}

var validate = validator.New()

// Client comparte cookies (sesión) entre todas las llamadas. El token CSRF
// se fija una vez con WithCSRFToken y no cambia durante la sesión.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[*http.Response]
	csrfToken  string
}

func New(cfg *config.Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("base url inválida: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url inválida: %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if cfg.SessionCookie != "" {
		name := cfg.SessionCookieName
		if name == "" {
			name = "session"
		}
		jar.SetCookies(base, []*http.Cookie{{Name: name, Value: cfg.SessionCookie, Path: "/"}})
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
			Jar:     jar,
		},
	}
	if cfg.CircuitBreaker {
		c.cb = newBreaker("movierec-backend")
	}
	return c, nil
}

// WithCSRFToken devuelve un cliente que comparte cookies y transporte y
// manda token en cada POST.
func (c *Client) WithCSRFToken(token string) *Client {
	cp := *c
	cp.csrfToken = token
	return &cp
}

func (c *Client) CSRFToken() string { return c.csrfToken }

func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Resolve interpreta ref (absoluta o relativa) contra la base.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	return c.baseURL.ResolveReference(r), nil
}

// GetPage descarga una página HTML (navegación normal, sin marca AJAX).
func (c *Client) GetPage(ctx context.Context, ref string) (*Page, error) {
	u, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get page", resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("get page %s: %w", u, err)
	}
	return &Page{URL: resp.Request.URL, Body: body}, nil
}

// ToggleFavorite hace POST /favorite/{movieID}. Solo 204 es éxito.
func (c *Client) ToggleFavorite(ctx context.Context, movieID int) error {
	if c.csrfToken == "" {
		return ErrNoCSRFToken
	}
	u, err := c.Resolve("/favorite/" + strconv.Itoa(movieID))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), http.NoBody)
	if err != nil {
		return err
	}
	c.mutating(req)

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("toggle favorite %d: %w", movieID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return statusError("toggle favorite", resp)
	}
	return nil
}

// SubmitRating manda el formulario de rating (url-encoded) a su action.
func (c *Client) SubmitRating(ctx context.Context, form models.RatingForm) error {
	if c.csrfToken == "" {
		return ErrNoCSRFToken
	}
	action := form.Action
	if action == "" {
		action = "/rate_model"
	}
	u, err := c.Resolve(action)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.mutating(req)

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("submit rating: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return statusError("submit rating", resp)
	}
	return nil
}

// Recommendations pide GET /recommend?params como llamada AJAX y valida el
// JSON {movies, next_offset, has_more}.
func (c *Client) Recommendations(ctx context.Context, params url.Values) (*models.RecommendationPage, error) {
	u, err := c.Resolve(RecommendPath)
	if err != nil {
		return nil, err
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderRequestedWith, AJAXMarker)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("recommendations", resp)
	}

	var page models.RecommendationPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	if err := validate.Struct(&page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	return &page, nil
}

// Search consulta un endpoint de búsqueda de filtros (?q=term).
func (c *Client) Search(ctx context.Context, endpoint, term string) ([]models.SearchOption, error) {
	u, err := c.Resolve(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", term)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderRequestedWith, AJAXMarker)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("search", resp)
	}

	var out []models.SearchOption
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("search %s: decode: %w", endpoint, err)
	}
	return out, nil
}

func (c *Client) mutating(req *http.Request) {
	req.Header.Set(HeaderCSRF, c.csrfToken)
	req.Header.Set(HeaderRequestedWith, AJAXMarker)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	var (
		resp *http.Response
		err  error
	)
	if c.cb != nil {
		resp, err = c.cb.Execute(func() (*http.Response, error) {
			return c.httpClient.Do(req)
		})
	} else {
		resp, err = c.httpClient.Do(req)
	}

	ev := logging.Ctx(req.Context()).Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Dur("elapsed", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("request")
	return resp, nil
}

func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
