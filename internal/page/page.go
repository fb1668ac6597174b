// Package page es el runtime de una página de recomendaciones: lee el token
// CSRF de la meta, enruta clicks y cambios a favoritos, ratings, detalles y
// "Load More", y mantiene el documento actualizado.
//
// El documento solo se toca con p.mu tomado y el lock nunca se mantiene
// durante una llamada de red.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"movierec-web/internal/client"
	"movierec-web/internal/dom"
	"movierec-web/internal/models"
	"movierec-web/internal/render"
	"movierec-web/internal/service"
	"movierec-web/internal/widgets"

	"golang.org/x/net/html"
)

// Ids y nombres que la página espera encontrar
const (
	LoadMoreID     = "load-more"
	ContainerID    = "rec-container"
	RatingInput    = "model_rating"
	RatingFormCls  = "model-rating-form"
	HiddenCls      = "hidden"
	CSRFMetaName   = "csrf-token"
	detailsPrefix  = "det-"
	defaultPageLim = service.DefaultLimit
)

var (
	ErrExhausted   = errors.New("load more: no more pages")
	ErrControlBusy = errors.New("load more: request in flight")
	ErrBadOffset   = errors.New("load more: invalid data-offset")
	ErrNoSearch    = errors.New("page: remote search not configured")
)

type Option func(*Page)

// WithLimit cambia el tamaño de página de Load More (5 por defecto).
func WithLimit(n int) Option {
	return func(p *Page) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithSearch engancha el servicio de búsqueda de los selects remotos.
func WithSearch(s *service.SearchService) Option {
	return func(p *Page) { p.search = s }
}

type Page struct {
	mu      sync.Mutex
	doc     *html.Node
	url     *url.URL
	csrf    string
	limit   int
	loading bool

	renderer  *render.Renderer
	favorites *service.FavoriteService
	ratings   *service.RatingService
	recs      *service.RecommendService
	search    *service.SearchService
}

// Open descarga ref, lee el token CSRF una sola vez y devuelve la página con
// un cliente que lo manda en cada POST.
func Open(ctx context.Context, c *client.Client, ref string, opts ...Option) (*Page, error) {
	raw, err := c.GetPage(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(raw.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.URL, err)
	}
	token := CSRFToken(doc)
	return New(doc, raw.URL, token, c.WithCSRFToken(token), opts...), nil
}

// New arma la página sobre un documento ya parseado. pageURL es la URL con
// la que se cargó (su query son los filtros que hereda Load More).
func New(doc *html.Node, pageURL *url.URL, csrfToken string, api service.Backend, opts ...Option) *Page {
	u := *pageURL
	p := &Page{
		doc:       doc,
		url:       &u,
		csrf:      csrfToken,
		limit:     defaultPageLim,
		renderer:  render.NewRenderer(csrfToken),
		favorites: service.NewFavoriteService(api),
		ratings:   service.NewRatingService(api),
		recs:      service.NewRecommendService(api),
	}
	// las tarjetas nuevas postean a donde postean las que ya vinieron del servidor
	if form := dom.Find(doc, isRatingForm); form != nil {
		if action := dom.Attr(form, "action"); action != "" {
			p.renderer = p.renderer.WithRatingAction(action)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CSRFToken devuelve el content de <meta name="csrf-token">, o "".
func CSRFToken(doc *html.Node) string {
	return dom.Attr(dom.ByTagAttr(doc, "meta", "name", CSRFMetaName), "content")
}

func (p *Page) CSRFToken() string { return p.csrf }

func (p *Page) URL() *url.URL {
	u := *p.url
	return &u
}

// HTML serializa el documento actual.
func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dom.Render(p.doc)
}

// Widgets devuelve la configuración de Select2 / noUiSlider de la página.
func (p *Page) Widgets() widgets.Setup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return widgets.Discover(p.doc)
}

// CardIDs devuelve los movie_id de las tarjetas de #rec-container en orden.
func (p *Page) CardIDs() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	container := dom.ByID(p.doc, ContainerID)
	if container == nil {
		return nil
	}
	var ids []int
	for _, card := range dom.FindAll(container, func(n *html.Node) bool { return dom.HasAttr(n, "data-card") }) {
		if id, err := strconv.Atoi(dom.Data(card, "card")); err == nil {
			ids = append(ids, id)
		}
	}
	if ids != nil {
		return ids
	}
	// tarjetas antiguas sin data-card: se identifican por el botón de favorito
	for _, btn := range dom.FindAll(container, isFavoriteButton) {
		if id, err := strconv.Atoi(dom.Data(btn, "mid")); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Offset es el data-offset del control; false si ya no hay control.
func (p *Page) Offset() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	btn := dom.ByID(p.doc, LoadMoreID)
	if btn == nil {
		return 0, false
	}
	v, err := strconv.Atoi(dom.Data(btn, "offset"))
	return v, err == nil
}

// Exhausted indica que el control de Load More ya no está.
func (p *Page) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return dom.ByID(p.doc, LoadMoreID) == nil
}

// FavoriteState devuelve etiqueta y data-faved del botón de la película.
func (p *Page) FavoriteState(movieID int) (string, models.Flag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	btn := p.favoriteButton(movieID)
	if btn == nil {
		return "", false, fmt.Errorf("favorito de %d: %w", movieID, dom.ErrElementNotFound)
	}
	return strings.TrimSpace(dom.Text(btn)), dom.Data(btn, "faved") == "1", nil
}

// DetailsState devuelve si el panel está oculto y la etiqueta del botón.
func (p *Page) DetailsState(movieID int) (bool, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := detailsPrefix + strconv.Itoa(movieID)
	panel := dom.ByID(p.doc, target)
	btn := p.detailsButton(target)
	if panel == nil || btn == nil {
		return false, "", fmt.Errorf("detalles de %d: %w", movieID, dom.ErrElementNotFound)
	}
	return dom.HasClass(panel, HiddenCls), strings.TrimSpace(dom.Text(btn)), nil
}

func (p *Page) favoriteButton(movieID int) *html.Node {
	mid := strconv.Itoa(movieID)
	return dom.Find(p.doc, func(n *html.Node) bool {
		return isFavoriteButton(n) && dom.Data(n, "mid") == mid
	})
}

func (p *Page) detailsButton(target string) *html.Node {
	return dom.Find(p.doc, func(n *html.Node) bool {
		a, ok := actionOf(n)
		return ok && a.name == render.ActionToggleDetails && a.target == target
	})
}

func isRatingForm(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "form" && dom.HasClass(n, RatingFormCls)
}

func isFavoriteButton(n *html.Node) bool {
	a, ok := actionOf(n)
	return ok && a.name == render.ActionToggleFavorite
}
