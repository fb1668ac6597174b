package page

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"movierec-web/internal/client"
	"movierec-web/internal/dom"
	"movierec-web/internal/logging"
	"movierec-web/internal/models"
	"movierec-web/internal/render"

	"golang.org/x/net/html"
)

// ToggleFavorite hace click en el botón de favorito de la película.
func (p *Page) ToggleFavorite(ctx context.Context, movieID int) error {
	p.mu.Lock()
	btn := p.favoriteButton(movieID)
	p.mu.Unlock()
	if btn == nil {
		return fmt.Errorf("favorito de %d: %w", movieID, dom.ErrElementNotFound)
	}
	return p.Click(ctx, btn)
}

// ToggleDetails hace click en "More Info" de la película.
func (p *Page) ToggleDetails(ctx context.Context, movieID int) error {
	p.mu.Lock()
	btn := p.detailsButton(detailsPrefix + strconv.Itoa(movieID))
	p.mu.Unlock()
	if btn == nil {
		return fmt.Errorf("detalles de %d: %w", movieID, dom.ErrElementNotFound)
	}
	return p.Click(ctx, btn)
}

// Rate marca la estrella score de la película (dispara el change).
func (p *Page) Rate(ctx context.Context, movieID, score int) error {
	p.mu.Lock()
	input := dom.ByID(p.doc, fmt.Sprintf("star-%d-%d", movieID, score))
	p.mu.Unlock()
	if input == nil {
		return fmt.Errorf("estrella %d de %d: %w", score, movieID, dom.ErrElementNotFound)
	}
	return p.Change(ctx, input)
}

func (p *Page) toggleFavorite(ctx context.Context, btn *html.Node) error {
	if p.csrf == "" {
		logging.Ctx(ctx).Error().Msg("favorite toggle skipped: page has no csrf token")
		return client.ErrNoCSRFToken
	}

	p.mu.Lock()
	rawID := dom.Data(btn, "mid")
	faved := models.Flag(dom.Data(btn, "faved") == "1")
	p.mu.Unlock()

	movieID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("data-mid %q: %w", rawID, err)
	}

	now, err := p.favorites.Toggle(ctx, movieID, faved)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	dom.SetText(btn, render.FavoriteLabel(now))
	dom.SetData(btn, "faved", now.Attr())
	return nil
}

func (p *Page) toggleDetails(btn *html.Node, target string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	panel := dom.ByID(p.doc, target)
	if panel == nil {
		return fmt.Errorf("panel %q: %w", target, dom.ErrElementNotFound)
	}
	if dom.ToggleClass(panel, HiddenCls) {
		dom.SetText(btn, render.LabelMoreInfo)
	} else {
		dom.SetText(btn, render.LabelLessInfo)
	}
	return nil
}

func (p *Page) submitRating(ctx context.Context, input *html.Node) error {
	p.mu.Lock()
	if dom.Attr(input, "name") != RatingInput {
		p.mu.Unlock()
		return nil
	}
	form := dom.Closest(input, isRatingForm)
	if form == nil {
		p.mu.Unlock()
		return fmt.Errorf("formulario de rating: %w", dom.ErrElementNotFound)
	}
	check(form, input)
	values := formValues(form)
	action, err := p.resolve(dom.Attr(form, "action"))
	p.mu.Unlock()

	if err != nil {
		return fmt.Errorf("action del formulario: %w", err)
	}
	if p.csrf == "" {
		logging.Ctx(ctx).Error().Str("movie_id", values.Get("movie_id")).Msg("model-rating skipped: page has no csrf token")
		return client.ErrNoCSRFToken
	}
	return p.ratings.Submit(ctx, models.RatingForm{Action: action, Values: values})
}

// resolve interpreta un action relativo a la URL de la página; vacío es la
// propia página, como form.action en el navegador.
func (p *Page) resolve(ref string) (string, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", err
	}
	return p.url.ResolveReference(r).String(), nil
}

// check deja marcada solo la radio elegida de su grupo.
func check(form, input *html.Node) {
	if dom.Attr(input, "type") != "radio" {
		return
	}
	name := dom.Attr(input, "name")
	for _, radio := range dom.FindAll(form, func(n *html.Node) bool {
		return n.Data == "input" && dom.Attr(n, "type") == "radio" && dom.Attr(n, "name") == name
	}) {
		dom.RemoveAttr(radio, "checked")
	}
	dom.SetAttr(input, "checked", "")
}
