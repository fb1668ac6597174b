package page

import (
	"context"
	"regexp"

	"movierec-web/internal/dom"
	"movierec-web/internal/render"

	"golang.org/x/net/html"
)

const actionLoadMore = "load-more"

type action struct {
	name   string
	target string
}

// Markup antiguo con handlers inline
var (
	legacyFavorite = regexp.MustCompile(`^\s*toggleFavorite\(\s*this\s*\)\s*;?\s*$`)
	legacyDetails  = regexp.MustCompile(`^\s*toggleDetails\(\s*['"]([^'"]+)['"]\s*,\s*this\s*\)\s*;?\s*$`)
)

// actionOf reconoce data-action, los onclick antiguos y el control de
// Load More.
func actionOf(n *html.Node) (action, bool) {
	if n == nil || n.Type != html.ElementNode {
		return action{}, false
	}
	switch name := dom.Attr(n, "data-action"); name {
	case render.ActionToggleFavorite:
		return action{name: name}, true
	case render.ActionToggleDetails:
		return action{name: name, target: dom.Data(n, "target")}, true
	}
	if onclick := dom.Attr(n, "onclick"); onclick != "" {
		if legacyFavorite.MatchString(onclick) {
			return action{name: render.ActionToggleFavorite}, true
		}
		if m := legacyDetails.FindStringSubmatch(onclick); m != nil {
			return action{name: render.ActionToggleDetails, target: m[1]}, true
		}
	}
	if dom.Attr(n, "id") == LoadMoreID {
		return action{name: actionLoadMore}, true
	}
	return action{}, false
}

// Click entrega un click sobre el elemento target (o algo dentro de él).
// Sube hasta el primer ancestro con acción; si no hay ninguna, o target ya
// no está en el documento, no hace nada.
func (p *Page) Click(ctx context.Context, target *html.Node) error {
	p.mu.Lock()
	if !dom.Attached(target) {
		p.mu.Unlock()
		return nil
	}
	var (
		act action
		el  *html.Node
	)
	el = dom.Closest(target, func(n *html.Node) bool {
		a, ok := actionOf(n)
		act = a
		return ok
	})
	p.mu.Unlock()

	if el == nil {
		return nil
	}
	switch act.name {
	case render.ActionToggleFavorite:
		return p.toggleFavorite(ctx, el)
	case render.ActionToggleDetails:
		return p.toggleDetails(el, act.target)
	case actionLoadMore:
		_, err := p.LoadMore(ctx)
		return err
	}
	return nil
}

// Change entrega un evento change. Solo reaccionan las estrellas de rating.
func (p *Page) Change(ctx context.Context, input *html.Node) error {
	return p.submitRating(ctx, input)
}
