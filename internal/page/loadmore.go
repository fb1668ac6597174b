package page

import (
	"context"
	"fmt"
	"strconv"

	"movierec-web/internal/dom"
	"movierec-web/internal/logging"
	"movierec-web/internal/models"

	"golang.org/x/net/html"
)

// LoadMore activa el control #load-more: pide la página que empieza en su
// data-offset (con los filtros de la URL), añade las tarjetas al final de
// #rec-container y guarda next_offset, o quita el control si no hay más.
//
// Si algo falla no se añade nada y el offset queda igual. Sin control
// devuelve ErrExhausted y con una petición en curso ErrControlBusy; en
// ninguno de los dos casos hay petición.
func (p *Page) LoadMore(ctx context.Context) (int, error) {
	p.mu.Lock()
	btn := dom.ByID(p.doc, LoadMoreID)
	if btn == nil {
		p.mu.Unlock()
		return 0, ErrExhausted
	}
	if p.loading {
		p.mu.Unlock()
		return 0, ErrControlBusy
	}
	if dom.ByID(p.doc, ContainerID) == nil {
		p.mu.Unlock()
		return 0, fmt.Errorf("#%s: %w", ContainerID, dom.ErrElementNotFound)
	}
	raw := dom.Data(btn, "offset")
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		p.mu.Unlock()
		logging.Ctx(ctx).Error().Str("data_offset", raw).Msg("load more: bad offset")
		return 0, fmt.Errorf("%w: %q", ErrBadOffset, raw)
	}
	p.loading = true
	dom.SetAttr(btn, "disabled", "")
	filters := p.url.Query()
	p.mu.Unlock()

	cur := models.Cursor{Offset: offset, Limit: p.limit}
	page, err := p.recs.Next(ctx, filters, cur)

	var cards []*html.Node
	if err == nil {
		cards, err = p.renderAll(page.Movies)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Int("offset", offset).Msg("load more: render failed")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	dom.RemoveAttr(btn, "disabled")
	if err != nil {
		return 0, err
	}

	container := dom.ByID(p.doc, ContainerID)
	if container == nil {
		return 0, fmt.Errorf("#%s: %w", ContainerID, dom.ErrElementNotFound)
	}
	dom.Append(container, cards...)

	if page.HasMore {
		dom.SetData(btn, "offset", strconv.Itoa(page.NextOffset))
	} else {
		dom.Remove(btn)
	}
	return len(page.Movies), nil
}

// renderAll renderiza todas las tarjetas antes de tocar el documento: o se
// añaden todas o ninguna.
func (p *Page) renderAll(items []models.RecommendationItem) ([]*html.Node, error) {
	var out []*html.Node
	for _, item := range items {
		nodes, err := p.renderer.Card(item)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}
