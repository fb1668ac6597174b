package page

import (
	"context"
	"fmt"

	"movierec-web/internal/dom"
	"movierec-web/internal/models"
)

// Search consulta el endpoint remoto del select selectID (su
// data-ajax-url). Con menos de 2 caracteres no hay petición.
func (p *Page) Search(ctx context.Context, selectID, term string) ([]models.SearchOption, error) {
	endpoint, err := p.searchEndpoint(selectID)
	if err != nil {
		return nil, err
	}
	return p.search.Search(ctx, endpoint, term)
}

// Type es escribir term en el select selectID: cada llamada reinicia la
// espera de 250ms de ese endpoint y solo la última consulta. done recibe el
// resultado desde otra goroutine.
func (p *Page) Type(ctx context.Context, selectID, term string, done func([]models.SearchOption, error)) error {
	endpoint, err := p.searchEndpoint(selectID)
	if err != nil {
		return err
	}
	p.search.Type(ctx, endpoint, term, done)
	return nil
}

// StopSearch cancela las búsquedas pendientes de Type.
func (p *Page) StopSearch() {
	if p.search != nil {
		p.search.Stop()
	}
}

// searchEndpoint sale de la configuración de Select2 descubierta: sin la
// librería o sin el select no hay búsqueda remota.
func (p *Page) searchEndpoint(selectID string) (string, error) {
	if p.search == nil {
		return "", ErrNoSearch
	}
	for _, sel := range p.Widgets().Selects {
		if sel.ID != selectID {
			continue
		}
		if sel.Config.Ajax.URL == "" {
			return "", fmt.Errorf("select %q sin data-ajax-url: %w", selectID, dom.ErrElementNotFound)
		}
		return p.resolve(sel.Config.Ajax.URL)
	}
	return "", fmt.Errorf("select %q: %w", selectID, dom.ErrElementNotFound)
}
