package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"movierec-web/internal/cache"
	"movierec-web/internal/client"
	"movierec-web/internal/dom"
	"movierec-web/internal/logging"
	"movierec-web/internal/models"
	"movierec-web/internal/page"
	"movierec-web/internal/service"
	"movierec-web/internal/widgets"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// Selects con búsqueda remota en la página de filtros
var searchFields = []string{"genre", "studio", "director", "producer", "cast_member"}

var errStalled = errors.New("load more: el servidor no avanza")

// open carga ref con el cliente, la cache de búsquedas y el tamaño de página
// configurados. La conexión a Redis se cierra al terminar el comando.
func (a *app) open(ctx context.Context, ref string) (*page.Page, error) {
	c, err := client.New(a.cfg)
	if err != nil {
		return nil, err
	}
	jc, err := cache.New(ctx, a.cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("[cache] redis no disponible, sin cache")
		jc = cache.Noop{}
	}
	if r, ok := jc.(*cache.Redis); ok {
		a.closers = append(a.closers, r.Close)
	}

	search := service.NewSearchService(c, jc, a.cfg.SearchTTL)
	p, err := page.Open(ctx, c, ref, page.WithLimit(a.cfg.PageLimit), page.WithSearch(search))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { p.StopSearch(); return nil })
	return p, nil
}

// loadUntil pide páginas hasta que found sea true o no queden más. Si una
// página llega vacía sin mover el offset, para con errStalled.
func loadUntil(ctx context.Context, p *page.Page, found func() bool) error {
	for !found() {
		before, _ := p.Offset()
		n, err := p.LoadMore(ctx)
		if err != nil {
			if errors.Is(err, page.ErrExhausted) {
				return nil
			}
			return err
		}
		if after, ok := p.Offset(); ok && n == 0 && after == before {
			return fmt.Errorf("%w: offset %d", errStalled, after)
		}
	}
	return nil
}

func onPage(p *page.Page, movieID int) func() bool {
	return func() bool {
		_, _, err := p.FavoriteState(movieID)
		return err == nil
	}
}

func (a *app) browseCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Abre una página de resultados y lista las tarjetas",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			ref := "/recommend"
			if len(args) == 1 {
				ref = args[0]
			}
			ctx := logging.WithCorrelationID(cmd.Context())
			p, err := a.open(ctx, ref)
			if err != nil {
				return err
			}
			if all {
				if err := loadUntil(ctx, p, func() bool { return false }); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, id := range p.CardIDs() {
				label, faved, err := p.FavoriteState(id)
				if err != nil {
					label = "-"
				}
				fmt.Fprintf(out, "%d\t%s\tfaved=%s\n", id, label, faved.Attr())
			}
			if off, ok := p.Offset(); ok {
				fmt.Fprintf(out, "load more: offset=%d\n", off)
			} else {
				fmt.Fprintln(out, "load more: sin más resultados")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "pulsar Load More hasta agotar los resultados")
	return cmd
}

func (a *app) favoriteCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "favorite <movie_id>",
		Short: "Marca o desmarca una película como favorita",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			movieID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("movie_id inválido: %w", err)
			}
			ctx := logging.WithCorrelationID(cmd.Context())
			p, err := a.open(ctx, ref)
			if err != nil {
				return err
			}
			if err := loadUntil(ctx, p, onPage(p, movieID)); err != nil {
				return err
			}
			if err := p.ToggleFavorite(ctx, movieID); err != nil {
				return err
			}
			label, faved, _ := p.FavoriteState(movieID)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tfaved=%s\n", movieID, label, faved.Attr())
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "page", "/recommend", "página donde está la película")
	return cmd
}

func (a *app) rateCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "rate <movie_id> <score>",
		Short: "Valora la recomendación de una película (1..10)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			movieID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("movie_id inválido: %w", err)
			}
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("score inválido: %w", err)
			}
			ctx := logging.WithCorrelationID(cmd.Context())
			p, err := a.open(ctx, ref)
			if err != nil {
				return err
			}
			if err := loadUntil(ctx, p, onPage(p, movieID)); err != nil {
				return err
			}
			if err := p.Rate(ctx, movieID, score); err != nil {
				if errors.Is(err, dom.ErrElementNotFound) {
					return fmt.Errorf("la película %d no está en %s: %w", movieID, ref, err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rated %d -> %d\n", movieID, score)
			return nil
		},
	}
	cmd.Flags().StringVar(&ref, "page", "/recommend", "página donde está la película")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:       "search <genre|studio|director|producer|cast_member> <term>",
		Short:     "Escribe term en un select de filtros y muestra las opciones",
		Args:      cobra.ExactArgs(2),
		ValidArgs: searchFields,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			ctx := logging.WithCorrelationID(cmd.Context())
			p, err := a.open(ctx, ref)
			if err != nil {
				return err
			}

			type result struct {
				opts []models.SearchOption
				err  error
			}
			got := make(chan result, 1)
			done := func(opts []models.SearchOption, err error) { got <- result{opts, err} }

			// tecla a tecla, como en el navegador: solo la última consulta
			runes := []rune(args[1])
			for i := 1; i <= len(runes); i++ {
				if err := p.Type(ctx, args[0], string(runes[:i]), done); err != nil {
					return err
				}
			}
			if len(runes) == 0 {
				if err := p.Type(ctx, args[0], "", done); err != nil {
					return err
				}
			}

			select {
			case r := <-got:
				if r.err != nil {
					return r.err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r.opts)
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
	cmd.Flags().StringVar(&ref, "page", "/", "página con el formulario de filtros")
	return cmd
}

// widgetsView es la configuración más los valores iniciales de cada slider
// tal como los muestra su formatter.
type widgetsView struct {
	widgets.Setup
	Display map[string][2]string `json:"display,omitempty"`
}

func (a *app) widgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "widgets [path]",
		Short: "Muestra la configuración de Select2 y noUiSlider de una página",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			ref := "/"
			if len(args) == 1 {
				ref = args[0]
			}
			p, err := a.open(cmd.Context(), ref)
			if err != nil {
				return err
			}

			view := widgetsView{Setup: p.Widgets()}
			for _, sl := range view.Sliders {
				if view.Display == nil {
					view.Display = make(map[string][2]string)
				}
				view.Display[sl.ID] = [2]string{sl.Config.Format(sl.Config.Start[0]), sl.Config.Format(sl.Config.Start[1])}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
}
