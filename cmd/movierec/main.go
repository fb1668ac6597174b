package main

import (
	"os"

	"movierec-web/internal/config"
	"movierec-web/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	closers []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logging.Warn().Err(err).Msg("cerrando recursos")
		}
	}
	a.closers = nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "movierec",
		Short:        "Cliente de línea de comandos de la app de recomendaciones",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		a.browseCmd(),
		a.favoriteCmd(),
		a.rateCmd(),
		a.searchCmd(),
		a.widgetsCmd(),
	)
	return root
}
