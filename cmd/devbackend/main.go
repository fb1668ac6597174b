package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movierec-web/internal/config"
	"movierec-web/internal/devbackend"
	"movierec-web/internal/logging"
)

// Backend de desarrollo: sirve las páginas y endpoints que consume movierec
// con un catálogo de ejemplo en memoria.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("[devbackend] config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})

	var opts []devbackend.Option
	if cfg.SessionCookie != "" {
		opts = append(opts, devbackend.WithSession(cfg.SessionCookieName, cfg.SessionCookie))
	}
	if cfg.DevLegacyMarkup {
		opts = append(opts, devbackend.WithLegacyMarkup())
	}
	srv := devbackend.New(devbackend.NewStore(devbackend.SampleMovies()), opts...)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.DevPort,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Str("addr", httpSrv.Addr).Str("csrf_token", srv.CSRFToken()).Msg("[devbackend] escuchando")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("[devbackend] servidor")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("[devbackend] shutdown")
	}
	logging.Info().Msg("[devbackend] detenido")
}
