package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/resonate/internal/adapters/rest"
	"github.com/ewilliams-labs/resonate/internal/adapters/spotify"
	"github.com/ewilliams-labs/resonate/internal/adapters/sqlite"
	"github.com/ewilliams-labs/resonate/internal/config"
	"github.com/ewilliams-labs/resonate/internal/core/domain"
	"github.com/ewilliams-labs/resonate/internal/core/services"
	"github.com/ewilliams-labs/resonate/internal/logging"
	"github.com/ewilliams-labs/resonate/internal/worker"
)

func main() {
	// 1. Configuration. Crash early if required settings are missing.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapters.
	catalog := spotify.NewClient(ctx, spotify.Config{
		BaseURL:        cfg.Spotify.BaseURL,
		AccessToken:    cfg.Spotify.AccessToken,
		ClientID:       cfg.Spotify.ClientID,
		ClientSecret:   cfg.Spotify.ClientSecret,
		Timeout:        cfg.Spotify.Timeout,
		MaxRetries:     cfg.Spotify.MaxRetries,
		RetryBackoff:   cfg.Spotify.RetryBackoff,
		RateLimitRPS:   cfg.Spotify.RateLimitRPS,
		RateLimitBurst: cfg.Spotify.RateLimitBurst,
	}, log.With().Str("component", "spotify").Logger())

	opts := []services.Option{
		services.WithLogger(log.With().Str("component", "engine").Logger()),
		services.WithCandidatePool(cfg.Engine.CandidatePool),
		services.WithFanOut(cfg.Engine.FanOut),
	}

	var pool *worker.Pool
	if cfg.Cache.Enabled {
		store, err := sqlite.NewStore(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize feature cache")
		}
		defer store.Close()

		pool = worker.NewPool(store, cfg.Cache.QueueSize, log.With().Str("component", "worker").Logger())
		pool.Start(cfg.Cache.Workers)
		defer pool.Stop()

		opts = append(opts,
			services.WithFeatureStore(store),
			services.WithWarmFunc(func(id string, features domain.Features) {
				pool.Submit(worker.Job{TrackID: id, Features: features})
			}),
		)
	}

	// 3. Core engine with its dependencies injected.
	engine := services.NewEngine(catalog, opts...)

	// 4. Driving adapter.
	handler := rest.NewHandler(engine, log.With().Str("component", "http").Logger())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("resonate API listening")
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}
