package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"magnetic-field-service/internal/api"
	"magnetic-field-service/internal/config"
	"magnetic-field-service/internal/platform/obs"
	"magnetic-field-service/internal/platform/stores"
	"magnetic-field-service/internal/services"

	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires the run store and field cache behind ports and starts the HTTP server.
func main() {
	loaded := config.Load()
	obs.SetupLogging(os.Stderr, config.Get("LOG_LEVEL", "info"))
	if !loaded {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	st, err := stores.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("could not open stores")
	}
	defer st.Close()

	ev := services.Evaluator{
		Workers: config.GetInt("WORKERS", 0),
		Strict:  config.GetBool("STRICT", false),
		Epsilon: config.GetFloat("SINGULAR_EPSILON", 0),
	}
	if st.Cache == nil {
		log.Info().Msg("REDIS_ADDR not set, field cache disabled")
	}

	router := api.NewRouter(ev, st.Cache, st.Repo)

	// Write timeout leaves room for large uncached evaluations.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("shutdown complete")
}
