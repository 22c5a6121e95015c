package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/consultwise/booking-api/internal/config"
	"github.com/consultwise/booking-api/internal/handler"
	"github.com/consultwise/booking-api/internal/logger"
	"github.com/consultwise/booking-api/internal/middleware"
	"github.com/consultwise/booking-api/internal/router"
	"github.com/consultwise/booking-api/internal/server"
	"github.com/consultwise/booking-api/internal/service"
)

func main() {
	// A minimal logger for failures before config is loaded.
	bootLogger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		// Missing required configuration is fatal: refuse to serve
		// rather than run partially configured.
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(cfg.Primary.Env)

	srv, err := server.New(cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialize server")
	}

	middlewares := middleware.NewMiddlewares(srv)
	services := service.NewServices(srv)
	handlers := handler.NewHandlers(srv, services)

	srv.SetupHTTPServer(router.New(middlewares, handlers))

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		appLogger.Fatal().Err(err).Msg("server error")
	case sig := <-stop:
		appLogger.Info().Str("signal", sig.String()).Msg("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Fatal().Err(err).Msg("failed to shut down gracefully")
		}

		appLogger.Info().Msg("server stopped")
	}
}
