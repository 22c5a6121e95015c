// Package server defines the application container that composes the
// service's dependencies: configuration, logger, the outbound mail
// sender, the rate-limit store, and the HTTP server lifecycle
// including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/consultwise/booking-api/internal/config"
	"github.com/consultwise/booking-api/internal/mail"
	"github.com/consultwise/booking-api/internal/ratelimit"
)

// Server is the application container holding shared resources. It is
// not the HTTP listener itself; that is configured in SetupHTTPServer
// and driven by Start/Shutdown.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// Mailer is the outbound mail collaborator, selected by
	// configuration (resend or smtp).
	Mailer mail.Sender

	// RateStore holds the per-client booking quota counters. Only the
	// rate-limit middleware touches it.
	RateStore ratelimit.Store

	// Redis backs the rate store when the redis store is selected;
	// nil otherwise.
	Redis *redis.Client

	httpServer *http.Server

	// stopJanitor cancels the memory store's eviction loop.
	stopJanitor context.CancelFunc
}

// New constructs a Server and initializes its dependencies.
//
// The mail transport and rate-limit store are both chosen here, once,
// from validated configuration. A Redis that cannot be reached at
// startup is logged and tolerated: the Redis store degrades open per
// request rather than keeping the endpoint down.
func New(cfg *config.Config, logger *zerolog.Logger) (*Server, error) {
	s := &Server{
		Config: cfg,
		Logger: logger,
	}

	switch cfg.Mail.Provider {
	case "resend":
		s.Mailer = mail.NewResendSender(cfg.Mail.ResendAPIKey, logger)
	case "smtp":
		s.Mailer = mail.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword, logger)
	default:
		// Unreachable after config validation.
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Mail.Provider)
	}

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute

	switch cfg.RateLimit.Store {
	case "redis":
		s.Redis = redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Redis.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("failed to connect to Redis, rate limiting degrades open until it recovers")
		}

		s.RateStore = ratelimit.NewRedisStore(s.Redis, cfg.RateLimit.Requests, window)
	default:
		store := ratelimit.NewMemoryStore(cfg.RateLimit.Requests, window)

		janitorCtx, stop := context.WithCancel(context.Background())
		store.StartJanitor(janitorCtx)
		s.stopJanitor = stop

		s.RateStore = store
	}

	return s, nil
}

// SetupHTTPServer configures the internal net/http server with the
// router as handler. Timeouts come from config, in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops or
// errors; SetupHTTPServer must have been called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return fmt.Errorf("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("mail_provider", s.Config.Mail.Provider).
		Str("ratelimit_store", s.Config.RateLimit.Store).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server: inflight requests get until
// ctx's deadline to finish, then background resources are released.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if s.stopJanitor != nil {
		s.stopJanitor()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}
