package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/middleware"
	"github.com/consultwise/booking-api/internal/server"
	"github.com/consultwise/booking-api/internal/validation"
)

// Handler is the base handler type holding shared application
// dependencies. Concrete handlers embed it to reach the container.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler. Returning by value is fine:
// the struct only holds a pointer to the shared Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint function: it receives a bound and
// validated request payload and returns a response value or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// Handle wraps a typed endpoint function with the shared request
// pipeline: bind, validate, execute, respond as JSON with the given
// status. Errors flow to the global error handler untouched.
//
// A fresh payload is allocated per request, so bound data is never
// shared between concurrent requests.
func Handle[Req any, Res any, PReq interface {
	*Req
	validation.Validatable
}](h Handler, handler HandlerFunc[PReq, Res], status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, req, handler, status)
	}
}

// handleRequest is the shared execution pipeline for all handlers:
// binding + validation, handler execution, structured timing logs, and
// the JSON response.
func handleRequest[Req validation.Validatable, Res any](
	c echo.Context,
	req Req,
	handler HandlerFunc[Req, Res],
	status int,
) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "handler").
		Str("route", c.Path()).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")
		return err
	}
	validationDuration := time.Since(validationStart)

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return c.JSON(status, result)
}
