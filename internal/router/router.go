// Package router initializes the HTTP router (using echo).
//
// It registers the global middleware stack in gatekeeping order and
// maps the API paths to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/handler"
	"github.com/consultwise/booking-api/internal/middleware"
)

// New builds the echo instance with the full middleware stack and all
// routes registered.
//
// Middleware order matters: recovery wraps everything, correlation and
// logging come before the guards so rejected requests are still
// logged, and the guards (secure headers, CORS, body limit) run before
// any handler.
func New(mw *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	e.Use(mw.Global.Recover())
	e.Use(middleware.RequestID())
	e.Use(mw.ContextEnhancer.EnhanceContext())
	e.Use(mw.Global.RequestLogger())
	e.Use(mw.Global.Secure())
	e.Use(mw.Global.CORS())
	e.Use(mw.Global.BodyLimit())

	registerBookingRoutes(e, mw, h)
	registerSystemRoutes(e, h)

	return e
}
