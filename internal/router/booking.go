package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/handler"
	"github.com/consultwise/booking-api/internal/middleware"
)

// registerBookingRoutes maps the booking submission endpoint. The
// rate-limit guard is scoped to this route only: over-quota clients
// are refused before the intake handler runs.
func registerBookingRoutes(e *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	api := e.Group("/api")

	api.POST("/booking",
		handler.Handle(h.Booking.Handler, h.Booking.Create, http.StatusOK),
		mw.Global.OriginGuard(),
		mw.RateLimit.Limit(),
	)
}
