package router

import (
	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/handler"
)

// registerSystemRoutes maps endpoints that are not business logic.
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	// Liveness endpoint, polled by monitors and load balancers.
	e.GET("/api/health", h.Health.CheckHealth)
}
