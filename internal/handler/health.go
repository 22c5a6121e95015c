package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/server"
)

// HealthHandler exposes the liveness endpoint that uptime monitors and
// load balancers poll.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Port        string    `json:"port"`
	Environment string    `json:"environment"`
}

// CheckHealth reports process status and runtime metadata. It has no
// side effects and always succeeds while the process is alive,
// independent of the mail provider or the rate-limit store.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Port:        h.server.Config.Server.Port,
		Environment: h.server.Config.Primary.Env,
	})
}
