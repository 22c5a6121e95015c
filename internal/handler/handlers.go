package handler

import (
	"github.com/consultwise/booking-api/internal/server"
	"github.com/consultwise/booking-api/internal/service"
)

// Handlers is the container grouping all HTTP handlers, so router
// setup receives one object instead of many.
type Handlers struct {
	Booking *BookingHandler
	Health  *HealthHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Booking: NewBookingHandler(s, services.Booking),
		Health:  NewHealthHandler(s),
	}
}
