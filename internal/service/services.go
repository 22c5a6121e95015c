package service

import (
	"github.com/consultwise/booking-api/internal/server"
)

// Services is the container grouping all business-layer services.
type Services struct {
	Booking *BookingService
}

// NewServices constructs the service container.
func NewServices(s *server.Server) *Services {
	return &Services{
		Booking: NewBookingService(s),
	}
}
