package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/consultwise/booking-api/internal/mail"
	"github.com/consultwise/booking-api/internal/server"
	"github.com/consultwise/booking-api/internal/service"
)

var validate = validator.New()

// CreateBookingRequest is the booking submission payload.
//
// fullName, email, serviceType, preferredDate, and preferredTime are
// required and must be non-empty after trimming; phone, organization,
// and notes are optional. Length ceilings keep any single field well
// inside the request body limit.
type CreateBookingRequest struct {
	FullName      string `json:"fullName" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Phone         string `json:"phone" validate:"omitempty,max=50"`
	Organization  string `json:"organization" validate:"omitempty,max=200"`
	ServiceType   string `json:"serviceType" validate:"required,max=200"`
	PreferredDate string `json:"preferredDate" validate:"required,max=100"`
	PreferredTime string `json:"preferredTime" validate:"required,max=100"`
	Notes         string `json:"notes" validate:"omitempty,max=2000"`
}

// Validate implements validation.Validatable. It trims every field and
// lowercases the email before applying the tag rules, so whitespace
// padding cannot satisfy a required field.
func (r *CreateBookingRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Organization = strings.TrimSpace(r.Organization)
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	r.PreferredDate = strings.TrimSpace(r.PreferredDate)
	r.PreferredTime = strings.TrimSpace(r.PreferredTime)
	r.Notes = strings.TrimSpace(r.Notes)

	return validate.Struct(r)
}

// CreateBookingResponse is the success body for a booking submission.
type CreateBookingResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
}

// BookingHandler serves the booking submission endpoint.
type BookingHandler struct {
	Handler
	bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(s *server.Server, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{
		Handler:  NewHandler(s),
		bookings: bookings,
	}
}

// Create handles a validated booking submission: it dispatches both
// notification messages and confirms to the caller. The payload is
// request-scoped and discarded afterwards; nothing is stored.
func (h *BookingHandler) Create(c echo.Context, req *CreateBookingRequest) (CreateBookingResponse, error) {
	deliveryID, err := h.bookings.Submit(c.Request().Context(), mail.BookingData{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Organization:  req.Organization,
		ServiceType:   req.ServiceType,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
	})
	if err != nil {
		// The global error handler maps this to a generic 500; the
		// transport detail stays in the logs.
		return CreateBookingResponse{}, err
	}

	return CreateBookingResponse{
		Message: "Booking request received. A confirmation email is on its way.",
		ID:      deliveryID,
		Status:  "confirmed",
	}, nil
}
