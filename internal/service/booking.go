package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/consultwise/booking-api/internal/mail"
	"github.com/consultwise/booking-api/internal/middleware"
	"github.com/consultwise/booking-api/internal/server"
)

// BookingService turns a validated booking submission into two
// dispatched notifications: a confirmation to the client and a detail
// report to the administrative mailbox.
type BookingService struct {
	server *server.Server
}

// NewBookingService constructs a BookingService over the app container.
func NewBookingService(s *server.Server) *BookingService {
	return &BookingService{server: s}
}

// Submit renders and dispatches both notification messages for the
// given booking.
//
// The two sends run concurrently and are both awaited; one failure
// fails the submission, since there is no partial-success response.
// Each send is bounded by the configured dispatch timeout and detached
// from client cancellation: a caller hanging up does not abort an
// in-flight send.
//
// On success it returns the delivery identifier of the client
// confirmation (empty for transports that issue none).
func (s *BookingService) Submit(ctx context.Context, data mail.BookingData) (string, error) {
	cfg := s.server.Config.Mail
	from := fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)

	clientMsg, err := mail.ClientConfirmation(from, cfg.AdminAddress, data)
	if err != nil {
		return "", errors.Wrap(err, "failed to render client confirmation")
	}

	adminMsg, err := mail.AdminNotification(from, cfg.AdminAddress, data)
	if err != nil {
		return "", errors.Wrap(err, "failed to render admin notification")
	}

	logger := middleware.LoggerFromContext(ctx)
	sendTimeout := time.Duration(cfg.SendTimeout) * time.Second
	base := context.WithoutCancel(ctx)

	var g errgroup.Group
	var clientDeliveryID string

	g.Go(func() error {
		sendCtx, cancel := context.WithTimeout(base, sendTimeout)
		defer cancel()

		id, err := s.server.Mailer.Send(sendCtx, clientMsg)
		if err != nil {
			return errors.Wrap(err, "client confirmation dispatch failed")
		}
		clientDeliveryID = id
		return nil
	})

	g.Go(func() error {
		sendCtx, cancel := context.WithTimeout(base, sendTimeout)
		defer cancel()

		if _, err := s.server.Mailer.Send(sendCtx, adminMsg); err != nil {
			return errors.Wrap(err, "admin notification dispatch failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", err
	}

	logger.Info().
		Str("client", data.Email).
		Str("service_type", data.ServiceType).
		Str("delivery_id", clientDeliveryID).
		Msg("booking notifications dispatched")

	return clientDeliveryID, nil
}
