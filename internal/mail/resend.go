package mail

import (
	"context"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendSender dispatches messages through the Resend send-API.
type ResendSender struct {
	client *resend.Client
	logger *zerolog.Logger
}

// NewResendSender creates a ResendSender with the given API key.
func NewResendSender(apiKey string, logger *zerolog.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "failed to send email via resend")
	}

	s.logger.Debug().
		Str("delivery_id", sent.Id).
		Str("subject", msg.Subject).
		Msg("email dispatched")

	return sent.Id, nil
}
