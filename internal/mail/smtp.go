package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// SMTPSender dispatches messages through a plain SMTP relay. It is
// the transport for deployments without a send-API provider.
//
// SMTP issues no delivery identifier, so Send returns an empty id on
// success.
type SMTPSender struct {
	addr   string
	auth   smtp.Auth
	logger *zerolog.Logger
}

// NewSMTPSender creates an SMTPSender for host:port. Auth is used
// only when a username is configured.
func NewSMTPSender(host string, port int, username, password string, logger *zerolog.Logger) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPSender{
		addr:   fmt.Sprintf("%s:%d", host, port),
		auth:   auth,
		logger: logger,
	}
}

// Send implements Sender.
//
// net/smtp has no context support, so the dial-and-send runs in a
// goroutine and the call returns early when ctx expires. The orphaned
// attempt finishes (or fails) on its own; its outcome is logged.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	envelope, err := envelopeFrom(msg.From)
	if err != nil {
		return "", err
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, s.auth, envelope, msg.To, buildMIME(msg))
	}()

	select {
	case <-ctx.Done():
		go func() {
			if err := <-done; err != nil {
				s.logger.Error().Err(err).Str("subject", msg.Subject).Msg("abandoned smtp send failed")
			}
		}()
		return "", errors.Wrap(ctx.Err(), "smtp send aborted")
	case err := <-done:
		if err != nil {
			return "", errors.Wrap(err, "failed to send email via smtp")
		}
	}

	s.logger.Debug().
		Str("subject", msg.Subject).
		Msg("email dispatched")

	return "", nil
}

// envelopeFrom extracts the bare address from a "Name <addr>" sender.
func envelopeFrom(from string) (string, error) {
	if start := strings.LastIndex(from, "<"); start != -1 {
		end := strings.LastIndex(from, ">")
		if end <= start {
			return "", errors.Errorf("malformed from address: %s", from)
		}
		return from[start+1 : end], nil
	}
	if from == "" {
		return "", errors.New("empty from address")
	}
	return from, nil
}

// buildMIME renders the message as a single-part HTML email.
func buildMIME(msg Message) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return []byte(b.String())
}
