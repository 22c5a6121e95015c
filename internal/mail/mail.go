// Package mail provides outbound email dispatch.
//
// A single Sender contract covers both supported transports: the
// Resend send-API and plain SMTP. Which one runs is a configuration
// choice made at startup; callers only ever see the interface.
// Message bodies are rendered from embedded HTML templates.
package mail

import "context"

// Message is one outbound email, ready for dispatch.
type Message struct {
	// From is the sender identity, e.g. "Acme <bookings@acme.com>".
	From string

	// To lists recipient addresses.
	To []string

	// ReplyTo, when set, directs replies away from the From address.
	ReplyTo string

	Subject string

	// HTML is the rendered message body.
	HTML string
}

// Sender dispatches a message through an email delivery provider.
//
// On success it returns the provider's opaque delivery identifier,
// which may be empty for transports that issue none (SMTP).
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
