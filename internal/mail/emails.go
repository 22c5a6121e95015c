package mail

import (
	"fmt"
	"strings"
)

// Placeholders rendered in place of absent optional fields, so the
// admin report never shows a blank cell and the client subject never
// shows an empty organization.
const (
	placeholderIndividual  = "Individual"
	placeholderNotProvided = "Not provided"
)

// BookingData carries the submitted booking fields interpolated into
// both notification messages. Values are raw text; HTML escaping
// happens during template execution.
type BookingData struct {
	FullName      string
	Email         string
	Phone         string
	Organization  string
	ServiceType   string
	PreferredDate string
	PreferredTime string
	Notes         string
}

func (d BookingData) organizationLabel() string {
	if d.Organization == "" {
		return placeholderIndividual
	}
	return d.Organization
}

func orNotProvided(v string) string {
	if v == "" {
		return placeholderNotProvided
	}
	return v
}

// ClientConfirmation builds the confirmation message addressed to the
// submitting client, summarizing service, date, and time, with the
// contact address for follow-up questions.
func ClientConfirmation(from, contactAddress string, d BookingData) (Message, error) {
	subject := fmt.Sprintf("Consultation Booking Received - %s (%s)", d.FullName, d.organizationLabel())

	html, err := render(TemplateClientConfirmation, map[string]string{
		"FullName":       d.FullName,
		"ServiceType":    d.ServiceType,
		"PreferredDate":  d.PreferredDate,
		"PreferredTime":  d.PreferredTime,
		"ContactAddress": contactAddress,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    from,
		To:      []string{d.Email},
		Subject: sanitizeHeader(subject),
		HTML:    html,
	}, nil
}

// AdminNotification builds the detail report addressed to the
// administrative mailbox. Reply-To is the client's address so a direct
// reply reaches them; the body tabulates all submitted fields.
func AdminNotification(from, adminAddress string, d BookingData) (Message, error) {
	subject := fmt.Sprintf("New Consultation Booking - %s (%s)", d.FullName, d.organizationLabel())

	html, err := render(TemplateAdminNotification, map[string]string{
		"FullName":      d.FullName,
		"Email":         d.Email,
		"Phone":         orNotProvided(d.Phone),
		"Organization":  orNotProvided(d.Organization),
		"ServiceType":   d.ServiceType,
		"PreferredDate": d.PreferredDate,
		"PreferredTime": d.PreferredTime,
		"Notes":         orNotProvided(d.Notes),
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		From:    from,
		To:      []string{adminAddress},
		ReplyTo: d.Email,
		Subject: sanitizeHeader(subject),
		HTML:    html,
	}, nil
}

// sanitizeHeader strips CR/LF so submitted text interpolated into a
// subject line cannot smuggle extra message headers.
func sanitizeHeader(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
