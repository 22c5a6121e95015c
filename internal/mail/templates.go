package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateClientConfirmation corresponds to templates/client_confirmation.html
	TemplateClientConfirmation Template = "client_confirmation"

	// TemplateAdminNotification corresponds to templates/admin_notification.html
	TemplateAdminNotification Template = "admin_notification"
)

// render executes the named embedded template with data.
//
// html/template escapes every interpolated value for its HTML context,
// which is what keeps submitted text from injecting markup or script
// into the rendered body.
func render(name Template, data map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}

	return body.String(), nil
}
