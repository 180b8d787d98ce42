package mailer

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
)

const (
	FROM_NAME               = "Biotech Dashboard"
	MAX_RETRY               = 3
	RESOURCE_ALERT_TEMPLATE = "resource_alert.tmpl"
)

// ErrDisabled is returned by Send when no mail provider is configured.
var ErrDisabled = errors.New("mailer is disabled")

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// Render executes the "subject" and "body" blocks of a template in templates/.
func Render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}

// ResourceAlert is the data of RESOURCE_ALERT_TEMPLATE.
type ResourceAlert struct {
	Username     string
	ResourceID   uint
	ResourceName string
	LotNumber    string
	Status       string
	CurrentStock float64
	InitialStock float64
	Unit         string
	UsedBy       string
}
