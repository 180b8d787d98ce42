package mailer

import (
	"fmt"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridMailer struct {
	fromEmail string
	client    *sendgrid.Client
	isSandBox bool
	logger    *zap.SugaredLogger
	enabled   bool
}

// NewSendgrid returns a mailer that is disabled when apiKey or fromEmail is empty.
func NewSendgrid(apiKey string, fromEmail string, isProduction bool, logger *zap.SugaredLogger) *SendGridMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	return &SendGridMailer{
		fromEmail: fromEmail,
		client:    sendgrid.NewSendClient(apiKey),
		// Sandbox mode is only used to validate your request. The email will never be delivered while this feature is enabled!
		isSandBox: !isProduction,
		logger:    logger,
		enabled:   apiKey != "" && fromEmail != "",
	}
}

func (m SendGridMailer) Enabled() bool {
	return m.enabled
}

//	Example usage:
//	status, err := Send(mailer.RESOURCE_ALERT_TEMPLATE, user.FullName, user.Email, mailer.ResourceAlert{...})
func (m SendGridMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	if !m.enabled {
		m.logger.Debugf("Mailer disabled, skip sending %s to %s", templateFile, toEmail)
		return -1, ErrDisabled
	}

	from := mail.NewEmail(FROM_NAME, m.fromEmail)
	to := mail.NewEmail(toUsername, toEmail)

	subject, body, err := Render(templateFile, data)
	if err != nil {
		m.logger.Errorf("Error occurred during mail template rendering, error: %v", err)
		return -1, err
	}

	message := mail.NewSingleEmail(from, subject, to, "", body)

	message.SetMailSettings(&mail.MailSettings{
		SandboxMode: &mail.Setting{
			Enable: &m.isSandBox,
		},
	})

	var retryErr error
	for i := 0; i < MAX_RETRY; i++ {
		response, err := m.client.Send(message)
		switch {
		case err != nil:
			retryErr = err
		case response.StatusCode >= 500:
			retryErr = fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body)
		case response.StatusCode >= 400:
			// rejected requests fail the same way on every attempt
			return response.StatusCode, fmt.Errorf("sendgrid rejected the message with %d: %s", response.StatusCode, response.Body)
		default:
			return response.StatusCode, nil
		}

		// linear backoff
		time.Sleep(time.Second * time.Duration(i+1))
	}

	m.logger.Errorf("Failed to send email after %d attempt, error: %v", MAX_RETRY, retryErr)

	return -1, fmt.Errorf("failed to send email after %d attempt: %w", MAX_RETRY, retryErr)
}
