// Package email delivers notification emails through Resend. Bodies are
// rendered from HTML templates compiled into the binary.
package email

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-cats/internal/config"
)

// sender must be a Resend-verified address; onboarding@resend.dev is the
// sandbox sender every account may use.
const sender = "Cats <onboarding@resend.dev>"

// Client sends through Resend. With no API key configured it only logs the
// emails it would have sent.
type Client struct {
	resend *resend.Client
	logger *zerolog.Logger
}

func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := &Client{logger: logger}
	if key := cfg.Integration.ResendAPIKey; key != "" {
		c.resend = resend.NewClient(key)
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.resend != nil
}

// Render fills the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	tmpl := templates.Lookup(string(name) + ".html")
	if tmpl == nil {
		return "", errors.Errorf("unknown email template %q", name)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", errors.Wrapf(err, "failed to render email template %s", name)
	}
	return out.String(), nil
}

// SendEmail renders name with data and mails it to one recipient.
func (c *Client) SendEmail(to, subject string, name Template, data map[string]string) error {
	html, err := Render(name, data)
	if err != nil {
		return err
	}

	log := c.logger.With().Str("to", to).Str("template", string(name)).Logger()
	if !c.Enabled() {
		log.Info().Str("subject", subject).Msg("email delivery disabled, skipping send")
		return nil
	}

	sent, err := c.resend.Emails.Send(&resend.SendEmailRequest{
		From:    sender,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	log.Debug().Str("email_id", sent.Id).Msg("email sent")
	return nil
}
