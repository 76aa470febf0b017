package mailer

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/smartcvnaija/jobbroker/internal/config"
)

// AlertChannel notifies operators of system-level events (queue backed up,
// SMTP identity failing, webhook signature mismatches) over resend-go — a
// separate HTTP-API path from the STARTTLS identities above, since alerts
// are an internal channel rather than applicant-facing mail.
type AlertChannel struct {
	client *resend.Client
	cfg    config.AlertConfig
}

// NewAlertChannel builds an operator alert channel. A nil channel is
// returned when no API key is configured; Notify on a nil channel is a
// harmless no-op so alerting can be optional in development.
func NewAlertChannel(cfg config.AlertConfig) *AlertChannel {
	if cfg.ResendAPIKey == "" {
		return nil
	}
	return &AlertChannel{client: resend.NewClient(cfg.ResendAPIKey), cfg: cfg}
}

// Notify sends a one-line operator alert. Errors are returned, not retried:
// alerting is best-effort and must never block the caller's own error path.
func (a *AlertChannel) Notify(ctx context.Context, subject, body string) error {
	if a == nil || a.cfg.AdminEmail == "" {
		return nil
	}
	_, err := a.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    a.cfg.FromAddr,
		To:      []string{a.cfg.AdminEmail},
		Subject: fmt.Sprintf("[jobbroker] %s", subject),
		Text:    body,
	})
	return err
}
