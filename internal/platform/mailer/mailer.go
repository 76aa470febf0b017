// Package mailer sends the two kinds of email the broker issues: recruiter
// applications (CV + cover letter attached, sent from a dedicated identity)
// and applicant confirmations (a distinct identity, no recruiter ever sees
// it). Both ride SMTP/STARTTLS via domodwyer/mailyak. A separate,
// non-STARTTLS operator alert channel uses resend-go instead, since alerts
// are an internal notification path rather than applicant-facing mail.
package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/smartcvnaija/jobbroker/internal/config"
)

// Attachment is an in-memory file to attach to an outgoing message.
type Attachment struct {
	Filename string
	Data     []byte
}

// Message is one outgoing email.
type Message struct {
	To          string
	ReplyTo     string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Identity sends mail as one configured SMTP sender (recruiter or
// confirmation).
type Identity struct {
	cfg  config.SMTPConfig
	auth smtp.Auth
}

// NewIdentity builds a mailer bound to one SMTP identity's credentials.
func NewIdentity(cfg config.SMTPConfig) *Identity {
	return &Identity{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host),
	}
}

// Send delivers msg over STARTTLS from this identity's address.
func (i *Identity) Send(msg Message) error {
	yak := mailyak.New(fmt.Sprintf("%s:%s", i.cfg.Host, i.cfg.Port), i.auth)
	yak.From(i.cfg.FromAddr)
	yak.FromName(i.cfg.FromName)
	yak.To(msg.To)
	if msg.ReplyTo != "" {
		yak.ReplyTo(msg.ReplyTo)
	}
	yak.Subject(msg.Subject)
	yak.Plain().Set(msg.Body)

	for _, a := range msg.Attachments {
		yak.Attach(a.Filename, bytes.NewReader(a.Data))
	}

	if err := yak.Send(); err != nil {
		return fmt.Errorf("mailer: send via %s: %w", i.cfg.FromAddr, err)
	}
	return nil
}
