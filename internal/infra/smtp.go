package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Josmarcito/sistema-durtron/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configured reports whether an SMTP host was provided.
func (m *Mailer) Configured() bool { return m.host != "" }

// Send delivers one message. adjunto is optional; when present it is attached
// as a PDF named nombreAdjunto.
func (m *Mailer) Send(to, subject, body string, adjunto []byte, nombreAdjunto string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(adjunto) > 0 {
		if _, err := e.Attach(bytes.NewReader(adjunto), nombreAdjunto, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
