package infra

import (
	"fmt"
	"net/smtp"

	"shopmate/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends invoice emails through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// SendInvoice mails body to a single recipient with the PDF at pdfPath attached.
func (m *Mailer) SendInvoice(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.send(e, m.addr, auth)
}
