package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// ErrMailNotConfigured is returned when SMTP credentials are missing.
var ErrMailNotConfigured = errors.New("contact: SMTP credentials or recipient not configured")

// MailConfig holds the SMTP settings.
type MailConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer forwards submissions by email.
type Mailer struct {
	cfg  MailConfig
	send SendFunc
	log  *zap.Logger
}

// NewMailer creates a mailer. A nil send uses smtp.SendMail.
func NewMailer(cfg MailConfig, send SendFunc, log *zap.Logger) *Mailer {
	if send == nil {
		send = smtp.SendMail
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{cfg: cfg, send: send, log: log}
}

// Configured reports whether credentials and a recipient are present.
func (m *Mailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Pass != "" && m.cfg.To != ""
}

func (m *Mailer) Submit(ctx context.Context, s Submission) error {
	if !m.Configured() {
		return ErrMailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, composeMail(m.cfg, s))
	if err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	m.log.Info("contact mail sent", zap.String("submission", s.ID))
	return nil
}

func composeMail(cfg MailConfig, s Submission) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, s.Form.Name, s.Form.Email, s.Form.Message)

	return []byte("To: " + cfg.To + "\r\n" +
		"Subject: Portfolio Contact: " + headerValue(s.Form.Name) + "\r\n" +
		"From: " + cfg.User + "\r\n" +
		"Reply-To: " + headerValue(s.Form.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerValue folds line breaks into spaces so form input stays on its own
// header line.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
