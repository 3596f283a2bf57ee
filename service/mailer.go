package service

import (
	"fmt"

	mail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *mail.Dialer
	from   string
	logger *zap.Logger
}

func NewMailer(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		from:   from,
		logger: logger,
	}
}

// SendPasswordReset mails a single-use reset link to the user.
func (m *Mailer) SendPasswordReset(to, name, resetURL string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset your password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for your account. "+
			"If this was you, open the link below within the next hour:\n\n%s\n\n"+
			"If you didn't request this, you can ignore this email.\n", name, resetURL))
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("password reset mail failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
