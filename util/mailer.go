package util

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Dialer sends composed messages. *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers notification e-mails over SMTP.
type Mailer struct {
	dialer Dialer
	from   string
}

// NewMailer returns nil when host is empty, which disables e-mail.
func NewMailer(host string, port int, user, pass, from string) *Mailer {
	if host == "" {
		return nil
	}
	if from == "" {
		from = user
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

// NewMailerWithDialer is used by tests to capture outgoing messages.
func NewMailerWithDialer(d Dialer, from string) *Mailer {
	return &Mailer{dialer: d, from: from}
}

// Send e-mails body to the recipient. A nil Mailer does nothing.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil || to == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	Log.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("mail sent")
	return nil
}
