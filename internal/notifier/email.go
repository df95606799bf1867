package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Notifier delivers alert messages.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailNotifier sends HTML alerts over SMTP with STARTTLS.
type EmailNotifier struct {
	Server   string
	Port     int
	Email    string
	Password string
}

// NewEmailNotifier creates an SMTP notifier. Returns a NoopNotifier when the
// sender address is empty, so missing SMTP credentials are a normal condition.
func NewEmailNotifier(server string, port int, email, password string) Notifier {
	if email == "" {
		log.Info().Msg("smtp email not configured, alert delivery disabled")
		return &NoopNotifier{}
	}
	return &EmailNotifier{Server: server, Port: port, Email: email, Password: password}
}

// Send delivers one message, retrying with exponential backoff until the
// context is cancelled or the retry budget runs out.
func (n *EmailNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	operation := func() error {
		if err := n.send(to, subject, htmlBody); err != nil {
			log.Warn().Err(err).Str("to", to).Msg("email send failed, retrying")
			return err
		}
		return nil
	}
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("email delivery: %w", err)
	}
	return nil
}

func (n *EmailNotifier) send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", n.Email))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", n.Server, n.Port)
	auth := smtp.PlainAuth("", n.Email, n.Password, n.Server)
	return smtp.SendMail(addr, auth, n.Email, []string{to}, []byte(msg.String()))
}

// NoopNotifier drops messages. Used when SMTP is not configured.
type NoopNotifier struct{}

func (n *NoopNotifier) Send(_ context.Context, to, subject, _ string) error {
	log.Info().Str("to", to).Str("subject", subject).Msg("alert notification skipped (smtp not configured)")
	return nil
}
