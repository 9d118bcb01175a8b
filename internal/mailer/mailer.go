package mailer

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/shurlix/shurlix/internal/config"
	"go.uber.org/zap"
)

// Mailer sends verification emails over SMTP. When SMTP is disabled in the
// config the mailer is still constructed but reports unavailable, and send
// requests become no-ops.
type Mailer struct {
	addr      string
	auth      smtp.Auth
	from      string
	baseURL   string
	ttl       time.Duration
	available bool
	logger    *zap.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(smtpCfg config.SMTPConfig, appCfg config.AppConfig, logger *zap.Logger) *Mailer {
	m := &Mailer{
		baseURL: appCfg.BaseURL,
		ttl:     appCfg.EmailVerificationTTL.Duration,
		logger:  logger,
		send:    smtp.SendMail,
	}

	if !smtpCfg.Enabled {
		return m
	}

	m.addr = fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	m.auth = smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)
	m.from = smtpCfg.From
	m.available = true

	return m
}

// Available reports whether outbound mail is configured.
func (m *Mailer) Available() bool {
	return m.available
}

// HandleVerification is the bus handler for verification mail requests.
func (m *Mailer) HandleVerification(_ context.Context, event *VerificationRequested) error {
	if !m.available {
		m.logger.Debug("smtp disabled, dropping verification mail", zap.String("to", event.To))

		return nil
	}

	body, err := renderVerification(verificationData{
		BaseURL:  m.baseURL,
		Username: event.Username,
		Token:    event.Token,
		TTL:      m.ttl.String(),
	})
	if err != nil {
		return fmt.Errorf("render verification mail: %w", err)
	}

	msg := m.message(event.To, "Please verify your email", body)

	if err := m.send(m.addr, m.auth, m.from, []string{event.To}, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}

	m.logger.Info("verification mail sent", zap.String("to", event.To))

	return nil
}

func (m *Mailer) message(to, subject, htmlBody string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", m.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)

	return buf.Bytes()
}
