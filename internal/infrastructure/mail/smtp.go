// Package mail delivers one-time passwords out of band.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPConfig holds the settings for the SMTP mailer.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPMailer sends OTP mails through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, name, code string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, name, code)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from, to, name, code string) []byte {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "%s,\r\n\r\nYour one-time code is %s. It expires in 5 minutes.\r\n", greeting, code)
	return []byte(b.String())
}

// LogMailer writes codes to the log instead of sending mail. Development and
// test environments only.
type LogMailer struct {
	Log zerolog.Logger
}

func (m *LogMailer) SendOTP(ctx context.Context, to, name, code string) error {
	m.Log.Info().Str("to", to).Str("code", code).Msg("otp mail (log only)")
	return nil
}
