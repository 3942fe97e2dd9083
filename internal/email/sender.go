package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"github.com/redis/go-redis/v9"

	"github.com/chimgan/sales/internal/config"
)

// Sender delivers a fully formatted message (headers and body).
type Sender interface {
	Send(ctx context.Context, to []string, subject string, rawMessage []byte) error
}

// SMTPSender sends through the configured SMTP relay.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender returns an SMTP sender, or a LoggingSender when no SMTP host is configured.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		log.Println("SMTP host not configured, using logging email sender.")
		return &LoggingSender{cfg: cfg}
	}
	return &SMTPSender{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost),
		addr: fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	if err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, to, rawMessage); err != nil {
		log.Printf("Failed to send email via SMTP to %v: %v", to, err)
		return fmt.Errorf("smtp error: %w", err)
	}
	log.Printf("Email sent via SMTP to %v (Subject: %s)", to, subject)
	return nil
}

// LoggingSender writes messages to the process log. Used in development.
type LoggingSender struct {
	cfg *config.Config
}

func (s *LoggingSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	log.Printf("--- Email (logged) to %v from %s: %s ---\n%s\n--- End Email ---", to, s.cfg.SmtpFromAddress, subject, rawMessage)
	return nil
}

// NewSenderChain builds the sender used by the worker: SMTP (or logging), plus a
// file copy and a Redis capture when configured.
func NewSenderChain(cfg *config.Config, rdb *redis.Client) (Sender, error) {
	chain := NewCompositeEmailSender(NewSMTPSender(cfg))
	if cfg.EmailLogFile != "" {
		fileSender, err := NewFileEmailSender(cfg.EmailLogFile)
		if err != nil {
			return nil, err
		}
		chain.AddSender(fileSender)
	}
	if cfg.EmailCapture && rdb != nil {
		chain.AddSender(NewRedisSender(rdb, cfg))
	}
	return chain, nil
}
