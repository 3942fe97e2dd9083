package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chimgan/sales/internal/config"
)

const (
	captureKeyPrefix = "mail:outbox:"
	captureTTL       = 15 * time.Minute
)

// CapturedEmail is the form a message takes in the Redis outbox.
type CapturedEmail struct {
	To      []string  `json:"to"`
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Raw     string    `json:"raw"`
	SentAt  time.Time `json:"sent_at"`
}

// RedisSender keeps messages in a per-recipient Redis list so tests and staging
// can read what would have been sent.
type RedisSender struct {
	client *redis.Client
	cfg    *config.Config
}

func NewRedisSender(client *redis.Client, cfg *config.Config) Sender {
	return &RedisSender{client: client, cfg: cfg}
}

// CaptureKey is the outbox list of one recipient.
func CaptureKey(to string) string {
	return captureKeyPrefix + strings.ToLower(to)
}

func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	data, err := json.Marshal(CapturedEmail{
		To:      to,
		From:    s.cfg.SmtpFromAddress,
		Subject: subject,
		Raw:     string(rawMessage),
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, rcpt := range to {
		key := CaptureKey(rcpt)
		pipe.LPush(ctx, key, data)
		pipe.Expire(ctx, key, captureTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to capture email in Redis: %w", err)
	}
	log.Printf("captured email to %s in Redis (Subject: %s)", strings.Join(to, ", "), subject)
	return nil
}

// ReadCaptured returns the captured messages of a recipient, newest first.
func ReadCaptured(ctx context.Context, client *redis.Client, to string) ([]CapturedEmail, error) {
	raw, err := client.LRange(ctx, CaptureKey(to), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]CapturedEmail, 0, len(raw))
	for _, r := range raw {
		var m CapturedEmail
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
