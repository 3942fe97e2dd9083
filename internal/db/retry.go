package db

import (
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is one attempt of a write.
type Operation func() error

// RetryPredicate decides whether a failed attempt is worth repeating.
type RetryPredicate func(err error) bool

const (
	DefaultMaxRetries = 3
	duplicateKeyCode  = 11000
)

// Try runs op with DefaultMaxRetries, retrying on any duplicate key error.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsMongoDuplicateKeyError)
}

// WithRetries runs op once plus up to maxRetries more times while retryable(err) holds.
// Attempts are spaced by a small linear backoff.
func WithRetries(op Operation, maxRetries int, retryable RetryPredicate) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == maxRetries || !retryable(err) {
			break
		}
		log.Printf("retrying write after attempt %d: %v", attempt+1, err)
		time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
	}
	return err
}

// IsMongoDuplicateKeyError reports a duplicate key error (code 11000) on any index.
func IsMongoDuplicateKeyError(err error) bool {
	return len(duplicateKeyMessages(err)) > 0
}

// IsDuplicateIDError reports a duplicate key error on the primary key only.
func IsDuplicateIDError(err error) bool {
	for _, msg := range duplicateKeyMessages(err) {
		if strings.Contains(msg, "index: _id_") {
			return true
		}
	}
	return false
}

func duplicateKeyMessages(err error) []string {
	var out []string
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == duplicateKeyCode {
				out = append(out, e.Message)
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == duplicateKeyCode {
				out = append(out, e.Message)
			}
		}
	}
	return out
}
