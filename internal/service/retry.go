package service

import (
	"context"
	"time"

	"rozgaarsetu/internal/database"
)

const (
	transientRetries = 2
	transientBackoff = 50 * time.Millisecond
)

// retryTransient re-runs fn on lock contention and statement timeouts with
// doubling backoff, up to transientRetries extra attempts. Logical errors
// surface immediately.
func retryTransient(ctx context.Context, fn func() error) error {
	delay := transientBackoff
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !database.IsTransient(err) || attempt == transientRetries {
			return err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
		delay *= 2
	}
}
