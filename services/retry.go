package services

import (
	errs "chat-mesh/errors"
	"context"
	"errors"
	"log/slog"
	"time"
)

const (
	readAttempts = 3
	baseBackoff  = 50 * time.Millisecond
)

// retryRead retries an idempotent read on transient store failures
// with doubling backoff. Mutations never go through here: their
// outcome is uncertain on a transient failure and a blind retry could
// duplicate the side effect, so they surface the error immediately.
func retryRead[T any](ctx context.Context, log *slog.Logger, op string, fn func() (T, error)) (T, error) {
	var zero T
	backoff := baseBackoff
	for attempt := 1; ; attempt++ {
		value, err := fn()
		if err == nil || !errors.Is(err, errs.ErrTransientStore) || attempt == readAttempts {
			return value, err
		}
		log.Warn("Transient store failure, retrying read",
			"op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
