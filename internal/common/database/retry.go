// internal/common/database/retry.go
package database

import (
	"context"
	"fmt"
	"time"

	"career-workers/internal/common/logger"

	"github.com/ecodeclub/ekit/retry"
)

// Backoff describes exponential retry timing for startup connections.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	MaxRetries int32
}

// DefaultBackoff retries for roughly a minute.
var DefaultBackoff = Backoff{Initial: 2 * time.Second, Max: 10 * time.Second, MaxRetries: 10}

// WaitFor runs op until it succeeds, the backoff is exhausted or ctx is done.
func WaitFor(ctx context.Context, name string, b Backoff, log logger.Logger, op func(context.Context) error) error {
	strategy, err := retry.NewExponentialBackoffRetryStrategy(b.Initial, b.Max, b.MaxRetries)
	if err != nil {
		return fmt.Errorf("%s: invalid backoff: %w", name, err)
	}

	attempt := 0
	for {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}

		next, ok := strategy.Next()
		if !ok {
			return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
		}

		log.Warn(name+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     attempt,
			"nextRetryIn": next.String(),
		})

		select {
		case <-time.After(next):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", name, attempt, ctx.Err())
		}
	}
}
