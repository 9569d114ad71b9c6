// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-workers/internal/common/config"
	"career-workers/internal/common/database"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/ecodeclub/ekit/retry"
)

// Client wraps the Zeebe gRPC client used to open job workers.
type Client struct {
	client         zbc.Client
	requestTimeout time.Duration
}

// Connect dials the gateway and waits until it answers a topology request.
func Connect(ctx context.Context, cfg config.CamundaConfig, backoff database.Backoff, log logger.Logger) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, requestTimeout: config.GetDuration(cfg.RequestTimeout)}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 30 * time.Second
	}

	if err := database.WaitFor(ctx, "Zeebe topology", backoff, log, c.HealthCheck); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return c, nil
}

// Zeebe returns the raw client for opening job workers.
func (c *Client) Zeebe() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck sends a topology request to the gateway.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// SendWithRetry runs send with exponential backoff while it fails with a
// transient gateway error. Other failures are returned immediately.
func SendWithRetry(ctx context.Context, operation string, send func(context.Context) error) error {
	strategy, err := retry.NewExponentialBackoffRetryStrategy(200*time.Millisecond, 2*time.Second, 3)
	if err != nil {
		return err
	}

	attempt := 0
	for {
		err := send(ctx)
		if err == nil {
			return nil
		}
		attempt++

		if !isRetryableZeebeError(err) {
			return mapZeebeError(err, operation, attempt)
		}
		next, ok := strategy.Next()
		if !ok {
			return mapZeebeError(err, operation, attempt)
		}

		select {
		case <-time.After(next):
		case <-ctx.Done():
			return mapZeebeError(ctx.Err(), operation, attempt)
		}
	}
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"resource_exhausted",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func mapZeebeError(err error, operation string, attempts int) *errors.StandardError {
	op := operation
	if attempts > 1 {
		op = fmt.Sprintf("%s (after %d attempts)", operation, attempts)
	}
	if isRetryableZeebeError(err) {
		return errors.NewBrokerUnavailableError(op, err)
	}
	return errors.NewBrokerRejectedError(op, err)
}
