package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrOpen is returned while the breaker rejects calls
var ErrOpen = errors.New("model circuit breaker is open")

// Settings configures the breaker
type Settings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Client wraps an LLMClient so repeated failures fail fast until the
// upstream recovers
type Client struct {
	next   core.LLMClient
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// New wraps next with a circuit breaker
func New(next core.LLMClient, settings Settings, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := next.ModelName()

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Model circuit breaker changed state",
				zap.String("model", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.RecordBreakerState(name, int(to))
		},
	})
	metrics.RecordBreakerState(name, int(gobreaker.StateClosed))

	return &Client{next: next, cb: cb, logger: logger}
}

// ModelName returns the wrapped client's model name
func (c *Client) ModelName() string {
	return c.next.ModelName()
}

// State returns the current breaker state
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

// Complete forwards to the wrapped client unless the breaker is open
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.next.Complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrOpen, err)
		}
		return "", err
	}
	return out.(string), nil
}
