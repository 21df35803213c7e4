// Package db holds what the SQL preference stores share.
package db

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StartupBackoff allows five pings: 1s, 2s, 4s, 8s between them.
func StartupBackoff() retry.Backoff {
	return retry.WithMaxRetries(4, retry.NewExponential(time.Second))
}

// WaitReady pings until the server answers or backoff gives up. Each ping
// gets its own 5s budget. The last ping error is returned.
func WaitReady(ctx context.Context, p Pinger, backoff retry.Backoff) error {
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := p.PingContext(pingCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
