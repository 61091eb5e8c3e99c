package actions

import (
	"context"
	"time"

	"go.uber.org/zap"

	"burnrate/internal/application/logging"
	"burnrate/internal/application/mediator"
	"burnrate/internal/domain/shared"
)

const (
	maxRetries     = 3
	retryBaseDelay = 50 * time.Millisecond
)

// RetryMiddleware re-runs a handler after optimistic transaction
// conflicts and transient storage failures, backing off exponentially.
// Handlers reload state on every attempt, so a retry sees the winner's
// writes.
func RetryMiddleware(clock shared.Clock) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		var resp mediator.Response
		var err error
		delay := retryBaseDelay
		for attempt := 0; ; attempt++ {
			resp, err = next(ctx, request)
			if err == nil || !shared.Retryable(err) || attempt == maxRetries {
				return resp, err
			}
			if ctx.Err() != nil {
				return nil, err
			}
			logging.FromContext(ctx).Debug("retrying after retryable failure",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			clock.Sleep(delay)
			delay *= 2
		}
	}
}
