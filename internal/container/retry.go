// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"time"
)

// retryPolicy bounds how often an engine command that failed transiently
// (see IsTransientError) is attempted.
type retryPolicy struct {
	attempts int
	backoff  time.Duration
}

// delay is the wait before the n-th retry: backoff, 2*backoff, 4*backoff...
func (p retryPolicy) delay(n int) time.Duration {
	return p.backoff << (n - 1)
}

// do runs op until it succeeds, fails with a permanent error or runs out of
// attempts, and returns the last error. onRetry, when set, is called before
// each retry. Waiting stops as soon as ctx is done.
func (p retryPolicy) do(ctx context.Context, onRetry func(n int, err error), op func() error) error {
	err := op()
	for n := 1; n < p.attempts && IsTransientError(err); n++ {
		if onRetry != nil {
			onRetry(n, err)
		}

		timer := time.NewTimer(p.delay(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %q: %w", err, ctx.Err())
		case <-timer.C:
		}
		err = op()
	}
	return err
}
