// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	errLocked  = errors.New("Error: database is locked")
	errNoImage = errors.New("Error: No such image: ghost")
)

func TestRetryPolicy_Do(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		attempts  int
		results   []error
		wantErr   error
		wantCalls int
	}{
		{"success first time", 3, []error{nil}, nil, 1},
		{"transient then success", 5, []error{errLocked, errLocked, nil}, nil, 3},
		{"attempts exhausted", 3, []error{errLocked, errLocked, errLocked, nil}, errLocked, 3},
		{"permanent failure stops", 5, []error{errNoImage, nil}, errNoImage, 1},
		{"single attempt never retries", 1, []error{errLocked, nil}, errLocked, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls, retries := 0, 0
			policy := retryPolicy{attempts: tt.attempts, backoff: time.Millisecond}
			err := policy.do(t.Context(),
				func(n int, _ error) {
					retries++
					if n != retries {
						t.Errorf("retry number = %d, want %d", n, retries)
					}
				},
				func() error {
					err := tt.results[calls]
					calls++
					return err
				})

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("do() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if retries != calls-1 {
				t.Errorf("onRetry called %d times for %d calls", retries, calls)
			}
		})
	}
}

func TestRetryPolicy_Delay(t *testing.T) {
	t.Parallel()

	p := retryPolicy{attempts: 4, backoff: 100 * time.Millisecond}
	for n, want := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		if got := p.delay(n); got != want {
			t.Errorf("delay(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestRetryPolicy_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	start := time.Now()
	err := retryPolicy{attempts: 3, backoff: time.Hour}.do(ctx, nil, func() error {
		calls++
		cancel()
		return errLocked
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if time.Since(start) > 10*time.Second {
		t.Fatal("backoff was not interrupted by cancellation")
	}
}
