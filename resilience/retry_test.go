package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/kbukum/fluxkit/errors"
)

func TestWithDefaults(t *testing.T) {
	cfg := RetryConfig{}.WithDefaults()

	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 100*time.Millisecond {
		t.Errorf("InitialBackoff = %v", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 10*time.Second {
		t.Errorf("MaxBackoff = %v", cfg.MaxBackoff)
	}
	if cfg.BackoffFactor != 2.0 {
		t.Errorf("BackoffFactor = %v", cfg.BackoffFactor)
	}
	if cfg.RetryIf == nil {
		t.Error("RetryIf should default to DefaultRetryIf")
	}

	custom := RetryConfig{MaxAttempts: 7}.WithDefaults()
	if custom.MaxAttempts != 7 {
		t.Errorf("explicit MaxAttempts overwritten: %d", custom.MaxAttempts)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{10, time.Second},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tc.attempt), func(t *testing.T) {
			if got := cfg.Backoff(tc.attempt); got != tc.want {
				t.Errorf("Backoff(%d) = %v, want %v", tc.attempt, got, tc.want)
			}
		})
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.5,
	}
	for range 100 {
		got := cfg.Backoff(2)
		if got < 100*time.Millisecond || got > 300*time.Millisecond {
			t.Fatalf("Backoff(2) = %v outside [100ms, 300ms]", got)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		cfg     RetryConfig
		attempt int
		err     error
		want    bool
	}{
		{"first failure", RetryConfig{MaxAttempts: 3}, 1, boom, true},
		{"last attempt", RetryConfig{MaxAttempts: 3}, 3, boom, false},
		{"canceled", RetryConfig{MaxAttempts: 3}, 1, context.Canceled, false},
		{"deadline", RetryConfig{MaxAttempts: 3}, 1, fmt.Errorf("wrap: %w", context.DeadlineExceeded), false},
		{"filtered", RetryConfig{MaxAttempts: 3, RetryIf: func(error) bool { return false }}, 1, boom, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ShouldRetry(tc.attempt, tc.err); got != tc.want {
				t.Errorf("ShouldRetry() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetryIfRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", apperrors.Timeout("fetch"), true},
		{"limit exceeded", apperrors.LimitExceeded("Solo hasta 5", 5), false},
		{"invalid input", apperrors.InvalidInput("name", "empty"), false},
		{"foreign error", errors.New("io"), true},
		{"canceled", context.Canceled, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RetryIfRetryable(tc.err); got != tc.want {
				t.Errorf("RetryIfRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts != 3 || cfg.Jitter != 0.1 || cfg.RetryIf == nil {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
