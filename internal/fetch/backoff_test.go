package fetch

import (
	"testing"
	"time"
)

func TestBackoffDelayGrowsUntilCap(t *testing.T) {
	client := NewClient(Options{
		MaxAttempts: 6,
		Backoff:     2 * time.Second,
		MaxBackoff:  30 * time.Second,
	}, nil)

	var prev time.Duration
	for attempt := 2; attempt <= 6; attempt++ {
		delay := client.backoffDelay(attempt)
		if delay > 30*time.Second {
			t.Fatalf("attempt %d: delay %v exceeds cap", attempt, delay)
		}
		if delay < prev {
			t.Fatalf("attempt %d: delay %v below previous %v", attempt, delay, prev)
		}
		if prev < 30*time.Second && delay == prev && delay != 30*time.Second {
			t.Fatalf("attempt %d: delay %v did not grow below the cap", attempt, delay)
		}
		prev = delay
	}

	if got := client.backoffDelay(2); got != 2*time.Second {
		t.Fatalf("first retry delay = %v, want 2s", got)
	}
	if got := client.backoffDelay(3); got != 4*time.Second {
		t.Fatalf("second retry delay = %v, want 4s", got)
	}
}
