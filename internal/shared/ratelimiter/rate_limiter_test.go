package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if rl.count != 3 {
		t.Errorf("expected count 3, got %d", rl.count)
	}
}

func TestRateLimiter_BlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	rl := NewRateLimiter(1, time.Minute)
	rl.lastReset = current
	rl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	if d := rl.reserve(); d != 0 {
		t.Fatalf("first reserve should succeed, got wait %v", d)
	}
	if d := rl.reserve(); d != time.Minute {
		t.Fatalf("expected wait of 1m, got %v", d)
	}

	mu.Lock()
	current = current.Add(time.Minute)
	mu.Unlock()

	if d := rl.reserve(); d != 0 {
		t.Errorf("reserve after interval should succeed, got wait %v", d)
	}
}

func TestRateLimiter_ZeroLimitIsUnlimited(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Hour)
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
