// Package ratelimiter は外部APIの呼び出し頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は固定ウィンドウ方式で呼び出し回数を制限します。
// 複数のリクエストから同時に呼ばれても安全です。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limitが0以下の場合は制限なしとして扱います。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait はレートリミットの上限に達しているかを確認し、必要であれば次のウィンドウまで待機します。
// 待機中にctxがキャンセルされた場合はctx.Err()を返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 {
		return nil
	}
	for {
		sleep := rl.reserve()
		if sleep <= 0 {
			return nil
		}
		slog.Info("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve は呼び出し枠を確保できればゼロを、できなければ次のリセットまでの待ち時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
