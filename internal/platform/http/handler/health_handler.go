// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// cacheCheckTimeout はキャッシュ疎通確認の上限時間です。
const cacheCheckTimeout = time.Second

// Pinger はキャッシュの疎通確認を抽象化します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc は関数をPingerとして扱うためのアダプターです。
type PingFunc func(ctx context.Context) error

// Ping はf(ctx)を呼び出します。
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを返します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
//
// キャッシュが使えなくてもサービスは取得元へ直接問い合わせて動作するため、
// cacheの状態にかかわらずステータスは200です。cacheがnilの場合は "disabled" を返します。
func NewHealth(cache Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ok", "cache": cacheStatus(c.Request.Context(), cache)})
		}
	}
}

func cacheStatus(ctx context.Context, cache Pinger) string {
	if cache == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, cacheCheckTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}
