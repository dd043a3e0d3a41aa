// Package http provides the outbound HTTP client used for quote API calls.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - Dialer.KeepAlive: 再利用可能なTCP接続の維持期間
//   - MaxIdleConnsPerHost: 呼び出し先は1ホストのみのため、ホスト単位で接続を保持
//   - IdleConnTimeout: アイドル接続の維持期間
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - ResponseHeaderTimeout: レスポンスヘッダーの待ち時間（timeout以下）
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
