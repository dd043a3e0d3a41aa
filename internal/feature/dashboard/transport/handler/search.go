package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// submitSearch は前後の空白を除いた検索文字列が空でなければonSubmitを呼び出します。
// 呼び出した場合はtrueを返します。
func submitSearch(text string, onSubmit func(query string)) bool {
	q := strings.TrimSpace(text)
	if q == "" {
		return false
	}
	onSubmit(q)
	return true
}

// Search は検索フォームの送信を受け取り、新しい銘柄のダッシュボードへリダイレクトします。
// 検索文字列が空の場合は現在の状態のまま戻ります。
//
// エンドポイント例:
// POST /search (q=aapl&symbol=IBM&range=1M&mode=area)
func (h *DashboardHandler) Search(c *gin.Context) {
	ctrl := h.controller(c.PostForm("symbol"), c.PostForm("range"), c.PostForm("mode"))
	submitSearch(c.PostForm("q"), func(q string) {
		// 大文字化はController側で行う
		_ = ctrl.SetSymbol(q)
	})
	c.Redirect(http.StatusSeeOther, pageURL(ctrl.State()))
}
