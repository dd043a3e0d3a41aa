package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	dashboardhandler "github.com/vasil9050/stockapp/internal/feature/dashboard/transport/handler"
	"github.com/vasil9050/stockapp/internal/feature/dashboard/transport/web"
)

// NewRouter はダッシュボードとAPIのルーティングを設定したgin.Engineを返します。
// corsOriginsが空の場合、APIにCORSヘッダーを付与しません。
func NewRouter(dashboard *dashboardhandler.DashboardHandler, health gin.HandlerFunc, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(web.MustTemplates())

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// ダッシュボード画面
	r.GET("/", dashboard.Page)
	r.GET("/dashboard/panel", dashboard.Panel)
	r.POST("/search", dashboard.Search)

	api := r.Group("/api")
	if len(corsOrigins) > 0 {
		api.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	{
		api.GET("/quotes/:symbol", dashboard.GetQuotes)
		api.POST("/quotes/:symbol/refresh", dashboard.RefreshQuotes)
		api.GET("/charts/:file", dashboard.GetChart)
	}

	return r
}
