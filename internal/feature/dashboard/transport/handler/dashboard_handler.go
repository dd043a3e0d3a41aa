// Package handler はdashboardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vasil9050/stockapp/internal/feature/chart/renderer"
	"github.com/vasil9050/stockapp/internal/feature/dashboard/usecase"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

// チャートサイズの許容範囲
const (
	minChartWidth  = 320
	maxChartWidth  = 1600
	minChartHeight = 200
	maxChartHeight = 1000
)

// CacheInvalidator は銘柄のキャッシュ破棄を抽象化します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// Config はダッシュボードの表示設定です。
type Config struct {
	DefaultSymbol string
	ChartWidth    float64
	ChartHeight   float64
}

// DashboardHandler はダッシュボード画面とチャートAPIのHTTPリクエストを処理します。
type DashboardHandler struct {
	fetcher     usecase.SeriesFetcher
	invalidator CacheInvalidator
	cfg         Config
}

// NewDashboardHandler はDashboardHandlerの新しいインスタンスを生成します。
// invalidatorがnilの場合、キャッシュ破棄は何もしません。
func NewDashboardHandler(fetcher usecase.SeriesFetcher, invalidator CacheInvalidator, cfg Config) *DashboardHandler {
	if cfg.ChartWidth <= 0 {
		cfg.ChartWidth = 800
	}
	if cfg.ChartHeight <= 0 {
		cfg.ChartHeight = 400
	}
	return &DashboardHandler{fetcher: fetcher, invalidator: invalidator, cfg: cfg}
}

// controller はフォームやクエリの値から選択状態を復元したControllerを返します。
// 空の銘柄や未知の期間はデフォルトのままにします。
func (h *DashboardHandler) controller(symbol, timeRange, mode string) *usecase.Controller {
	ctrl := usecase.NewController(h.fetcher, h.cfg.DefaultSymbol)
	_ = ctrl.SetSymbol(symbol)
	if r, ok := entity.ParseTimeRange(timeRange); ok {
		_ = ctrl.SetRange(r)
	}
	ctrl.SetMode(renderer.ParseMode(mode))
	return ctrl
}

type rangeLink struct {
	Label  string
	URL    string
	Active bool
}

type layoutPage struct {
	State       usecase.State
	Ranges      []rangeLink
	ToggleURL   string
	ToggleLabel string
	PanelURL    string
}

// Page はダッシュボードの画面を返します。サマリーとチャートはプレースホルダーで表示し、
// パネルは読み込み後に差し替えます。
//
// エンドポイント例:
// GET /?symbol=AAPL&range=6M&mode=candle
func (h *DashboardHandler) Page(c *gin.Context) {
	ctrl := h.controller(c.Query("symbol"), c.Query("range"), c.Query("mode"))
	st := ctrl.State()

	links := make([]rangeLink, 0, len(entity.Ranges))
	for _, r := range entity.Ranges {
		next := st
		next.Range = r
		links = append(links, rangeLink{Label: string(r), URL: pageURL(next), Active: r == st.Range})
	}

	toggled := st
	toggled.Mode = st.Mode.Toggle()
	label := "Candlestick"
	if toggled.Mode == renderer.ModeArea {
		label = "Area"
	}

	c.HTML(http.StatusOK, "layout.html", layoutPage{
		State:       st,
		Ranges:      links,
		ToggleURL:   pageURL(toggled),
		ToggleLabel: label,
		PanelURL:    "/dashboard/panel?" + stateValues(st).Encode(),
	})
}

type card struct {
	Label string
	Value string
	Class string
}

type panelPage struct {
	Failed  bool
	Message string
	Cards   []card
	Empty   bool
	Chart   template.HTML
}

// Panel はサマリーカードとチャートのHTML断片を返します。
// 取得に失敗した場合はエラーバナーとヒントを返します。
//
// エンドポイント例:
// GET /dashboard/panel?symbol=AAPL&range=1M&mode=area&width=960
func (h *DashboardHandler) Panel(c *gin.Context) {
	ctrl := h.controller(c.Query("symbol"), c.Query("range"), c.Query("mode"))
	v := ctrl.Refresh(c.Request.Context())

	if v.Status == usecase.StatusFailed {
		c.HTML(statusFor(v.Err), "panel.html", panelPage{Failed: true, Message: v.Message})
		return
	}

	width := parseDimension(c.Query("width"), h.cfg.ChartWidth, minChartWidth, maxChartWidth)
	scene := renderer.Render(v.Bars, v.State.Mode, width, h.cfg.ChartHeight)
	var buf bytes.Buffer
	if err := renderer.WriteSVG(&buf, scene); err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "panel.html", panelPage{
		Cards: summaryCards(v),
		Empty: scene.Empty(),
		// WriteSVG はテキストと属性をエスケープ済み
		Chart: template.HTML(buf.String()),
	})
}

// summaryCards はサマリーカードの表示内容を組み立てます。
func summaryCards(v usecase.View) []card {
	if !v.HasSummary {
		return []card{
			{Label: "Current Price", Value: "-"},
			{Label: "Opening Price", Value: "-"},
			{Label: "Change", Value: "-"},
			{Label: "Volume", Value: "-"},
		}
	}
	s := v.Summary
	return []card{
		{Label: "Current Price", Value: renderer.FormatCurrency(s.CurrentPrice)},
		{Label: "Opening Price", Value: renderer.FormatCurrency(s.OpeningPrice)},
		{Label: "Change", Value: s.Arrow() + " " + s.FormatChange(), Class: string(s.Direction)},
		{Label: "Volume", Value: renderer.FormatVolume(s.Volume)},
	}
}

// stateValues は選択状態をクエリパラメータに変換します。
func stateValues(st usecase.State) url.Values {
	return url.Values{
		"symbol": {st.Symbol},
		"range":  {string(st.Range)},
		"mode":   {st.Mode.String()},
	}
}

func pageURL(st usecase.State) string {
	return "/?" + stateValues(st).Encode()
}

// parseDimension は数値を範囲内に丸めて返します。解析できない場合はdefを返します。
func parseDimension(s string, def, lo, hi float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
