package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vasil9050/stockapp/internal/feature/chart/renderer"
	"github.com/vasil9050/stockapp/internal/feature/dashboard/transport/http/dto"
	"github.com/vasil9050/stockapp/internal/feature/dashboard/usecase"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	quotesusecase "github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
)

// statusFor はエラーの種類をHTTPステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptySymbol):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// apiController はパスの銘柄とクエリから状態を復元したControllerを返します。
func (h *DashboardHandler) apiController(c *gin.Context, symbol string) (*usecase.Controller, error) {
	ctrl := h.controller("", c.Query("range"), c.Query("mode"))
	if err := ctrl.SetSymbol(symbol); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// GetQuotes は銘柄の時系列データとサマリーをJSONで返します。
//
// エンドポイント例:
// GET /api/quotes/AAPL?range=6M
func (h *DashboardHandler) GetQuotes(c *gin.Context) {
	ctrl, err := h.apiController(c, c.Param("symbol"))
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: usecase.UserMessage(err)})
		return
	}

	v := ctrl.Refresh(c.Request.Context())
	if v.Status == usecase.StatusFailed {
		c.JSON(statusFor(v.Err), dto.ErrorResponse{Error: v.Message})
		return
	}

	// データをフォーマット
	out := dto.QuoteResponse{
		Symbol: v.State.Symbol,
		Range:  string(v.State.Range),
		Bars:   make([]dto.BarResponse, 0, len(v.Bars)),
	}
	for _, b := range v.Bars {
		out.Bars = append(out.Bars, dto.BarResponse{
			Time:   renderer.FormatDate(b.Time),
			Open:   dto.Number(b.Open),
			High:   dto.Number(b.High),
			Low:    dto.Number(b.Low),
			Close:  dto.Number(b.Close),
			Volume: dto.Number(b.Volume),
		})
	}
	if v.HasSummary {
		out.Summary = &dto.SummaryResponse{
			CurrentPrice:  dto.Number(v.Summary.CurrentPrice),
			OpeningPrice:  dto.Number(v.Summary.OpeningPrice),
			ChangePercent: dto.Number(v.Summary.ChangePercent),
			Direction:     string(v.Summary.Direction),
			Volume:        dto.Number(v.Summary.Volume),
		}
	}

	c.JSON(http.StatusOK, out)
}

// GetChart は銘柄のチャートをSVG画像で返します。
//
// エンドポイント例:
// GET /api/charts/AAPL.svg?range=1Y&mode=candle&width=960&height=480
func (h *DashboardHandler) GetChart(c *gin.Context) {
	symbol, ok := strings.CutSuffix(c.Param("file"), ".svg")
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "chart must be requested as .svg"})
		return
	}

	ctrl, err := h.apiController(c, symbol)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: usecase.UserMessage(err)})
		return
	}

	v := ctrl.Refresh(c.Request.Context())
	if v.Status == usecase.StatusFailed {
		c.JSON(statusFor(v.Err), dto.ErrorResponse{Error: v.Message})
		return
	}

	width := parseDimension(c.Query("width"), h.cfg.ChartWidth, minChartWidth, maxChartWidth)
	height := parseDimension(c.Query("height"), h.cfg.ChartHeight, minChartHeight, maxChartHeight)

	c.Header("Content-Type", "image/svg+xml; charset=utf-8")
	c.Status(http.StatusOK)
	if err := renderer.WriteSVG(c.Writer, renderer.Render(v.Bars, v.State.Mode, width, height)); err != nil {
		_ = c.Error(err)
	}
}

// RefreshQuotes は銘柄のキャッシュを破棄し、次回の取得で最新データを取り直させます。
//
// エンドポイント例:
// POST /api/quotes/AAPL/refresh
func (h *DashboardHandler) RefreshQuotes(c *gin.Context) {
	symbol := quotesusecase.NormalizeSymbol(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: usecase.MsgEmptySymbol})
		return
	}

	if h.invalidator != nil {
		if err := h.invalidator.Invalidate(c.Request.Context(), symbol); err != nil {
			slog.Error("cache invalidation failed", "symbol", symbol, "error", err)
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "failed to refresh cached data"})
			return
		}
	}

	c.Status(http.StatusNoContent)
}
