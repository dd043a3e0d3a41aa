package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vasil9050/stockapp/internal/feature/chart/renderer"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
	quotesusecase "github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
)

// DefaultSymbol は銘柄が未指定の場合に表示する銘柄です。
const DefaultSymbol = "IBM"

// SeriesFetcher は時系列データの取得を抽象化します。
// キャッシュ・重複排除・リトライは取得レイヤー側の責務です。
type SeriesFetcher interface {
	GetSeries(ctx context.Context, symbol string, r entity.TimeRange) ([]entity.Bar, error)
}

// State はダッシュボードの選択状態です。
type State struct {
	Symbol string
	Range  entity.TimeRange
	Mode   renderer.Mode
}

// fetchKey は取得結果がどの状態に対応するかを識別します。
func (s State) fetchKey() string {
	return s.Symbol + "|" + s.Range.Descriptor().Key()
}

// Status は表示状態です。
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// View は描画に必要なダッシュボードの表示内容です。
type View struct {
	State      State
	Status     Status
	Bars       []entity.Bar // 期間でフィルタ済み
	Summary    Summary
	HasSummary bool
	Message    string // Failed のときのバナー文言
	Err        error
}

// Controller は選択状態を保持し、データ取得と派生値の計算を行います。
type Controller struct {
	fetcher SeriesFetcher
	now     func() time.Time

	mu    sync.Mutex
	state State
	view  View
}

// NewController はControllerの新しいインスタンスを生成します。
// defaultSymbolが空の場合は DefaultSymbol を使用します。
func NewController(fetcher SeriesFetcher, defaultSymbol string) *Controller {
	symbol := quotesusecase.NormalizeSymbol(defaultSymbol)
	if symbol == "" {
		symbol = DefaultSymbol
	}
	st := State{Symbol: symbol, Range: entity.DefaultRange, Mode: renderer.ModeArea}
	return &Controller{
		fetcher: fetcher,
		now:     time.Now,
		state:   st,
		view:    View{State: st, Status: StatusLoading},
	}
}

// State は現在の選択状態を返します。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View は最新の表示内容を返します。
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetSymbol は銘柄を大文字に正規化して設定します。空の場合は状態を変更しません。
func (c *Controller) SetSymbol(symbol string) error {
	symbol = quotesusecase.NormalizeSymbol(symbol)
	if symbol == "" {
		return domain.ErrEmptySymbol
	}
	c.mu.Lock()
	c.state.Symbol = symbol
	c.mu.Unlock()
	return nil
}

// SetRange は期間を設定します。未知の期間は受け付けません。
func (c *Controller) SetRange(r entity.TimeRange) error {
	if !r.Valid() {
		return ErrUnknownRange
	}
	c.mu.Lock()
	c.state.Range = r
	c.mu.Unlock()
	return nil
}

// SetMode は表示モードを設定します。
func (c *Controller) SetMode(m renderer.Mode) {
	c.mu.Lock()
	c.state.Mode = m
	c.view.State.Mode = m
	c.mu.Unlock()
}

// ToggleMode は表示モードを切り替えます。
func (c *Controller) ToggleMode() renderer.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Mode = c.state.Mode.Toggle()
	c.view.State.Mode = c.state.Mode
	return c.state.Mode
}

// Refresh は現在の状態でデータを取得し、表示内容を更新します。
//
// 取得中に銘柄や期間が変わった場合、古い結果は破棄され、その時点の表示内容を返します。
// 取得自体は中断しません。
func (c *Controller) Refresh(ctx context.Context) View {
	c.mu.Lock()
	req := c.state
	c.view = View{State: req, Status: StatusLoading}
	c.mu.Unlock()

	bars, err := c.fetcher.GetSeries(ctx, req.Symbol, req.Range)

	c.mu.Lock()
	defer c.mu.Unlock()

	// 取得完了の順序はリクエスト順と一致しないため、キーを照合する
	if c.state.fetchKey() != req.fetchKey() {
		slog.Info("stale series response dropped", "symbol", req.Symbol, "range", req.Range, "current", c.state.Symbol)
		if c.view.State.fetchKey() == req.fetchKey() {
			// 新しい取得がまだ始まっていない
			c.view = View{State: c.state, Status: StatusLoading}
		}
		return c.view
	}

	v := View{State: c.state}
	if err != nil {
		slog.Warn("series fetch failed", "symbol", req.Symbol, "range", req.Range, "error", err)
		v.Status = StatusFailed
		v.Message = UserMessage(err)
		v.Err = err
	} else {
		v.Status = StatusReady
		v.Bars = FilterByRange(bars, c.state.Range, c.now())
		v.Summary, v.HasSummary = Summarize(v.Bars)
	}
	c.view = v
	return v
}
