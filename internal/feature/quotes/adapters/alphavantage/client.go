package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zoneinfoのないコンテナ用

	"github.com/vasil9050/stockapp/internal/feature/quotes/adapters/alphavantage/dto"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
	"github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
	"github.com/vasil9050/stockapp/internal/shared/ratelimiter"
)

// Client はAlpha Vantage外部APIから株価時系列データを取得するSeriesRepository実装です。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// ClientがSeriesRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.SeriesRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiterがnilの場合は呼び出し頻度を制限しません。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// Find はAlpha Vantage APIから時系列株価データを取得し、日付の昇順で返します。
func (c *Client) Find(ctx context.Context, symbol string, d entity.Descriptor) ([]entity.Bar, error) {
	// function ごとに決まる時系列キー名
	seriesKey, err := d.SeriesKey()
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// クエリパラメータを追加
	q := url.Values{}
	q.Set("function", string(d.Function))
	q.Set("symbol", symbol)
	if d.Interval != "" {
		q.Set("interval", d.Interval)
	}
	if d.OutputSize != "" {
		q.Set("outputsize", d.OutputSize)
	}
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", strings.TrimRight(c.cfg.BaseURL, "/"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSymbol, body.ErrorMessage)
	}
	if notice := body.RateLimitNotice(); notice != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, notice)
	}

	entries, ok, err := body.Series(seriesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q missing for %s", domain.ErrNoData, seriesKey, symbol)
	}

	loc := exchangeLocation(body.TimeZone())
	bars := make([]entity.Bar, 0, len(entries))
	for stamp, e := range entries {
		// タイムスタンプをパース
		tm, err := parseTimestamp(stamp, loc)
		if err != nil {
			return nil, err
		}
		bars = append(bars, entity.Bar{
			Time:   tm,
			Open:   parseNumber(symbol, stamp, "open", e.Open),
			High:   parseNumber(symbol, stamp, "high", e.High),
			Low:    parseNumber(symbol, stamp, "low", e.Low),
			Close:  parseNumber(symbol, stamp, "close", e.Close),
			Volume: parseNumber(symbol, stamp, "volume", e.Volume),
		})
	}

	// APIは新しい順に返すため、日付の昇順に並べ替える
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// defaultExchangeZone はMeta Dataにタイムゾーンがない場合に使う米国市場のタイムゾーンです。
const defaultExchangeZone = "America/New_York"

// exchangeLocation はMeta Dataのタイムゾーン名を*time.Locationに変換します。
// 読み込めない名前の場合は米国東部時間を使います。
func exchangeLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
		slog.Warn("unknown time zone in response, using default", "zone", name, "default", defaultExchangeZone)
	}
	loc, err := time.LoadLocation(defaultExchangeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseTimestamp は日付のみ（日足以上）と日時（intraday）の両方の形式を受け付けます。
// 日時は取引所のローカル時刻なのでlocで解釈し、日付はUTCの0時として扱います。
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	tm, err := time.ParseInLocation("2006-01-02 15:04:05", s, loc)
	if err == nil {
		return tm, nil
	}
	tm, err = time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return tm, nil
}

// parseNumber は数値文字列をパースします。
// パースに失敗した値はNaNとしてそのままチャートへ渡し、警告ログを出力します。
func parseNumber(symbol, stamp, field, s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		slog.Warn("unparseable quote field", "symbol", symbol, "time", stamp, "field", field, "value", s)
		return math.NaN()
	}
	return v
}
