package alphavantage

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

const dailyBody = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "IBM"
	},
	"Time Series (Daily)": {
		"2024-06-14": {"1. open": "169.5500", "2. high": "169.8900", "3. low": "167.4400", "4. close": "169.2100", "5. volume": "3127078"},
		"2024-06-12": {"1. open": "171.3500", "2. high": "172.4700", "3. low": "168.1000", "4. close": "169.0000", "5. volume": "4167603"},
		"2024-06-13": {"1. open": "169.0100", "2. high": "169.5900", "3. low": "168.3350", "4. close": "169.1200", "5. volume": "3525717"}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}
	return NewClient(cfg, server.Client(), nil)
}

func TestClient_Find_Success(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Verify request parameters
		if r.URL.Path != "/query" {
			t.Errorf("expected path /query, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("expected function TIME_SERIES_DAILY, got %s", q.Get("function"))
		}
		if q.Get("symbol") != "IBM" {
			t.Errorf("expected symbol IBM, got %s", q.Get("symbol"))
		}
		if q.Get("outputsize") != "compact" {
			t.Errorf("expected outputsize compact, got %s", q.Get("outputsize"))
		}
		if q.Has("interval") {
			t.Errorf("daily request should not carry interval, got %s", q.Get("interval"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("expected apikey test-key, got %s", q.Get("apikey"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyBody))
	})

	bars, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	// Bars are sorted ascending by date
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			t.Errorf("bars not ascending at %d: %v then %v", i, bars[i-1].Time, bars[i].Time)
		}
	}

	first := bars[0]
	if !first.Time.Equal(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first date %v", first.Time)
	}
	if first.Open != 171.35 || first.High != 172.47 || first.Low != 168.1 || first.Close != 169.0 {
		t.Errorf("unexpected OHLC %+v", first)
	}
	if first.Volume != 4167603 {
		t.Errorf("expected volume 4167603, got %f", first.Volume)
	}
}

func TestClient_Find_Intraday(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_INTRADAY" || q.Get("interval") != "5min" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{
			"Time Series (5min)": {
				"2024-06-14 19:55:00": {"1. open": "169.2", "2. high": "169.3", "3. low": "169.1", "4. close": "169.25", "5. volume": "120"},
				"2024-06-14 19:50:00": {"1. open": "169.0", "2. high": "169.2", "3. low": "168.9", "4. close": "169.2", "5. volume": "80"}
			}
		}`))
	})

	bars, err := client.Find(context.Background(), "IBM", entity.Range1D.Descriptor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	// Meta Dataがない場合は米国東部時間（夏時間 UTC-4）として解釈する
	if !bars[0].Time.Equal(time.Date(2024, 6, 14, 23, 50, 0, 0, time.UTC)) {
		t.Errorf("unexpected first timestamp %v", bars[0].Time)
	}
}

func TestClient_Find_IntradayTimeZone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		zone     string
		expected time.Time
	}{
		{"meta data zone", "US/Eastern", time.Date(2024, 1, 12, 14, 30, 0, 0, time.UTC)},
		{"other zone", "Asia/Tokyo", time.Date(2024, 1, 12, 0, 30, 0, 0, time.UTC)},
		{"unknown zone falls back to New York", "Mars/Olympus", time.Date(2024, 1, 12, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{
					"Meta Data": {"1. Information": "Intraday (5min)", "2. Symbol": "IBM", "6. Time Zone": "` + tt.zone + `"},
					"Time Series (5min)": {
						"2024-01-12 09:30:00": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}
					}
				}`))
			})

			bars, err := client.Find(context.Background(), "IBM", entity.Range1D.Descriptor())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(bars) != 1 {
				t.Fatalf("expected 1 bar, got %d", len(bars))
			}
			if !bars[0].Time.Equal(tt.expected) {
				t.Errorf("got %v, want %v", bars[0].Time.UTC(), tt.expected)
			}
		})
	}
}

func TestClient_Find_SeriesKeyFollowsFunction(t *testing.T) {
	t.Parallel()

	// A weekly request must not pick up a daily series even when one is present.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(dailyBody))
	})

	_, err := client.Find(context.Background(), "IBM", entity.Range5Y.Descriptor())
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestClient_Find_ErrorShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		expectedErr error
		contains    string
	}{
		{
			name:        "error message",
			body:        `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`,
			expectedErr: domain.ErrInvalidSymbol,
			contains:    "Invalid API call",
		},
		{
			name:        "note",
			body:        `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`,
			expectedErr: domain.ErrRateLimited,
			contains:    "5 calls per minute",
		},
		{
			name:        "information",
			body:        `{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`,
			expectedErr: domain.ErrRateLimited,
			contains:    "25 requests per day",
		},
		{
			name:        "no series",
			body:        `{"Meta Data": {"2. Symbol": "IBM"}}`,
			expectedErr: domain.ErrNoData,
			contains:    "Time Series (Daily)",
		},
		{
			name:        "empty object",
			body:        `{}`,
			expectedErr: domain.ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected %v, got %v", tt.expectedErr, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestClient_Find_RateLimitAndInvalidSymbolAreDistinct(t *testing.T) {
	t.Parallel()

	note := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "slow down"}`))
	})
	invalid := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Error Message": "bad symbol"}`))
	})

	_, noteErr := note.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
	_, invalidErr := invalid.Find(context.Background(), "IBM", entity.Range1M.Descriptor())

	if errors.Is(noteErr, domain.ErrInvalidSymbol) || errors.Is(invalidErr, domain.ErrRateLimited) {
		t.Fatalf("error classes overlap: note=%v invalid=%v", noteErr, invalidErr)
	}
}

func TestClient_Find_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", http.StatusBadRequest},
		{"forbidden", http.StatusForbidden},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), "alphavantage http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}
		})
	}
}

func TestClient_Find_InvalidJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{invalid json`))
	})

	_, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestClient_Find_InvalidTimestamp(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {"yesterday": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}}}`))
	})

	_, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
	if err == nil || !strings.Contains(err.Error(), "parse time") {
		t.Fatalf("expected parse time error, got %v", err)
	}
}

func TestClient_Find_MalformedNumbersBecomeNaN(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {"2024-06-14": {"1. open": "abc", "2. high": "170", "3. low": "168", "4. close": "169", "5. volume": ""}}}`))
	})

	bars, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if !math.IsNaN(bars[0].Open) {
		t.Errorf("expected NaN open, got %f", bars[0].Open)
	}
	if !math.IsNaN(bars[0].Volume) {
		t.Errorf("expected NaN volume, got %f", bars[0].Volume)
	}
	if bars[0].Close != 169 {
		t.Errorf("expected close 169, got %f", bars[0].Close)
	}
}

type countingLimiter struct {
	calls atomic.Int32
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls.Add(1)
	return l.err
}

func TestClient_Find_WaitsOnLimiter(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(dailyBody))
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	client := NewClient(Config{BaseURL: server.URL}, server.Client(), limiter)
	if _, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limiter.calls.Load() != 1 {
		t.Errorf("expected 1 limiter wait, got %d", limiter.calls.Load())
	}

	limiter.err = context.Canceled
	if _, err := client.Find(context.Background(), "IBM", entity.Range1M.Descriptor()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected limiter error, got %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("request should not be sent when the limiter fails, got %d hits", hits.Load())
	}
}

func TestClient_Find_ContextCancellation(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Find(ctx, "IBM", entity.Range1M.Descriptor())
	if err == nil {
		t.Fatal("expected error due to context cancellation, got nil")
	}
}
