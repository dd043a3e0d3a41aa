// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vasil9050/stockapp/internal/feature/quotes/adapters/alphavantage"
	quotesusecase "github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
	"github.com/vasil9050/stockapp/internal/platform/cache"
	"github.com/vasil9050/stockapp/internal/platform/config"
	infrahttp "github.com/vasil9050/stockapp/internal/platform/http"
	"github.com/vasil9050/stockapp/internal/platform/query"
	"github.com/vasil9050/stockapp/internal/shared/ratelimiter"
)

// Quotes is the assembled quote fetch chain.
type Quotes struct {
	Usecase *quotesusecase.QuotesUsecase
	Cache   *cache.CachingSeriesRepository // for invalidation
}

// NewQuoteSource creates an Alpha Vantage client with a tuned HTTP client and
// a per-minute rate limiter shared by every request.
func NewQuoteSource(cfg *config.Config) *alphavantage.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.AlphaVantage.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.AlphaVantage.RequestsPerMin, time.Minute)
	return alphavantage.NewClient(alphavantage.Config{
		APIKey:  cfg.AlphaVantage.APIKey,
		BaseURL: cfg.AlphaVantage.BaseURL,
		Timeout: cfg.AlphaVantage.Timeout,
	}, httpClient, limiter)
}

// NewQuotes wraps source as dedupe -> cache -> retry -> source.
// A nil rdb disables caching.
func NewQuotes(cfg *config.Config, rdb *redis.Client, source quotesusecase.SeriesRepository) Quotes {
	retrier := query.NewRetrier(source, query.RetryConfig{
		Retries:   cfg.Fetch.Retries,
		BaseDelay: cfg.Fetch.RetryDelay,
	})
	cached := cache.NewCachingSeriesRepository(rdb, cfg.Fetch.CacheTTL, retrier, "quotes")
	deduped := query.NewDeduplicator(cached)
	return Quotes{
		Usecase: quotesusecase.NewQuotesUsecase(deduped),
		Cache:   cached,
	}
}
