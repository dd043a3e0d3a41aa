package main

import (
	"context"
	"log/slog"
	"os"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/vasil9050/stockapp/internal/app/di"
	"github.com/vasil9050/stockapp/internal/app/router"
	dashboardhandler "github.com/vasil9050/stockapp/internal/feature/dashboard/transport/handler"
	"github.com/vasil9050/stockapp/internal/platform/config"
	platformhandler "github.com/vasil9050/stockapp/internal/platform/http/handler"
	infraredis "github.com/vasil9050/stockapp/internal/platform/redis"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Redis（未設定または接続失敗時はキャッシュなしで動作）
	var rdb *redisv9.Client
	var cachePinger platformhandler.Pinger
	if cfg.RedisEnabled() {
		tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			cachePinger = platformhandler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// 取得チェーン
	quotes := di.NewQuotes(cfg, rdb, di.NewQuoteSource(cfg))

	// Handler
	dashboardH := dashboardhandler.NewDashboardHandler(quotes.Usecase, quotes.Cache, dashboardhandler.Config{
		DefaultSymbol: cfg.Dashboard.DefaultSymbol,
		ChartWidth:    cfg.Dashboard.ChartWidth,
		ChartHeight:   cfg.Dashboard.ChartHeight,
	})

	// ルータ生成
	r := router.NewRouter(dashboardH, platformhandler.NewHealth(cachePinger), cfg.Server.CORSOrigins)

	slog.Info("server starting", "addr", cfg.Server.Addr, "cache", rdb != nil)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
