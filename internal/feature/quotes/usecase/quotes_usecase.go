// Package usecase は株価時系列データ取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

// SeriesRepository は時系列データの取得レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesRepository interface {
	// Find は指定された銘柄と取得パラメータの時系列データを日付の昇順で返します。
	Find(ctx context.Context, symbol string, d entity.Descriptor) ([]entity.Bar, error)
}

// QuotesUsecase は株価時系列データ取得のユースケースを定義します。
type QuotesUsecase struct {
	series SeriesRepository
}

// NewQuotesUsecase はQuotesUsecaseの新しいインスタンスを生成します。
func NewQuotesUsecase(series SeriesRepository) *QuotesUsecase {
	return &QuotesUsecase{series: series}
}

// NormalizeSymbol は銘柄コードの前後の空白を取り除き、大文字に変換します。
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetSeries は指定された銘柄と期間の時系列データを取得します。
// 未知の期間はデフォルト期間（1M）の取得パラメータで扱います。
func (u *QuotesUsecase) GetSeries(ctx context.Context, symbol string, r entity.TimeRange) ([]entity.Bar, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, domain.ErrEmptySymbol
	}
	if !r.Valid() {
		r = entity.DefaultRange
	}

	bars, err := u.series.Find(ctx, symbol, r.Descriptor())
	if err != nil {
		return nil, err
	}
	return bars, nil
}
