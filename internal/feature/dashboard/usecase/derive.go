package usecase

import (
	"fmt"
	"time"

	"github.com/vasil9050/stockapp/internal/feature/chart/renderer"
	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

// FilterByRange は期間のカットオフ（now から期間分さかのぼった時刻）以降のバーだけを返します。
// ALL と未知の期間はすべてのバーをそのまま返します。
func FilterByRange(bars []entity.Bar, r entity.TimeRange, now time.Time) []entity.Bar {
	cutoff, ok := r.Cutoff(now)
	if !ok {
		return bars
	}

	out := make([]entity.Bar, 0, len(bars))
	for _, b := range bars {
		if !b.Time.Before(cutoff) {
			out = append(out, b)
		}
	}
	return out
}

// PercentChange は最初と最後の終値の変化率（%）を返します。
// バーが2本未満の場合は0を返します。
func PercentChange(bars []entity.Bar) float64 {
	if len(bars) < 2 {
		return 0
	}
	first, last := bars[0].Close, bars[len(bars)-1].Close
	return (last - first) / first * 100
}

// Direction は価格変化の向きです。
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Summary はサマリーカードに表示する統計値です。
type Summary struct {
	CurrentPrice  float64
	OpeningPrice  float64
	ChangePercent float64
	Volume        float64
	Direction     Direction
	Color         string
}

// Summarize はフィルタ済みの時系列からサマリーを計算します。
// 空の時系列ではokがfalseになります。
func Summarize(bars []entity.Bar) (s Summary, ok bool) {
	if len(bars) == 0 {
		return Summary{}, false
	}

	first, last := bars[0], bars[len(bars)-1]
	s = Summary{
		CurrentPrice:  last.Close,
		OpeningPrice:  first.Open,
		ChangePercent: PercentChange(bars),
		Volume:        last.Volume,
		Direction:     DirectionUp,
		Color:         renderer.ColorUp,
	}
	if s.ChangePercent < 0 {
		s.Direction = DirectionDown
		s.Color = renderer.ColorDown
	}
	return s, true
}

// Arrow は変化の向きを示す記号を返します。
func (s Summary) Arrow() string {
	if s.Direction == DirectionDown {
		return "▼"
	}
	return "▲"
}

// FormatChange は変化率を符号付きで整形します（例: "+2.34%"）。
func (s Summary) FormatChange() string {
	return fmt.Sprintf("%+.2f%%", s.ChangePercent)
}
