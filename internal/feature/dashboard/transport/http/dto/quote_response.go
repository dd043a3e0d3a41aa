package dto

import "math"

// BarResponse は1本分の価格バーのレスポンスDTOです。
// 数値に変換できなかった値（NaN）はnullになります。
type BarResponse struct {
	Time   string   `json:"time"`   // 日付（日中足は時刻付き）
	Open   *float64 `json:"open"`   // 始値
	High   *float64 `json:"high"`   // 高値
	Low    *float64 `json:"low"`    // 安値
	Close  *float64 `json:"close"`  // 終値
	Volume *float64 `json:"volume"` // 出来高
}

// SummaryResponse はサマリーカードの値のレスポンスDTOです。
type SummaryResponse struct {
	CurrentPrice  *float64 `json:"current_price"`
	OpeningPrice  *float64 `json:"opening_price"`
	ChangePercent *float64 `json:"change_percent"`
	Direction     string   `json:"direction"` // "up" または "down"
	Volume        *float64 `json:"volume"`
}

// QuoteResponse は銘柄の時系列とサマリーのレスポンスDTOです。
type QuoteResponse struct {
	Symbol  string           `json:"symbol"`
	Range   string           `json:"range"`
	Bars    []BarResponse    `json:"bars"`
	Summary *SummaryResponse `json:"summary,omitempty"` // バーがない場合は省略
}

// Number はJSONで表現できる値へのポインタを返します。NaNと±Infはnilになります。
func Number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
