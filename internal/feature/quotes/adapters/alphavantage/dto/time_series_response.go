// Package dto はAlpha Vantage APIレスポンスのデータ転送オブジェクトを定義します。
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry は時系列の1件分（1日または1区間）の値です。数値はすべて文字列で返されます。
type Entry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeriesResponse はAlpha Vantage query エンドポイントからのJSONレスポンスを表します。
// 時系列データのキー名はリクエストした function によって変わるため、
// 呼び出し側が期待するキー名を Series に渡して取り出します。
type TimeSeriesResponse struct {
	ErrorMessage string // 不正な銘柄・パラメータ
	Note         string // レートリミット通知
	Information  string // 利用制限の通知（新しい形式のレートリミット）

	fields map[string]json.RawMessage
}

// UnmarshalJSON はトップレベルのフィールドを保持し、既知のエラーフィールドを取り出します。
func (r *TimeSeriesResponse) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	r.fields = fields

	for name, dst := range map[string]*string{
		"Error Message": &r.ErrorMessage,
		"Note":          &r.Note,
		"Information":   &r.Information,
	} {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("decode %q: %w", name, err)
		}
	}
	return nil
}

// RateLimitNotice はレートリミット通知があればその文言を返します。
func (r *TimeSeriesResponse) RateLimitNotice() string {
	if r.Note != "" {
		return r.Note
	}
	return r.Information
}

// Series は指定されたキーの時系列データを返します。キーが存在しない場合は ok=false です。
func (r *TimeSeriesResponse) Series(key string) (entries map[string]Entry, ok bool, err error) {
	raw, ok := r.fields[key]
	if !ok {
		return nil, false, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, true, fmt.Errorf("decode %q: %w", key, err)
	}
	return entries, true, nil
}

// TimeZone はMeta Dataのタイムゾーン（例: "US/Eastern"）を返します。見つからない場合は空文字です。
// 番号付きのキー名はfunctionによって異なるため、接尾辞で探します。
func (r *TimeSeriesResponse) TimeZone() string {
	raw, ok := r.fields["Meta Data"]
	if !ok {
		return ""
	}
	var meta map[string]string
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	for k, v := range meta {
		if strings.HasSuffix(k, "Time Zone") {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
