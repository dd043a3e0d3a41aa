package entity

import "fmt"

// Function は Alpha Vantage の時系列APIの種類を表します。
// レスポンスJSONの時系列キー名は Function ごとに決まるため、
// SeriesKey で明示的に対応付けます。
type Function string

const (
	FunctionIntraday Function = "TIME_SERIES_INTRADAY"
	FunctionDaily    Function = "TIME_SERIES_DAILY"
	FunctionWeekly   Function = "TIME_SERIES_WEEKLY"
	FunctionMonthly  Function = "TIME_SERIES_MONTHLY"
)

// SeriesKey は指定された Function のレスポンスで時系列データが格納されるキー名を返します。
// intraday の場合のみ interval がキー名に含まれます。
func (f Function) SeriesKey(interval string) (string, error) {
	switch f {
	case FunctionIntraday:
		if interval == "" {
			return "", fmt.Errorf("function %s requires an interval", f)
		}
		return fmt.Sprintf("Time Series (%s)", interval), nil
	case FunctionDaily:
		return "Time Series (Daily)", nil
	case FunctionWeekly:
		return "Weekly Time Series", nil
	case FunctionMonthly:
		return "Monthly Time Series", nil
	default:
		return "", fmt.Errorf("unknown function %q", string(f))
	}
}

// Intraday はタイムスタンプが時刻を含むかどうかを返します。
func (f Function) Intraday() bool {
	return f == FunctionIntraday
}
