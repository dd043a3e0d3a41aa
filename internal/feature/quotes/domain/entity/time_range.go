package entity

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is the look-back window selected on the dashboard.
type TimeRange string

const (
	Range1D  TimeRange = "1D"
	Range1M  TimeRange = "1M"
	Range6M  TimeRange = "6M"
	Range1Y  TimeRange = "1Y"
	Range5Y  TimeRange = "5Y"
	RangeAll TimeRange = "ALL"
)

// DefaultRange is the range shown when none is selected.
const DefaultRange = Range1M

// Ranges lists every range in display order.
var Ranges = []TimeRange{Range1D, Range1M, Range6M, Range1Y, Range5Y, RangeAll}

// Descriptor holds the fetch parameters for a range.
type Descriptor struct {
	Function   Function
	Interval   string // only set for intraday
	OutputSize string // "compact" or "full"; empty leaves the API default
}

// Key returns a stable identifier for the descriptor, used for caching and deduplication.
func (d Descriptor) Key() string {
	return fmt.Sprintf("%s:%s:%s", d.Function, d.Interval, d.OutputSize)
}

// SeriesKey returns the JSON field holding the time series for this descriptor.
func (d Descriptor) SeriesKey() (string, error) {
	return d.Function.SeriesKey(d.Interval)
}

var descriptors = map[TimeRange]Descriptor{
	Range1D:  {Function: FunctionIntraday, Interval: "5min", OutputSize: "compact"},
	Range1M:  {Function: FunctionDaily, OutputSize: "compact"},
	Range6M:  {Function: FunctionDaily, OutputSize: "full"},
	Range1Y:  {Function: FunctionDaily, OutputSize: "full"},
	Range5Y:  {Function: FunctionWeekly},
	RangeAll: {Function: FunctionMonthly},
}

// ParseTimeRange parses a range name, case-insensitively.
func ParseTimeRange(s string) (TimeRange, bool) {
	r := TimeRange(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := descriptors[r]
	return r, ok
}

// Valid reports whether r is a known range.
func (r TimeRange) Valid() bool {
	_, ok := descriptors[r]
	return ok
}

// Descriptor returns the fetch parameters for r. Unknown ranges fall back to the default range.
func (r TimeRange) Descriptor() Descriptor {
	if d, ok := descriptors[r]; ok {
		return d
	}
	return descriptors[DefaultRange]
}

// Cutoff returns the earliest time kept by r relative to now.
// ok is false for ALL and for unknown ranges, which keep every bar.
func (r TimeRange) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	switch r {
	case Range1D:
		return now.AddDate(0, 0, -1), true
	case Range1M:
		return now.AddDate(0, -1, 0), true
	case Range6M:
		return now.AddDate(0, -6, 0), true
	case Range1Y:
		return now.AddDate(-1, 0, 0), true
	case Range5Y:
		return now.AddDate(-5, 0, 0), true
	default:
		return time.Time{}, false
	}
}
