package renderer

import (
	"math"
	"sort"
	"time"
)

// LinearScale maps a continuous domain onto a pixel range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale returns a scale mapping [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map returns the pixel position of v. A degenerate domain maps to the middle of the range.
func (s LinearScale) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Ticks returns roughly n round values inside the domain, spaced 1, 2 or 5 times a power of ten.
func (s LinearScale) Ticks(n int) []float64 {
	lo, hi := s.D0, s.D1
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || n <= 0 || !finite(lo) || !finite(hi) {
		return []float64{lo}
	}

	step := tickStep(lo, hi, n)
	first, last := math.Ceil(lo/step), math.Floor(hi/step)
	var ticks []float64
	for i := first; i <= last; i++ {
		if step < 1 {
			// Dividing by the inverse keeps values like 0.3 exact.
			ticks = append(ticks, i/math.Round(1/step))
		} else {
			ticks = append(ticks, i*step)
		}
	}
	return ticks
}

// TickStep is the spacing Ticks(n) uses.
func (s LinearScale) TickStep(n int) float64 {
	lo, hi := s.D0, s.D1
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi || n <= 0 {
		return 0
	}
	return tickStep(lo, hi, n)
}

func tickStep(lo, hi float64, n int) float64 {
	raw := (hi - lo) / float64(n)
	base := math.Pow(10, math.Floor(math.Log10(raw)))
	switch e := raw / base; {
	case e >= math.Sqrt(50):
		return base * 10
	case e >= math.Sqrt(10):
		return base * 5
	case e >= math.Sqrt(2):
		return base * 2
	default:
		return base
	}
}

// TimeScale maps a time domain onto a pixel range.
type TimeScale struct {
	D0, D1 time.Time
	R0, R1 float64
}

// NewTimeScale returns a scale mapping [d0, d1] onto [r0, r1].
func NewTimeScale(d0, d1 time.Time, r0, r1 float64) TimeScale {
	return TimeScale{D0: d0.UTC(), D1: d1.UTC(), R0: r0, R1: r1}
}

func (s TimeScale) span() float64 { return float64(s.D1.Sub(s.D0)) }

// Map returns the pixel position of t. A degenerate domain maps to the middle of the range.
func (s TimeScale) Map(t time.Time) float64 {
	span := s.span()
	if span == 0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + float64(t.Sub(s.D0))/span*(s.R1-s.R0)
}

// Invert returns the time at pixel position x.
func (s TimeScale) Invert(x float64) time.Time {
	if s.R1 == s.R0 || s.span() == 0 {
		return s.D0
	}
	return s.D0.Add(time.Duration((x - s.R0) / (s.R1 - s.R0) * s.span()))
}

type timeUnit int

const (
	unitMinute timeUnit = iota
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type tickInterval struct {
	unit   timeUnit
	step   int
	approx time.Duration
}

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

var tickIntervals = []tickInterval{
	{unitMinute, 1, time.Minute},
	{unitMinute, 5, 5 * time.Minute},
	{unitMinute, 15, 15 * time.Minute},
	{unitMinute, 30, 30 * time.Minute},
	{unitHour, 1, time.Hour},
	{unitHour, 3, 3 * time.Hour},
	{unitHour, 6, 6 * time.Hour},
	{unitHour, 12, 12 * time.Hour},
	{unitDay, 1, day},
	{unitDay, 2, 2 * day},
	{unitWeek, 1, week},
	{unitMonth, 1, month},
	{unitMonth, 3, 3 * month},
	{unitYear, 1, year},
}

// Ticks returns roughly n calendar-aligned times inside the domain.
func (s TimeScale) Ticks(n int) []time.Time {
	lo, hi := s.D0, s.D1
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if !hi.After(lo) || n <= 0 {
		return []time.Time{lo}
	}

	iv := chooseInterval(hi.Sub(lo), n)
	t := iv.floor(lo)
	if t.Before(lo) {
		t = iv.next(t)
	}
	var ticks []time.Time
	for ; !t.After(hi); t = iv.next(t) {
		ticks = append(ticks, t)
	}
	return ticks
}

func chooseInterval(span time.Duration, n int) tickInterval {
	target := span / time.Duration(n)
	i := sort.Search(len(tickIntervals), func(i int) bool { return tickIntervals[i].approx > target })
	switch {
	case i == len(tickIntervals):
		years := float64(span) / float64(year)
		step := int(math.Max(1, tickStep(0, years, n)))
		return tickInterval{unitYear, step, time.Duration(step) * year}
	case i == 0:
		return tickIntervals[0]
	}
	prev, next := tickIntervals[i-1], tickIntervals[i]
	if float64(target)/float64(prev.approx) < float64(next.approx)/float64(target) {
		return prev
	}
	return next
}

func (iv tickInterval) floor(t time.Time) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	switch iv.unit {
	case unitMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute()-t.Minute()%iv.step, 0, 0, time.UTC)
	case unitHour:
		return time.Date(y, m, d, t.Hour()-t.Hour()%iv.step, 0, 0, 0, time.UTC)
	case unitDay:
		return time.Date(y, m, d-(d-1)%iv.step, 0, 0, 0, 0, time.UTC)
	case unitWeek:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	case unitMonth:
		mi := int(m) - 1
		return time.Date(y, time.Month(mi-mi%iv.step+1), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y-y%iv.step, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func (iv tickInterval) next(t time.Time) time.Time {
	switch iv.unit {
	case unitMinute:
		return t.Add(time.Duration(iv.step) * time.Minute)
	case unitHour:
		return t.Add(time.Duration(iv.step) * time.Hour)
	case unitDay:
		// Day ticks restart at the first of each month.
		return iv.floor(t.AddDate(0, 0, iv.step))
	case unitWeek:
		return t.AddDate(0, 0, 7*iv.step)
	case unitMonth:
		return t.AddDate(0, iv.step, 0)
	default:
		return t.AddDate(iv.step, 0, 0)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
