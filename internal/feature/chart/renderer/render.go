// Package renderer turns a price series into a declarative chart scene and encodes it as SVG.
package renderer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

const (
	domainPadLow  = 0.995
	domainPadHigh = 1.005
	maxCandle     = 15.0
	candleFill    = 0.8
	tickCount     = 10
	gradientID    = "area-gradient"
)

// Render lays out bars for a width×height chart in the given mode.
// It is a pure function of its inputs. An empty series yields an empty scene.
func Render(bars []entity.Bar, mode Mode, width, height float64) Scene {
	m := DefaultMargin
	s := Scene{
		Width:       width,
		Height:      height,
		Margin:      m,
		InnerWidth:  math.Max(width-m.Left-m.Right, 0),
		InnerHeight: math.Max(height-m.Top-m.Bottom, 0),
		Mode:        mode,
	}
	if len(bars) == 0 {
		return s
	}

	first, last := bars[0], bars[len(bars)-1]
	lo, hi := priceExtent(bars)
	s.X = NewTimeScale(first.Time, last.Time, 0, s.InnerWidth)
	s.Y = NewLinearScale(lo*domainPadLow, hi*domainPadHigh, s.InnerHeight, 0)

	s.Color = ColorUp
	if last.Close-first.Close < 0 {
		s.Color = ColorDown
	}

	switch mode {
	case ModeCandlestick:
		s.Candles = candles(bars, s.X, s.Y, s.InnerWidth)
	default:
		s.Gradient = &Gradient{
			ID:           gradientID,
			Y1:           s.Y.Map(s.Y.D0),
			Y2:           s.Y.Map(s.Y.D1),
			Color:        s.Color,
			StartOpacity: 0.1,
			EndOpacity:   0,
		}
		s.Area = &Path{D: areaPath(bars, s.X, s.Y, s.InnerHeight), Fill: "url(#" + gradientID + ")"}
		s.Line = &Path{D: linePath(bars, s.X, s.Y), Fill: "none", Stroke: s.Color, StrokeWidth: 1.5}
	}

	s.XAxis = timeAxis(s.X)
	s.YAxis = priceAxis(s.Y)
	s.Overlay = Rect{Width: s.InnerWidth, Height: s.InnerHeight}
	s.Zones = hitZones(bars, s.X, s.InnerWidth)
	return s
}

// priceExtent returns the lowest min(low, close) and highest max(high, close).
// NaN fields are skipped; a series with no usable price collapses to zero.
func priceExtent(bars []entity.Bar) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		for _, v := range [...]float64{b.Low, b.Close} {
			if v < lo {
				lo = v
			}
		}
		for _, v := range [...]float64{b.High, b.Close} {
			if v > hi {
				hi = v
			}
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// CandleWidth is the body width for n bars across innerWidth pixels.
func CandleWidth(innerWidth float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(innerWidth/float64(n)*candleFill, maxCandle)
}

func candles(bars []entity.Bar, x TimeScale, y LinearScale, innerWidth float64) []Candle {
	w := CandleWidth(innerWidth, len(bars))
	out := make([]Candle, len(bars))
	for i, b := range bars {
		cx := x.Map(b.Time)
		top, bottom := y.Map(math.Max(b.Open, b.Close)), y.Map(math.Min(b.Open, b.Close))
		color := ColorDown
		if b.Close >= b.Open {
			color = ColorUp
		}
		out[i] = Candle{
			Wick:  Line{X1: cx, Y1: y.Map(b.High), X2: cx, Y2: y.Map(b.Low)},
			Body:  Rect{X: cx - w/2, Y: top, Width: w, Height: bottom - top},
			Color: color,
		}
	}
	return out
}

func linePath(bars []entity.Bar, x TimeScale, y LinearScale) string {
	var b strings.Builder
	for i, bar := range bars {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		writePoint(&b, x.Map(bar.Time), y.Map(bar.Close))
	}
	return b.String()
}

func areaPath(bars []entity.Bar, x TimeScale, y LinearScale, baseline float64) string {
	var b strings.Builder
	b.WriteString(linePath(bars, x, y))
	for i := len(bars) - 1; i >= 0; i-- {
		b.WriteByte('L')
		writePoint(&b, x.Map(bars[i].Time), baseline)
	}
	b.WriteByte('Z')
	return b.String()
}

func writePoint(b *strings.Builder, px, py float64) {
	b.WriteString(num(px))
	b.WriteByte(',')
	b.WriteString(num(py))
}

func timeAxis(x TimeScale) Axis {
	ticks := x.Ticks(tickCount)
	out := Axis{Ticks: make([]Tick, len(ticks))}
	for i, t := range ticks {
		out.Ticks[i] = Tick{Pos: x.Map(t), Label: formatTimeTick(t)}
	}
	return out
}

func priceAxis(y LinearScale) Axis {
	ticks := y.Ticks(tickCount)
	step := y.TickStep(tickCount)
	out := Axis{Ticks: make([]Tick, len(ticks))}
	for i, v := range ticks {
		out.Ticks[i] = Tick{Pos: y.Map(v), Label: formatPriceTick(v, step)}
	}
	return out
}

// hitZones splits the plot into one column per bar. Zone i covers [x_i, x_i+1),
// the first starts at the left edge and the last runs to the right edge.
// Each zone shows the bar Locate picks for the date under its midpoint.
func hitZones(bars []entity.Bar, x TimeScale, innerWidth float64) []HitZone {
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Time
	}

	zones := make([]HitZone, len(bars))
	for i := range bars {
		start := 0.0
		if i > 0 {
			start = x.Map(dates[i])
		}
		end := innerWidth
		if i+1 < len(bars) {
			end = x.Map(dates[i+1])
		}
		owner := i
		if end > start {
			owner = Locate(dates, x.Invert((start+end)/2))
		}
		b := bars[owner]
		zones[i] = HitZone{
			Index:   owner,
			Time:    b.Time,
			X:       start,
			Width:   math.Max(end-start, 0),
			Content: Content(b),
		}
	}
	return zones
}

// Content formats a bar for the tooltip.
func Content(b entity.Bar) TooltipContent {
	return TooltipContent{
		Date:   FormatDate(b.Time),
		Open:   FormatCurrency(b.Open),
		High:   FormatCurrency(b.High),
		Low:    FormatCurrency(b.Low),
		Close:  FormatCurrency(b.Close),
		Volume: FormatVolume(b.Volume),
	}
}

// num formats a coordinate rounded to two decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
