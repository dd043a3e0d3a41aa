package renderer

import "strings"

// Mode selects which glyphs a chart is drawn with.
type Mode int

const (
	ModeArea        Mode = iota // filled area under a close-price line
	ModeCandlestick             // one wick and body per bar
)

// ParseMode reads the query form of a mode. Anything other than "candle" or
// "candlestick" is the area mode.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "candle", "candlestick":
		return ModeCandlestick
	default:
		return ModeArea
	}
}

// String returns the query form of m.
func (m Mode) String() string {
	if m == ModeCandlestick {
		return "candle"
	}
	return "area"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeCandlestick {
		return ModeArea
	}
	return ModeCandlestick
}
