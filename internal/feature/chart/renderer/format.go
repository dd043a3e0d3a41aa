package renderer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCurrency renders a price with two decimals, e.g. "$169.21".
func FormatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatVolume renders a share count in millions with one decimal, e.g. "3.4M".
func FormatVolume(v float64) string {
	return fmt.Sprintf("%.1fM", v/1e6)
}

// FormatDate renders a bar's date, with the clock time for intraday bars.
func FormatDate(t time.Time) string {
	t = t.UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

// formatTimeTick labels a time axis tick at the coarsest unit it is aligned to.
func formatTimeTick(t time.Time) string {
	t = t.UTC()
	switch {
	case t.Hour() != 0 || t.Minute() != 0:
		return t.Format("15:04")
	case t.Day() != 1:
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

// formatPriceTick labels a price axis tick with as many decimals as step needs
// and thousands separators, e.g. "1,250" or "172.5".
func formatPriceTick(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
