package renderer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	dates := []time.Time{date(2024, 6, 10), date(2024, 6, 11), date(2024, 6, 12)}

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"before first bar clamps to first", date(2024, 6, 9), 0},
		{"exactly on first bar", date(2024, 6, 10), 0},
		{"between bars resolves to earlier", date(2024, 6, 10).Add(18 * time.Hour), 0},
		{"exactly on middle bar", date(2024, 6, 11), 1},
		{"just before a bar stays on previous", date(2024, 6, 12).Add(-time.Nanosecond), 1},
		{"after last bar", date(2024, 6, 20), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locate(dates, tt.at))
		})
	}

	assert.Equal(t, 0, Locate(nil, date(2024, 6, 10)))
}

// zoneAt returns the zone under plot position px, or -1 outside every zone.
func zoneAt(zones []HitZone, px float64) int {
	for i, z := range zones {
		if px >= z.X && px < z.X+z.Width {
			return i
		}
	}
	return -1
}

func barDates(bars []entity.Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}

func intradayBars(n int) []entity.Bar {
	start := time.Date(2024, 6, 14, 9, 30, 0, 0, time.UTC)
	bars := make([]entity.Bar, n)
	for i := range bars {
		p := 100 + float64(i%7)
		bars[i] = entity.Bar{Time: start.Add(time.Duration(i) * 5 * time.Minute), Open: p, High: p + 1, Low: p - 1, Close: p + 0.5, Volume: 10_000}
	}
	return bars
}

func TestHitZones_ResolveLikeLocate(t *testing.T) {
	t.Parallel()

	bars := sampleBars()
	s := Render(bars, ModeArea, 800, 400)
	dates := barDates(bars)

	// bars sit at x = 0, 355 and 710
	tests := []struct {
		name string
		px   float64
		want int
		date string
	}{
		{"left edge", 0, 0, "2024-06-10"},
		{"halfway between first two bars", 177.5, 0, "2024-06-10"},
		{"just before second bar", 354.9, 0, "2024-06-10"},
		{"on second bar", 355, 1, "2024-06-11"},
		{"just before last bar", 709.9, 1, "2024-06-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := zoneAt(s.Zones, tt.px)
			require.GreaterOrEqual(t, i, 0)
			z := s.Zones[i]
			assert.Equal(t, tt.want, z.Index)
			assert.Equal(t, tt.date, z.Content.Date)
			assert.Equal(t, Locate(dates, s.X.Invert(tt.px)), z.Index)
		})
	}

	// left of the first bar clamps to the first zone
	assert.Equal(t, 0, Locate(dates, s.X.Invert(-20)))
	assert.Equal(t, 0.0, s.Zones[0].X)
}

func TestHitZones_Intraday(t *testing.T) {
	t.Parallel()

	bars := intradayBars(100)
	s := Render(bars, ModeCandlestick, 800, 400)
	dates := barDates(bars)
	require.Len(t, s.Zones, 100)

	for i, z := range s.Zones {
		assert.Equal(t, i, z.Index)
		assert.Equal(t, bars[i].Time, z.Time)
		if z.Width > 0 {
			assert.Equal(t, i, Locate(dates, s.X.Invert(z.X+z.Width/2)))
		}
	}
	assert.Equal(t, 0, zoneAt(s.Zones, 0))
}

func TestHitZones_DuplicateTimestampsShowLaterBar(t *testing.T) {
	t.Parallel()

	bars := []entity.Bar{
		{Time: date(2024, 6, 10), Close: 100},
		{Time: date(2024, 6, 11), Close: 101},
		{Time: date(2024, 6, 11), Close: 102},
		{Time: date(2024, 6, 12), Close: 103},
	}
	s := Render(bars, ModeArea, 800, 400)
	require.Len(t, s.Zones, 4)

	assert.Equal(t, 0.0, s.Zones[1].Width)
	i := zoneAt(s.Zones, 355)
	require.Equal(t, 2, i)
	assert.Equal(t, 2, s.Zones[i].Index)
	assert.Equal(t, "$102.00", s.Zones[i].Content.Close)
}

func TestHitZones_LastZoneHasNoWidth(t *testing.T) {
	t.Parallel()

	s := Render(sampleBars(), ModeArea, 800, 400)
	last := s.Zones[len(s.Zones)-1]

	assert.Equal(t, 2, last.Index)
	assert.Equal(t, s.InnerWidth, last.X)
	assert.Equal(t, 0.0, last.Width)
	assert.Equal(t, -1, zoneAt(s.Zones, s.InnerWidth))
}

func TestWriteSVG_TooltipOffsets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Render(sampleBars(), ModeArea, 800, 400)))
	assert.Contains(t, buf.String(), `data-tooltip-dx="15" data-tooltip-dy="-28">`)
}

func TestTooltipContent_Lines(t *testing.T) {
	t.Parallel()

	c := Content(sampleBars()[0])
	assert.Equal(t, []string{
		"2024-06-10",
		"Open: $100.00",
		"High: $104.00",
		"Low: $99.00",
		"Close: $103.00",
		"Volume: 1.2M",
	}, c.Lines())
}
