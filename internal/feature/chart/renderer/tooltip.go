package renderer

import (
	"sort"
	"time"
)

// Tooltip offset from the pointer, so the box does not sit under the cursor.
// WriteSVG publishes them on the root element for the page script.
const (
	TooltipOffsetX = 15.0
	TooltipOffsetY = -28.0
)

// Locate returns the index of the last date at or before at.
// A time before the first date resolves to the first bar. dates must be ascending.
func Locate(dates []time.Time, at time.Time) int {
	i := sort.Search(len(dates), func(i int) bool { return dates[i].After(at) })
	if i > 0 {
		i--
	}
	return i
}
