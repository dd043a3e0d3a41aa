package renderer

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strings"
)

const tickSize = 6

// WriteSVG encodes s as a standalone SVG document.
//
// Hit zones carry their tooltip text as data attributes and a <title>, so the
// page script only has to copy it into the tooltip element.
func WriteSVG(w io.Writer, s Scene) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	p(`<svg xmlns="http://www.w3.org/2000/svg" class="chart chart-%s" width="%s" height="%s" viewBox="0 0 %s %s" data-margin-left="%s" data-margin-top="%s" data-tooltip-dx="%s" data-tooltip-dy="%s">`,
		s.Mode, num(s.Width), num(s.Height), num(s.Width), num(s.Height), num(s.Margin.Left), num(s.Margin.Top),
		num(TooltipOffsetX), num(TooltipOffsetY))
	if s.Empty() {
		p(`</svg>`)
		return bw.Flush()
	}

	if g := s.Gradient; g != nil {
		p(`<defs><linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="0" y1="%s" x2="0" y2="%s">`, g.ID, num(g.Y1), num(g.Y2))
		p(`<stop offset="0%%" stop-color="%s" stop-opacity="%s"/>`, g.Color, num(g.StartOpacity))
		p(`<stop offset="100%%" stop-color="%s" stop-opacity="%s"/>`, g.Color, num(g.EndOpacity))
		p(`</linearGradient></defs>`)
	}

	p(`<g class="plot" transform="translate(%s,%s)">`, num(s.Margin.Left), num(s.Margin.Top))

	// axes
	p(`<g class="axis axis-x" transform="translate(0,%s)" font-size="10" text-anchor="middle">`, num(s.InnerHeight))
	p(`<path class="domain" stroke="currentColor" fill="none" d="M0,%dV0H%sV%d"/>`, tickSize, num(s.InnerWidth), tickSize)
	for _, t := range s.XAxis.Ticks {
		p(`<g class="tick" transform="translate(%s,0)"><line stroke="currentColor" y2="%d"/><text fill="currentColor" y="%d" dy="0.71em">%s</text></g>`,
			num(t.Pos), tickSize, tickSize+3, esc(t.Label))
	}
	p(`</g>`)
	p(`<g class="axis axis-y" font-size="10" text-anchor="end">`)
	p(`<path class="domain" stroke="currentColor" fill="none" d="M-%d,%sH0V0H-%d"/>`, tickSize, num(s.InnerHeight), tickSize)
	for _, t := range s.YAxis.Ticks {
		p(`<g class="tick" transform="translate(0,%s)"><line stroke="currentColor" x2="-%d"/><text fill="currentColor" x="-%d" dy="0.32em">%s</text></g>`,
			num(t.Pos), tickSize, tickSize+3, esc(t.Label))
	}
	p(`</g>`)

	// series
	if s.Area != nil {
		p(`<path class="area" fill="%s" d="%s"/>`, s.Area.Fill, s.Area.D)
	}
	if s.Line != nil {
		p(`<path class="line" fill="%s" stroke="%s" stroke-width="%s" d="%s"/>`, s.Line.Fill, s.Line.Stroke, num(s.Line.StrokeWidth), s.Line.D)
	}
	if len(s.Candles) > 0 {
		p(`<g class="candles">`)
		for _, c := range s.Candles {
			p(`<g class="candle"><line class="wick" stroke="%s" x1="%s" y1="%s" x2="%s" y2="%s"/><rect class="body" fill="%s" x="%s" y="%s" width="%s" height="%s"/></g>`,
				c.Color, num(c.Wick.X1), num(c.Wick.Y1), num(c.Wick.X2), num(c.Wick.Y2),
				c.Color, num(c.Body.X), num(c.Body.Y), num(c.Body.Width), num(c.Body.Height))
		}
		p(`</g>`)
	}

	// pointer capture
	p(`<rect class="overlay" fill="none" pointer-events="all" x="%s" y="%s" width="%s" height="%s"/>`,
		num(s.Overlay.X), num(s.Overlay.Y), num(s.Overlay.Width), num(s.Overlay.Height))
	p(`<g class="hit-zones">`)
	for _, z := range s.Zones {
		c := z.Content
		p(`<rect class="hit-zone" fill="transparent" x="%s" y="0" width="%s" height="%s" data-index="%d" data-date="%s" data-open="%s" data-high="%s" data-low="%s" data-close="%s" data-volume="%s"><title>%s</title></rect>`,
			num(z.X), num(z.Width), num(s.InnerHeight), z.Index,
			esc(c.Date), esc(c.Open), esc(c.High), esc(c.Low), esc(c.Close), esc(c.Volume),
			esc(strings.Join(c.Lines(), "\n")))
	}
	p(`</g>`)

	p(`</g></svg>`)
	return bw.Flush()
}

var esc = html.EscapeString
