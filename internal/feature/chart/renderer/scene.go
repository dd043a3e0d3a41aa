package renderer

import "time"

// Margin is the space around the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for the axes.
var DefaultMargin = Margin{Top: 20, Right: 30, Bottom: 30, Left: 60}

// Chart colors.
const (
	ColorUp   = "#22c55e"
	ColorDown = "#ef4444"
)

// Scene is a declarative description of one rendered chart.
// Geometry inside the plot is relative to the plot origin (Margin.Left, Margin.Top).
type Scene struct {
	Width, Height float64
	Margin        Margin
	InnerWidth    float64
	InnerHeight   float64
	Mode          Mode
	Color         string // dominant color from the net change

	X TimeScale
	Y LinearScale

	Gradient *Gradient // area mode only
	Area     *Path     // area mode only
	Line     *Path     // area mode only
	Candles  []Candle  // candlestick mode only

	XAxis Axis
	YAxis Axis

	Overlay Rect
	Zones   []HitZone
}

// Empty reports whether the scene draws nothing.
func (s Scene) Empty() bool { return len(s.Zones) == 0 }

// Gradient is a vertical linear gradient in plot coordinates.
type Gradient struct {
	ID           string
	Y1, Y2       float64
	Color        string
	StartOpacity float64
	EndOpacity   float64
}

// Path is an SVG path.
type Path struct {
	D           string
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Candle is the wick and body of one bar.
type Candle struct {
	Wick  Line
	Body  Rect
	Color string
}

// Axis is a set of positioned tick labels.
type Axis struct {
	Ticks []Tick
}

// Tick is one axis label at a pixel offset along its axis.
type Tick struct {
	Pos   float64
	Label string
}

// HitZone is the pointer column owned by one bar.
type HitZone struct {
	Index   int
	Time    time.Time
	X       float64
	Width   float64
	Content TooltipContent
}

// TooltipContent is the pre-formatted text shown for a bar.
type TooltipContent struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// Lines returns the tooltip text one row per field.
func (c TooltipContent) Lines() []string {
	return []string{
		c.Date,
		"Open: " + c.Open,
		"High: " + c.High,
		"Low: " + c.Low,
		"Close: " + c.Close,
		"Volume: " + c.Volume,
	}
}
