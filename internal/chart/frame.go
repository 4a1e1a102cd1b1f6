// Package chart turns numeric series into drawing instructions. Layout
// functions are pure and return a Frame; a Surface executes frames.
package chart

// Point is a position in logical (unscaled) coordinates.
type Point struct {
	X, Y float64
}

// Size is a width and height in logical or backing units.
type Size struct {
	W, H float64
}

// Scale multiplies both dimensions by f.
func (s Size) Scale(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Stop is one color stop of a linear gradient. Offset is in [0,1].
type Stop struct {
	Offset float64
	Color  string
}

// Gradient is a linear gradient from From to To in logical coordinates.
type Gradient struct {
	From, To Point
	Stops    []Stop
}

// At returns the color of the stop nearest to t along the gradient axis.
func (g Gradient) At(t float64) string {
	if len(g.Stops) == 0 {
		return ""
	}
	best := g.Stops[0]
	for _, s := range g.Stops[1:] {
		if abs(s.Offset-t) < abs(best.Offset-t) {
			best = s
		}
	}
	return best.Color
}

// Project maps p onto the gradient axis and returns its offset in [0,1].
func (g Gradient) Project(p Point) float64 {
	dx, dy := g.To.X-g.From.X, g.To.Y-g.From.Y
	den := dx*dx + dy*dy
	if den == 0 {
		return 0
	}
	return clamp(((p.X-g.From.X)*dx+(p.Y-g.From.Y)*dy)/den, 0, 1)
}

func linear(from, to Point, c0, c1 string) Gradient {
	return Gradient{From: from, To: to, Stops: []Stop{{0, c0}, {1, c1}}}
}

// Op is a single drawing instruction.
type Op interface {
	op()
}

type (
	// Clear erases the whole surface.
	Clear struct{}

	// Line strokes a straight segment.
	Line struct {
		From, To Point
		Color    string
		Width    float64
	}

	// RoundRect fills a rectangle with rounded corners.
	RoundRect struct {
		X, Y, W, H float64
		Radius     float64
		Fill       Gradient
	}

	// Sector fills a pie slice. Angles are radians, clockwise from the
	// positive X axis, as on a canvas with Y pointing down.
	Sector struct {
		Center     Point
		Radius     float64
		Start, End float64
		Fill       Gradient
	}

	// Disc fills a full circle with a flat color.
	Disc struct {
		Center Point
		Radius float64
		Color  string
	}

	// Text draws a single line centered horizontally on At, with At.Y as
	// the baseline.
	Text struct {
		At    Point
		Value string
		Color string
		Size  float64
	}
)

func (Clear) op()     {}
func (Line) op()      {}
func (RoundRect) op() {}
func (Sector) op()    {}
func (Disc) op()      {}
func (Text) op()      {}

// Frame is one complete drawing. Ops are in logical coordinates; the
// surface multiplies them by Scale to reach backing pixels.
type Frame struct {
	Size  Size
	Scale float64
	Ops   []Op
}

// Texts returns every Text op in order.
func (f Frame) Texts() []Text {
	var out []Text
	for _, o := range f.Ops {
		if t, ok := o.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
