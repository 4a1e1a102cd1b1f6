package chart

import (
	"fmt"
	"math"
	"strconv"
	"sync"
)

// DonutMode selects which total the donut shows in its center.
type DonutMode int

const (
	DonutSpent DonutMode = iota
	DonutRemaining
)

// Toggle returns the other mode.
func (m DonutMode) Toggle() DonutMode {
	if m == DonutSpent {
		return DonutRemaining
	}
	return DonutSpent
}

// Label is the caption drawn above the value.
func (m DonutMode) Label() string {
	if m == DonutRemaining {
		return "Remaining"
	}
	return "Spent"
}

func (m DonutMode) String() string {
	if m == DonutRemaining {
		return "remaining"
	}
	return "spent"
}

// ParseDonutMode accepts "spent" or "remaining".
func ParseDonutMode(s string) (DonutMode, error) {
	switch s {
	case "spent", "":
		return DonutSpent, nil
	case "remaining":
		return DonutRemaining, nil
	}
	return DonutSpent, fmt.Errorf("unknown donut mode %q", s)
}

const (
	donutMargin      = 20.0
	donutCenterShift = 4.0
	donutHole        = 0.55
	donutLabelSize   = 24.0
	donutValueSize   = 28.0
	donutLabelRise   = 8.0
	donutValueDrop   = 32.0

	donutHoleColor = "rgba(15, 23, 42, 0.97)"
	donutTextColor = "#e5e7eb"
)

// DonutShares is the numeric part of a donut: how the ring is split.
type DonutShares struct {
	Spent     float64
	Remaining float64
	Total     float64
}

// SplitDonut clamps spent into [0, salary] (or [0, spent] when there is
// no salary) and floors the total at 1 so an empty month still draws.
func SplitDonut(salary, spent float64) DonutShares {
	remaining := math.Max(0, salary-spent)

	upper := salary
	if upper == 0 {
		upper = spent
	}
	if upper == 0 {
		upper = 1
	}
	clamped := math.Max(0, math.Min(spent, upper))

	total := clamped + remaining
	if total == 0 {
		total = 1
	}
	return DonutShares{Spent: clamped, Remaining: remaining, Total: total}
}

// DonutFrame draws the spent and remaining ring for one month. The
// center shows either the full spent total, overspend included, or the
// remaining amount.
func DonutFrame(salary, spent float64, mode DonutMode, size Size) Frame {
	shares := SplitDonut(salary, spent)

	radius := math.Max(0, math.Min(size.W, size.H)/2-donutMargin)
	center := Point{X: size.W / 2, Y: size.H/2 + donutCenterShift}

	start := -math.Pi / 2
	split := start + shares.Spent/shares.Total*2*math.Pi
	end := start + 2*math.Pi

	value := spent
	if mode == DonutRemaining {
		value = shares.Remaining
	}

	ops := []Op{
		Clear{},
		Sector{
			Center: center, Radius: radius, Start: start, End: split,
			Fill: linear(Point{}, Point{X: size.W}, "#fb7185", "#f97316"),
		},
		Sector{
			Center: center, Radius: radius, Start: split, End: end,
			Fill: linear(Point{Y: size.H}, Point{X: size.W}, "#22d3ee", "#6366f1"),
		},
		Disc{Center: center, Radius: radius * donutHole, Color: donutHoleColor},
		Text{
			At:    Point{X: center.X, Y: center.Y - donutLabelRise},
			Value: mode.Label(),
			Color: donutTextColor,
			Size:  donutLabelSize,
		},
		Text{
			At:    Point{X: center.X, Y: center.Y + donutValueDrop},
			Value: strconv.FormatFloat(value, 'f', 2, 64),
			Color: donutTextColor,
			Size:  donutValueSize,
		},
	}
	return Frame{Size: size, Scale: 1, Ops: ops}
}

// DonutRenderer keeps the donut's mode between redraws.
type DonutRenderer struct {
	mu   sync.Mutex
	mode DonutMode
}

func NewDonutRenderer(mode DonutMode) *DonutRenderer {
	return &DonutRenderer{mode: mode}
}

// Mode returns the current mode.
func (r *DonutRenderer) Mode() DonutMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Render draws the donut at the surface's current size.
func (r *DonutRenderer) Render(s Surface, salary, spent float64) error {
	if err := s.Paint(DonutFrame(salary, spent, r.Mode(), s.Size())); err != nil {
		return fmt.Errorf("paint donut chart: %w", err)
	}
	return nil
}

// Toggle flips the mode and redraws with the totals the caller supplies.
func (r *DonutRenderer) Toggle(s Surface, salary, spent float64) (DonutMode, error) {
	r.mu.Lock()
	r.mode = r.mode.Toggle()
	mode := r.mode
	r.mu.Unlock()

	return mode, r.Render(s, salary, spent)
}
