package chart

// Bar chart geometry and palette.
const (
	barPadding      = 24.0
	barRadius       = 8.0
	barSlotFactor   = 1.8
	barCurrentScale = 1.2
	barLabelOffset  = 12.0
	barLabelSize    = 10.0

	axisColor  = "rgba(148, 163, 184, 0.4)"
	labelColor = "rgba(148, 163, 184, 0.9)"
)

var (
	barColors     = [2]string{"#22d3ee", "#6366f1"}
	currentColors = [2]string{"#e0f2fe", "#bae6fd"}
)

// BarEntry is one labeled value of the series.
type BarEntry struct {
	Label string
	Value float64
}

// Bar is the fully grown geometry of one entry.
type Bar struct {
	Label  string
	X      float64
	Width  float64
	Height float64
	// Current marks the most recent entry, drawn wider and lighter.
	Current bool
}

// BarLayout is the static part of a bar chart: everything except the
// animation progress.
type BarLayout struct {
	Size     Size
	Baseline float64
	Bars     []Bar
}

// LayoutBars normalizes values against the series maximum, with a floor
// of 1 so an all-zero series draws nothing instead of dividing by zero.
func LayoutBars(entries []BarEntry, size Size) BarLayout {
	layout := BarLayout{Size: size, Baseline: size.H - barPadding}
	n := len(entries)
	if n == 0 {
		return layout
	}

	innerW := size.W - barPadding*2
	innerH := size.H - barPadding*2

	maxValue := 1.0
	for _, e := range entries {
		if e.Value > maxValue {
			maxValue = e.Value
		}
	}

	width := innerW / (float64(n) * barSlotFactor)
	gaps := float64(n - 1)
	if gaps == 0 {
		gaps = 1
	}
	gap := (innerW - width*float64(n)) / gaps

	layout.Bars = make([]Bar, n)
	for i, e := range entries {
		b := Bar{
			Label: e.Label,
			X:     barPadding + float64(i)*(width+gap),
			Width: width,
		}
		if i == n-1 {
			b.Current = true
			b.Width = width * barCurrentScale
			b.X -= (b.Width - width) / 2
		}
		if e.Value > 0 {
			b.Height = innerH * e.Value / maxValue
		}
		layout.Bars[i] = b
	}
	return layout
}

// Frame draws the layout with every bar grown to progress (clamped to
// [0,1]) of its final height. Bars of zero height are skipped but keep
// their label.
func (l BarLayout) Frame(progress float64) Frame {
	progress = clamp(progress, 0, 1)

	ops := make([]Op, 0, 2+2*len(l.Bars))
	ops = append(ops,
		Clear{},
		Line{
			From:  Point{X: barPadding, Y: l.Baseline},
			To:    Point{X: l.Size.W - barPadding, Y: l.Baseline},
			Color: axisColor,
			Width: 1,
		})

	for _, b := range l.Bars {
		h := b.Height * progress
		if h > 0 {
			top := l.Baseline - h
			colors := barColors
			if b.Current {
				colors = currentColors
			}
			ops = append(ops, RoundRect{
				X:      b.X,
				Y:      top,
				W:      b.Width,
				H:      h,
				Radius: barRadius,
				Fill:   linear(Point{Y: top}, Point{Y: l.Baseline}, colors[0], colors[1]),
			})
		}
		ops = append(ops, Text{
			At:    Point{X: b.X + b.Width/2, Y: l.Baseline + barLabelOffset},
			Value: b.Label,
			Color: labelColor,
			Size:  barLabelSize,
		})
	}

	return Frame{Size: l.Size, Scale: 1, Ops: ops}
}
