package term

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bilancio/internal/chart"
)

type immediateScheduler struct{}

func (immediateScheduler) RequestFrame(fn func(time.Time)) { fn(time.Now()) }

func TestDonutOnTerminal(t *testing.T) {
	size := chart.Size{W: 200, H: 200}
	s := New(40, 20, size, 1)

	require.NoError(t, s.Paint(chart.DonutFrame(1000, 250, chart.DonutRemaining, size)))
	out := s.Plain()
	require.Contains(t, out, "Remaining")
	require.Contains(t, out, "750.00")
	require.Contains(t, out, string(fillRune))
	require.Len(t, strings.Split(out, "\n"), 20)
	require.NotEmpty(t, s.View())
}

func TestDonutOnTerminalZeroTotals(t *testing.T) {
	size := chart.Size{W: 200, H: 200}
	s := New(40, 20, size, 1)

	require.NoError(t, s.Paint(chart.DonutFrame(0, 0, chart.DonutSpent, size)))
	out := s.Plain()
	require.Contains(t, out, "Spent")
	require.Contains(t, out, "0.00")
}

func TestBarChartOnHiDPITerminal(t *testing.T) {
	s := New(32, 18, chart.Size{W: 320, H: 180}, 2)
	r := &chart.BarRenderer{Scheduler: immediateScheduler{}, Clock: chart.SystemClock, Duration: 0}

	entries := []chart.BarEntry{{Label: "Sep", Value: 10}, {Label: "Oct", Value: 0}, {Label: "Nov", Value: 30}, {Label: "Dec", Value: 5}, {Label: "Jan", Value: 0}, {Label: "Feb", Value: 20}}
	anim, err := r.Render(context.Background(), s, entries)
	require.NoError(t, err)
	<-anim.Done()
	require.NoError(t, anim.Err())

	require.Equal(t, chart.Size{W: 640, H: 360}, s.Size())
	require.Equal(t, chart.Size{W: 320, H: 180}, s.DisplaySize())

	out := s.Plain()
	for _, label := range []string{"Sep", "Nov", "Feb"} {
		require.Contains(t, out, label)
	}
	require.Contains(t, out, string(hRule))
	require.Contains(t, out, string(fillRune))

	// A second render must not double the backing size again.
	_, err = r.Render(context.Background(), s, entries)
	require.NoError(t, err)
	require.Equal(t, chart.Size{W: 640, H: 360}, s.Size())
}

func TestPaintRejectsEmptySurface(t *testing.T) {
	s := New(0, 0, chart.Size{W: 10, H: 10}, 1)
	require.Error(t, s.Paint(chart.Frame{Ops: []chart.Op{chart.Clear{}}}))

	flat := New(4, 4, chart.Size{}, 1)
	require.Error(t, flat.Paint(chart.Frame{}))
}

func TestHexColor(t *testing.T) {
	tests := map[string]string{
		"#22d3ee":                  "#22d3ee",
		"#FFF":                     "#ffffff",
		"#zz0000":                  "",
		"rgba(148, 163, 184, 0.4)": "#94a3b8",
		"rgb(15,23,42)":            "#0f172a",
		"teal":                     "",
		"rgba(300, 0, 0, 1)":       "",
	}
	for in, want := range tests {
		require.Equal(t, want, hexColor(in), in)
	}
}

func TestShapeHitTests(t *testing.T) {
	rr := chart.RoundRect{X: 0, Y: 0, W: 20, H: 20, Radius: 8}
	require.True(t, inRoundRect(rr, chart.Point{X: 10, Y: 10}))
	require.False(t, inRoundRect(rr, chart.Point{X: 0.5, Y: 0.5}), "corner is rounded off")
	require.False(t, inRoundRect(rr, chart.Point{X: 25, Y: 10}))

	sec := chart.Sector{Center: chart.Point{}, Radius: 10, Start: -1.5707963267948966, End: 0}
	require.True(t, inSector(sec, chart.Point{X: 3, Y: -3}))
	require.False(t, inSector(sec, chart.Point{X: 3, Y: 3}))
	require.False(t, inSector(sec, chart.Point{X: 30, Y: -30}))
}
