// Package term rasterizes chart frames onto a terminal cell grid.
package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"bilancio/internal/chart"
)

const (
	fillRune = '█'
	hRule    = '─'
	vRule    = '│'
	dotRune  = '·'
)

// Surface is a chart.Surface backed by an ntcharts canvas. Each cell
// samples the frame at its center, so the grid resolution is independent
// of the frame's logical size.
type Surface struct {
	mu      sync.Mutex
	cols    int
	rows    int
	ratio   float64
	backing chart.Size
	display chart.Size
	canvas  canvas.Model
}

// New returns a cols x rows surface whose backing size starts at size.
func New(cols, rows int, size chart.Size, ratio float64) *Surface {
	if ratio <= 0 {
		ratio = 1
	}
	return &Surface{
		cols:    cols,
		rows:    rows,
		ratio:   ratio,
		backing: size,
		display: size,
		canvas:  canvas.New(cols, rows),
	}
}

func (s *Surface) Size() chart.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backing
}

func (s *Surface) Resize(backing, display chart.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backing = backing
	s.display = display
}

// DisplaySize is the logical size set by the last Resize.
func (s *Surface) DisplaySize() chart.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display
}

func (s *Surface) PixelRatio() float64 {
	return s.ratio
}

// Paint rasterizes f. Ops are applied in order, later ops over earlier.
func (s *Surface) Paint(f chart.Frame) error {
	if s.cols <= 0 || s.rows <= 0 {
		return fmt.Errorf("surface has no cells (%dx%d)", s.cols, s.rows)
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := grid{
		cols:  s.cols,
		rows:  s.rows,
		cellW: s.backing.W / scale / float64(s.cols),
		cellH: s.backing.H / scale / float64(s.rows),
		c:     &s.canvas,
	}
	if g.cellW <= 0 || g.cellH <= 0 {
		return fmt.Errorf("surface has no area (%gx%g)", s.backing.W, s.backing.H)
	}

	for _, o := range f.Ops {
		switch op := o.(type) {
		case chart.Clear:
			s.canvas = canvas.New(s.cols, s.rows)
		case chart.Line:
			g.line(op)
		case chart.RoundRect:
			g.fill(op.Fill, func(p chart.Point) bool { return inRoundRect(op, p) })
		case chart.Sector:
			g.fill(op.Fill, func(p chart.Point) bool { return inSector(op, p) })
		case chart.Disc:
			g.erase(func(p chart.Point) bool { return dist(op.Center, p) <= op.Radius })
		case chart.Text:
			g.text(op)
		default:
			return fmt.Errorf("unsupported op %T", o)
		}
	}
	return nil
}

// View renders the grid as styled text.
func (s *Surface) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.View()
}

// Plain returns the grid runes without styling, one line per row.
func (s *Surface) Plain() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			r := s.canvas.Cell(canvas.Point{X: x, Y: y}).Rune
			if r == 0 {
				r = ' '
			}
			b.WriteRune(r)
		}
		if y < s.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type grid struct {
	cols, rows   int
	cellW, cellH float64
	c            *canvas.Model
}

func (g grid) center(x, y int) chart.Point {
	return chart.Point{X: (float64(x) + 0.5) * g.cellW, Y: (float64(y) + 0.5) * g.cellH}
}

func (g grid) cellOf(p chart.Point) (int, int) {
	return int(math.Floor(p.X / g.cellW)), int(math.Floor(p.Y / g.cellH))
}

func (g grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g grid) fill(grad chart.Gradient, hit func(chart.Point) bool) {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			p := g.center(x, y)
			if !hit(p) {
				continue
			}
			st := style(grad.At(grad.Project(p)))
			g.c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, fillRune, st)
		}
	}
}

func (g grid) erase(hit func(chart.Point) bool) {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if hit(g.center(x, y)) {
				g.c.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCell(0))
			}
		}
	}
}

func (g grid) line(l chart.Line) {
	dx, dy := l.To.X-l.From.X, l.To.Y-l.From.Y
	r := dotRune
	switch {
	case math.Abs(dy) < g.cellH/2:
		r = hRule
	case math.Abs(dx) < g.cellW/2:
		r = vRule
	}

	step := math.Min(g.cellW, g.cellH) / 2
	n := int(math.Ceil(math.Hypot(dx, dy)/step)) + 1
	st := style(l.Color)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(max(n-1, 1))
		x, y := g.cellOf(chart.Point{X: l.From.X + dx*t, Y: l.From.Y + dy*t})
		if g.inside(x, y) {
			g.c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, st)
		}
	}
}

// text writes t.Value centered on t.At, in the row holding the middle
// of the glyphs that sit on the baseline t.At.Y.
func (g grid) text(t chart.Text) {
	x, y := g.cellOf(chart.Point{X: t.At.X, Y: t.At.Y - t.Size/2})
	if y < 0 || y >= g.rows {
		return
	}
	st := style(t.Color)
	x -= utf8.RuneCountInString(t.Value) / 2
	for _, r := range t.Value {
		if g.inside(x, y) {
			g.c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, st)
		}
		x++
	}
}

func inRoundRect(r chart.RoundRect, p chart.Point) bool {
	if p.X < r.X || p.X > r.X+r.W || p.Y < r.Y || p.Y > r.Y+r.H {
		return false
	}
	rad := math.Min(r.Radius, math.Min(r.W, r.H)/2)
	cx := math.Max(r.X+rad, math.Min(p.X, r.X+r.W-rad))
	cy := math.Max(r.Y+rad, math.Min(p.Y, r.Y+r.H-rad))
	return dist(chart.Point{X: cx, Y: cy}, p) <= rad
}

func inSector(s chart.Sector, p chart.Point) bool {
	if s.End <= s.Start || dist(s.Center, p) > s.Radius {
		return false
	}
	a := math.Atan2(p.Y-s.Center.Y, p.X-s.Center.X)
	for a < s.Start {
		a += 2 * math.Pi
	}
	for a >= s.Start+2*math.Pi {
		a -= 2 * math.Pi
	}
	return a <= s.End
}

func dist(a, b chart.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func style(color string) lipgloss.Style {
	st := lipgloss.NewStyle()
	if hex := hexColor(color); hex != "" {
		st = st.Foreground(lipgloss.Color(hex))
	}
	return st
}

// hexColor normalizes #rgb, #rrggbb and rgb()/rgba() notation to
// #rrggbb. Alpha is dropped. Unknown notations return "".
func hexColor(c string) string {
	c = strings.TrimSpace(c)
	if strings.HasPrefix(c, "#") {
		col, err := colorful.Hex(c)
		if err != nil {
			return ""
		}
		return col.Hex()
	}
	open := strings.IndexByte(c, '(')
	if open < 0 || !strings.HasSuffix(c, ")") {
		return ""
	}
	parts := strings.Split(c[open+1:len(c)-1], ",")
	if len(parts) < 3 {
		return ""
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return ""
		}
		rgb[i] = float64(v) / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}.Hex()
}
