package chart

import (
	"context"
	"fmt"
	"sync"
	"time"

	applog "bilancio/internal/log"
)

// BarRenderer draws animated bar charts onto surfaces.
type BarRenderer struct {
	Scheduler Scheduler
	Clock     Clock
	Duration  time.Duration

	mu      sync.Mutex
	logical map[Surface]Size
}

// NewBarRenderer returns a renderer driven by a ticker and the wall clock.
func NewBarRenderer() *BarRenderer {
	return &BarRenderer{
		Scheduler: NewTickerScheduler(),
		Clock:     SystemClock,
		Duration:  DefaultDuration,
	}
}

// LogicalSize returns the size recorded for s on its first render.
func (r *BarRenderer) LogicalSize(s Surface) (Size, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	size, ok := r.logical[s]
	return size, ok
}

// prepare records the logical size once per surface and scales the
// backing store to the device pixel ratio. Later renders reuse the
// recorded size so the ratio is never applied twice.
func (r *BarRenderer) prepare(s Surface) (Size, float64) {
	r.mu.Lock()
	if r.logical == nil {
		r.logical = make(map[Surface]Size)
	}
	size, ok := r.logical[s]
	if !ok {
		size = s.Size()
		r.logical[s] = size
	}
	r.mu.Unlock()

	ratio := s.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	s.Resize(size.Scale(ratio), size)
	return size, ratio
}

// Render starts a growth animation of entries on s. The first frame is
// painted before Render returns; the rest follow on scheduler frames
// until progress reaches 1. A new Render on the same surface starts an
// independent animation and does not cancel the old one.
func (r *BarRenderer) Render(ctx context.Context, s Surface, entries []BarEntry) (*Animation, error) {
	size, ratio := r.prepare(s)
	layout := LayoutBars(entries, size)

	clock := r.Clock
	if clock == nil {
		clock = SystemClock
	}
	anim := NewAnimation(clock.Now(), r.Duration)

	paint := func(progress float64) error {
		f := layout.Frame(progress)
		f.Scale = ratio
		return s.Paint(f)
	}

	if err := paint(0); err != nil {
		err = fmt.Errorf("paint bar chart: %w", err)
		anim.finish(err)
		return anim, err
	}

	var step func(time.Time)
	step = func(now time.Time) {
		progress, finished := anim.Tick(now)
		if err := paint(progress); err != nil {
			applog.LogError(ctx, "Bar chart frame failed", err,
				applog.ComponentChart, applog.OpRender, nil)
			anim.finish(err)
			return
		}
		if finished {
			anim.finish(nil)
			return
		}
		r.Scheduler.RequestFrame(step)
	}
	r.Scheduler.RequestFrame(step)

	return anim, nil
}
