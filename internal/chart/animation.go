package chart

import (
	"sync"
	"time"
)

// DefaultDuration is how long bars take to grow to full height.
const DefaultDuration = 450 * time.Millisecond

// Clock supplies the animation start time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// Scheduler runs fn once on the next frame, passing the frame time.
type Scheduler interface {
	RequestFrame(fn func(time.Time))
}

// TickerScheduler fires each requested frame after a fixed interval.
type TickerScheduler struct {
	Interval time.Duration
}

// NewTickerScheduler returns a scheduler at roughly 60 frames per second.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{Interval: 16 * time.Millisecond}
}

func (s *TickerScheduler) RequestFrame(fn func(time.Time)) {
	time.AfterFunc(s.Interval, func() { fn(time.Now()) })
}

// Animation is a progress state machine. Progress is recomputed from
// the wall-clock delta on every tick and the machine is terminal once
// it reaches 1.
type Animation struct {
	start    time.Time
	duration time.Duration

	mu       sync.Mutex
	progress float64
	err      error
	done     chan struct{}
	once     sync.Once
}

// NewAnimation starts an animation at start.
func NewAnimation(start time.Time, duration time.Duration) *Animation {
	return &Animation{start: start, duration: duration, done: make(chan struct{})}
}

// Tick advances the state to now and returns the new progress. It
// reports finished once progress is 1; later ticks keep returning 1.
func (a *Animation) Tick(now time.Time) (progress float64, finished bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.progress >= 1 {
		return 1, true
	}
	if a.duration <= 0 {
		a.progress = 1
	} else {
		p := float64(now.Sub(a.start)) / float64(a.duration)
		// Progress never moves backwards, even if the clock does.
		a.progress = max(a.progress, clamp(p, 0, 1))
	}
	return a.progress, a.progress >= 1
}

// Progress returns the last computed progress.
func (a *Animation) Progress() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress
}

// Done is closed when the animation stops, at completion or on error.
func (a *Animation) Done() <-chan struct{} {
	return a.done
}

// Err returns the paint error that stopped the animation, if any.
func (a *Animation) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *Animation) finish(err error) {
	a.once.Do(func() {
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
		close(a.done)
	})
}
