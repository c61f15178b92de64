// Package series keeps the combined-force history shown on the strip chart.
package series

import (
	"slices"
	"sync"

	"github.com/chewxy/math32"
)

const (
	// DefaultWindowSeconds is the visible chart span and FIFO span.
	DefaultWindowSeconds = 2
	// DefaultTrimEverySeconds is the point log trim cadence.
	DefaultTrimEverySeconds = 200
	// DefaultTrimCount is the number of oldest points removed per trim.
	DefaultTrimCount = 198

	initialXUpper = 100
	initialYUpper = 2
)

// Point is one chart sample: seconds since start and combined force.
type Point struct {
	T float32
	V float32
}

// Bounds are the chart axis limits.
type Bounds struct {
	XLower float32
	XUpper float32
	YUpper float32
}

// Options configures a Window.
type Options struct {
	WindowSeconds    float32
	TrimEverySeconds float32
	TrimCount        int
}

// DefaultOptions returns the reference window parameters.
func DefaultOptions() Options {
	return Options{
		WindowSeconds:    DefaultWindowSeconds,
		TrimEverySeconds: DefaultTrimEverySeconds,
		TrimCount:        DefaultTrimCount,
	}
}

// Window holds an ever growing point log for the chart and a FIFO of the
// values inside the trailing window used for vertical autoscale.
//
// The point log is only trimmed when the elapsed seconds are an exact
// multiple of TrimEverySeconds, and then only by TrimCount points.
type Window struct {
	opts Options

	mu     sync.RWMutex
	points []Point
	fifo   []float32
	bounds Bounds
}

// New creates a window whose log starts with the point (0, 0).
func New(opts Options) *Window {
	if opts.WindowSeconds <= 0 {
		opts.WindowSeconds = DefaultWindowSeconds
	}
	if opts.TrimEverySeconds <= 0 {
		opts.TrimEverySeconds = DefaultTrimEverySeconds
	}
	if opts.TrimCount <= 0 {
		opts.TrimCount = DefaultTrimCount
	}

	return &Window{
		opts:   opts,
		points: []Point{{}},
		fifo:   make([]float32, 0),
		bounds: Bounds{XLower: 0, XUpper: initialXUpper, YUpper: initialYUpper},
	}
}

// Push appends v at tMs milliseconds since start.
func (w *Window) Push(v float32, tMs uint64) {
	tSec := float32(tMs) / 1000

	w.mu.Lock()
	defer w.mu.Unlock()

	w.points = append(w.points, Point{T: tSec, V: v})
	w.bounds.XUpper = tSec
	w.fifo = append(w.fifo, v)

	if tSec > w.opts.WindowSeconds {
		w.bounds.XLower = tSec - w.opts.WindowSeconds
		if math32.Mod(tSec, w.opts.TrimEverySeconds) == 0 {
			n := min(w.opts.TrimCount, len(w.points))
			w.points = slices.Delete(w.points, 0, n)
		}
		w.fifo = w.fifo[1:]
	}

	if len(w.fifo) > 0 {
		w.bounds.YUpper = slices.Max(w.fifo) + 1
	}
}

// Points returns a copy of the point log, oldest first.
func (w *Window) Points() []Point {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.points)
}

// FIFO returns a copy of the values inside the trailing window.
func (w *Window) FIFO() []float32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.fifo)
}

// Bounds returns the current axis limits.
func (w *Window) Bounds() Bounds {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.bounds
}

// Len returns the number of points in the log.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.points)
}
