// Package chart provides fyne widgets for the combined-force strip chart and
// an on-screen mirror of the LED strip.
package chart

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goforce/pkg/series"
)

const defaultMaxDisplayPoints = 500

// ChartWidget draws the visible part of the point log inside the window bounds.
type ChartWidget struct {
	widget.BaseWidget

	mu     sync.RWMutex
	points []series.Point
	bounds series.Bounds

	// Display buffer (reused for downsampling)
	display          []series.Point
	maxDisplayPoints int
}

// New creates a new ChartWidget instance.
func New() *ChartWidget {
	c := &ChartWidget{
		display:          make([]series.Point, 0, defaultMaxDisplayPoints),
		maxDisplayPoints: defaultMaxDisplayPoints,
		bounds:           series.Bounds{XUpper: 100, YUpper: 2},
	}
	c.ExtendBaseWidget(c)
	c.Refresh()
	return c
}

// UpdateData replaces the plotted points and bounds.
// This should be called from the UI goroutine using fyne.Do().
func (c *ChartWidget) UpdateData(points []series.Point, bounds series.Bounds) {
	c.mu.Lock()
	c.points = points
	c.bounds = bounds
	c.display = series.Downsample(c.display, Visible(points, bounds), c.maxDisplayPoints)
	c.mu.Unlock()

	c.Refresh()
}

// CreateRenderer creates the widget renderer.
func (c *ChartWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	return &chartRenderer{
		chart:   c,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
}

// Visible returns the points whose time lies inside [XLower, XUpper].
// The log is ordered by time, so the result is a subslice.
func Visible(points []series.Point, b series.Bounds) []series.Point {
	lo := 0
	for lo < len(points) && points[lo].T < b.XLower {
		lo++
	}
	hi := len(points)
	for hi > lo && points[hi-1].T > b.XUpper {
		hi--
	}
	return points[lo:hi]
}

// Project maps a point to plot coordinates. Y runs from 0 at the bottom to
// YUpper at the top.
func Project(p series.Point, b series.Bounds, x, y, w, h float32) fyne.Position {
	span := b.XUpper - b.XLower
	if span <= 0 {
		span = 1
	}
	top := b.YUpper
	if top <= 0 {
		top = 1
	}
	return fyne.NewPos(
		x+(p.T-b.XLower)/span*w,
		y+h-p.V/top*h,
	)
}
