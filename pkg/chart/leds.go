package chart

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"github.com/itohio/goforce/pkg/feedback"
)

// LEDMirror shows the last frame sent to the LED strip as a row of swatches.
type LEDMirror struct {
	pixels    []*canvas.Rectangle
	container *fyne.Container
}

// NewLEDMirror creates a mirror for a strip of length pixels.
func NewLEDMirror(length int) *LEDMirror {
	m := &LEDMirror{pixels: make([]*canvas.Rectangle, length)}
	objects := make([]fyne.CanvasObject, length)
	for i := range m.pixels {
		r := canvas.NewRectangle(color.Black)
		r.SetMinSize(fyne.NewSize(8, 16))
		m.pixels[i] = r
		objects[i] = r
	}
	m.container = container.New(layout.NewGridLayoutWithColumns(max(length, 1)), objects...)
	return m
}

// Container returns the canvas object to place in a layout.
func (m *LEDMirror) Container() *fyne.Container {
	return m.container
}

// Update paints f. Must be called from the UI goroutine.
func (m *LEDMirror) Update(f feedback.Frame) {
	for i, r := range m.pixels {
		c := color.RGBA{A: 255}
		if i < len(f) {
			c = f[i]
			c.A = 255
		}
		if r.FillColor != c {
			r.FillColor = c
			r.Refresh()
		}
	}
}
