package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// holdButton runs onShort on a normal click and onLong once the button was
// held for at least longPress.
type holdButton struct {
	widget.Button

	longPress time.Duration
	onShort   func()
	onLong    func()

	pressedAt time.Time
}

var _ desktop.Mouseable = (*holdButton)(nil)

func newHoldButton(label string, longPress time.Duration, onShort, onLong func()) *holdButton {
	b := &holdButton{
		longPress: longPress,
		onShort:   onShort,
		onLong:    onLong,
	}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

// MouseDown records when the press started.
func (b *holdButton) MouseDown(*desktop.MouseEvent) {
	b.pressedAt = time.Now()
}

// MouseUp dispatches on how long the button was held.
func (b *holdButton) MouseUp(*desktop.MouseEvent) {
	if b.pressedAt.IsZero() || b.Disabled() {
		return
	}
	held := time.Since(b.pressedAt)
	b.pressedAt = time.Time{}
	b.dispatch(held)
}

// Tapped handles touch input, which has no press duration.
func (b *holdButton) Tapped(e *fyne.PointEvent) {
	b.Button.Tapped(e)
	if _, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok {
		return
	}
	b.dispatch(0)
}

func (b *holdButton) dispatch(held time.Duration) {
	if isLongPress(held, b.longPress) {
		if b.onLong != nil {
			b.onLong()
		}
		return
	}
	if b.onShort != nil {
		b.onShort()
	}
}

// isLongPress reports whether a press of length held clears the high score.
func isLongPress(held, threshold time.Duration) bool {
	return held >= threshold
}
