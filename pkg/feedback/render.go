// Package feedback renders LED strip frames and drives the bell.
package feedback

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	// DefaultLength is the number of pixels on the strip.
	DefaultLength = 68
	// DefaultMaxGreen is the green level at the low end of the scale.
	DefaultMaxGreen = 120
	// DefaultCelebrationFrames is the number of random frames in a celebration.
	DefaultCelebrationFrames = 300
)

// Frame is a full strip of pixels.
type Frame []color.RGBA

// Clone returns a copy of f.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Lit returns the number of pixels that are not off.
func (f Frame) Lit() int {
	n := 0
	for _, p := range f {
		if p.R != 0 || p.G != 0 || p.B != 0 {
			n++
		}
	}
	return n
}

// Off returns an all-off frame.
func Off(length int) Frame {
	f := make(Frame, length)
	for i := range f {
		f[i].A = 0xff
	}
	return f
}

// roundHalfUp32 rounds like floor(x + 0.5) in float32. Callers convert the
// argument explicitly so products are rounded before the addition.
func roundHalfUp32(x float32) int {
	return int(math32.Floor(x + 0.5))
}

// roundHalfUp64 rounds like floor(x + 0.5) in float64.
func roundHalfUp64(x float64) int {
	return int(math.Floor(x + 0.5))
}

// RenderScale lights round(length*scalar) pixels with a two phase gradient.
// Red and green carry over from pixel to pixel: the first half ramps red up
// at constant green, the second half ramps green down at the last red.
func RenderScale(scalar float32, length int, maxGreen uint8) Frame {
	f := Off(length)
	if math32.IsNaN(scalar) {
		return f
	}

	n := roundHalfUp32(float32(float32(length) * scalar))
	if n > length {
		n = length
	}

	red := 0
	green := int(maxGreen)
	for i := 0; i < n; i++ {
		perc := float32(i) / float32(length)
		if perc <= 0.5 {
			red = roundHalfUp32(float32(2 * perc * 255))
		} else {
			green = roundHalfUp64(float64((1 - 2*(float64(perc)-0.5)) * float64(maxGreen)))
		}
		f[i] = color.RGBA{R: uint8(red), G: uint8(green), A: 0xff}
	}
	return f
}

// RandomFrame assigns every pixel an independent random color with channels in [0, 255).
func RandomFrame(length int, rng *rand.Rand) Frame {
	f := make(Frame, length)
	for i := range f {
		f[i] = color.RGBA{
			R: uint8(rng.IntN(255)),
			G: uint8(rng.IntN(255)),
			B: uint8(rng.IntN(255)),
			A: 0xff,
		}
	}
	return f
}

// CelebrationFrames returns count random frames followed by one all-off frame.
func CelebrationFrames(count, length int, rng *rand.Rand) []Frame {
	frames := make([]Frame, 0, count+1)
	for range count {
		frames = append(frames, RandomFrame(length, rng))
	}
	return append(frames, Off(length))
}
