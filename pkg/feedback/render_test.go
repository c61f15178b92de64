package feedback

import (
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func px(r, g uint8) color.RGBA {
	return color.RGBA{R: r, G: g, A: 0xff}
}

func TestRenderScale_Empty(t *testing.T) {
	for _, s := range []float32{0, -0.5, math32.NaN()} {
		f := RenderScale(s, DefaultLength, DefaultMaxGreen)
		require.Len(t, f, DefaultLength)
		assert.Equal(t, 0, f.Lit(), "scalar %v", s)
	}
}

func TestRenderScale_Full(t *testing.T) {
	f := RenderScale(1, DefaultLength, DefaultMaxGreen)
	require.Len(t, f, DefaultLength)
	assert.Equal(t, DefaultLength, f.Lit())

	assert.Equal(t, px(0, 120), f[0])
	assert.Equal(t, px(255, 120), f[34])
	assert.Equal(t, px(255, 116), f[35])
	assert.Equal(t, px(255, 4), f[67])
}

func TestRenderScale_Phases(t *testing.T) {
	f := RenderScale(1, DefaultLength, DefaultMaxGreen)

	// First half: green constant, red non-decreasing
	for i := 1; i <= 34; i++ {
		assert.Equal(t, uint8(120), f[i].G, "pixel %d", i)
		assert.GreaterOrEqual(t, f[i].R, f[i-1].R, "pixel %d", i)
	}
	// Second half: red held, green non-increasing
	for i := 35; i < DefaultLength; i++ {
		assert.Equal(t, uint8(255), f[i].R, "pixel %d", i)
		assert.LessOrEqual(t, f[i].G, f[i-1].G, "pixel %d", i)
	}
	for _, p := range f {
		assert.Equal(t, uint8(0), p.B)
	}
}

func TestRenderScale_PixelCount(t *testing.T) {
	tests := []struct {
		scalar float32
		want   int
	}{
		{scalar: 0.6, want: 41},
		{scalar: 0.5, want: 34},
		{scalar: 0.01, want: 1},
		{scalar: 0.007, want: 0},
		{scalar: 2, want: DefaultLength},
	}

	for _, tt := range tests {
		f := RenderScale(tt.scalar, DefaultLength, DefaultMaxGreen)
		assert.Equal(t, tt.want, f.Lit(), "scalar %v", tt.scalar)
	}
}

func TestRenderScale_PartialKeepsOffTail(t *testing.T) {
	f := RenderScale(0.6, DefaultLength, DefaultMaxGreen)
	for i := 41; i < DefaultLength; i++ {
		assert.Equal(t, px(0, 0), f[i], "pixel %d", i)
	}
	// The partial gradient matches the full gradient pixel for pixel
	full := RenderScale(1, DefaultLength, DefaultMaxGreen)
	assert.Equal(t, full[:41], f[:41])
}

func TestRandomFrame(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	f := RandomFrame(DefaultLength, rng)
	require.Len(t, f, DefaultLength)
	for _, p := range f {
		assert.Less(t, p.R, uint8(255))
		assert.Less(t, p.G, uint8(255))
		assert.Less(t, p.B, uint8(255))
		assert.Equal(t, uint8(0xff), p.A)
	}
	assert.NotEqual(t, f, RandomFrame(DefaultLength, rng))
}

func TestCelebrationFrames(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	frames := CelebrationFrames(DefaultCelebrationFrames, DefaultLength, rng)

	require.Len(t, frames, DefaultCelebrationFrames+1)
	for _, f := range frames {
		assert.Len(t, f, DefaultLength)
	}
	assert.Equal(t, Off(DefaultLength), frames[len(frames)-1])
}

func TestFrame_Clone(t *testing.T) {
	f := RenderScale(1, 4, DefaultMaxGreen)
	c := f.Clone()
	c[0].R = 99
	assert.NotEqual(t, f[0], c[0])
}
