package feedback

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Strip is an addressable LED strip that shows whole frames.
type Strip interface {
	Len() int
	Show(f Frame) error
}

// Bell is a two state digital output.
type Bell interface {
	High() error
	Low() error
}

// Options configures a Renderer.
type Options struct {
	MaxGreen          uint8
	CelebrationFrames int
	Seed              uint64 // Zero seeds from the clock
}

// DefaultOptions returns the reference gradient and celebration length.
func DefaultOptions() Options {
	return Options{
		MaxGreen:          DefaultMaxGreen,
		CelebrationFrames: DefaultCelebrationFrames,
	}
}

// Renderer drives a strip and a bell. Celebrate blocks until the whole
// sequence has been shown.
type Renderer struct {
	strip Strip
	bell  Bell
	opts  Options
	rng   *rand.Rand

	mu   sync.RWMutex
	last Frame
}

// NewRenderer creates a renderer for the given strip and bell.
func NewRenderer(strip Strip, bell Bell, opts Options) *Renderer {
	if opts.MaxGreen == 0 {
		opts.MaxGreen = DefaultMaxGreen
	}
	if opts.CelebrationFrames <= 0 {
		opts.CelebrationFrames = DefaultCelebrationFrames
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Renderer{
		strip: strip,
		bell:  bell,
		opts:  opts,
		rng:   rand.New(rand.NewPCG(seed, seed>>1|1)),
		last:  Off(strip.Len()),
	}
}

// Scale renders and shows the gradient for scalar.
func (r *Renderer) Scale(scalar float32) error {
	f := RenderScale(scalar, r.strip.Len(), r.opts.MaxGreen)
	if err := r.show(f); err != nil {
		return fmt.Errorf("show scale: %w", err)
	}
	return nil
}

// Celebrate raises the bell, shows the random frames and the closing all-off
// frame, then lowers the bell.
func (r *Renderer) Celebrate() (err error) {
	if err := r.bell.High(); err != nil {
		return fmt.Errorf("bell high: %w", err)
	}
	defer func() {
		if lerr := r.bell.Low(); lerr != nil && err == nil {
			err = fmt.Errorf("bell low: %w", lerr)
		}
	}()

	n := r.strip.Len()
	for range r.opts.CelebrationFrames {
		if err := r.show(RandomFrame(n, r.rng)); err != nil {
			return fmt.Errorf("show celebration: %w", err)
		}
	}
	if err := r.show(Off(n)); err != nil {
		return fmt.Errorf("show celebration: %w", err)
	}
	return nil
}

// BellLow forces the bell output low.
func (r *Renderer) BellLow() error {
	return r.bell.Low()
}

// Last returns a copy of the last frame shown.
func (r *Renderer) Last() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last.Clone()
}

func (r *Renderer) show(f Frame) error {
	if err := r.strip.Show(f); err != nil {
		return err
	}
	r.mu.Lock()
	r.last = f
	r.mu.Unlock()
	return nil
}
