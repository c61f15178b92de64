// Package gauge runs the sampling loop: read the axes, compute forces,
// evaluate the high score, render feedback and push the chart sample.
package gauge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itohio/goforce/pkg/adc"
	"github.com/itohio/goforce/pkg/feedback"
	"github.com/itohio/goforce/pkg/force"
	"github.com/itohio/goforce/pkg/series"
)

const (
	// DefaultTickPeriod is the sampling cadence.
	DefaultTickPeriod = 100 * time.Millisecond
	// DefaultCommandBuffer is the command queue depth.
	DefaultCommandBuffer = 16
)

var (
	// ErrStopped is returned once an Exit command has been processed.
	ErrStopped = errors.New("gauge stopped")
	// ErrCommandQueueFull is returned when Submit cannot enqueue without blocking.
	ErrCommandQueueFull = errors.New("command queue full")
)

// Reader reads one axis. *adc.Channel implements it.
type Reader interface {
	Read(ctx context.Context) (adc.Reading, error)
}

// Feedback drives the LED strip and bell. *feedback.Renderer implements it.
type Feedback interface {
	Scale(scalar float32) error
	Celebrate() error
	BellLow() error
	Last() feedback.Frame
}

// Ensure the concrete types satisfy the scheduler interfaces.
var (
	_ Reader   = (*adc.Channel)(nil)
	_ Feedback = (*feedback.Renderer)(nil)
)

// InstrumentState is everything the loop carries from tick to tick.
type InstrumentState struct {
	Readings    [force.NumAxes]adc.Reading
	Voltages    force.Voltages
	Calibration *force.Calibration
	ElapsedMs   uint64
}

// Snapshot is the per-tick output handed to views and exporters.
type Snapshot struct {
	Frame       force.ForceFrame
	Readings    [force.NumAxes]adc.Reading
	Voltages    force.Voltages
	Calibration [force.NumAxes]force.AxisCalibration
	Shunts      [force.NumAxes]float32
	State       force.State
	HighScore   float32
	Scalar      float32
	Celebrated  bool
	LED         feedback.Frame
	Bounds      series.Bounds
	Errors      [force.NumAxes]error // Read failures of this tick, nil when the axis was read
}

// AxisVolts returns the offset corrected voltage of an axis.
func (s Snapshot) AxisVolts(a force.Axis) float32 {
	return s.Voltages[a] - s.Calibration[a].Offset
}

// Options configures a Scheduler.
type Options struct {
	TickPeriod    time.Duration
	CommandBuffer int
}

// Scheduler owns the instrument state. Tick and Run must be called from a
// single goroutine; Submit, Snapshot and OnUpdate are safe from any goroutine.
type Scheduler struct {
	readers  [force.NumAxes]Reader
	feedback Feedback
	window   *series.Window
	opts     Options

	state    InstrumentState
	commands chan Command
	stopped  atomic.Bool

	mu       sync.RWMutex
	snapshot Snapshot

	callbacks []func(Snapshot)
	cbMu      sync.RWMutex
}

// New creates a scheduler. A nil reader disables its axis; the axis keeps
// voltage 0.
func New(readers [force.NumAxes]Reader, fb Feedback, window *series.Window, cal *force.Calibration, opts Options) *Scheduler {
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = DefaultTickPeriod
	}
	if opts.CommandBuffer <= 0 {
		opts.CommandBuffer = DefaultCommandBuffer
	}

	s := &Scheduler{
		readers:  readers,
		feedback: fb,
		window:   window,
		opts:     opts,
		state:    InstrumentState{Calibration: cal},
		commands: make(chan Command, opts.CommandBuffer),
	}
	s.snapshot = s.buildSnapshot(force.ForceFrame{}, force.Verdict{Score: cal.HighScore()}, [force.NumAxes]error{})
	return s
}

// Submit queues cmd for the next tick without blocking.
func (s *Scheduler) Submit(cmd Command) error {
	if s.stopped.Load() {
		return ErrStopped
	}
	select {
	case s.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("%s: %w", cmd.Kind, ErrCommandQueueFull)
	}
}

// OnUpdate registers a callback invoked after every tick.
func (s *Scheduler) OnUpdate(fn func(Snapshot)) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Snapshot returns the output of the last tick.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Window returns the chart history.
func (s *Scheduler) Window() *series.Window {
	return s.window
}

// Run ticks every TickPeriod until ctx is done or an Exit command is processed.
// A celebration blocks the tick that triggered it; ticks missed meanwhile are dropped.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				if errors.Is(err, ErrStopped) {
					return nil
				}
				return err
			}
		}
	}
}

// Tick runs one pipeline pass. Queued commands are applied first, then the
// axes are read, forces computed, the high score evaluated, feedback rendered
// and the combined force pushed to the window.
func (s *Scheduler) Tick(ctx context.Context) error {
	if s.stopped.Load() {
		return ErrStopped
	}
	if s.drainCommands() {
		s.stopped.Store(true)
		return ErrStopped
	}

	errs := s.readAxes(ctx)

	cal := s.state.Calibration
	t := s.state.ElapsedMs + uint64(s.opts.TickPeriod/time.Millisecond)
	frame := force.Compute(s.state.Voltages, cal.Axes(), t)

	verdict := force.Evaluate(frame, cal.State(), cal.HighScore())
	cal.Record(verdict)

	if verdict.Celebrate {
		if err := s.feedback.Celebrate(); err != nil {
			log.Printf("Failed to show celebration: %v", err)
		}
	} else {
		if err := s.feedback.Scale(verdict.Scalar); err != nil {
			log.Printf("Failed to show scale: %v", err)
		}
	}

	s.state.ElapsedMs = t
	s.window.Push(frame.Combined, t)

	snap := s.buildSnapshot(frame, verdict, errs)
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.cbMu.RLock()
	callbacks := make([]func(Snapshot), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.cbMu.RUnlock()

	for _, cb := range callbacks {
		cb(snap)
	}
	return nil
}

// drainCommands applies every queued command and reports whether Exit was seen.
func (s *Scheduler) drainCommands() bool {
	for {
		select {
		case cmd := <-s.commands:
			if cmd.Kind == CmdExit {
				return true
			}
			s.apply(cmd)
		default:
			return false
		}
	}
}

func (s *Scheduler) apply(cmd Command) {
	cal := s.state.Calibration
	switch cmd.Kind {
	case CmdZero:
		cal.Zero(s.state.Voltages)
		s.bellLow()
	case CmdResetOffsets:
		cal.ResetOffsets()
		s.bellLow()
	case CmdResetHighScore:
		cal.ResetHighScore()
	case CmdCalibrate:
		cal.Calibrate(s.state.Voltages)
	case CmdSetShunt:
		if err := cal.SetShunt(cmd.Axis, cmd.Value); err != nil {
			log.Printf("Failed to apply %s: %v", cmd.Kind, err)
		}
	default:
		log.Printf("Unknown command %s", cmd.Kind)
	}
}

func (s *Scheduler) bellLow() {
	if err := s.feedback.BellLow(); err != nil {
		log.Printf("Failed to set bell low: %v", err)
	}
}

// readAxes reads every enabled axis in order. A failed axis keeps its
// previous voltage.
func (s *Scheduler) readAxes(ctx context.Context) [force.NumAxes]error {
	var errs [force.NumAxes]error
	for _, a := range force.Axes {
		r := s.readers[a]
		if r == nil {
			continue
		}
		reading, err := r.Read(ctx)
		if err != nil {
			log.Printf("Failed to read axis %s, keeping %.4fV: %v", a, s.state.Voltages[a], err)
			errs[a] = err
			continue
		}
		s.state.Readings[a] = reading
		s.state.Voltages[a] = reading.Voltage
	}
	return errs
}

func (s *Scheduler) buildSnapshot(frame force.ForceFrame, v force.Verdict, errs [force.NumAxes]error) Snapshot {
	cal := s.state.Calibration
	return Snapshot{
		Frame:       frame,
		Readings:    s.state.Readings,
		Voltages:    s.state.Voltages,
		Calibration: cal.Axes(),
		Shunts:      cal.Shunts(),
		State:       cal.State(),
		HighScore:   cal.HighScore(),
		Scalar:      v.Scalar,
		Celebrated:  v.Celebrate,
		LED:         s.feedback.Last(),
		Bounds:      s.window.Bounds(),
		Errors:      errs,
	}
}
