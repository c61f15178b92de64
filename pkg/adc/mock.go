package adc

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/itohio/goforce/pkg/config"
)

// Mock simulates a converter wired to a load cell that is pressed periodically.
type Mock struct {
	cfg       *config.MockConfig
	share     float64
	vref      float64
	fullScale int32

	mu        sync.Mutex
	startTime time.Time
	now       func() time.Time
	pending   int
	lastWrite byte
	writes    int
	closed    bool
}

// Ensure Mock implements Transport.
var _ Transport = (*Mock)(nil)

// NewMock creates a mocked converter. share scales the simulated load so the
// three axes of a mock board do not read identical values.
func NewMock(cfg *config.MockConfig, share float64) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			Bias:          0.0,
			NoiseLevel:    0.0005,
			PeakLoad:      0.03,
			PressDuration: 1500 * time.Millisecond,
			PressPeriod:   6 * time.Second,
			PendingReads:  1,
		}
	}

	return &Mock{
		cfg:       cfg,
		share:     share,
		vref:      DefaultVRef,
		fullScale: DefaultFullScale,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Write records the configuration byte and starts a new conversion.
func (m *Mock) Write(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, fmt.Errorf("mock adc closed")
	}
	if len(b) != 1 {
		return 0, fmt.Errorf("mock adc: expected 1 config byte, got %d", len(b))
	}

	m.lastWrite = b[0]
	m.writes++
	m.pending = m.cfg.PendingReads
	return 1, nil
}

// Read returns no data while the conversion is pending, then the result.
func (m *Mock) Read(b []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, fmt.Errorf("mock adc closed")
	}
	if m.pending > 0 {
		m.pending--
		return 0, nil
	}

	code := CodeFor(m.voltage(m.now()), m.vref, m.fullScale)
	out := Encode(code)
	return copy(b, out[:]), nil
}

// Close makes subsequent transactions fail.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// LastConfig returns the last configuration byte written and the number of writes.
func (m *Mock) LastConfig() (byte, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastWrite, m.writes
}

// voltage returns the simulated input voltage at t.
func (m *Mock) voltage(t time.Time) float64 {
	elapsed := t.Sub(m.startTime)

	load := 0.0
	if m.cfg.PressPeriod > 0 && m.cfg.PressDuration > 0 {
		phase := elapsed % m.cfg.PressPeriod
		if phase < m.cfg.PressDuration {
			// Half sine press profile
			x := float64(phase) / float64(m.cfg.PressDuration)
			load = m.cfg.PeakLoad * m.share * math.Sin(math.Pi*x)
		}
	}

	noise := (math.Sin(float64(elapsed.Nanoseconds())*0.001) +
		math.Cos(float64(elapsed.Nanoseconds())*0.0013)) *
		m.cfg.NoiseLevel * 0.5

	return m.cfg.Bias + load + noise
}
