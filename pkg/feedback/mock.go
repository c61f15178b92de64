package feedback

import "sync"

// MockStrip records shown frames.
type MockStrip struct {
	mu     sync.Mutex
	length int
	shows  int
	last   Frame
	Err    error
}

// Ensure MockStrip implements Strip.
var _ Strip = (*MockStrip)(nil)

// NewMockStrip creates a mock strip of the given length.
func NewMockStrip(length int) *MockStrip {
	return &MockStrip{length: length, last: Off(length)}
}

// Len returns the strip length.
func (m *MockStrip) Len() int {
	return m.length
}

// Show records f.
func (m *MockStrip) Show(f Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.shows++
	m.last = f.Clone()
	return nil
}

// Shows returns the number of frames shown.
func (m *MockStrip) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

// Last returns a copy of the last frame shown.
func (m *MockStrip) Last() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last.Clone()
}

// MockBell records level transitions.
type MockBell struct {
	mu     sync.Mutex
	levels []bool
}

// Ensure MockBell implements Bell.
var _ Bell = (*MockBell)(nil)

// High records a high level.
func (m *MockBell) High() error {
	m.set(true)
	return nil
}

// Low records a low level.
func (m *MockBell) Low() error {
	m.set(false)
	return nil
}

func (m *MockBell) set(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = append(m.levels, on)
}

// Levels returns every level written, oldest first.
func (m *MockBell) Levels() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(m.levels))
	copy(out, m.levels)
	return out
}

// On reports the current level.
func (m *MockBell) On() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.levels) > 0 && m.levels[len(m.levels)-1]
}
