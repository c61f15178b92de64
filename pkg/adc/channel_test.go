package adc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itohio/goforce/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readResult struct {
	data []byte
	err  error
}

// scriptedTransport replays canned reads; once exhausted it never becomes ready.
type scriptedTransport struct {
	writes   [][]byte
	reads    []readResult
	readIdx  int
	writeErr error
}

func (s *scriptedTransport) Write(b []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.writes = append(s.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (s *scriptedTransport) Read(b []byte) (int, error) {
	if s.readIdx >= len(s.reads) {
		return 0, nil
	}
	r := s.reads[s.readIdx]
	s.readIdx++
	if r.err != nil {
		return 0, r.err
	}
	return copy(b, r.data), nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.PollTimeout = 20 * time.Millisecond
	opts.PollInterval = time.Millisecond
	return opts
}

func TestNewChannel(t *testing.T) {
	ch, err := NewChannel("x", &scriptedTransport{}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "x", ch.Name())
	assert.Equal(t, byte(0x18), ch.ConfigByte())

	_, err = NewChannel("x", nil, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Config.Gain = 16
	_, err = NewChannel("x", &scriptedTransport{}, opts)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChannel_ReadPollsUntilReady(t *testing.T) {
	tr := &scriptedTransport{
		reads: []readResult{
			{data: nil},
			{data: nil},
			{data: []byte{0x1F, 0x40}},
		},
	}
	ch, err := NewChannel("x", tr, testOptions())
	require.NoError(t, err)

	r, err := ch.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]byte{{0x18}}, tr.writes)
	assert.Equal(t, 3, tr.readIdx)
	assert.Equal(t, int32(8000), r.Raw)
	assert.InDelta(t, 0.5, r.Voltage, 1e-3)
}

func TestChannel_ReadNegative(t *testing.T) {
	tr := &scriptedTransport{reads: []readResult{{data: []byte{0x80, 0x00}}}}
	ch, err := NewChannel("y", tr, testOptions())
	require.NoError(t, err)

	r, err := ch.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(-1), r.Raw)
	assert.Less(t, r.Voltage, float32(0))
}

func TestChannel_ReadTimeout(t *testing.T) {
	tr := &scriptedTransport{}
	ch, err := NewChannel("z", tr, testOptions())
	require.NoError(t, err)

	start := time.Now()
	_, err = ch.Read(context.Background())
	assert.ErrorIs(t, err, ErrChannelTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChannel_ReadContextCancelled(t *testing.T) {
	tr := &scriptedTransport{}
	opts := testOptions()
	opts.PollTimeout = time.Minute
	ch, err := NewChannel("z", tr, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ch.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChannel_TransportErrors(t *testing.T) {
	busErr := errors.New("bus nak")

	t.Run("write", func(t *testing.T) {
		ch, err := NewChannel("x", &scriptedTransport{writeErr: busErr}, testOptions())
		require.NoError(t, err)

		_, err = ch.Read(context.Background())
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "write", te.Op)
		assert.Equal(t, "x", te.Channel)
		assert.ErrorIs(t, err, busErr)
	})

	t.Run("read", func(t *testing.T) {
		tr := &scriptedTransport{reads: []readResult{{data: nil}, {err: busErr}}}
		ch, err := NewChannel("y", tr, testOptions())
		require.NoError(t, err)

		_, err = ch.Read(context.Background())
		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "read", te.Op)
		assert.ErrorIs(t, err, busErr)
		assert.Contains(t, err.Error(), "adc y: read failed")
	})
}

func TestMock_ThroughChannel(t *testing.T) {
	cfg := &config.MockConfig{
		Bias:          0.5,
		NoiseLevel:    0,
		PeakLoad:      0.2,
		PressDuration: time.Second,
		PressPeriod:   10 * time.Second,
		PendingReads:  2,
	}
	m := NewMock(cfg, 0.5)
	now := m.startTime
	m.now = func() time.Time { return now }

	ch, err := NewChannel("x", m, testOptions())
	require.NoError(t, err)

	// Start of a press: only the bias is visible
	r, err := ch.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Voltage, 1e-3)

	// Top of the press: bias + peak * share
	now = m.startTime.Add(500 * time.Millisecond)
	r, err = ch.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.6, r.Voltage, 1e-3)

	// Between presses
	now = m.startTime.Add(5 * time.Second)
	r, err = ch.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r.Voltage, 1e-3)

	b, writes := m.LastConfig()
	assert.Equal(t, byte(0x18), b)
	assert.Equal(t, 3, writes)
}

func TestMock_NegativeLoad(t *testing.T) {
	cfg := &config.MockConfig{Bias: -0.25, PressPeriod: time.Second, PressDuration: 0}
	m := NewMock(cfg, 1)
	now := m.startTime
	m.now = func() time.Time { return now }

	ch, err := NewChannel("x", m, testOptions())
	require.NoError(t, err)

	r, err := ch.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -0.25, r.Voltage, 1e-3)
}

func TestMock_Closed(t *testing.T) {
	m := NewMock(nil, 1)
	require.NoError(t, m.Close())

	ch, err := NewChannel("x", m, testOptions())
	require.NoError(t, err)

	_, err = ch.Read(context.Background())
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}
