package adc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPollTimeout bounds the wait for a conversion result.
	DefaultPollTimeout = 100 * time.Millisecond
	// DefaultPollInterval is the delay between empty reads.
	DefaultPollInterval = time.Millisecond
)

// ErrChannelTimeout is returned when a conversion result does not arrive in time.
var ErrChannelTimeout = errors.New("adc channel timeout")

// Transport is a byte-oriented connection to a single converter.
// Read returns the number of bytes available; zero means the conversion is not ready.
type Transport interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
}

// TransportError wraps a bus failure with the operation and channel that hit it.
type TransportError struct {
	Op      string
	Channel string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("adc %s: %s failed: %v", e.Channel, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Reading is one sign-corrected conversion and its voltage.
type Reading struct {
	Raw     int32
	Voltage float32
}

// Options configures a Channel.
type Options struct {
	Config       Config
	VRef         float64
	FullScale    int32
	PollTimeout  time.Duration
	PollInterval time.Duration
}

// DefaultOptions returns the options used by every axis of the gauge.
func DefaultOptions() Options {
	return Options{
		Config:       DefaultConfig(),
		VRef:         DefaultVRef,
		FullScale:    DefaultFullScale,
		PollTimeout:  DefaultPollTimeout,
		PollInterval: DefaultPollInterval,
	}
}

// Channel configures and reads one converter.
type Channel struct {
	name      string
	transport Transport
	config    byte
	opts      Options
}

// NewChannel validates the options and encodes the configuration byte once.
func NewChannel(name string, transport Transport, opts Options) (*Channel, error) {
	if transport == nil {
		return nil, fmt.Errorf("adc %s: nil transport", name)
	}
	b, err := opts.Config.Byte()
	if err != nil {
		return nil, fmt.Errorf("adc %s: %w", name, err)
	}
	if opts.VRef == 0 {
		opts.VRef = DefaultVRef
	}
	if opts.FullScale == 0 {
		opts.FullScale = DefaultFullScale
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	return &Channel{
		name:      name,
		transport: transport,
		config:    b,
		opts:      opts,
	}, nil
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// ConfigByte returns the encoded configuration register value.
func (c *Channel) ConfigByte() byte {
	return c.config
}

// Read writes the configuration byte and polls for a two byte result until
// the transport reports data, the poll timeout elapses or ctx is done.
func (c *Channel) Read(ctx context.Context) (Reading, error) {
	if _, err := c.transport.Write([]byte{c.config}); err != nil {
		return Reading{}, &TransportError{Op: "write", Channel: c.name, Err: err}
	}

	deadline := time.Now().Add(c.opts.PollTimeout)
	var buf [2]byte
	for {
		n, err := c.transport.Read(buf[:])
		if err != nil {
			return Reading{}, &TransportError{Op: "read", Channel: c.name, Err: err}
		}
		if n > 0 {
			break
		}
		if !time.Now().Before(deadline) {
			return Reading{}, fmt.Errorf("adc %s: %w after %v", c.name, ErrChannelTimeout, c.opts.PollTimeout)
		}

		select {
		case <-ctx.Done():
			return Reading{}, ctx.Err()
		case <-time.After(c.opts.PollInterval):
		}
	}

	raw := Decode(buf)
	return Reading{
		Raw:     raw,
		Voltage: Voltage(raw, c.opts.VRef, c.opts.FullScale),
	}, nil
}
