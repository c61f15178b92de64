package telemetry

import (
	"fmt"
	"io"

	"go.bug.st/serial"

	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/gauge"
)

// FormatLine renders t_ms,fx,fy,fz,combined,high_score terminated by a newline.
func FormatLine(s gauge.Snapshot) string {
	f := s.Frame
	return fmt.Sprintf("%d,%.2f,%.2f,%.2f,%.2f,%.2f\n",
		f.TimestampMs, f.X, f.Y, f.Z, f.Combined, s.HighScore)
}

// SerialSink writes one line per snapshot to a serial port.
type SerialSink struct {
	port io.WriteCloser
	name string
}

var _ Sink = (*SerialSink)(nil)

// NewSerialSink opens the configured serial port.
func NewSerialSink(cfg config.SerialConfig) (*SerialSink, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	return newSerialSink(port, cfg.Port), nil
}

func newSerialSink(port io.WriteCloser, name string) *SerialSink {
	return &SerialSink{port: port, name: name}
}

// Send writes the line for s.
func (s *SerialSink) Send(snap gauge.Snapshot) error {
	if _, err := io.WriteString(s.port, FormatLine(snap)); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.name, err)
	}
	return nil
}

// Close closes the port.
func (s *SerialSink) Close() error {
	return s.port.Close()
}
