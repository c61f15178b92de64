// Package board wires the gauge to its hardware: three converters on a shared
// I2C bus, an APA102 strip on SPI and the bell on a GPIO pin.
package board

import (
	"io"
	"log"

	"github.com/itohio/goforce/pkg/adc"
	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/feedback"
	"github.com/itohio/goforce/pkg/force"
	"github.com/itohio/goforce/pkg/gauge"
)

// Board holds the opened devices. A nil transport marks a disabled axis.
type Board struct {
	Transports [force.NumAxes]adc.Transport
	Strip      feedback.Strip
	Bell       feedback.Bell

	closers []io.Closer
}

// ADCOptions converts the converter section of the configuration.
func ADCOptions(cfg config.ADCConfig) adc.Options {
	return adc.Options{
		Config: adc.Config{
			Channel:    cfg.Channel,
			Continuous: true,
			Rate:       cfg.Rate,
			Gain:       cfg.Gain,
		},
		VRef:         cfg.VRef,
		FullScale:    int32(cfg.FullScale),
		PollTimeout:  cfg.PollTimeout,
		PollInterval: cfg.PollInterval,
	}
}

// Readers builds one channel per enabled axis. Disabled axes stay nil.
func (b *Board) Readers(opts adc.Options) ([force.NumAxes]gauge.Reader, error) {
	var readers [force.NumAxes]gauge.Reader
	for _, a := range force.Axes {
		tr := b.Transports[a]
		if tr == nil {
			continue
		}
		ch, err := adc.NewChannel(a.String(), tr, opts)
		if err != nil {
			return readers, err
		}
		readers[a] = ch
	}
	return readers, nil
}

// Close releases every opened device, last opened first.
func (b *Board) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			log.Printf("Error closing device: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	b.closers = nil
	return first
}

// OpenMock returns a board backed by simulated converters, strip and bell.
func OpenMock(cfg *config.Config) *Board {
	shares := [force.NumAxes]float64{1.0, 0.6, 0.3}
	axes := cfg.Axes.All()

	b := &Board{
		Strip: feedback.NewMockStrip(cfg.LED.Length),
		Bell:  &feedback.MockBell{},
	}
	for _, a := range force.Axes {
		if axes[a].Disabled {
			continue
		}
		m := adc.NewMock(&cfg.Mock, shares[a])
		b.Transports[a] = m
		b.closers = append(b.closers, m)
	}
	return b
}
