package board

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
	"periph.io/x/host/v3"

	"github.com/itohio/goforce/pkg/adc"
	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/feedback"
	"github.com/itohio/goforce/pkg/force"
)

// i2cTransport adapts an I2C device to adc.Transport.
type i2cTransport struct {
	dev *i2c.Dev
}

var _ adc.Transport = (*i2cTransport)(nil)

func (t *i2cTransport) Write(b []byte) (int, error) {
	return t.dev.Write(b)
}

// Read performs a read-only transaction. periph does not report short reads,
// so a successful transaction fills b.
func (t *i2cTransport) Read(b []byte) (int, error) {
	if err := t.dev.Tx(nil, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// apa102Strip adapts an APA102 strip to feedback.Strip.
type apa102Strip struct {
	dev    *apa102.Dev
	length int
	buf    []byte
}

var _ feedback.Strip = (*apa102Strip)(nil)

func (s *apa102Strip) Len() int {
	return s.length
}

func (s *apa102Strip) Show(f feedback.Frame) error {
	s.buf = frameRGB(s.buf, f, s.length)
	if _, err := s.dev.Write(s.buf); err != nil {
		return fmt.Errorf("apa102 write: %w", err)
	}
	return nil
}

// frameRGB packs f into raw RGB triplets, padding or cutting to length pixels.
func frameRGB(dst []byte, f feedback.Frame, length int) []byte {
	n := 3 * length
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	clear(dst)
	for i := 0; i < length && i < len(f); i++ {
		dst[3*i] = f[i].R
		dst[3*i+1] = f[i].G
		dst[3*i+2] = f[i].B
	}
	return dst
}

// stripCloser blanks the strip on close.
type stripCloser struct {
	dev *apa102.Dev
}

func (c stripCloser) Close() error {
	return c.dev.Halt()
}

// gpioBell adapts an output pin to feedback.Bell.
type gpioBell struct {
	pin gpio.PinOut
}

var _ feedback.Bell = (*gpioBell)(nil)

func (b *gpioBell) High() error {
	return b.pin.Out(gpio.High)
}

func (b *gpioBell) Low() error {
	return b.pin.Out(gpio.Low)
}

// Open initializes the host drivers and opens every configured device.
// On error, devices opened so far are closed.
func Open(cfg *config.Config) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	b := &Board{}
	if err := b.open(cfg); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Board) open(cfg *config.Config) error {
	bus, err := i2creg.Open(cfg.Bus.I2C)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %q: %w", cfg.Bus.I2C, err)
	}
	b.closers = append(b.closers, bus)
	log.Printf("Opened I2C bus %s", bus)

	axes := cfg.Axes.All()
	for _, a := range force.Axes {
		ac := axes[a]
		if ac.Disabled {
			log.Printf("Axis %s disabled", a)
			continue
		}
		b.Transports[a] = &i2cTransport{dev: &i2c.Dev{Bus: bus, Addr: ac.Address}}
		log.Printf("Axis %s on I2C address 0x%02X", a, ac.Address)
	}

	port, err := spireg.Open(cfg.LED.SPI)
	if err != nil {
		return fmt.Errorf("failed to open SPI port %q: %w", cfg.LED.SPI, err)
	}
	b.closers = append(b.closers, port)

	opts := apa102.DefaultOpts
	opts.NumPixels = cfg.LED.Length
	opts.Intensity = cfg.LED.Intensity
	strip, err := apa102.New(port, &opts)
	if err != nil {
		return fmt.Errorf("failed to open APA102 strip: %w", err)
	}
	b.closers = append(b.closers, stripCloser{dev: strip})
	b.Strip = &apa102Strip{dev: strip, length: cfg.LED.Length}
	log.Printf("LED strip with %d pixels on %s", cfg.LED.Length, port)

	pin := gpioreg.ByName(cfg.Bell.Pin)
	if pin == nil {
		return fmt.Errorf("failed to find bell pin %q", cfg.Bell.Pin)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to set bell pin %s low: %w", pin, err)
	}
	b.Bell = &gpioBell{pin: pin}
	log.Printf("Bell on %s", pin)

	return nil
}
