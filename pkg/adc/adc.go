// Package adc talks to the delta-sigma converters behind each load-cell axis.
//
// A conversion is started by writing one configuration byte and collected by
// polling a two byte big-endian result.
package adc

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Configuration register bits, MSB first: [ready:1][channel:2][mode:1][rate:2][gain:2].
const (
	bitNewConversion = 0x80
	bitContinuous    = 0x10
	shiftChannel     = 5
	shiftRate        = 2
)

const (
	// DefaultVRef is the converter full-scale reference in volts.
	DefaultVRef = 2.048
	// DefaultFullScale is the code at full positive scale.
	DefaultFullScale = 32767
)

// ErrInvalidConfig is returned when a configuration field has no register encoding.
var ErrInvalidConfig = errors.New("invalid adc configuration")

var rateCodes = map[int]byte{
	240: 0x00,
	60:  0x01,
	15:  0x02,
	3:   0x03,
}

var gainCodes = map[int]byte{
	1: 0x00,
	2: 0x01,
	4: 0x02,
	8: 0x03,
}

// Config is the sample configuration written before every conversion.
type Config struct {
	Channel       int  // Input selector 1..4
	Continuous    bool // Continuous conversion mode
	Rate          int  // Samples per second: 240, 60, 15 or 3
	Gain          int  // PGA gain: 1, 2, 4 or 8
	NewConversion bool // Request a one-shot conversion
}

// DefaultConfig returns channel 1, continuous, 15 SPS (16 bit), gain x1.
func DefaultConfig() Config {
	return Config{
		Channel:    1,
		Continuous: true,
		Rate:       15,
		Gain:       1,
	}
}

// Byte encodes the configuration register value.
func (c Config) Byte() (byte, error) {
	if c.Channel < 1 || c.Channel > 4 {
		return 0, fmt.Errorf("%w: channel %d", ErrInvalidConfig, c.Channel)
	}
	rate, ok := rateCodes[c.Rate]
	if !ok {
		return 0, fmt.Errorf("%w: rate %d", ErrInvalidConfig, c.Rate)
	}
	gain, ok := gainCodes[c.Gain]
	if !ok {
		return 0, fmt.Errorf("%w: gain %d", ErrInvalidConfig, c.Gain)
	}

	b := byte(c.Channel-1)<<shiftChannel | rate<<shiftRate | gain
	if c.Continuous {
		b |= bitContinuous
	}
	if c.NewConversion {
		b |= bitNewConversion
	}
	return b, nil
}

// Decode assembles a big-endian result and applies the fold-over sign rule:
// codes above 32767 become -(code - 32767). This is not two's complement.
func Decode(b [2]byte) int32 {
	raw := int32(b[0])<<8 | int32(b[1])
	if raw > DefaultFullScale {
		raw = -(raw - DefaultFullScale)
	}
	return raw
}

// Encode is the inverse of Decode for codes in [-32768, 32767].
func Encode(code int32) [2]byte {
	raw := code
	if raw < 0 {
		raw = DefaultFullScale - raw
	}
	return [2]byte{byte(raw >> 8), byte(raw)}
}

// Voltage converts a code to volts. The ratio is computed in float32 and
// scaled by the reference in float64, then narrowed.
func Voltage(code int32, vref float64, fullScale int32) float32 {
	if fullScale == 0 {
		return 0
	}
	ratio := float32(code) / float32(fullScale)
	return float32(float64(ratio) * vref)
}

// CodeFor returns the code closest to v volts, clamped to the decodable range.
func CodeFor(v float64, vref float64, fullScale int32) int32 {
	if vref == 0 {
		return 0
	}
	code := int32(math32.Round(float32(v / vref * float64(fullScale))))
	if code > fullScale {
		code = fullScale
	}
	if code < -fullScale-1 {
		code = -fullScale - 1
	}
	return code
}
