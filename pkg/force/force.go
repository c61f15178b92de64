// Package force turns axis voltages into calibrated forces and decides when a
// new high score is reached.
package force

import (
	"github.com/chewxy/math32"
)

// Axis identifies one load-cell axis.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// NumAxes is the number of modelled axes.
const NumAxes = 3

// Axes lists all axes in order.
var Axes = [NumAxes]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "?"
}

// Valid reports whether a names one of the modelled axes.
func (a Axis) Valid() bool {
	return a >= X && a <= Z
}

// Voltages holds one voltage per axis, indexed by Axis.
type Voltages [NumAxes]float32

// AxisCalibration is the zero offset and force-per-volt factor of one axis.
type AxisCalibration struct {
	Offset      float32 `json:"offset"`
	Sensitivity float32 `json:"sensitivity"`
}

// ForceFrame is the force derived from one tick's readings.
type ForceFrame struct {
	X           float32 `json:"fx"`
	Y           float32 `json:"fy"`
	Z           float32 `json:"fz"`
	Combined    float32 `json:"combined"`
	TimestampMs uint64  `json:"t_ms"`
}

// Axis returns the force of a single axis.
func (f ForceFrame) Axis(a Axis) float32 {
	switch a {
	case X:
		return f.X
	case Y:
		return f.Y
	case Z:
		return f.Z
	}
	return 0
}

// AxisForce returns |sensitivity * (voltage - offset)|.
func AxisForce(v float32, cal AxisCalibration) float32 {
	return math32.Abs(cal.Sensitivity * (v - cal.Offset))
}

// Compute derives per-axis and combined force. It does not clamp or filter.
func Compute(v Voltages, cal [NumAxes]AxisCalibration, timestampMs uint64) ForceFrame {
	f := ForceFrame{
		X:           AxisForce(v[X], cal[X]),
		Y:           AxisForce(v[Y], cal[Y]),
		Z:           AxisForce(v[Z], cal[Z]),
		TimestampMs: timestampMs,
	}
	f.Combined = f.X + f.Y + f.Z
	return f
}
