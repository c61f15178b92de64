package force

import "fmt"

// State is the calibration state derived from the zeroed and calibrated flags.
type State int

const (
	Uncalibrated State = iota
	Zeroed
	Calibrated
)

func (s State) String() string {
	switch s {
	case Uncalibrated:
		return "uncalibrated"
	case Zeroed:
		return "zeroed"
	case Calibrated:
		return "calibrated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultHighScore is the high score restored by Zero.
const DefaultHighScore = 50

// Calibration owns per-axis offsets and sensitivities, the shunt equivalents
// used to derive sensitivities, and the high score.
//
// Zeroed and calibrated are tracked independently. Calibrate may run before
// Zero; the state only reports Calibrated once both have happened.
//
// Calibration is not safe for concurrent use.
type Calibration struct {
	axes         [NumAxes]AxisCalibration
	shunt        [NumAxes]float32
	zeroed       bool
	calibrated   bool
	highScore    float32
	defaultScore float32
}

// NewCalibration returns an uncalibrated state with the given start-up
// sensitivities and shunt equivalents. The high score starts at defaultScore.
func NewCalibration(sensitivity, shunt [NumAxes]float32, defaultScore float32) *Calibration {
	c := &Calibration{
		shunt:        shunt,
		highScore:    defaultScore,
		defaultScore: defaultScore,
	}
	for i := range c.axes {
		c.axes[i].Sensitivity = sensitivity[i]
	}
	return c
}

// Zero captures v as the new offsets and restores the default high score.
func (c *Calibration) Zero(v Voltages) {
	for i := range c.axes {
		c.axes[i].Offset = v[i]
	}
	c.highScore = c.defaultScore
	c.zeroed = true
}

// ResetOffsets clears all offsets and the zeroed flag.
func (c *Calibration) ResetOffsets() {
	for i := range c.axes {
		c.axes[i].Offset = 0
	}
	c.zeroed = false
}

// Calibrate sets sensitivity = shunt / v for each axis, or 0 where v is 0.
// The raw voltage is used, not the offset corrected one.
func (c *Calibration) Calibrate(v Voltages) {
	for i := range c.axes {
		if v[i] != 0 {
			c.axes[i].Sensitivity = c.shunt[i] / v[i]
		} else {
			c.axes[i].Sensitivity = 0
		}
	}
	c.calibrated = true
}

// ResetHighScore sets the high score to 0 without touching the state.
func (c *Calibration) ResetHighScore() {
	c.highScore = 0
}

// SetShunt replaces the shunt equivalent of one axis.
func (c *Calibration) SetShunt(a Axis, value float32) error {
	if !a.Valid() {
		return fmt.Errorf("invalid axis %d", int(a))
	}
	c.shunt[a] = value
	return nil
}

// Record stores the score of a verdict.
func (c *Calibration) Record(v Verdict) {
	c.highScore = v.Score
}

// State reports Calibrated when both zeroed and calibrated, Zeroed when only
// zeroed, Uncalibrated otherwise.
func (c *Calibration) State() State {
	switch {
	case c.zeroed && c.calibrated:
		return Calibrated
	case c.zeroed:
		return Zeroed
	}
	return Uncalibrated
}

// IsZeroed reports whether Zero has happened since the last ResetOffsets.
func (c *Calibration) IsZeroed() bool {
	return c.zeroed
}

// IsCalibrated reports whether Calibrate has ever run.
func (c *Calibration) IsCalibrated() bool {
	return c.calibrated
}

// HighScore returns the current high score.
func (c *Calibration) HighScore() float32 {
	return c.highScore
}

// Axes returns a copy of the per-axis calibration.
func (c *Calibration) Axes() [NumAxes]AxisCalibration {
	return c.axes
}

// Shunts returns a copy of the shunt equivalents.
func (c *Calibration) Shunts() [NumAxes]float32 {
	return c.shunt
}
