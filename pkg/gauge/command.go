package gauge

import (
	"fmt"

	"github.com/itohio/goforce/pkg/force"
)

// CommandKind identifies an operator action.
type CommandKind int

const (
	CmdZero CommandKind = iota
	CmdResetOffsets
	CmdResetHighScore
	CmdCalibrate
	CmdSetShunt
	CmdExit
)

func (k CommandKind) String() string {
	switch k {
	case CmdZero:
		return "zero"
	case CmdResetOffsets:
		return "reset-offsets"
	case CmdResetHighScore:
		return "reset-high-score"
	case CmdCalibrate:
		return "calibrate"
	case CmdSetShunt:
		return "set-shunt"
	case CmdExit:
		return "exit"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is an operator action queued for the next tick.
// Axis and Value are only used by CmdSetShunt.
type Command struct {
	Kind  CommandKind
	Axis  force.Axis
	Value float32
}

// Zero captures the current voltages as offsets.
func Zero() Command { return Command{Kind: CmdZero} }

// ResetOffsets clears the offsets.
func ResetOffsets() Command { return Command{Kind: CmdResetOffsets} }

// ResetHighScore sets the high score to 0.
func ResetHighScore() Command { return Command{Kind: CmdResetHighScore} }

// Calibrate derives sensitivities from the current voltages.
func Calibrate() Command { return Command{Kind: CmdCalibrate} }

// SetShunt replaces the shunt equivalent of one axis.
func SetShunt(a force.Axis, value float32) Command {
	return Command{Kind: CmdSetShunt, Axis: a, Value: value}
}

// Exit stops the scheduler.
func Exit() Command { return Command{Kind: CmdExit} }
