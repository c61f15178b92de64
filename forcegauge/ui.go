package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goforce/pkg/chart"
	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/force"
	"github.com/itohio/goforce/pkg/gauge"
)

// shuntPattern accepts up to seven integer digits and four decimals.
var shuntPattern = regexp.MustCompile(`^\d{0,7}(\.\d{0,4})?$`)

// appState holds the window widgets and the scheduler they talk to.
type appState struct {
	cfg        *config.Config
	configPath string
	sched      *gauge.Scheduler
	window     fyne.Window

	totalLabel     *widget.Label
	highScoreLabel *widget.Label
	stateLabel     *widget.Label
	axes           [force.NumAxes]axisRow

	chartWidget *chart.ChartWidget
	leds        *chart.LEDMirror
}

// axisRow holds the widgets of one axis.
type axisRow struct {
	force       *widget.Label
	volts       *widget.Label
	sensitivity *widget.Label
	shunt       *widget.Entry
}

// buildUI creates the main window content.
func buildUI(state *appState) fyne.CanvasObject {
	state.totalLabel = widget.NewLabelWithStyle("0.00 lbf", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	state.highScoreLabel = widget.NewLabel(formatForce(float32(state.cfg.Score.Default)))
	state.stateLabel = widget.NewLabel(force.Uncalibrated.String())

	grid := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Axis", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Force", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Volts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Sensitivity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Shunt", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)

	axes := state.cfg.Axes.All()
	for _, a := range force.Axes {
		row := axisRow{
			force:       widget.NewLabel(formatForce(0)),
			volts:       widget.NewLabel(formatVolts(0)),
			sensitivity: widget.NewLabel(formatSensitivity(float32(axes[a].Sensitivity))),
			shunt:       newShuntEntry(state, a, axes[a].ShuntEquivalent),
		}
		name := a.String()
		if axes[a].Disabled {
			name += " (off)"
		}
		grid.Add(widget.NewLabel(name))
		grid.Add(row.force)
		grid.Add(row.volts)
		grid.Add(row.sensitivity)
		grid.Add(row.shunt)
		state.axes[a] = row
	}

	summary := container.NewHBox(
		widget.NewLabel("Total:"), state.totalLabel,
		widget.NewLabel("High score:"), state.highScoreLabel,
		widget.NewLabel("State:"), state.stateLabel,
	)

	state.chartWidget = chart.New()
	state.leds = chart.NewLEDMirror(state.cfg.LED.Length)

	top := container.NewVBox(createToolbar(state), summary, grid, state.leds.Container())
	return container.NewBorder(top, nil, nil, nil, state.chartWidget)
}

// createToolbar creates the command buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	zeroBtn := widget.NewButton("Zero All", func() {
		state.submit(gauge.Zero())
	})

	resetBtn := newHoldButton("Reset", state.cfg.Score.LongPress,
		func() { state.submit(gauge.ResetOffsets()) },
		func() { state.submit(gauge.ResetHighScore()) },
	)

	calibrateBtn := widget.NewButton("Calibrate", func() {
		state.submit(gauge.Calibrate())
	})

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	exitBtn := widget.NewButtonWithIcon("Exit", theme.LogoutIcon(), func() {
		state.submit(gauge.Exit())
	})

	return container.NewHBox(zeroBtn, resetBtn, calibrateBtn, settingsBtn, exitBtn)
}

// newShuntEntry creates an entry that forwards valid shunt values to the scheduler.
func newShuntEntry(state *appState, a force.Axis, initial float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(initial, 'f', -1, 64))
	e.Validator = func(s string) error {
		if !validShunt(s) {
			return fmt.Errorf("invalid shunt value %q", s)
		}
		return nil
	}
	e.OnChanged = func(s string) {
		v, err := parseShunt(s)
		if err != nil {
			return
		}
		state.submit(gauge.SetShunt(a, v))
	}
	return e
}

func (state *appState) submit(cmd gauge.Command) {
	if err := state.sched.Submit(cmd); err != nil {
		log.Printf("Failed to submit %s: %v", cmd.Kind, err)
	}
}

// onUpdate is registered on the scheduler and hands the snapshot to the UI goroutine.
func (state *appState) onUpdate(s gauge.Snapshot) {
	points := state.sched.Window().Points()
	fyne.Do(func() {
		state.render(s)
		state.chartWidget.UpdateData(points, s.Bounds)
	})
}

// render copies a snapshot into the labels. Must run on the UI goroutine.
func (state *appState) render(s gauge.Snapshot) {
	state.totalLabel.SetText(formatForce(s.Frame.Combined))
	state.highScoreLabel.SetText(formatForce(s.HighScore))
	state.stateLabel.SetText(s.State.String())
	for _, a := range force.Axes {
		row := state.axes[a]
		row.force.SetText(formatForce(s.Frame.Axis(a)))
		row.volts.SetText(formatVolts(s.AxisVolts(a)))
		row.sensitivity.SetText(formatSensitivity(s.Calibration[a].Sensitivity))
	}
	state.leds.Update(s.LED)
}

// validShunt reports whether s may be typed into a shunt field.
func validShunt(s string) bool {
	return shuntPattern.MatchString(s)
}

// parseShunt converts a shunt field to a value. Partial input such as "" or
// "." is valid to type but has no value.
func parseShunt(s string) (float32, error) {
	if !validShunt(s) {
		return 0, fmt.Errorf("invalid shunt value %q", s)
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid shunt value %q: %w", s, err)
	}
	return float32(v), nil
}

func formatForce(v float32) string {
	return fmt.Sprintf("%.2f lbf", v)
}

func formatVolts(v float32) string {
	return fmt.Sprintf("%.4f V", v)
}

func formatSensitivity(v float32) string {
	return fmt.Sprintf("%.1f lbf/V", v)
}
