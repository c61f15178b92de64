package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.bug.st/serial"
)

// showSettingsDialog displays the persisted settings. Changes take effect on the next start.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createAxesTab(state),
		createScoreTab(state),
		createLEDTab(state),
		createTelemetryTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 450))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 450))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return
	}
	dialog.ShowInformation("Settings", "Saved. Restart to apply.", state.window)
}

// createAxesTab creates the per-axis start-up settings tab.
func createAxesTab(state *appState) *container.TabItem {
	axes := []*struct {
		name     string
		disabled *widget.Check
		sens     *widget.Entry
		shunt    *widget.Entry
	}{{name: "X"}, {name: "Y"}, {name: "Z"}}

	cfgAxes := state.cfg.Axes.All()
	items := make([]*widget.FormItem, 0, len(axes)*3)
	for i, a := range axes {
		a.disabled = widget.NewCheck("Disabled", nil)
		a.disabled.SetChecked(cfgAxes[i].Disabled)
		a.sens = widget.NewEntry()
		a.sens.SetText(fmt.Sprintf("%.1f", cfgAxes[i].Sensitivity))
		a.shunt = widget.NewEntry()
		a.shunt.SetText(fmt.Sprintf("%.4f", cfgAxes[i].ShuntEquivalent))
		items = append(items,
			&widget.FormItem{Text: a.name, Widget: a.disabled},
			&widget.FormItem{Text: a.name + " Sensitivity (lbf/V)", Widget: a.sens},
			&widget.FormItem{Text: a.name + " Shunt (lbf)", Widget: a.shunt},
		)
	}

	form := &widget.Form{
		Items: items,
		OnSubmit: func() {
			targets := []*struct {
				disabled *bool
				sens     *float64
				shunt    *float64
			}{
				{&state.cfg.Axes.X.Disabled, &state.cfg.Axes.X.Sensitivity, &state.cfg.Axes.X.ShuntEquivalent},
				{&state.cfg.Axes.Y.Disabled, &state.cfg.Axes.Y.Sensitivity, &state.cfg.Axes.Y.ShuntEquivalent},
				{&state.cfg.Axes.Z.Disabled, &state.cfg.Axes.Z.Sensitivity, &state.cfg.Axes.Z.ShuntEquivalent},
			}
			for i, a := range axes {
				*targets[i].disabled = a.disabled.Checked
				if v, err := strconv.ParseFloat(a.sens.Text, 64); err == nil && v > 0 {
					*targets[i].sens = v
				}
				if v, err := parseShunt(a.shunt.Text); err == nil {
					*targets[i].shunt = float64(v)
				}
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Axes", container.NewVScroll(form))
}

// createScoreTab creates the high score settings tab.
func createScoreTab(state *appState) *container.TabItem {
	defaultEntry := widget.NewEntry()
	defaultEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Score.Default))

	longPressEntry := widget.NewEntry()
	longPressEntry.SetText(state.cfg.Score.LongPress.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Default High Score (lbf)", Widget: defaultEntry},
			{Text: "Reset Hold Time", Widget: longPressEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.ParseFloat(defaultEntry.Text, 64); err == nil && v > 0 {
				state.cfg.Score.Default = v
			}
			if d, err := time.ParseDuration(longPressEntry.Text); err == nil && d > 0 {
				state.cfg.Score.LongPress = d
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Score", form)
}

// createLEDTab creates the LED strip settings tab.
func createLEDTab(state *appState) *container.TabItem {
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(strconv.Itoa(state.cfg.LED.Length))

	maxGreenEntry := widget.NewEntry()
	maxGreenEntry.SetText(strconv.Itoa(int(state.cfg.LED.MaxGreen)))

	framesEntry := widget.NewEntry()
	framesEntry.SetText(strconv.Itoa(state.cfg.LED.CelebrationFrames))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Strip Length", Widget: lengthEntry},
			{Text: "Max Green", Widget: maxGreenEntry},
			{Text: "Celebration Frames", Widget: framesEntry},
		},
		OnSubmit: func() {
			if n, err := strconv.Atoi(lengthEntry.Text); err == nil && n > 0 {
				state.cfg.LED.Length = n
			}
			if n, err := strconv.ParseUint(maxGreenEntry.Text, 10, 8); err == nil {
				state.cfg.LED.MaxGreen = uint8(n)
			}
			if n, err := strconv.Atoi(framesEntry.Text); err == nil && n >= 0 {
				state.cfg.LED.CelebrationFrames = n
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("LEDs", form)
}

// createTelemetryTab creates the MQTT and serial output tab.
func createTelemetryTab(state *appState) *container.TabItem {
	brokerEntry := widget.NewEntry()
	brokerEntry.SetPlaceHolder("tcp://localhost:1883")
	brokerEntry.SetText(state.cfg.Telemetry.MQTT.Broker)

	topicEntry := widget.NewEntry()
	topicEntry.SetText(state.cfg.Telemetry.MQTT.Topic)

	portOptions := []string{""}
	if ports, err := serial.GetPortsList(); err == nil {
		portOptions = append(portOptions, ports...)
	}
	if p := state.cfg.Telemetry.Serial.Port; p != "" && !slices.Contains(portOptions, p) {
		portOptions = append(portOptions, p)
	}
	portSelect := widget.NewSelect(portOptions, nil)
	portSelect.SetSelected(state.cfg.Telemetry.Serial.Port)

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Telemetry.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "MQTT Broker", Widget: brokerEntry},
			{Text: "MQTT Topic", Widget: topicEntry},
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			state.cfg.Telemetry.MQTT.Broker = brokerEntry.Text
			if topicEntry.Text != "" {
				state.cfg.Telemetry.MQTT.Topic = topicEntry.Text
			}
			state.cfg.Telemetry.Serial.Port = portSelect.Selected
			if n, err := strconv.Atoi(baudEntry.Text); err == nil && n > 0 {
				state.cfg.Telemetry.Serial.BaudRate = n
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Telemetry", form)
}
