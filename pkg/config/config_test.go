package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "1", cfg.Bus.I2C)
	assert.Equal(t, 1, cfg.ADC.Channel)
	assert.Equal(t, 15, cfg.ADC.Rate)
	assert.Equal(t, 1, cfg.ADC.Gain)
	assert.Equal(t, 2.048, cfg.ADC.VRef)
	assert.Equal(t, 32767, cfg.ADC.FullScale)
	assert.Equal(t, uint16(0x6C), cfg.Axes.X.Address)
	assert.Equal(t, uint16(0x68), cfg.Axes.Y.Address)
	assert.Equal(t, uint16(0x6A), cfg.Axes.Z.Address)
	assert.Equal(t, float64(700), cfg.Axes.X.ShuntEquivalent)
	assert.Equal(t, float64(1400), cfg.Axes.Z.Sensitivity)
	assert.Equal(t, 100*time.Millisecond, cfg.Sampling.TickPeriod)
	assert.Equal(t, 198, cfg.Sampling.TrimCount)
	assert.Equal(t, float64(50), cfg.Score.Default)
	assert.Equal(t, 2*time.Second, cfg.Score.LongPress)
	assert.Equal(t, 68, cfg.LED.Length)
	assert.Equal(t, uint8(120), cfg.LED.MaxGreen)
	assert.Equal(t, 300, cfg.LED.CelebrationFrames)
	assert.Equal(t, "GPIO25", cfg.Bell.Pin)
	assert.Empty(t, cfg.Telemetry.MQTT.Broker)
	assert.Empty(t, cfg.Telemetry.Serial.Port)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "1", cfg.Bus.I2C)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
bus:
  i2c: "/dev/i2c-3"

adc:
  rate: 60
  gain: 4
  poll_timeout: 50ms

axes:
  x:
    address: 0x6D
    shunt_equivalent: 650.5
  z:
    disabled: true

sampling:
  tick_period: 200ms

score:
  default: 80
  long_press: 3s

telemetry:
  mqtt:
    broker: "tcp://localhost:1883"
  serial:
    port: "/dev/ttyUSB0"
    baud_rate: 9600
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/i2c-3", cfg.Bus.I2C)
	assert.Equal(t, 60, cfg.ADC.Rate)
	assert.Equal(t, 4, cfg.ADC.Gain)
	assert.Equal(t, 50*time.Millisecond, cfg.ADC.PollTimeout)
	assert.Equal(t, uint16(0x6D), cfg.Axes.X.Address)
	assert.Equal(t, 650.5, cfg.Axes.X.ShuntEquivalent)
	assert.True(t, cfg.Axes.Z.Disabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Sampling.TickPeriod)
	assert.Equal(t, float64(80), cfg.Score.Default)
	assert.Equal(t, 3*time.Second, cfg.Score.LongPress)
	assert.Equal(t, "tcp://localhost:1883", cfg.Telemetry.MQTT.Broker)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Telemetry.Serial.Port)
	assert.Equal(t, 9600, cfg.Telemetry.Serial.BaudRate)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
axes:
  y:
    sensitivity: 2000
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, float64(2000), cfg.Axes.Y.Sensitivity)
	assert.Equal(t, uint16(0x68), cfg.Axes.Y.Address)
	assert.Equal(t, float64(700), cfg.Axes.Y.ShuntEquivalent)
	assert.Equal(t, float64(1400), cfg.Axes.X.Sensitivity)
	assert.Equal(t, 100*time.Millisecond, cfg.Sampling.TickPeriod)
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Bus.I2C = "2"
	cfg.Axes.Z.Disabled = true
	cfg.Score.Default = 65

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "2", loaded.Bus.I2C)
	assert.True(t, loaded.Axes.Z.Disabled)
	assert.Equal(t, float64(65), loaded.Score.Default)
	assert.Equal(t, cfg.Sampling.TickPeriod, loaded.Sampling.TickPeriod)
}

func TestAxesConfig_All(t *testing.T) {
	axes := Default().Axes.All()

	assert.Equal(t, uint16(0x6C), axes[0].Address)
	assert.Equal(t, uint16(0x68), axes[1].Address)
	assert.Equal(t, uint16(0x6A), axes[2].Address)
}
