package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Bus       BusConfig       `yaml:"bus"`
	ADC       ADCConfig       `yaml:"adc"`
	Axes      AxesConfig      `yaml:"axes"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Score     ScoreConfig     `yaml:"score"`
	LED       LEDConfig       `yaml:"led"`
	Bell      BellConfig      `yaml:"bell"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Mock      MockConfig      `yaml:"mock"`
}

// BusConfig names the I2C bus shared by the three ADCs.
type BusConfig struct {
	I2C string `yaml:"i2c"`
}

// ADCConfig contains the converter setup common to all axes.
type ADCConfig struct {
	Channel      int           `yaml:"channel"`       // Input channel 1..4
	Rate         int           `yaml:"rate"`          // Samples per second: 240, 60, 15 or 3
	Gain         int           `yaml:"gain"`          // PGA gain: 1, 2, 4 or 8
	VRef         float64       `yaml:"vref"`          // Reference voltage (V)
	FullScale    int           `yaml:"full_scale"`    // Code at full positive scale
	PollTimeout  time.Duration `yaml:"poll_timeout"`  // Give up waiting for a conversion after this long
	PollInterval time.Duration `yaml:"poll_interval"` // Delay between empty reads
}

// AxisConfig describes one load-cell axis.
type AxisConfig struct {
	Address         uint16  `yaml:"address"`
	Disabled        bool    `yaml:"disabled"`
	ShuntEquivalent float64 `yaml:"shunt_equivalent"` // Force represented by the calibration shunt
	Sensitivity     float64 `yaml:"sensitivity"`      // Start-up force per volt
}

// AxesConfig groups the X, Y and Z axes.
type AxesConfig struct {
	X AxisConfig `yaml:"x"`
	Y AxisConfig `yaml:"y"`
	Z AxisConfig `yaml:"z"`
}

// All returns the axes in X, Y, Z order.
func (a AxesConfig) All() [3]AxisConfig {
	return [3]AxisConfig{a.X, a.Y, a.Z}
}

// SamplingConfig contains the tick cadence and chart window parameters.
type SamplingConfig struct {
	TickPeriod       time.Duration `yaml:"tick_period"`
	WindowSeconds    float64       `yaml:"window_seconds"`     // Visible chart span
	TrimEverySeconds float64       `yaml:"trim_every_seconds"` // Point log trim cadence
	TrimCount        int           `yaml:"trim_count"`         // Oldest points removed per trim
}

// ScoreConfig contains high-score parameters.
type ScoreConfig struct {
	Default   float64       `yaml:"default"`
	LongPress time.Duration `yaml:"long_press"` // Reset hold time that clears the high score
}

// LEDConfig contains LED strip parameters.
type LEDConfig struct {
	SPI               string `yaml:"spi"`
	Length            int    `yaml:"length"`
	MaxGreen          uint8  `yaml:"max_green"`
	CelebrationFrames int    `yaml:"celebration_frames"`
	Intensity         uint8  `yaml:"intensity"`
}

// BellConfig contains the bell output pin.
type BellConfig struct {
	Pin string `yaml:"pin"`
}

// TelemetryConfig contains remote output configuration.
type TelemetryConfig struct {
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Serial SerialConfig `yaml:"serial"`
}

// MQTTConfig contains MQTT publisher configuration. Empty broker disables it.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

// SerialConfig contains serial line output configuration. Empty port disables it.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MockConfig contains mock board configuration.
type MockConfig struct {
	Bias          float64       `yaml:"bias"`           // Bias voltage (V)
	NoiseLevel    float64       `yaml:"noise_level"`    // Noise level (V)
	PeakLoad      float64       `yaml:"peak_load"`      // Voltage at the top of a simulated press
	PressDuration time.Duration `yaml:"press_duration"` // How long a press lasts
	PressPeriod   time.Duration `yaml:"press_period"`   // Time between presses
	PendingReads  int           `yaml:"pending_reads"`  // Empty reads before a conversion is ready
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			I2C: "1",
		},
		ADC: ADCConfig{
			Channel:      1,
			Rate:         15,
			Gain:         1,
			VRef:         2.048,
			FullScale:    32767,
			PollTimeout:  100 * time.Millisecond,
			PollInterval: time.Millisecond,
		},
		Axes: AxesConfig{
			X: AxisConfig{Address: 0x6C, ShuntEquivalent: 700, Sensitivity: 1400},
			Y: AxisConfig{Address: 0x68, ShuntEquivalent: 700, Sensitivity: 1400},
			Z: AxisConfig{Address: 0x6A, ShuntEquivalent: 700, Sensitivity: 1400},
		},
		Sampling: SamplingConfig{
			TickPeriod:       100 * time.Millisecond,
			WindowSeconds:    2,
			TrimEverySeconds: 200,
			TrimCount:        198,
		},
		Score: ScoreConfig{
			Default:   50,
			LongPress: 2 * time.Second,
		},
		LED: LEDConfig{
			SPI:               "",
			Length:            68,
			MaxGreen:          120,
			CelebrationFrames: 300,
			Intensity:         255,
		},
		Bell: BellConfig{
			Pin: "GPIO25",
		},
		Telemetry: TelemetryConfig{
			MQTT: MQTTConfig{
				ClientID: "goforce",
				Topic:    "goforce/force",
			},
			Serial: SerialConfig{
				BaudRate: 115200,
			},
		},
		Mock: MockConfig{
			Bias:          0.0,
			NoiseLevel:    0.0005,
			PeakLoad:      0.03,
			PressDuration: 1500 * time.Millisecond,
			PressPeriod:   6 * time.Second,
			PendingReads:  1,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Bus.I2C == "" {
		c.Bus.I2C = def.Bus.I2C
	}

	if c.ADC.Channel == 0 {
		c.ADC.Channel = def.ADC.Channel
	}
	if c.ADC.Rate == 0 {
		c.ADC.Rate = def.ADC.Rate
	}
	if c.ADC.Gain == 0 {
		c.ADC.Gain = def.ADC.Gain
	}
	if c.ADC.VRef == 0 {
		c.ADC.VRef = def.ADC.VRef
	}
	if c.ADC.FullScale == 0 {
		c.ADC.FullScale = def.ADC.FullScale
	}
	if c.ADC.PollTimeout == 0 {
		c.ADC.PollTimeout = def.ADC.PollTimeout
	}
	if c.ADC.PollInterval == 0 {
		c.ADC.PollInterval = def.ADC.PollInterval
	}

	axes := []*AxisConfig{&c.Axes.X, &c.Axes.Y, &c.Axes.Z}
	defs := def.Axes.All()
	for i, a := range axes {
		if a.Address == 0 {
			a.Address = defs[i].Address
		}
		if a.ShuntEquivalent == 0 {
			a.ShuntEquivalent = defs[i].ShuntEquivalent
		}
		if a.Sensitivity == 0 {
			a.Sensitivity = defs[i].Sensitivity
		}
	}

	if c.Sampling.TickPeriod == 0 {
		c.Sampling.TickPeriod = def.Sampling.TickPeriod
	}
	if c.Sampling.WindowSeconds == 0 {
		c.Sampling.WindowSeconds = def.Sampling.WindowSeconds
	}
	if c.Sampling.TrimEverySeconds == 0 {
		c.Sampling.TrimEverySeconds = def.Sampling.TrimEverySeconds
	}
	if c.Sampling.TrimCount == 0 {
		c.Sampling.TrimCount = def.Sampling.TrimCount
	}

	if c.Score.Default == 0 {
		c.Score.Default = def.Score.Default
	}
	if c.Score.LongPress == 0 {
		c.Score.LongPress = def.Score.LongPress
	}

	if c.LED.Length == 0 {
		c.LED.Length = def.LED.Length
	}
	if c.LED.MaxGreen == 0 {
		c.LED.MaxGreen = def.LED.MaxGreen
	}
	if c.LED.CelebrationFrames == 0 {
		c.LED.CelebrationFrames = def.LED.CelebrationFrames
	}
	if c.LED.Intensity == 0 {
		c.LED.Intensity = def.LED.Intensity
	}

	if c.Bell.Pin == "" {
		c.Bell.Pin = def.Bell.Pin
	}

	if c.Telemetry.MQTT.ClientID == "" {
		c.Telemetry.MQTT.ClientID = def.Telemetry.MQTT.ClientID
	}
	if c.Telemetry.MQTT.Topic == "" {
		c.Telemetry.MQTT.Topic = def.Telemetry.MQTT.Topic
	}
	if c.Telemetry.Serial.BaudRate == 0 {
		c.Telemetry.Serial.BaudRate = def.Telemetry.Serial.BaudRate
	}

	if c.Mock.PressDuration == 0 {
		c.Mock.PressDuration = def.Mock.PressDuration
	}
	if c.Mock.PressPeriod == 0 {
		c.Mock.PressPeriod = def.Mock.PressPeriod
	}
	if c.Mock.PeakLoad == 0 {
		c.Mock.PeakLoad = def.Mock.PeakLoad
	}
}
