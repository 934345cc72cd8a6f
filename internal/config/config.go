// Package config loads the seg-clock YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Peripheral selectors.
const (
	ExpanderTCA6424 = "tca6424"
	ExpanderNone    = "none"
	ButtonsTCA6424  = "tca6424"
	ButtonsPCF8574  = "pcf8574"
	RTCPCF8523      = "pcf8523"
	RTCSystem       = "system"
	PanelNone       = "none"
)

// ErrInvalid is returned for configuration values out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the daemon configuration.
type Config struct {
	Serial Serial `yaml:"serial"`
	I2C    I2C    `yaml:"i2c"`
	Panel  Panel  `yaml:"panel"`
	Buzzer Buzzer `yaml:"buzzer"`
	MQTT   MQTT   `yaml:"mqtt"`
	HTTP   HTTP   `yaml:"http"`
	Store  Store  `yaml:"store"`
	Timing Timing `yaml:"timing"`
	Alarm  Alarm  `yaml:"alarm"`
}

// Serial selects the command console.
type Serial struct {
	Device string `yaml:"device"` // "-" for stdin/stdout
	Baud   int    `yaml:"baud"`
}

// I2C selects the bus and the devices on it.
type I2C struct {
	Bus      string `yaml:"bus"` // periph bus name, "" for the first bus
	Expander string `yaml:"expander"`
	Buttons  string `yaml:"buttons"`
	RTC      string `yaml:"rtc"`
}

// Panel is the panel button GPIO line.
type Panel struct {
	Chip string `yaml:"chip"` // "none" disables the panel button
	Line int    `yaml:"line"`
}

// Buzzer is the PWM-capable pin driving the buzzer.
type Buzzer struct {
	Pin string `yaml:"pin"` // "" disables the buzzer
}

// MQTT configures event publication.
type MQTT struct {
	Broker    string        `yaml:"broker"` // "" disables MQTT
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTP configures the status server.
type HTTP struct {
	Addr string `yaml:"addr"` // "" disables the server
}

// Store configures the persisted register block.
type Store struct {
	Path string `yaml:"path"`
}

// Timing holds the appliance time constants.
type Timing struct {
	Tick         time.Duration `yaml:"tick"`
	InterDigit   time.Duration `yaml:"inter_digit"`
	Settle       time.Duration `yaml:"settle"`
	PanelSettle  time.Duration `yaml:"panel_settle"`
	RingTimeout  time.Duration `yaml:"ring_timeout"`
	PersistEvery time.Duration `yaml:"persist_every"`
}

// Alarm holds the alarm defaults applied on a cold start.
type Alarm struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		MQTT: MQTT{Broker: "tcp://192.168.1.200:1883", Heartbeat: 15 * time.Minute},
		HTTP: HTTP{Addr: ":80"},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML file at path and fills in defaults. Unknown keys are
// an error. MQTT and HTTP stay off unless the file sets them. An empty path
// returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values.
func applyDefaults(cfg *Config) {
	if cfg.Serial.Device == "" {
		cfg.Serial.Device = "-"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}

	if cfg.I2C.Expander == "" {
		cfg.I2C.Expander = ExpanderTCA6424
	}
	if cfg.I2C.Buttons == "" {
		cfg.I2C.Buttons = ButtonsTCA6424
	}
	if cfg.I2C.RTC == "" {
		cfg.I2C.RTC = RTCSystem
	}

	if cfg.Panel.Chip == "" {
		cfg.Panel.Chip = "gpiochip0"
	}
	if cfg.Panel.Line == 0 {
		cfg.Panel.Line = 17
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "/var/lib/seg-clock/state.bin"
	}

	t := &cfg.Timing
	if t.Tick == 0 {
		t.Tick = time.Millisecond
	}
	if t.InterDigit == 0 {
		t.InterDigit = time.Millisecond
	}
	if t.Settle == 0 {
		t.Settle = 20 * time.Millisecond
	}
	if t.PanelSettle == 0 {
		t.PanelSettle = 2 * time.Millisecond
	}
	if t.RingTimeout == 0 {
		t.RingTimeout = time.Minute
	}
	if t.PersistEvery == 0 {
		t.PersistEvery = 10 * time.Second
	}
}

// Validate checks selectors and timing ranges.
func (c *Config) Validate() error {
	switch c.I2C.Expander {
	case ExpanderTCA6424, ExpanderNone:
	default:
		return fmt.Errorf("%w: i2c.expander %q", ErrInvalid, c.I2C.Expander)
	}
	switch c.I2C.Buttons {
	case ButtonsTCA6424, ButtonsPCF8574:
	default:
		return fmt.Errorf("%w: i2c.buttons %q", ErrInvalid, c.I2C.Buttons)
	}
	switch c.I2C.RTC {
	case RTCPCF8523, RTCSystem:
	default:
		return fmt.Errorf("%w: i2c.rtc %q", ErrInvalid, c.I2C.RTC)
	}
	if c.I2C.Expander == ExpanderNone && c.I2C.Buttons == ButtonsTCA6424 {
		return fmt.Errorf("%w: i2c.buttons tca6424 needs i2c.expander tca6424", ErrInvalid)
	}
	if c.Serial.Baud < 0 {
		return fmt.Errorf("%w: serial.baud %d", ErrInvalid, c.Serial.Baud)
	}
	if c.Panel.Line < 0 {
		return fmt.Errorf("%w: panel.line %d", ErrInvalid, c.Panel.Line)
	}
	if c.MQTT.Heartbeat < 0 {
		return fmt.Errorf("%w: mqtt.heartbeat %v", ErrInvalid, c.MQTT.Heartbeat)
	}

	t := c.Timing
	if t.Tick < time.Millisecond || t.Tick > 100*time.Millisecond {
		return fmt.Errorf("%w: timing.tick %v outside 1ms..100ms", ErrInvalid, t.Tick)
	}
	if t.Tick%time.Millisecond != 0 {
		return fmt.Errorf("%w: timing.tick %v is not a whole number of milliseconds", ErrInvalid, t.Tick)
	}
	for name, d := range map[string]time.Duration{
		"timing.inter_digit":   t.InterDigit,
		"timing.settle":        t.Settle,
		"timing.panel_settle":  t.PanelSettle,
		"timing.ring_timeout":  t.RingTimeout,
		"timing.persist_every": t.PersistEvery,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s %v", ErrInvalid, name, d)
		}
	}
	if t.RingTimeout < time.Second {
		return fmt.Errorf("%w: timing.ring_timeout %v below 1s", ErrInvalid, t.RingTimeout)
	}
	return nil
}
