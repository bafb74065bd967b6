package e32

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.bug.st/serial"
	"gopkg.in/yaml.v2"
)

// Config describes how the module is attached to the host.
type Config struct {
	SerialPath string   `toml:"serial_path" yaml:"serial_path"`
	BaudRate   int      `toml:"baudrate" yaml:"baudrate"`
	StopBits   int      `toml:"stop_bits" yaml:"stop_bits"`
	Parity     Parity   `toml:"parity" yaml:"parity"`
	Timeout    Duration `toml:"timeout" yaml:"timeout"`

	Pins PinsConfig `toml:"pins" yaml:"pins"`
	Log  LogConfig  `toml:"log" yaml:"log"`
}

const (
	PinsSerial = "serial" // AUX/M0/M1 on CTS/DTR/RTS
	PinsGPIO   = "gpio"   // AUX/M0/M1 on host GPIO
)

type PinsConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
	Aux     string `toml:"aux" yaml:"aux"`
	M0      string `toml:"m0" yaml:"m0"`
	M1      string `toml:"m1" yaml:"m1"`
}

type LogConfig struct {
	Level      string `toml:"level" yaml:"level"`
	File       string `toml:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
}

// Duration is a time.Duration written as "1.5s" in configuration files.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaudRate: 9600,
		StopBits: 1,
		Parity:   ParityNone,
		Timeout:  Duration(1000 * time.Second),
		Pins:     PinsConfig{Backend: PinsSerial},
		Log:      LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// LoadConfig reads a TOML file, or YAML when the extension is .yaml or .yml,
// on top of DefaultConfig and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SerialPath == "" {
		return fmt.Errorf("%w: serial_path is required", ErrInvalidConfig)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baudrate must be positive, got %d", ErrInvalidConfig, c.BaudRate)
	}
	if c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("%w: stop_bits must be 1 or 2, got %d", ErrInvalidConfig, c.StopBits)
	}
	if c.Parity > ParityEven {
		return fmt.Errorf("%w: parity %s", ErrInvalidConfig, c.Parity)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	switch c.Pins.Backend {
	case PinsSerial:
	case PinsGPIO:
		if c.Pins.Aux == "" || c.Pins.M0 == "" || c.Pins.M1 == "" {
			return fmt.Errorf("%w: pins.aux, pins.m0 and pins.m1 are required for the gpio backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown pins.backend %q", ErrInvalidConfig, c.Pins.Backend)
	}
	return nil
}

// SerialMode returns 8 data bits with the configured rate, parity and stop bits.
func (c *Config) SerialMode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch c.Parity {
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	}
	if c.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	return mode
}

func (c *Config) GPIOPins() GPIOPins {
	return GPIOPins{Aux: c.Pins.Aux, M0: c.Pins.M0, M1: c.Pins.M1}
}
