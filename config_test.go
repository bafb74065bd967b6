package e32

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.bug.st/serial"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "module.toml", `
serial_path = "/dev/ttyUSB0"
baudrate = 9600
stop_bits = 2
parity = "Even"
timeout = "5s"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SerialPath != "/dev/ttyUSB0" || cfg.BaudRate != 9600 || cfg.StopBits != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Parity != ParityEven {
		t.Errorf("parity %s, want even", cfg.Parity)
	}
	if time.Duration(cfg.Timeout) != 5*time.Second {
		t.Errorf("timeout %v, want 5s", time.Duration(cfg.Timeout))
	}
	if cfg.Pins.Backend != PinsSerial {
		t.Errorf("default backend %q", cfg.Pins.Backend)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 3 {
		t.Errorf("log config %+v", cfg.Log)
	}

	mode := cfg.SerialMode()
	want := serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.EvenParity, StopBits: serial.TwoStopBits}
	if *mode != want {
		t.Errorf("serial mode %+v, want %+v", *mode, want)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "module.yaml", `
serial_path: /dev/ttyAMA0
baudrate: 115200
stop_bits: 1
parity: none
pins:
  backend: gpio
  aux: GPIO23
  m0: GPIO17
  m1: GPIO27
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BaudRate != 115200 || cfg.Parity != ParityNone {
		t.Errorf("unexpected config %+v", cfg)
	}
	if got := cfg.GPIOPins(); got != (GPIOPins{Aux: "GPIO23", M0: "GPIO17", M1: "GPIO27"}) {
		t.Errorf("pins %+v", got)
	}
	if time.Duration(cfg.Timeout) != 1000*time.Second {
		t.Errorf("default timeout %v", time.Duration(cfg.Timeout))
	}
	if mode := cfg.SerialMode(); mode.StopBits != serial.OneStopBit || mode.Parity != serial.NoParity {
		t.Errorf("serial mode %+v", *mode)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"stop bits", "serial_path = \"/dev/ttyUSB0\"\nstop_bits = 3\n"},
		{"zero stop bits", "serial_path = \"/dev/ttyUSB0\"\nstop_bits = 0\n"},
		{"missing path", "baudrate = 9600\n"},
		{"baudrate", "serial_path = \"/dev/ttyUSB0\"\nbaudrate = -1\n"},
		{"backend", "serial_path = \"/dev/ttyUSB0\"\n[pins]\nbackend = \"spi\"\n"},
		{"gpio pins", "serial_path = \"/dev/ttyUSB0\"\n[pins]\nbackend = \"gpio\"\naux = \"GPIO23\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "module.toml", tt.content))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigParseErrors(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "module.toml", "parity = \"mark\"\n")); err == nil {
		t.Error("unknown parity should fail")
	}
	if _, err := LoadConfig(writeConfig(t, "module.toml", "timeout = \"soon\"\n")); err == nil {
		t.Error("bad duration should fail")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := LoadConfig("e32.example.toml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SerialPath != "/dev/ttyUSB0" || cfg.Pins.Backend != PinsSerial {
		t.Errorf("unexpected config %+v", cfg)
	}
}
