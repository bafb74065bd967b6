package main

import (
	"io"
	"os"
	"time"

	"github.com/gentam/e32"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type session struct {
	port *e32.Port
	drv  *e32.Driver
	log  zerolog.Logger
}

func (s *session) Close() {
	if err := s.port.Close(); err != nil {
		s.log.Warn().Err(err).Msg("failed to close port")
	}
}

func newLogger(cfg e32.LogConfig) zerolog.Logger {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if cfg.File != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// openSession loads the configuration, opens the port once and hands its
// adapters to the driver.
func openSession() *session {
	cfg, err := e32.LoadConfig(configPath)
	if err != nil {
		fatalf("failed to get config: %v", err)
	}
	log := newLogger(cfg.Log)

	port, err := e32.Open(cfg.SerialPath, cfg.SerialMode(), time.Duration(cfg.Timeout))
	if err != nil {
		fatalf("%v", err)
	}
	log.Debug().Str("device", cfg.SerialPath).Int("baudrate", cfg.BaudRate).Msg("port open")

	hw := port.Hardware()
	if cfg.Pins.Backend == e32.PinsGPIO {
		aux, m0, m1, err := e32.OpenGPIO(cfg.GPIOPins())
		if err != nil {
			port.Close()
			fatalf("failed to set up GPIO pins: %v", err)
		}
		hw.Aux, hw.M0, hw.M1 = aux, m0, m1
	}

	drv, err := e32.NewDriver(hw, log)
	if err != nil {
		port.Close()
		fatalf("failed to initialize driver: %v", err)
	}
	return &session{port: port, drv: drv, log: log}
}
