package e32

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

// Mode is the operating mode selected by M0 and M1.
type Mode uint8

// [E32] Operating modes
const (
	ModeNormal     Mode = iota // M0=0 M1=0
	ModeWakeUp                 // M0=1 M1=0
	ModePowerSave              // M0=0 M1=1
	ModeProgram                // M0=1 M1=1, also called sleep mode
)

func (m Mode) String() string {
	return enumString(m, []string{"normal", "wake-up", "power-saving", "program"})
}

func (m Mode) pins() (m0, m1 gpio.Level) {
	return gpio.Level(m&1 != 0), gpio.Level(m&2 != 0)
}

// [E32] Command set, sent in program mode
const (
	cmdSavePermanent  = 0xC0 // also the head of the parameter response
	cmdReadParameters = 0xC1
	cmdSaveTemporary  = 0xC2
	cmdReadVersion    = 0xC3
)

const (
	// [E32] the pins may be switched 2ms after AUX went high
	modeSwitchDelayMs = 2
	auxPollMs         = 1
	auxMaxPolls       = 1000
)

// Driver speaks the E32 command protocol over Hardware.
type Driver struct {
	hw   Hardware
	mode Mode
	log  zerolog.Logger
}

// NewDriver puts the module into normal mode.
func NewDriver(hw Hardware, log zerolog.Logger) (*Driver, error) {
	d := &Driver{hw: hw, log: log}
	if err := d.setMode(ModeNormal); err != nil {
		return nil, fmt.Errorf("failed to enter normal mode: %w", err)
	}
	return d, nil
}

// Mode returns the current operating mode.
func (d *Driver) Mode() Mode {
	return d.mode
}

// waitAux polls until AUX is high, which [E32] signals an idle module.
func (d *Driver) waitAux() error {
	for i := 0; i < auxMaxPolls; i++ {
		l, err := d.hw.Aux.Level()
		if err != nil {
			return fmt.Errorf("failed to read AUX: %w", err)
		}
		if l == gpio.High {
			return nil
		}
		d.hw.Delay.DelayMs(auxPollMs)
	}
	return ErrAuxTimeout
}

func (d *Driver) setMode(m Mode) error {
	if err := d.waitAux(); err != nil {
		return err
	}
	m0, m1 := m.pins()
	if err := d.hw.M0.Out(m0); err != nil {
		return fmt.Errorf("failed to set M0: %w", err)
	}
	if err := d.hw.M1.Out(m1); err != nil {
		return fmt.Errorf("failed to set M1: %w", err)
	}
	d.hw.Delay.DelayMs(modeSwitchDelayMs)
	if err := d.waitAux(); err != nil {
		return err
	}
	d.log.Debug().Stringer("from", d.mode).Stringer("to", m).Msg("mode changed")
	d.mode = m
	return nil
}

// program runs f in program mode and returns to normal mode afterwards.
func (d *Driver) program(f func() error) (err error) {
	if err = d.setMode(ModeProgram); err != nil {
		return fmt.Errorf("failed to enter program mode: %w", err)
	}
	defer func() {
		if modeErr := d.setMode(ModeNormal); modeErr != nil && err == nil {
			err = fmt.Errorf("failed to enter normal mode: %w", modeErr)
		}
	}()
	return f()
}

func (d *Driver) send(cmd ...byte) error {
	for _, b := range cmd {
		if err := writeByte(d.hw.Serial, b); err != nil {
			return err
		}
	}
	return d.hw.Serial.Flush()
}

func (d *Driver) receive(n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := range buf {
		b, err := readByte(d.hw.Serial)
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

// ModelData queries the module's model, version and feature bytes.
func (d *Driver) ModelData() (md ModelData, err error) {
	err = d.program(func() error {
		if err := d.send(cmdReadVersion, cmdReadVersion, cmdReadVersion); err != nil {
			return err
		}
		resp, err := d.receive(4)
		if err != nil {
			return err
		}
		if resp[0] != cmdReadVersion {
			return fmt.Errorf("%w: version head %#02x", ErrUnexpectedResponse, resp[0])
		}
		md = ModelData{Model: resp[1], Version: resp[2], Features: resp[3]}
		return nil
	})
	return md, err
}

// Parameters reads the module's current configuration.
func (d *Driver) Parameters() (p Parameters, err error) {
	err = d.program(func() error {
		if err := d.send(cmdReadParameters, cmdReadParameters, cmdReadParameters); err != nil {
			return err
		}
		resp, err := d.receive(6)
		if err != nil {
			return err
		}
		if resp[0] != cmdSavePermanent {
			return fmt.Errorf("%w: parameter head %#02x", ErrUnexpectedResponse, resp[0])
		}
		p = ParametersFromBytes([5]byte(resp[1:]))
		return nil
	})
	return p, err
}

// SetParameters writes p, saving it to flash if persistence is Permanent.
func (d *Driver) SetParameters(p Parameters, persistence Persistence) error {
	head := byte(cmdSaveTemporary)
	if persistence == Permanent {
		head = cmdSavePermanent
	}
	regs := p.Bytes()
	d.log.Debug().Hex("registers", regs[:]).Stringer("persistence", persistence).Msg("writing parameters")
	return d.program(func() error {
		return d.send(append([]byte{head}, regs[:]...)...)
	})
}

// ReadByte reads received data in normal mode. It returns ErrWouldBlock when
// nothing arrived.
func (d *Driver) ReadByte() (byte, error) {
	return d.hw.Serial.ReadByte()
}

// WriteByte queues b for transmission in normal mode.
func (d *Driver) WriteByte(b byte) error {
	return d.hw.Serial.WriteByte(b)
}

func readByte(r io.ByteReader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if errors.Is(err, ErrWouldBlock) {
			continue
		}
		return b, err
	}
}

func writeByte(w io.ByteWriter, b byte) error {
	for {
		err := w.WriteByte(b)
		if errors.Is(err, ErrWouldBlock) {
			continue
		}
		return err
	}
}
