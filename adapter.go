package e32

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ByteStream is the data path of the module.
type ByteStream interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
	Flush() error
}

// InputPin reads a logical level. Unlike gpio.PinIn, a failed read is reported.
type InputPin interface {
	Level() (gpio.Level, error)
}

// OutputPin drives a logical level. Every gpio.PinOut satisfies it.
type OutputPin interface {
	Out(l gpio.Level) error
}

type Delayer interface {
	DelayMs(ms uint32)
}

// Hardware groups what the driver needs to talk to a module.
type Hardware struct {
	Serial ByteStream
	Aux    InputPin
	M0     OutputPin
	M1     OutputPin
	Delay  Delayer
}

// Serial is the byte stream of a Port.
type Serial struct {
	port *Port
}

// ReadByte returns ErrWouldBlock if no byte arrived before the read timeout.
func (s *Serial) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := s.port.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrWouldBlock
	}
	return buf[0], nil
}

func (s *Serial) WriteByte(b byte) error {
	_, err := s.port.Write([]byte{b})
	return err
}

func (s *Serial) Flush() error {
	return s.port.Flush()
}

// AuxPin reads the module's AUX pin through CTS. CTS is asserted while AUX is
// held low [RS232], so the physical reading is inverted.
type AuxPin struct {
	port *Port
}

func (a *AuxPin) Level() (gpio.Level, error) {
	cts, err := a.port.CTS()
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level(!cts), nil
}

func (a *AuxPin) String() string { return "AUX(CTS)" }

var errPWMUnsupported = errors.New("PWM is not supported on modem control lines")

// ModePin drives M0 or M1 through a modem control line. Asserting the line
// pulls the pin low [RS232], so gpio.Low asserts and gpio.High deasserts.
type ModePin struct {
	name string
	line string
	set  func(asserted bool) error
}

var _ gpio.PinOut = (*ModePin)(nil)

func (m *ModePin) Out(l gpio.Level) error {
	return m.set(l == gpio.Low)
}

func (m *ModePin) PWM(gpio.Duty, physic.Frequency) error { return errPWMUnsupported }
func (m *ModePin) String() string                        { return m.name + "(" + m.line + ")" }
func (m *ModePin) Name() string                          { return m.name }
func (m *ModePin) Number() int                           { return -1 }
func (m *ModePin) Function() string                      { return "Out/" + m.line }
func (m *ModePin) Halt() error                           { return nil }

// StandardDelay sleeps the calling goroutine.
type StandardDelay struct{}

func (StandardDelay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
