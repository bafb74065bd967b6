package e32

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Transport is the subset of serial.Port used by Port.
type Transport interface {
	io.ReadWriter
	Drain() error
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
	GetModemStatusBits() (*serial.ModemStatusBits, error)
	Close() error
}

// Port is the single owner of a serial transport. The byte stream and the
// control-line adapters are all obtained from the same Port and share it.
type Port struct {
	mu sync.Mutex
	t  Transport
}

// Open opens the serial device at path with mode and sets its read timeout.
func Open(path string, mode *serial.Mode, timeout time.Duration) (*Port, error) {
	sp, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open TTY %s: %w", path, err)
	}
	if err := sp.SetReadTimeout(timeout); err != nil {
		sp.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}
	return NewPort(sp), nil
}

// NewPort takes ownership of an already opened transport.
func NewPort(t Transport) *Port {
	return &Port{t: t}
}

// Read reads into p. A transport timeout yields 0, nil.
func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t.Read(b)
}

// Write writes all of b unless the transport fails or stops accepting data.
func (p *Port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	written := 0
	for written < len(b) {
		n, err := p.t.Write(b[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, ErrWouldBlock
		}
	}
	return written, nil
}

// Flush blocks until the output buffer has been transmitted.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t.Drain()
}

// CTS reports whether the clear-to-send line is asserted.
func (p *Port) CTS() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bits, err := p.t.GetModemStatusBits()
	if err != nil {
		return false, err
	}
	return bits.CTS, nil
}

func (p *Port) SetDTR(asserted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t.SetDTR(asserted)
}

func (p *Port) SetRTS(asserted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t.SetRTS(asserted)
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t.Close()
}

// Serial returns the byte-stream view of the port.
func (p *Port) Serial() *Serial {
	return &Serial{port: p}
}

// Aux returns the AUX input bound to CTS.
func (p *Port) Aux() *AuxPin {
	return &AuxPin{port: p}
}

// M0 returns the M0 output bound to DTR.
func (p *Port) M0() *ModePin {
	return &ModePin{name: "M0", line: "DTR", set: p.SetDTR}
}

// M1 returns the M1 output bound to RTS.
func (p *Port) M1() *ModePin {
	return &ModePin{name: "M1", line: "RTS", set: p.SetRTS}
}

// Hardware returns every adapter of the port wired for the driver.
func (p *Port) Hardware() Hardware {
	return Hardware{
		Serial: p.Serial(),
		Aux:    p.Aux(),
		M0:     p.M0(),
		M1:     p.M1(),
		Delay:  StandardDelay{},
	}
}
