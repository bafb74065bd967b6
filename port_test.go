package e32

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
)

// fakeTransport records what the adapters do to the serial port.
type fakeTransport struct {
	rx       bytes.Buffer
	tx       bytes.Buffer
	readErr  error
	writeErr error
	lineErr  error
	stall    bool // Write accepts nothing

	cts      bool
	dtr, rts *bool
	drains   int
	closed   bool
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if f.rx.Len() == 0 {
		return 0, nil // read timeout
	}
	return f.rx.Read(p)
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	if f.stall {
		return 0, nil
	}
	return f.tx.Write(p)
}

func (f *fakeTransport) Drain() error {
	f.drains++
	return f.writeErr
}

func (f *fakeTransport) SetDTR(v bool) error {
	if f.lineErr != nil {
		return f.lineErr
	}
	f.dtr = &v
	return nil
}

func (f *fakeTransport) SetRTS(v bool) error {
	if f.lineErr != nil {
		return f.lineErr
	}
	f.rts = &v
	return nil
}

func (f *fakeTransport) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	if f.lineErr != nil {
		return nil, f.lineErr
	}
	return &serial.ModemStatusBits{CTS: f.cts}, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestAuxPolarity(t *testing.T) {
	tests := []struct {
		cts  bool
		want gpio.Level
	}{
		{cts: true, want: gpio.Low},
		{cts: false, want: gpio.High},
	}
	for _, tt := range tests {
		ft := &fakeTransport{cts: tt.cts}
		got, err := NewPort(ft).Aux().Level()
		if err != nil {
			t.Fatalf("Level failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("CTS asserted=%v: got %s, want %s", tt.cts, got, tt.want)
		}
	}
}

func TestM0Polarity(t *testing.T) {
	ft := &fakeTransport{}
	m0 := NewPort(ft).M0()

	if err := m0.Out(gpio.Low); err != nil {
		t.Fatalf("Out failed: %v", err)
	}
	if ft.dtr == nil || !*ft.dtr {
		t.Errorf("M0 low: DTR should be asserted")
	}
	if ft.rts != nil {
		t.Errorf("M0 must not touch RTS")
	}

	if err := m0.Out(gpio.High); err != nil {
		t.Fatalf("Out failed: %v", err)
	}
	if *ft.dtr {
		t.Errorf("M0 high: DTR should be deasserted")
	}
}

func TestM1Polarity(t *testing.T) {
	ft := &fakeTransport{}
	m1 := NewPort(ft).M1()

	if err := m1.Out(gpio.Low); err != nil {
		t.Fatalf("Out failed: %v", err)
	}
	if ft.rts == nil || !*ft.rts {
		t.Errorf("M1 low: RTS should be asserted")
	}
	if ft.dtr != nil {
		t.Errorf("M1 must not touch DTR")
	}

	if err := m1.Out(gpio.High); err != nil {
		t.Fatalf("Out failed: %v", err)
	}
	if *ft.rts {
		t.Errorf("M1 high: RTS should be deasserted")
	}
}

func TestModePinIsPinOut(t *testing.T) {
	var p gpio.PinOut = NewPort(&fakeTransport{}).M1()
	if p.Name() != "M1" {
		t.Errorf("got name %q", p.Name())
	}
	if err := p.PWM(gpio.DutyHalf, 0); err == nil {
		t.Errorf("PWM should not be supported")
	}
}

func TestLineErrorsPropagate(t *testing.T) {
	errLine := errors.New("device removed")
	port := NewPort(&fakeTransport{lineErr: errLine})

	if _, err := port.Aux().Level(); err != errLine {
		t.Errorf("Aux: got %v, want %v", err, errLine)
	}
	if err := port.M0().Out(gpio.High); err != errLine {
		t.Errorf("M0: got %v, want %v", err, errLine)
	}
	if err := port.M1().Out(gpio.High); err != errLine {
		t.Errorf("M1: got %v, want %v", err, errLine)
	}
}

func TestSerialPreservesOrder(t *testing.T) {
	ft := &fakeTransport{}
	ft.rx.WriteString("abc")
	s := NewPort(ft).Serial()

	var got []byte
	for i := 0; i < 3; i++ {
		b, err := s.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte failed: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != "abc" {
		t.Errorf("read %q, want %q", got, "abc")
	}

	for _, b := range []byte("xyz") {
		if err := s.WriteByte(b); err != nil {
			t.Fatalf("WriteByte failed: %v", err)
		}
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if ft.tx.String() != "xyz" {
		t.Errorf("wrote %q, want %q", ft.tx.String(), "xyz")
	}
	if ft.drains != 1 {
		t.Errorf("Flush drained %d times, want 1", ft.drains)
	}
}

func TestSerialWouldBlock(t *testing.T) {
	ft := &fakeTransport{}
	s := NewPort(ft).Serial()

	if _, err := s.ReadByte(); !errors.Is(err, ErrWouldBlock) {
		t.Errorf("ReadByte on empty port: got %v, want ErrWouldBlock", err)
	}

	ft.stall = true
	if err := s.WriteByte('x'); !errors.Is(err, ErrWouldBlock) {
		t.Errorf("WriteByte on stalled port: got %v, want ErrWouldBlock", err)
	}
}

func TestSerialHardErrors(t *testing.T) {
	ft := &fakeTransport{readErr: io.ErrUnexpectedEOF, writeErr: io.ErrClosedPipe}
	s := NewPort(ft).Serial()

	if _, err := s.ReadByte(); err != io.ErrUnexpectedEOF {
		t.Errorf("ReadByte: got %v", err)
	}
	if err := s.WriteByte('x'); err != io.ErrClosedPipe {
		t.Errorf("WriteByte: got %v", err)
	}
	if err := s.Flush(); err != io.ErrClosedPipe {
		t.Errorf("Flush: got %v", err)
	}
}

func TestOpenMissingDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttyMissing")
	_, err := Open(path, &serial.Mode{BaudRate: 9600}, time.Second)
	if err == nil {
		t.Fatal("Open should fail for a missing device")
	}
	if !strings.Contains(err.Error(), "failed to open") {
		t.Errorf("error %q should mention failed to open", err)
	}
}

func TestHardwareSharesPort(t *testing.T) {
	ft := &fakeTransport{}
	port := NewPort(ft)
	hw := port.Hardware()

	if hw.Serial.(*Serial).port != port || hw.Aux.(*AuxPin).port != port {
		t.Error("adapters must share the port they came from")
	}
	if err := port.Close(); err != nil || !ft.closed {
		t.Errorf("Close: err=%v closed=%v", err, ft.closed)
	}
}
