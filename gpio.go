package e32

import (
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// GPIOPins names host GPIO pins wired to the module, e.g. "GPIO23".
type GPIOPins struct {
	Aux string
	M0  string
	M1  string
}

var hostInitialized atomic.Bool

// gpioInput adapts a gpio.PinIn, which cannot report read errors.
type gpioInput struct {
	p gpio.PinIn
}

func (g gpioInput) Level() (gpio.Level, error) {
	return g.p.Read(), nil
}

// OpenGPIO looks up the module pins on the host's GPIO header. The pins are
// wired straight to the module, so levels are not inverted.
func OpenGPIO(names GPIOPins) (aux InputPin, m0, m1 OutputPin, err error) {
	if hostInitialized.CompareAndSwap(false, true) {
		if _, err := host.Init(); err != nil {
			return nil, nil, nil, fmt.Errorf("host initialization failed: %w", err)
		}
	}

	lookup := func(role, name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("%s: GPIO pin %q not found", role, name)
		}
		return p, nil
	}

	auxPin, err := lookup("AUX", names.Aux)
	if err != nil {
		return nil, nil, nil, err
	}
	// [E32] AUX is open-drain on some variants
	if err := auxPin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to configure AUX input: %w", err)
	}

	m0Pin, err := lookup("M0", names.M0)
	if err != nil {
		return nil, nil, nil, err
	}
	m1Pin, err := lookup("M1", names.M1)
	if err != nil {
		return nil, nil, nil, err
	}
	return gpioInput{auxPin}, m0Pin, m1Pin, nil
}
