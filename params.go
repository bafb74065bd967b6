package e32

import (
	"fmt"
	"strings"
)

// Register fields keep their [E32] bit encoding as their numeric value.

// Parity is the module's UART parity (SPED bits 7:6).
type Parity uint8

const (
	ParityNone Parity = iota // 8N1
	ParityOdd                // 8O1
	ParityEven               // 8E1
)

// UARTRate is the module's UART baud rate (SPED bits 5:3).
type UARTRate uint8

const (
	UARTBps1200 UARTRate = iota
	UARTBps2400
	UARTBps4800
	UARTBps9600
	UARTBps19200
	UARTBps38400
	UARTBps57600
	UARTBps115200
)

// AirRate is the over-the-air data rate (SPED bits 2:0).
type AirRate uint8

const (
	AirBps300 AirRate = iota
	AirBps1200
	AirBps2400
	AirBps4800
	AirBps9600
	AirBps19200
)

// TransmissionMode is OPTION bit 7.
type TransmissionMode uint8

const (
	Transparent TransmissionMode = iota
	Fixed
)

// IODriveMode selects how AUX, TXD and RXD are driven (OPTION bit 6).
type IODriveMode uint8

const (
	OpenCollector IODriveMode = iota
	PushPull
)

// WakeupTime is the wireless wake-up period (OPTION bits 5:3).
type WakeupTime uint8

const (
	WakeupMs250 WakeupTime = iota
	WakeupMs500
	WakeupMs750
	WakeupMs1000
	WakeupMs1250
	WakeupMs1500
	WakeupMs1750
	WakeupMs2000
)

// FEC toggles forward error correction (OPTION bit 2).
type FEC uint8

const (
	FECOff FEC = iota
	FECOn
)

// TransmissionPower is OPTION bits 1:0. Names follow the 1W variants; 100mW
// modules map the same codes to 20/17/14/10 dBm.
type TransmissionPower uint8

const (
	PowerDbm30 TransmissionPower = iota
	PowerDbm27
	PowerDbm24
	PowerDbm21
)

// Persistence selects whether written parameters survive a power cycle.
type Persistence uint8

const (
	Temporary Persistence = iota
	Permanent
)

var (
	parityNames      = []string{"none", "odd", "even"}
	uartRateNames    = []string{"bps1200", "bps2400", "bps4800", "bps9600", "bps19200", "bps38400", "bps57600", "bps115200"}
	airRateNames     = []string{"bps300", "bps1200", "bps2400", "bps4800", "bps9600", "bps19200"}
	transModeNames   = []string{"transparent", "fixed"}
	ioDriveNames     = []string{"open-collector", "push-pull"}
	wakeupNames      = []string{"ms250", "ms500", "ms750", "ms1000", "ms1250", "ms1500", "ms1750", "ms2000"}
	fecNames         = []string{"off", "on"}
	powerNames       = []string{"dbm30", "dbm27", "dbm24", "dbm21"}
	persistenceNames = []string{"temporary", "permanent"}
)

func enumString[T ~uint8](v T, names []string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("unknown(%d)", uint8(v))
}

func parseEnum[T ~uint8](kind string, names []string, s string) (T, error) {
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q (valid: %s)", kind, s, strings.Join(names, ", "))
}

func (v Parity) String() string            { return enumString(v, parityNames) }
func (v UARTRate) String() string          { return enumString(v, uartRateNames) }
func (v AirRate) String() string           { return enumString(v, airRateNames) }
func (v TransmissionMode) String() string  { return enumString(v, transModeNames) }
func (v IODriveMode) String() string       { return enumString(v, ioDriveNames) }
func (v WakeupTime) String() string        { return enumString(v, wakeupNames) }
func (v FEC) String() string               { return enumString(v, fecNames) }
func (v TransmissionPower) String() string { return enumString(v, powerNames) }
func (v Persistence) String() string       { return enumString(v, persistenceNames) }

// Set implements flag.Value.
func (v *Parity) Set(s string) (err error) {
	*v, err = parseEnum[Parity]("parity", parityNames, s)
	return
}

func (v *UARTRate) Set(s string) (err error) {
	*v, err = parseEnum[UARTRate]("UART rate", uartRateNames, s)
	return
}

func (v *AirRate) Set(s string) (err error) {
	*v, err = parseEnum[AirRate]("air rate", airRateNames, s)
	return
}

func (v *TransmissionMode) Set(s string) (err error) {
	*v, err = parseEnum[TransmissionMode]("transmission mode", transModeNames, s)
	return
}

func (v *IODriveMode) Set(s string) (err error) {
	*v, err = parseEnum[IODriveMode]("IO drive mode", ioDriveNames, s)
	return
}

func (v *WakeupTime) Set(s string) (err error) {
	*v, err = parseEnum[WakeupTime]("wakeup time", wakeupNames, s)
	return
}

func (v *FEC) Set(s string) (err error) {
	*v, err = parseEnum[FEC]("FEC mode", fecNames, s)
	return
}

func (v *TransmissionPower) Set(s string) (err error) {
	*v, err = parseEnum[TransmissionPower]("transmission power", powerNames, s)
	return
}

func (v *Persistence) Set(s string) (err error) {
	*v, err = parseEnum[Persistence]("persistence", persistenceNames, s)
	return
}

// UnmarshalText lets Parity appear in configuration files.
func (v *Parity) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

// Parameters is the module configuration as stored in its registers.
// Values are comparable with ==.
type Parameters struct {
	Address           uint16
	Channel           uint8
	UARTParity        Parity
	UARTRate          UARTRate
	AirRate           AirRate
	TransmissionMode  TransmissionMode
	IODriveMode       IODriveMode
	WakeupTime        WakeupTime
	FEC               FEC
	TransmissionPower TransmissionPower
}

// Desired is a configuration to apply together with how to store it.
type Desired struct {
	Parameters  Parameters
	Persistence Persistence
}

// DefaultParameters returns the factory settings except for address and channel.
func DefaultParameters() Parameters {
	return Parameters{
		UARTParity:        ParityNone,
		UARTRate:          UARTBps9600,
		AirRate:           AirBps2400,
		TransmissionMode:  Transparent,
		IODriveMode:       PushPull,
		WakeupTime:        WakeupMs250,
		FEC:               FECOn,
		TransmissionPower: PowerDbm30,
	}
}

// Bytes encodes p as ADDH ADDL SPED CHAN OPTION.
func (p Parameters) Bytes() [5]byte {
	sped := byte(p.UARTParity&0b11)<<6 | byte(p.UARTRate&0b111)<<3 | byte(p.AirRate&0b111)
	option := byte(p.TransmissionMode&1)<<7 |
		byte(p.IODriveMode&1)<<6 |
		byte(p.WakeupTime&0b111)<<3 |
		byte(p.FEC&1)<<2 |
		byte(p.TransmissionPower&0b11)
	return [5]byte{byte(p.Address >> 8), byte(p.Address), sped, p.Channel, option}
}

// ParametersFromBytes decodes ADDH ADDL SPED CHAN OPTION.
func ParametersFromBytes(b [5]byte) Parameters {
	sped, option := b[2], b[4]

	parity := Parity(sped >> 6)
	if parity > ParityEven {
		parity = ParityNone // [E32] 11 is 8N1
	}
	air := AirRate(sped & 0b111)
	if air > AirBps19200 {
		air = AirBps19200 // [E32] 110 and 111 are 19.2k
	}

	return Parameters{
		Address:           uint16(b[0])<<8 | uint16(b[1]),
		Channel:           b[3],
		UARTParity:        parity,
		UARTRate:          UARTRate(sped >> 3 & 0b111),
		AirRate:           air,
		TransmissionMode:  TransmissionMode(option >> 7 & 1),
		IODriveMode:       IODriveMode(option >> 6 & 1),
		WakeupTime:        WakeupTime(option >> 3 & 0b111),
		FEC:               FEC(option >> 2 & 1),
		TransmissionPower: TransmissionPower(option & 0b11),
	}
}

// ModelData is the module's answer to the version query.
type ModelData struct {
	Model    uint8
	Version  uint8
	Features uint8
}

func (m ModelData) String() string {
	return fmt.Sprintf("model %#02x version %#02x features %#02x", m.Model, m.Version, m.Features)
}
