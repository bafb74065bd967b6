package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gentam/e32"
)

// parseDesired parses configure's flags. -address and -channel are required;
// everything else defaults to the factory setting.
func parseDesired(args []string) (e32.Desired, error) {
	fs := flag.NewFlagSet("configure", flag.ContinueOnError)
	want := e32.Desired{Parameters: e32.DefaultParameters(), Persistence: e32.Temporary}
	p := &want.Parameters

	var address, channel uint
	fs.UintVar(&address, "address", 0, "module address (16 bit, required)")
	fs.UintVar(&channel, "channel", 0, "channel (8 bit, required)")
	fs.Var(&want.Persistence, "persistence", "temporary or permanent")
	fs.Var(&p.UARTParity, "uart-parity", "none, odd or even")
	fs.Var(&p.UARTRate, "uart-rate", "bps1200 ... bps115200")
	fs.Var(&p.AirRate, "air-rate", "bps300 ... bps19200")
	fs.Var(&p.TransmissionMode, "transmission-mode", "transparent or fixed")
	fs.Var(&p.IODriveMode, "io-drive-mode", "push-pull or open-collector")
	fs.Var(&p.WakeupTime, "wakeup-time", "ms250 ... ms2000")
	fs.Var(&p.FEC, "fec", "on or off")
	fs.Var(&p.TransmissionPower, "transmission-power", "dbm30, dbm27, dbm24 or dbm21")
	if err := fs.Parse(args); err != nil {
		return want, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["address"] || !set["channel"] {
		return want, fmt.Errorf("-address and -channel are required")
	}
	if address > 0xFFFF {
		return want, fmt.Errorf("address %#x out of 16-bit range", address)
	}
	if channel > 0xFF {
		return want, fmt.Errorf("channel %d out of 8-bit range", channel)
	}
	p.Address = uint16(address)
	p.Channel = uint8(channel)
	return want, nil
}

func configureCommand(args []string) {
	want, err := parseDesired(args)
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		fatalUsage("%v", err)
	}

	s := openSession()
	defer s.Close()

	res, err := e32.Configure(s.drv, want, s.log)
	if err != nil {
		s.Close()
		fatalf("%v", err)
	}

	switch res.Outcome {
	case e32.Unchanged:
		fmt.Println("Leaving parameters unchanged")
	case e32.Applied:
		fmt.Println("Successfully applied new parameters")
		printParameters(os.Stdout, res.Current)
	case e32.Unconfirmed:
		fmt.Fprintln(os.Stderr, "Error: parameters unchanged:")
		printParameters(os.Stderr, res.Current)
	}
}
