package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gentam/e32"
)

func readModelDataCommand() {
	s := openSession()
	defer s.Close()

	fmt.Println("Reading model data")
	md, err := s.drv.ModelData()
	if err != nil {
		s.Close()
		fatalf("failed to read model data: %v", err)
	}
	fmt.Printf("Model:           %#02x\n", md.Model)
	fmt.Printf("Version:         %#02x\n", md.Version)
	fmt.Printf("Features:        %#02x\n", md.Features)
}

func readParametersCommand() {
	s := openSession()
	defer s.Close()

	fmt.Println("Reading parameter data")
	p, err := s.drv.Parameters()
	if err != nil {
		s.Close()
		fatalf("failed to read parameter data: %v", err)
	}
	printParameters(os.Stdout, p)
}

func printParameters(w io.Writer, p e32.Parameters) {
	fmt.Fprintf(w, "Address:           %#04x\n", p.Address)
	fmt.Fprintf(w, "Channel:           %d\n", p.Channel)
	fmt.Fprintf(w, "UARTParity:        %s\n", p.UARTParity)
	fmt.Fprintf(w, "UARTRate:          %s\n", p.UARTRate)
	fmt.Fprintf(w, "AirRate:           %s\n", p.AirRate)
	fmt.Fprintf(w, "TransmissionMode:  %s\n", p.TransmissionMode)
	fmt.Fprintf(w, "IODriveMode:       %s\n", p.IODriveMode)
	fmt.Fprintf(w, "WakeupTime:        %s\n", p.WakeupTime)
	fmt.Fprintf(w, "FEC:               %s\n", p.FEC)
	fmt.Fprintf(w, "TransmissionPower: %s\n", p.TransmissionPower)
}
