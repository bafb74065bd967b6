package main

import (
	"os"

	"github.com/gentam/e32"
	"github.com/peterh/liner"
)

func sendCommand() {
	s := openSession()
	defer s.Close()

	prompt := liner.NewLiner()
	prompt.SetCtrlCAborts(true)
	err := e32.Send(prompt, s.drv, os.Stdout)
	prompt.Close()
	if err != nil {
		s.Close()
		fatalf("%v", err)
	}
}

func listenCommand() {
	s := openSession()
	defer s.Close()

	if err := e32.Listen(s.drv, os.Stdout); err != nil {
		s.Close()
		fatalf("%v", err)
	}
}
