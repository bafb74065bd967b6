package main

import (
	"flag"
	"fmt"
	"os"
)

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

func fatalUsage(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	e32ctl [-config file] [-v] <command> [arguments]

Commands:
	read-model-data	 print model, version and features
	read-parameters	 print module parameters
	configure	 write module parameters if they differ
	listen		 print received data
	send		 send lines typed on stdin
`)
	os.Exit(2)
}

var (
	configPath string
	verbose    bool
)

func main() {
	flag.Usage = usage
	flag.StringVar(&configPath, "config", "e32.toml", "configuration file (TOML, or YAML with .yaml/.yml)")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
	}

	args := flag.Args()[1:]
	switch cmd := flag.Arg(0); cmd {
	case "read-model-data":
		readModelDataCommand()
	case "read-parameters":
		readParametersCommand()
	case "configure":
		configureCommand(args)
	case "listen":
		listenCommand()
	case "send":
		sendCommand()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n", cmd)
		usage()
	}
}
