// Command pario32rec opens a real serial device in raw mode and records
// the bytes it sees to a file, for building golden-file regression
// fixtures from hardware-captured traffic.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/term"
	"github.com/spf13/pflag"
)

func main() {
	var device = pflag.StringP("device", "d", "", "Serial device to capture from, e.g. /dev/ttyUSB0")
	var baud = pflag.IntP("baud", "b", 9600, "Serial baud rate")
	var outPath = pflag.StringP("out", "o", "", "Output file to record raw bytes to")
	var help = pflag.Bool("help", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -d <device> -o <file> [-b baud]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help || *device == "" || *outPath == "" {
		pflag.Usage()
		if *device == "" || *outPath == "" {
			os.Exit(2)
		}
		return
	}

	if err := record(*device, *baud, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "pario32rec: %v\n", err)
		os.Exit(1)
	}
}

func record(device string, baud int, outPath string) error {
	tty, err := term.Open(device, term.RawMode)
	if err != nil {
		return fmt.Errorf("opening %s: %w", device, err)
	}
	defer tty.Close()

	if err := tty.SetSpeed(baud); err != nil {
		return fmt.Errorf("setting speed: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	fmt.Fprintf(os.Stderr, "Recording %s at %d baud to %s. Ctrl-C to stop.\n", device, baud, outPath)

	_, err = io.Copy(out, tty)
	if err != nil && err != io.EOF {
		return fmt.Errorf("recording: %w", err)
	}
	return nil
}
