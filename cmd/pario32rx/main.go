// Command pario32rx is a demo/dev harness, not a management surface: it
// has no remote control, just local flags for picking one input source
// and a config file, wiring them to the engine and printing what comes
// out.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kf0lvi/pario32/internal/collab"
	"github.com/kf0lvi/pario32/internal/config"
	"github.com/kf0lvi/pario32/internal/engine"
)

func main() {
	var configPath = pflag.StringP("config", "c", "", "Path to a pario32 YAML config file")
	var inputPath = pflag.StringP("input", "i", "", "Path to a raw little-endian uint32 sample file, or '-' for stdin")
	var errorDir = pflag.StringP("error-dir", "e", ".", "Directory for the rotating framing-error log")
	var fifoCapacity = pflag.IntP("fifo-capacity", "f", 4096, "Decoded-byte FIFO capacity")
	var help = pflag.Bool("help", false, "Display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pario32rx"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	errorLog, err := collab.NewErrorLog(*errorDir, "")
	if err != nil {
		logger.Fatal("opening error log", "err", err)
	}
	defer errorLog.Close()

	fifo := collab.NewRingFIFO(*fifoCapacity)

	eng, err := engine.New(cfg, fifo, errorLog)
	if err != nil {
		logger.Fatal("building engine", "err", err)
	}

	in, closeIn, err := openInput(*inputPath)
	if err != nil {
		logger.Fatal("opening input", "err", err)
	}
	defer closeIn()

	if err := run(eng, fifo, in, logger); err != nil && err != io.EOF {
		logger.Fatal("processing stream", "err", err)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return bufio.NewReader(os.Stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return bufio.NewReader(f), func() { f.Close() }, nil
}

// run reads little-endian uint32 sample words from in, one driver-sized
// buffer at a time, and drains decoded bytes to logger (stderr) as it goes.
func run(eng *engine.Engine, fifo *collab.RingFIFO, in io.Reader, logger *log.Logger) error {
	const chunkWords = 4096
	raw := make([]byte, chunkWords*4)
	buf := make([]uint32, chunkWords)

	for {
		n, err := io.ReadFull(in, raw)
		words := n / 4
		for i := 0; i < words; i++ {
			buf[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		if words > 0 {
			eng.Process(buf[:words])
			drainFIFO(fifo, logger)
		}

		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func drainFIFO(fifo *collab.RingFIFO, logger *log.Logger) {
	for {
		frame, ok := fifo.Pop()
		if !ok {
			return
		}
		logger.Info("decoded byte", "channel", frame.Channel, "byte", fmt.Sprintf("0x%02X", frame.Byte))
	}
}
