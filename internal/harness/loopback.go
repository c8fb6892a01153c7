// Package harness drives the engine against bytes that actually passed
// through a real OS transport, rather than synthetic test vectors alone.
// It pairs a pseudo-terminal with the same 8-N-1 bit encoding the core
// decodes, for an end-to-end check that isn't just hand-built sample
// arrays.
package harness

import (
	"fmt"
	"io"
	"os"

	"github.com/creack/pty"
)

// Loopback is a pty pair used purely to round-trip bytes through a real
// file-descriptor transport before they're bit-encoded for the engine.
type Loopback struct {
	master, slave *os.File
}

// Open creates a new pty pair.
func Open() (*Loopback, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("harness: opening pty: %w", err)
	}
	return &Loopback{master: master, slave: slave}, nil
}

// Close releases both ends of the pty.
func (l *Loopback) Close() error {
	err1 := l.master.Close()
	err2 := l.slave.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Transmit writes b down the master and reads it back from the slave,
// confirming the transport delivered it unchanged before it is encoded.
func (l *Loopback) Transmit(b byte) (byte, error) {
	if _, err := l.master.Write([]byte{b}); err != nil {
		return 0, fmt.Errorf("harness: write: %w", err)
	}
	buf := make([]byte, 1)
	if _, err := io.ReadFull(l.slave, buf); err != nil {
		return 0, fmt.Errorf("harness: read: %w", err)
	}
	return buf[0], nil
}

// Encode converts byte b on channel ch into the oversampled 8-N-1 sample
// words the engine's Process expects: one idle bit of lead-in, a start
// bit, 8 LSB-first data bits, and a stop bit, each held for oversample
// ticks, with every other channel left idle (logic high). No idle ticks
// follow the stop bit.
func Encode(ch int, b byte, oversample int) []uint32 {
	groups := make([]int, 0, 10)
	groups = append(groups, 1, 0) // lead-in idle, start bit
	for i := 0; i < 8; i++ {
		groups = append(groups, int((b>>uint(i))&1))
	}
	groups = append(groups, 1) // stop bit

	out := make([]uint32, 0, len(groups)*oversample)
	for _, level := range groups {
		word := ^uint32(0)
		if level == 0 {
			word &^= 1 << uint(ch)
		}
		for i := 0; i < oversample; i++ {
			out = append(out, word)
		}
	}
	return out
}
