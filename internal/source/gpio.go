package source

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOSampler packs up to 32 GPIO lines from a single Linux gpiochip
// into the bitmask words the engine consumes, one bulk read per tick.
// It's a reference pin-sampling adapter -- the engine package never
// imports this one.
type GPIOSampler struct {
	lines   *gpiocdev.Lines
	offsets []int
	scratch []int
}

// NewGPIOSampler requests offsets (one per logical channel, index order
// gives the channel number) as inputs on the named gpiochip device, e.g.
// "/dev/gpiochip0".
func NewGPIOSampler(device string, offsets []int) (*GPIOSampler, error) {
	if len(offsets) == 0 || len(offsets) > 32 {
		return nil, fmt.Errorf("source: need between 1 and 32 GPIO offsets, got %d", len(offsets))
	}

	lines, err := gpiocdev.RequestLines(device, offsets, gpiocdev.AsInput)
	if err != nil {
		return nil, fmt.Errorf("source: requesting lines on %s: %w", device, err)
	}

	return &GPIOSampler{
		lines:   lines,
		offsets: offsets,
		scratch: make([]int, len(offsets)),
	}, nil
}

// Sample reads the current level of every requested line and packs them
// into buf[0], one bit per channel. GPIOSampler produces exactly one word
// per call; callers wanting a deeper buffer should call Sample in a tight
// loop on a ticker matching OversampleRate * baud.
func (g *GPIOSampler) Sample(buf []uint32) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if err := g.lines.Values(g.scratch); err != nil {
		return 0, fmt.Errorf("source: reading gpio values: %w", err)
	}

	var word uint32
	for ch, v := range g.scratch {
		if v != 0 {
			word |= 1 << uint(ch)
		}
	}
	buf[0] = word
	return 1, nil
}

// Close releases the underlying line handles.
func (g *GPIOSampler) Close() error {
	return g.lines.Close()
}
