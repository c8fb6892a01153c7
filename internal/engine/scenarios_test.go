package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// idleWord is an all-channels-idle (logic high) sample.
const idleWord = ^uint32(0)

// groupedWords repeats each of groups[i] for oversample ticks, setting
// only bit ch to that value and leaving every other channel idle.
func groupedWords(ch int, groups []int, oversample int) []uint32 {
	out := make([]uint32, 0, len(groups)*oversample)
	for _, v := range groups {
		w := wordFor(ch, v)
		for i := 0; i < oversample; i++ {
			out = append(out, w)
		}
	}
	return out
}

// rawWords builds one word per entry in samples, with only bit ch varying.
func rawWords(ch int, samples []int) []uint32 {
	out := make([]uint32, len(samples))
	for i, v := range samples {
		out[i] = wordFor(ch, v)
	}
	return out
}

func wordFor(ch, level int) uint32 {
	if level == 0 {
		return idleWord &^ (1 << uint(ch))
	}
	return idleWord
}

func newTestEngine(t *testing.T) (*Engine, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	e, err := New(DefaultConfig(), sink, sink)
	require.NoError(t, err)
	return e, sink
}

// Scenario 1: a clean byte, 0x55, on channel 0.
func Test_CleanByte0x55(t *testing.T) {
	e, sink := newTestEngine(t)

	groups := []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1}
	buf := groupedWords(0, groups, e.cfg.OversampleRate)

	e.Process(buf)

	assert.Equal(t, []recordedByte{{channel: 0, value: 0x55}}, sink.bytes)
	assert.Empty(t, sink.errors)
	assert.Equal(t, uint32(0), e.ActiveMask())
}

// Scenario 2: a single-sample glitch in an otherwise idle line is
// suppressed by the filter entirely.
func Test_GlitchInIdleIsSuppressed(t *testing.T) {
	e, sink := newTestEngine(t)

	samples := make([]int, 0, 41)
	for i := 0; i < 20; i++ {
		samples = append(samples, 1)
	}
	samples = append(samples, 0)
	for i := 0; i < 20; i++ {
		samples = append(samples, 1)
	}

	e.Process(rawWords(0, samples))

	assert.Empty(t, sink.bytes)
	assert.Empty(t, sink.errors)
	assert.Equal(t, uint32(0), e.ActiveMask())
}

// Scenario 3: a noisy start-bit window emits nothing. The lone leading zero
// is outvoted by its neighbours, but the run of six zeros after it survives
// filtering and arms channel 0; the buffer ends mid-frame, so the channel
// is still active and no byte or error has been reported yet.
func Test_GlitchyStartBitIsFalseAlarm(t *testing.T) {
	e, sink := newTestEngine(t)

	samples := []int{1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1}

	e.Process(rawWords(0, samples))

	assert.Empty(t, sink.bytes)
	assert.Empty(t, sink.errors)
	assert.Equal(t, uint32(1), e.ActiveMask())
}

// Scenario 4: a clean start and 8 data bits for 0xFF, then a stop bit
// sampled low, is a framing error and nothing is pushed to the FIFO.
func Test_FramingError(t *testing.T) {
	e, sink := newTestEngine(t)

	groups := []int{1, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1}
	buf := groupedWords(0, groups, e.cfg.OversampleRate)

	e.Process(buf)

	assert.Empty(t, sink.bytes)
	assert.Equal(t, []recordedError{{channel: 0, code: ErrFraming}}, sink.errors)
	assert.Equal(t, uint32(0), e.ActiveMask())
}

// Scenario 5: two channels starting a 0x00 frame on the same sample both
// complete independently.
func Test_TwoChannelsSimultaneously(t *testing.T) {
	e, sink := newTestEngine(t)

	groups := []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 1}
	oversample := e.cfg.OversampleRate

	word := func(level int) uint32 {
		w := idleWord
		if level == 0 {
			w &^= (1 << 0) | (1 << 7)
		}
		return w
	}

	buf := make([]uint32, 0, len(groups)*oversample)
	for _, v := range groups {
		w := word(v)
		for i := 0; i < oversample; i++ {
			buf = append(buf, w)
		}
	}

	e.Process(buf)

	require.Len(t, sink.bytes, 2)
	byChannel := map[int]byte{sink.bytes[0].channel: sink.bytes[0].value, sink.bytes[1].channel: sink.bytes[1].value}
	assert.Equal(t, map[int]byte{0: 0x00, 7: 0x00}, byChannel)
	assert.Empty(t, sink.errors)
	assert.Equal(t, uint32(0), e.ActiveMask())
}

// Scenario 6: splitting scenario 1's buffer mid-frame must not change the
// observed output.
func Test_BufferBoundaryContinuity(t *testing.T) {
	groups := []int{1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 1}

	unsplit, unsplitSink := newTestEngine(t)
	unsplit.Process(groupedWords(0, groups, unsplit.cfg.OversampleRate))

	split, splitSink := newTestEngine(t)
	buf := groupedWords(0, groups, split.cfg.OversampleRate)
	// Split after 5 samples into the third data bit: idle(8) + start(8) +
	// d0(8) + d1(8) + 5 samples of d2.
	k := 8 + 8 + 8 + 8 + 5
	split.Process(buf[:k])
	split.Process(buf[k:])

	assert.Equal(t, unsplitSink.bytes, splitSink.bytes)
	assert.Equal(t, unsplitSink.errors, splitSink.errors)
}
