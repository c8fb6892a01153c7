package engine

// Engine owns every piece of process-wide state: the per-channel states,
// the timing wheel, the active mask, the wheel position, the filter
// pipeline's carried-over raw samples, and the previous tick's filtered
// word. It is encapsulated in a value rather than file-scope globals so a
// host can run one independent Engine per DMA bank.
//
// Input buffers passed to Process are borrowed read-only; Engine never
// retains a reference to them past the call.
type Engine struct {
	cfg Config

	channels    [MaxChannels]ChannelState
	wheel       timingWheel
	channelMask uint32

	activeMask uint32
	wheelPos   uint32
	lastVoted  uint32

	prevRaw1 uint32
	prevRaw2 uint32

	fifo   FIFOSink
	errors ErrorSink
}

// New builds an Engine from cfg, wired to the given FIFO and error
// collaborators. It returns an error if cfg fails validation.
func New(cfg Config, fifo FIFOSink, errors ErrorSink) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		wheel:  newTimingWheel(cfg.WheelSize),
		fifo:   fifo,
		errors: errors,
	}
	e.Init()
	return e, nil
}

// Init zeroes all state except the idle-high carry-over registers. It may
// be called again on a live Engine to reset it.
func (e *Engine) Init() {
	for i := range e.channels {
		e.channels[i] = ChannelState{}
	}
	e.wheel.reset()
	if e.cfg.Channels >= MaxChannels {
		e.channelMask = ^uint32(0)
	} else {
		e.channelMask = (uint32(1) << uint(e.cfg.Channels)) - 1
	}
	e.activeMask = 0
	e.wheelPos = 0
	e.lastVoted = ^uint32(0)
	e.prevRaw1 = ^uint32(0)
	e.prevRaw2 = ^uint32(0)
}

// ActiveMask reports which channels are currently mid-frame. Exposed
// mainly so tests can assert that it stays in sync with the timing
// wheel.
func (e *Engine) ActiveMask() uint32 {
	return e.activeMask
}

// WheelPos reports the engine's current position in the timing wheel.
func (e *Engine) WheelPos() uint32 {
	return e.wheelPos
}

// WheelSlot reports the raw contents of wheel slot pos, for tests that
// check mask coherence against the wheel directly.
func (e *Engine) WheelSlot(pos uint32) uint32 {
	return e.wheel.slotAt(pos)
}

// Channel returns a copy of channel ch's state, for test assertions.
func (e *Engine) Channel(ch int) ChannelState {
	return e.channels[ch]
}
