package engine

// Process consumes buf, one 32-bit sample word per tick, in order,
// without mutating or retaining it. Calling Process repeatedly on
// contiguous buffers is indistinguishable from a single call on the
// concatenation, since the filter pipeline and all engine state persist
// across calls.
//
// The filter, scanner, and worker are plain functions called directly
// from this one loop body, with no interface or dynamic dispatch; the only
// calls through an interface per sample are into the FIFO/error sinks from
// within worker.
func (e *Engine) Process(buf []uint32) {
	p1, p2 := e.prevRaw1, e.prevRaw2

	for _, r := range buf {
		voted := majorityVote(p2, p1, r)
		p2, p1 = p1, r

		// Scanner must run before the worker for the same sample: a
		// falling edge observed now schedules its mid-start-bit check
		// OffsetStart ticks in the future, never at this tick.
		e.scan(voted)

		tasks := e.wheel.drain(e.wheelPos)
		e.worker(tasks, voted)

		e.lastVoted = voted
		e.wheelPos = (e.wheelPos + 1) & e.wheel.mask
	}

	e.prevRaw1, e.prevRaw2 = p1, p2
}
