package engine

type recordedByte struct {
	channel int
	value   byte
}

type recordedError struct {
	channel int
	code    byte
}

// recordingSink is a trivial FIFOSink/ErrorSink that just appends, used
// throughout the test suite in place of a real ring buffer.
type recordingSink struct {
	bytes  []recordedByte
	errors []recordedError
}

func (s *recordingSink) PushByte(channel int, b byte) {
	s.bytes = append(s.bytes, recordedByte{channel, b})
}

func (s *recordingSink) PushError(channel int, code byte) {
	s.errors = append(s.errors, recordedError{channel, code})
}
