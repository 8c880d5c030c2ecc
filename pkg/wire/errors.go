package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData indicates a full frame is not yet available.
	// Not fatal; retry on the next tick.
	ErrInsufficientData = errors.New("insufficient data")
)

// MalformedFrameError reports a frame whose sentinel byte did not
// match. The raw bytes are already consumed when this is returned, so
// the stream may be misaligned; the caller resynchronizes by
// continuing to read.
type MalformedFrameError struct {
	Raw [FrameSize]byte
}

// Error implements error.
func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame % x: bad terminator %#02x", e.Raw, e.Raw[FrameSize-1])
}

// IsMalformed reports whether err is a MalformedFrameError.
func IsMalformed(err error) bool {
	var e *MalformedFrameError
	return errors.As(err, &e)
}
