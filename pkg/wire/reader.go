package wire

import (
	"io"
	"sync"
)

// ByteSource is a non-blocking byte stream: the reader checks how many
// bytes are pending before consuming any, so the control loop never
// blocks on the link.
type ByteSource interface {
	// Available reports how many bytes can be read without blocking.
	Available() int
	// ReadFull reads exactly len(p) bytes. It must only be called
	// after Available reported at least that many.
	ReadFull(p []byte) error
}

// Reader frames a ByteSource into Frames.
type Reader struct {
	src ByteSource
	buf [FrameSize]byte
}

// NewReader creates a Reader over src.
func NewReader(src ByteSource) *Reader {
	return &Reader{src: src}
}

// ReadFrame returns the next frame once one is fully available.
//
// If fewer than FrameSize bytes are pending it returns
// ErrInsufficientData without consuming anything. Otherwise it
// consumes exactly FrameSize bytes atomically; a sentinel mismatch
// yields a MalformedFrameError with the bytes already gone.
func (r *Reader) ReadFrame() (*Frame, error) {
	if r.src.Available() < FrameSize {
		return nil, ErrInsufficientData
	}
	if err := r.src.ReadFull(r.buf[:]); err != nil {
		return nil, err
	}
	f, err := Decode(r.buf[:])
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// StreamBuffer is an in-memory ByteSource fed by a Write side. The
// serial pump goroutine writes received bytes in; the command loop
// reads frames out.
type StreamBuffer struct {
	lock sync.Mutex
	buf  []byte
}

// Write implements io.Writer, appending p to the pending bytes.
func (b *StreamBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	b.buf = append(b.buf, p...)
	b.lock.Unlock()
	return len(p), nil
}

// Available implements ByteSource.
func (b *StreamBuffer) Available() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.buf)
}

// ReadFull implements ByteSource.
func (b *StreamBuffer) ReadFull(p []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if len(b.buf) < len(p) {
		return io.ErrUnexpectedEOF
	}
	copy(p, b.buf)
	b.buf = b.buf[len(p):]
	return nil
}
