package wire

import (
	"encoding/binary"
	"io"
)

// Command identifiers.
const (
	CmdStopAll          byte = 0
	CmdSetTrigger       byte = 1
	CmdSetLeftVelocity  byte = 2
	CmdSetRightVelocity byte = 3
	CmdPulseStep        byte = 4
	CmdSetRoam          byte = 5
)

// Terminator is the sentinel byte closing every frame.
const Terminator byte = '\n'

// FrameSize is the fixed encoded size of a Frame.
const FrameSize = 4

// VelocityMidpoint is the unsigned value representing zero velocity.
// The 16-bit parameter of the velocity commands is a signed offset
// from this midpoint.
const VelocityMidpoint uint16 = 32768

// Frame is one command record on the serial link.
type Frame struct {
	Command byte
	Param   uint16
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	b[0] = f.Command
	binary.BigEndian.PutUint16(b[1:3], f.Param)
	b[3] = Terminator
	return b
}

// WriteTo writes the encoded frame. It implements io.WriterTo.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// Decode parses one frame from exactly FrameSize bytes. The sentinel
// must match or the frame is rejected as malformed; the caller has
// already consumed the bytes either way.
func Decode(b []byte) (Frame, error) {
	if len(b) < FrameSize {
		return Frame{}, ErrInsufficientData
	}
	if b[3] != Terminator {
		e := &MalformedFrameError{}
		copy(e.Raw[:], b[:FrameSize])
		return Frame{}, e
	}
	return Frame{
		Command: b[0],
		Param:   binary.BigEndian.Uint16(b[1:3]),
	}, nil
}

// Velocity decodes the signed velocity carried by a velocity command
// parameter.
func (f *Frame) Velocity() int32 {
	return int32(f.Param) - int32(VelocityMidpoint)
}

// VelocityParam encodes a signed velocity as the unsigned midpoint
// offset carried on the wire.
func VelocityParam(v int16) uint16 {
	return uint16(int32(v) + int32(VelocityMidpoint))
}
