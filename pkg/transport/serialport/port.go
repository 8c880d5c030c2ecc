// Package serialport adapts a serial device to the non-blocking byte
// source the wire codec reads. A pump goroutine moves device bytes
// into an in-memory buffer; the command loop polls the buffer and
// never blocks on the device.
package serialport

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"
	"go.bug.st/serial"

	fx "github.com/roverbotics/rover.go/pkg/framework"
	"github.com/roverbotics/rover.go/pkg/wire"
)

// Port wraps an open serial device.
type Port struct {
	rw  io.ReadWriteCloser
	buf wire.StreamBuffer
}

// Open opens the named device at the given baud rate, 8N1.
func Open(name string, baud int) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	dev, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return New(dev), nil
}

// New wraps any ReadWriteCloser. Tests use an in-memory pipe.
func New(rw io.ReadWriteCloser) *Port {
	return &Port{rw: rw}
}

// Source returns the byte source fed by the pump.
func (p *Port) Source() wire.ByteSource {
	return &p.buf
}

// Write sends bytes out the device.
func (p *Port) Write(b []byte) (int, error) {
	return p.rw.Write(b)
}

// Close closes the device, unblocking the pump.
func (p *Port) Close() error {
	return p.rw.Close()
}

// Name implements Named.
func (p *Port) Name() string { return "serialport" }

// Run implements Runnable: it pumps device bytes into the buffer
// until the context ends or the device fails.
func (p *Port) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p, func() error {
		buf := make([]byte, 64)
		for {
			n, err := p.rw.Read(buf)
			if n > 0 {
				p.buf.Write(buf[:n])
			}
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
					glog.V(1).Info("serial: device closed")
					return nil
				}
				return err
			}
		}
	})
}
