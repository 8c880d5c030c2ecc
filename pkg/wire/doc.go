// Package wire implements the fixed-frame binary command protocol
// spoken over the serial link between the host controller and the
// robot.
package wire

// Each frame is exactly four bytes: a command identifier, a 16-bit
// big-endian parameter and a line-feed sentinel. Framing is
// fixed-width, not delimiter-scanned: a single dropped byte leaves the
// stream misaligned until a frame happens to land on the sentinel
// again. The mitigation is discard-and-retry: on a sentinel mismatch
// the four consumed bytes are dropped and the caller keeps reading.
// Callers should log such desync events separately from ordinary
// command errors, since a burst of them indicates a damaged link
// rather than a bad sender.
//
// Producer: host controller
// Consumer: robot control core
