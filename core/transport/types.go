package transport

import (
	"io"
	"time"

	"github.com/rsocket-go-contrib/fragment/core"
)

// Conn is a frame-level duplex connection. Implementations decide how frames
// are delimited on the wire: a TCP connection prefixes every frame with its
// 24-bit length, a WebSocket connection maps one frame to one binary message.
type Conn interface {
	io.Closer
	// SetDeadline set a read deadline for current connection.
	// After this deadline, reads fail; the connection is not closed.
	SetDeadline(deadline time.Time) error
	// SetCounter bind a counter which can count r/w bytes.
	SetCounter(c *core.TrafficCounter)
	// Read reads next frame from Conn.
	Read() (core.BufferedFrame, error)
	// Write writes a frame to Conn.
	Write(core.WriteableFrame) error
	// Flush flushes buffered writes to the wire.
	Flush() error
}
