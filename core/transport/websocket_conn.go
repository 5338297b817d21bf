package transport

import (
	"bytes"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/core/framing"
	"github.com/rsocket-go-contrib/fragment/logger"
)

var _buffPool = sync.Pool{
	New: func() interface{} { return &bytes.Buffer{} },
}

// RawWsConn is the subset of a gorilla websocket connection this transport needs.
type RawWsConn interface {
	io.Closer
	SetReadDeadline(time.Time) error
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// WsConn is RSocket connection for WebSocket transport. A WebSocket message is
// self-delimiting, so frames travel without a length prefix.
type WsConn struct {
	c       RawWsConn
	counter *core.TrafficCounter
}

// SetCounter bind a counter which can count r/w bytes.
func (p *WsConn) SetCounter(c *core.TrafficCounter) {
	p.counter = c
}

// SetDeadline set deadline for current connection.
func (p *WsConn) SetDeadline(deadline time.Time) error {
	return p.c.SetReadDeadline(deadline)
}

// Read reads next frame from Conn.
func (p *WsConn) Read() (f core.BufferedFrame, err error) {
	t, raw, err := p.c.ReadMessage()
	if err == io.EOF {
		return
	}
	if err != nil {
		err = errors.Wrap(err, "read frame failed")
		return
	}
	if t != websocket.BinaryMessage {
		logger.Warnf("omit non-binary message %d\n", t)
		return p.Read()
	}

	f, err = framing.FromBytes(raw)
	if err != nil {
		err = errors.Wrap(err, "read frame failed")
		return
	}

	if p.counter != nil && f.Header().Resumable() {
		p.counter.IncReadBytes(f.Len())
	}

	err = f.Validate()
	if err != nil {
		err = errors.Wrap(err, "read frame failed")
		return
	}
	if logger.IsDebugEnabled() {
		logger.Debugf("%s\n", framing.PrintFrame(f))
	}
	return
}

// Flush is a no-op: every Write already went out as one message.
func (p *WsConn) Flush() (err error) {
	return
}

// Write writes a frame as a single binary message.
func (p *WsConn) Write(frame core.WriteableFrame) (err error) {
	size := frame.Len()
	bf := _buffPool.Get().(*bytes.Buffer)
	defer func() {
		bf.Reset()
		_buffPool.Put(bf)
	}()
	_, err = frame.WriteTo(bf)
	if err != nil {
		return
	}
	err = p.c.WriteMessage(websocket.BinaryMessage, bf.Bytes())
	if err == io.EOF {
		return
	}
	if err != nil {
		err = errors.Wrap(err, "write frame failed")
		return
	}
	if p.counter != nil && frame.Header().Resumable() {
		p.counter.IncWriteBytes(size)
	}
	if logger.IsDebugEnabled() {
		logger.Debugf("%s\n", framing.PrintFrame(frame))
	}
	return
}

// Close close current connection.
func (p *WsConn) Close() error {
	return p.c.Close()
}

// NewWebsocketConnection creates a new WebSocket RSocket connection.
func NewWebsocketConnection(rawConn RawWsConn) *WsConn {
	return &WsConn{
		c: rawConn,
	}
}
