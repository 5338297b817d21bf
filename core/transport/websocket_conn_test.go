package transport_test

import (
	"io"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rsocket-go-contrib/fragment/core/framing"
	"github.com/rsocket-go-contrib/fragment/core/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWsConn struct {
	messages [][]byte
	types    []int
	wrote    [][]byte
	closed   bool
}

func (c *fakeWsConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeWsConn) SetReadDeadline(time.Time) error { return nil }

func (c *fakeWsConn) ReadMessage() (int, []byte, error) {
	if len(c.messages) == 0 {
		return 0, nil, io.EOF
	}
	t, p := c.types[0], c.messages[0]
	c.types, c.messages = c.types[1:], c.messages[1:]
	return t, p, nil
}

func (c *fakeWsConn) WriteMessage(messageType int, data []byte) error {
	clone := make([]byte, len(data))
	copy(clone, data)
	c.wrote = append(c.wrote, clone)
	return nil
}

func TestWsConn_WriteThenRead(t *testing.T) {
	raw := &fakeWsConn{}
	sender := transport.NewWebsocketConnection(raw)

	frame := framing.NewWriteableFireAndForgetFrame(3, []byte("hello"), nil, 0)
	require.NoError(t, sender.Write(frame))
	require.NoError(t, sender.Flush())
	require.Len(t, raw.wrote, 1)
	// Frames travel without a length prefix: the message IS the frame.
	assert.Equal(t, frame.Len(), len(raw.wrote[0]))

	receiver := transport.NewWebsocketConnection(&fakeWsConn{
		messages: raw.wrote,
		types:    []int{websocket.BinaryMessage},
	})
	got, err := receiver.Read()
	require.NoError(t, err)
	assert.Equal(t, frame.Header(), got.Header())
	fnf, ok := got.(*framing.FireAndForgetFrame)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), fnf.Data())
	got.Release()
}

func TestWsConn_SkipNonBinaryMessage(t *testing.T) {
	frame := framing.NewWriteableFireAndForgetFrame(3, []byte("x"), nil, 0)
	raw := &fakeWsConn{}
	sender := transport.NewWebsocketConnection(raw)
	require.NoError(t, sender.Write(frame))

	receiver := transport.NewWebsocketConnection(&fakeWsConn{
		messages: [][]byte{[]byte("chatter"), raw.wrote[0]},
		types:    []int{websocket.TextMessage, websocket.BinaryMessage},
	})
	got, err := receiver.Read()
	require.NoError(t, err)
	assert.Equal(t, frame.Header(), got.Header())
	got.Release()
}
