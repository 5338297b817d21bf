package framing

import (
	"fmt"
	"io"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
)

// errIncompleteFrame is returned whenever a frame body is shorter than its
// header or metadata length prefix claims.
var errIncompleteFrame = fmt.Errorf("incomplete frame: %w", common.ErrMalformedFrame)

type tinyFrame struct {
	header      core.FrameHeader
	doneHandler func()
}

func (t *tinyFrame) Header() core.FrameHeader {
	return t.header
}

// Done can be invoked when a frame has been processed.
func (t *tinyFrame) Done() {
	h := t.doneHandler
	t.doneHandler = nil
	if h != nil {
		h()
	}
}

// HandleDone registers a callback invoked the next time Done is called.
func (t *tinyFrame) HandleDone(h func()) {
	t.doneHandler = h
}

// RawFrame is basic frame implementation.
type RawFrame struct {
	*tinyFrame
	body *common.ByteBuff
}

// Body returns frame body.
func (f *RawFrame) Body() *common.ByteBuff {
	return f.body
}

// Release returns the pooled body buffer. The frame must not be used afterwards.
func (f *RawFrame) Release() {
	if f.body != nil {
		common.ReturnByteBuffer(f.body)
		f.body = nil
	}
}

// HasFlag returns true if target frame flag is enabled.
func (f *RawFrame) HasFlag(flag core.FrameFlag) bool {
	return f.header.Flag().Check(flag)
}

// StreamID returns the stream id of current frame.
func (f *RawFrame) StreamID() uint32 {
	return f.header.StreamID()
}

// Len returns length of frame.
func (f *RawFrame) Len() int {
	if f.body == nil {
		return core.FrameHeaderLen
	}
	return core.FrameHeaderLen + f.body.Len()
}

// WriteTo write frame to writer.
func (f *RawFrame) WriteTo(w io.Writer) (n int64, err error) {
	var wrote int64
	wrote, err = f.header.WriteTo(w)
	if err != nil {
		return
	}
	n += wrote
	if f.body != nil {
		wrote, err = f.body.WriteTo(w)
		if err != nil {
			return
		}
		n += wrote
	}
	return
}

func (f *RawFrame) trySeekMetadataLen(offset int) (n int, hasMetadata bool) {
	raw := f.body.Bytes()
	if offset > 0 {
		raw = raw[offset:]
	}
	hasMetadata = f.header.Flag().Check(core.FlagMetadata)
	if !hasMetadata {
		return
	}
	if len(raw) < 3 {
		n = -1
	} else {
		n = common.NewUint24Bytes(raw).AsInt()
	}
	return
}

func (f *RawFrame) trySliceMetadata(offset int) ([]byte, bool) {
	n, ok := f.trySeekMetadataLen(offset)
	if !ok || n < 0 {
		return nil, false
	}
	return f.body.Bytes()[offset+3 : offset+3+n], true
}

func (f *RawFrame) trySliceData(offset int) []byte {
	n, ok := f.trySeekMetadataLen(offset)
	if !ok {
		return f.body.Bytes()[offset:]
	}
	if n < 0 {
		return nil
	}
	return f.body.Bytes()[offset+n+3:]
}

func newTinyFrame(header core.FrameHeader) *tinyFrame {
	return &tinyFrame{
		header: header,
	}
}

// baseDefaultFrame and baseWriteableFrame are the embeddable shapes every
// per-type frame/writeable-frame pair in this package builds on: a parsed
// frame backed by a pooled body buffer, and an outbound frame backed by its
// own field values, written directly without an intermediate buffer.
type baseDefaultFrame = RawFrame

func newBaseDefaultFrame(header core.FrameHeader, body *common.ByteBuff) *baseDefaultFrame {
	return NewRawFrame(header, body)
}

type baseWriteableFrame = tinyFrame

func newBaseWriteableFrame(header core.FrameHeader) baseWriteableFrame {
	return tinyFrame{
		header: header,
	}
}

// NewRawFrame returns a new RawFrame.
func NewRawFrame(header core.FrameHeader, body *common.ByteBuff) *RawFrame {
	return &RawFrame{
		tinyFrame: newTinyFrame(header),
		body:      body,
	}
}

// FromBytes creates frame from a byte slice.
func FromBytes(b []byte) (core.BufferedFrame, error) {
	if len(b) < core.FrameHeaderLen {
		return nil, errIncompleteFrame
	}
	header := core.ParseFrameHeader(b[:core.FrameHeaderLen])
	bb := common.BorrowByteBuffer()
	_, err := bb.Write(b[core.FrameHeaderLen:])
	if err != nil {
		common.ReturnByteBuffer(bb)
		return nil, err
	}
	frame, err := FromRawFrame(NewRawFrame(header, bb))
	if err != nil {
		common.ReturnByteBuffer(bb)
		return nil, err
	}
	return frame, nil
}
