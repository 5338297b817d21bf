package framing

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/stretchr/testify/assert"
)

const _sid uint32 = 1234

type validator interface {
	Validate() error
}

func TestFromBytes(t *testing.T) {
	_, err := FromBytes([]byte{})
	assert.Error(t, err, "should be error")
	assert.True(t, errors.Is(err, common.ErrMalformedFrame))

	b := &bytes.Buffer{}
	frame := NewWriteableRequestResponseFrame(42, []byte("fake-data"), []byte("fake-metadata"), 0)
	_, _ = frame.WriteTo(b)
	frameActual, err := FromBytes(b.Bytes())
	assert.NoError(t, err, "should not be error")
	assert.Equal(t, frame.Header(), frameActual.Header(), "header does not match")
	assert.Equal(t, frame.Len(), frameActual.Len())
}

func TestFrameCancel(t *testing.T) {
	f := NewCancelFrame(_sid)
	checkBasic(t, f, core.FrameTypeCancel)
	f2 := NewWriteableCancelFrame(_sid)
	checkBytes(t, f, f2)
}

func TestFrameError(t *testing.T) {
	errData := []byte(common.RandAlphanumeric(10))
	f := NewErrorFrame(_sid, core.ErrorCodeApplicationError, errData)
	checkBasic(t, f, core.FrameTypeError)
	assert.Equal(t, core.ErrorCodeApplicationError, f.ErrorCode())
	assert.Equal(t, errData, f.ErrorData())
	assert.NotEmpty(t, f.Error())

	var ce core.CustomError = f
	assert.Equal(t, core.ErrorCodeApplicationError, ce.ErrorCode())
	assert.Equal(t, errData, ce.ErrorData())

	f2 := NewWriteableErrorFrame(_sid, core.ErrorCodeApplicationError, errData)
	checkBytes(t, f, f2)
}

func TestFrameFNF(t *testing.T) {
	b := []byte(common.RandAlphanumeric(100))

	f := NewFireAndForgetFrame(_sid, b, nil, core.FlagNext)
	checkBasic(t, f, core.FrameTypeRequestFNF)
	assert.Equal(t, b, f.Data())
	_ = f.DataUTF8()
	metadata, ok := f.Metadata()
	assert.False(t, ok)
	assert.Nil(t, metadata)
	assert.True(t, f.Header().Flag().Check(core.FlagNext))
	assert.False(t, f.Header().Flag().Check(core.FlagMetadata))
	f2 := NewWriteableFireAndForgetFrame(_sid, b, nil, core.FlagNext)
	checkBytes(t, f, f2)

	f = NewFireAndForgetFrame(_sid, nil, b, core.FlagNext)
	checkBasic(t, f, core.FrameTypeRequestFNF)
	assert.Empty(t, f.Data())
	metadata, ok = f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, metadata)
	_, _ = f.MetadataUTF8()
	assert.True(t, f.Header().Flag().Check(core.FlagMetadata))
	f2 = NewWriteableFireAndForgetFrame(_sid, nil, b, core.FlagNext)
	checkBytes(t, f, f2)
}

func TestFrameKeepalive(t *testing.T) {
	pos := uint64(rand.Int63n(1 << 32))
	d := []byte(common.RandAlphanumeric(100))
	f := NewKeepaliveFrame(pos, d, true)
	checkBasic(t, f, core.FrameTypeKeepalive)
	assert.Equal(t, d, f.Data())
	assert.Equal(t, pos, f.LastReceivedPosition())
	assert.True(t, f.Header().Flag().Check(core.FlagRespond))
	f2 := NewWriteableKeepaliveFrame(pos, d, true)
	checkBytes(t, f, f2)
}

func TestFrameLease(t *testing.T) {
	metadata := []byte("foobar")
	n := uint32(4444)
	f := NewLeaseFrame(time.Second, n, metadata)
	checkBasic(t, f, core.FrameTypeLease)
	assert.Equal(t, time.Second, f.TimeToLive())
	assert.Equal(t, n, f.NumberOfRequests())
	assert.Equal(t, metadata, f.Metadata())
	f2 := NewWriteableLeaseFrame(time.Second, n, metadata)
	checkBytes(t, f, f2)
}

func TestFrameMetadataPush(t *testing.T) {
	metadata := []byte("foobar")
	f := NewMetadataPushFrame(metadata)
	assert.Nil(t, f.Data(), "should be nil")
	assert.Equal(t, "", f.DataUTF8(), "should be zero string")
	checkBasic(t, f, core.FrameTypeMetadataPush)
	metadata2, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, metadata, metadata2)
	_, _ = f.MetadataUTF8()

	f2 := NewWriteableMetadataPushFrame(metadata)
	checkBytes(t, f, f2)
}

func TestFramePayload(t *testing.T) {
	b := []byte("foobar")
	f := NewPayloadFrame(_sid, b, b, core.FlagNext)
	checkBasic(t, f, core.FrameTypePayload)
	m, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, f.Data())
	assert.Equal(t, b, m)
	_ = f.DataUTF8()
	_, _ = f.MetadataUTF8()
	assert.Equal(t, core.FlagNext|core.FlagMetadata, f.Header().Flag())

	fs := NewPayloadFrameSupport(_sid, b, b, core.FlagNext)
	checkGeneric(t, f, fs)
	assert.Equal(t, b, fs.Data())
	_ = fs.DataUTF8()
	m2, ok := fs.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, m2)
}

func TestFrameRequestChannel(t *testing.T) {
	b := []byte("foobar")
	n := uint32(1)
	f := NewRequestChannelFrame(_sid, n, b, b, core.FlagNext)
	checkBasic(t, f, core.FrameTypeRequestChannel)
	assert.Equal(t, n, f.InitialRequestN())
	assert.Equal(t, b, f.Data())
	m, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, m)
	_ = f.DataUTF8()
	_, _ = f.MetadataUTF8()

	f2 := NewWriteableRequestChannelFrame(_sid, n, b, b, core.FlagNext)
	checkBytes(t, f, f2)
}

func TestFrameRequestN(t *testing.T) {
	n := uint32(1234)
	f := NewRequestNFrame(_sid, n, 0)
	checkBasic(t, f, core.FrameTypeRequestN)
	assert.Equal(t, n, f.N())
	f2 := NewWriteableRequestNFrame(_sid, n, 0)
	checkBytes(t, f, f2)
}

func TestFrameRequestResponse(t *testing.T) {
	b := []byte("foobar")
	f := NewRequestResponseFrame(_sid, b, b, core.FlagNext)
	checkBasic(t, f, core.FrameTypeRequestResponse)
	assert.Equal(t, b, f.Data())
	m, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, m)
	assert.Equal(t, core.FlagNext|core.FlagMetadata, f.Header().Flag())
	_ = f.DataUTF8()
	_, _ = f.MetadataUTF8()

	f2 := NewWriteableRequestResponseFrame(_sid, b, b, core.FlagNext)
	checkGeneric(t, f, f2)
}

func TestFrameRequestStream(t *testing.T) {
	b := []byte("foobar")
	n := uint32(1234)
	f := NewRequestStreamFrame(_sid, n, b, b, core.FlagNext)
	checkBasic(t, f, core.FrameTypeRequestStream)
	assert.Equal(t, b, f.Data())
	assert.Equal(t, n, f.InitialRequestN())
	m, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, b, m)
	_, _ = f.MetadataUTF8()
	_ = f.DataUTF8()

	f2 := NewWriteableRequestStreamFrame(_sid, n, b, b, core.FlagNext)
	checkGeneric(t, f, f2)
}

func TestFrameResume(t *testing.T) {
	v := core.NewVersion(3, 1)
	token := []byte("hello")
	p1 := uint64(333)
	p2 := uint64(444)
	f := NewResumeFrame(v, token, p1, p2)
	checkBasic(t, f, core.FrameTypeResume)
	assert.Equal(t, token, f.Token())
	assert.Equal(t, p1, f.FirstAvailableClientPosition())
	assert.Equal(t, p2, f.LastReceivedServerPosition())
	assert.Equal(t, v.Major(), f.Version().Major())
	assert.Equal(t, v.Minor(), f.Version().Minor())
	f2 := NewWriteableResumeFrame(v, token, p1, p2)
	checkBytes(t, f, f2)
}

func TestFrameResumeOK(t *testing.T) {
	pos := uint64(1234)
	f := NewResumeOKFrame(pos)
	checkBasic(t, f, core.FrameTypeResumeOK)
	assert.Equal(t, pos, f.LastReceivedClientPosition())
	f2 := NewWriteableResumeOKFrame(pos)
	checkBytes(t, f, f2)
}

func TestFrameSetup(t *testing.T) {
	v := core.NewVersion(3, 1)
	timeKeepalive := 20 * time.Second
	maxLifetime := time.Minute + 30*time.Second
	var token []byte
	mimeData := []byte("application/binary")
	mimeMetadata := []byte("application/binary")
	d := []byte("hello")
	m := []byte("world")
	f := NewSetupFrame(v, timeKeepalive, maxLifetime, token, mimeMetadata, mimeData, d, m, false)
	checkBasic(t, f, core.FrameTypeSetup)
	assert.Equal(t, v.Major(), f.Version().Major())
	assert.Equal(t, v.Minor(), f.Version().Minor())
	assert.Equal(t, timeKeepalive, f.TimeBetweenKeepalive())
	assert.Equal(t, maxLifetime, f.MaxLifetime())
	assert.Equal(t, token, f.Token())
	assert.Equal(t, string(mimeData), f.DataMimeType())
	assert.Equal(t, string(mimeMetadata), f.MetadataMimeType())
	assert.Equal(t, d, f.Data())
	m2, ok := f.Metadata()
	assert.True(t, ok)
	assert.Equal(t, m, m2)
	_ = f.DataUTF8()
	_, _ = f.MetadataUTF8()

	fs := NewWriteableSetupFrame(v, timeKeepalive, maxLifetime, token, mimeMetadata, mimeData, d, m, false)
	checkBytes(t, f, fs)
}

func checkBasic(t *testing.T, f core.Frame, typ core.FrameType) {
	sid := _sid
	switch typ {
	case core.FrameTypeKeepalive, core.FrameTypeSetup, core.FrameTypeLease, core.FrameTypeResume, core.FrameTypeResumeOK, core.FrameTypeMetadataPush:
		sid = 0
	}
	assert.Equal(t, sid, f.Header().StreamID(), "wrong frame stream id")
	if v, ok := f.(validator); ok {
		assert.NoError(t, v.Validate(), "validate frame type failed")
	}
	assert.Equal(t, typ, f.Header().Type(), "frame type doesn't match")
	assert.NotEqual(t, "UNKNOWN", f.Header().Type().String())
}

type writableFrame interface {
	core.Frame
	io.WriterTo
}

func checkBytes(t *testing.T, a core.Frame, b writableFrame) {
	checkGeneric(t, a, b)
}

func checkGeneric(t *testing.T, a core.Frame, b writableFrame) {
	wa, ok := a.(io.WriterTo)
	assert.True(t, ok, "parsed frame should implement io.WriterTo")
	assert.Equal(t, a.Len(), b.Len())

	bufA, bufB := &bytes.Buffer{}, &bytes.Buffer{}
	_, err := wa.WriteTo(bufA)
	assert.NoError(t, err)
	_, err = b.WriteTo(bufB)
	assert.NoError(t, err)
	assert.Equal(t, bufA.Bytes(), bufB.Bytes(), "bytes doesn't match")
}
