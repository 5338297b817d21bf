package fragmentation

import (
	"fmt"
	"testing"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/core/framing"
	"github.com/stretchr/testify/assert"
)

func TestJoiner(t *testing.T) {
	const totals = 10
	const sid = uint32(1)
	joiner := NewJoiner(framing.NewPayloadFrame(sid, []byte("(ROOT)"), []byte("(ROOT)"), core.FlagFollow))
	defer joiner.Release()
	var wantMetadata, wantData []byte
	wantMetadata = append(wantMetadata, "(ROOT)"...)
	wantData = append(wantData, "(ROOT)"...)
	for i := 0; i < totals; i++ {
		data := fmt.Sprintf("(data%04d)", i)
		wantData = append(wantData, data...)
		var frame *framing.PayloadFrame
		if i < 3 {
			meta := fmt.Sprintf("(meta%04d)", i)
			wantMetadata = append(wantMetadata, meta...)
			frame = framing.NewPayloadFrame(sid, []byte(data), []byte(meta), core.FlagFollow)
		} else if i != totals-1 {
			frame = framing.NewPayloadFrame(sid, []byte(data), nil, core.FlagFollow)
		} else {
			frame = framing.NewPayloadFrame(sid, []byte(data), nil, core.FlagNext|core.FlagComplete)
		}
		end := joiner.Push(frame)
		assert.Equal(t, i == totals-1, end)
	}
	m, ok := joiner.Metadata()
	assert.True(t, ok)
	assert.Equal(t, wantMetadata, m)
	assert.Equal(t, wantData, joiner.Data())
	assert.Equal(t, len(wantMetadata)+len(wantData), joiner.Size())

	h := joiner.Header()
	assert.Equal(t, sid, h.StreamID())
	assert.Equal(t, core.FrameTypePayload, h.Type())
	assert.False(t, h.Flag().Check(core.FlagFollow), "follows flag must be cleared")
	assert.True(t, h.Flag().Check(core.FlagMetadata))
	assert.True(t, h.Flag().Check(core.FlagNext), "next flag comes from terminal fragment")
	assert.True(t, h.Flag().Check(core.FlagComplete), "complete flag comes from terminal fragment")
}

func TestJoiner_RequestFlagsFromFirst(t *testing.T) {
	const sid = uint32(7)
	first := framing.NewRequestChannelFrame(sid, 42, []byte("abc"), nil, core.FlagFollow|core.FlagComplete)
	joiner := NewJoiner(first)
	defer joiner.Release()
	end := joiner.Push(framing.NewPayloadFrame(sid, []byte("def"), nil, 0))
	assert.True(t, end)

	h := joiner.Header()
	assert.Equal(t, core.FrameTypeRequestChannel, h.Type())
	assert.False(t, h.Flag().Check(core.FlagFollow))
	assert.True(t, h.Flag().Check(core.FlagComplete), "request frame keeps the first fragment flags")
	assert.False(t, h.Flag().Check(core.FlagMetadata))
	assert.Equal(t, []byte("abcdef"), joiner.Data())

	frame, ok := joiner.First().(*framing.RequestChannelFrame)
	assert.True(t, ok)
	assert.Equal(t, uint32(42), frame.InitialRequestN())
}
