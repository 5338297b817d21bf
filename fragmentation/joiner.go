package fragmentation

import (
	"container/list"
	"fmt"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"go.uber.org/atomic"
)

type implJoiner struct {
	root *list.List // list of HeaderAndPayload
	size *atomic.Int64
}

func (p *implJoiner) Release() {
	for cur := p.root.Front(); cur != nil; cur = cur.Next() {
		common.TryRelease(cur.Value)
	}
	p.root.Init()
}

func (p *implJoiner) First() core.BufferedFrame {
	first := p.root.Front()
	if first == nil {
		panic("no frames in current joiner")
	}
	return first.Value.(core.BufferedFrame)
}

func (p *implJoiner) first() HeaderAndPayload {
	first := p.root.Front()
	if first == nil {
		panic("no frames in current joiner")
	}
	return first.Value.(HeaderAndPayload)
}

// Header returns the header of the reassembled frame: the first fragment's
// stream id and type, the follows flag cleared, the metadata flag set iff any
// fragment contributed metadata. For PAYLOAD chains the next/complete flags
// describe the payload as a whole and travel on the terminal fragment, so they
// are taken from the last frame instead of the first.
func (p *implJoiner) Header() core.FrameHeader {
	h := p.first().Header()
	flag := h.Flag()
	flag &= ^core.FlagFollow
	if _, ok := p.Metadata(); ok {
		flag |= core.FlagMetadata
	} else {
		flag &= ^core.FlagMetadata
	}
	if h.Type() == core.FrameTypePayload {
		flag &= ^(core.FlagNext | core.FlagComplete)
		if last := p.root.Back(); last != nil {
			flag |= last.Value.(HeaderAndPayload).Header().Flag() & (core.FlagNext | core.FlagComplete)
		}
	}
	return core.NewFrameHeader(h.StreamID(), h.Type(), flag)
}

func (p *implJoiner) String() string {
	m, _ := p.MetadataUTF8()
	return fmt.Sprintf("Joiner{data=%s,metadata=%s}", p.DataUTF8(), m)
}

func (p *implJoiner) Metadata() (metadata []byte, ok bool) {
	for cur := p.root.Front(); cur != nil; cur = cur.Next() {
		f := cur.Value.(HeaderAndPayload)
		if !f.Header().Flag().Check(core.FlagMetadata) {
			continue
		}
		if m, has := f.Metadata(); has {
			metadata = append(metadata, m...)
			ok = true
		}
	}
	return
}

func (p *implJoiner) MetadataUTF8() (metadata string, ok bool) {
	var m []byte
	m, ok = p.Metadata()
	if ok {
		metadata = string(m)
	}
	return
}

func (p *implJoiner) Data() (data []byte) {
	for cur := p.root.Front(); cur != nil; cur = cur.Next() {
		f := cur.Value.(HeaderAndPayload)
		if d := f.Data(); len(d) > 0 {
			data = append(data, d...)
		}
	}
	return
}

func (p *implJoiner) DataUTF8() (data string) {
	if d := p.Data(); len(d) > 0 {
		data = string(d)
	}
	return
}

func (p *implJoiner) Push(elem HeaderAndPayload) (end bool) {
	p.root.PushBack(elem)
	p.size.Add(sizeOf(elem))
	end = !elem.Header().Flag().Check(core.FlagFollow)
	return
}

func (p *implJoiner) Size() int {
	return int(p.size.Load())
}

// Len returns the wire length of the reassembled frame: the first fragment
// keeps its header and prefix fields, continuations contribute only their
// payload bytes.
func (p *implJoiner) Len() int {
	n := p.First().Len()
	for cur := p.root.Front().Next(); cur != nil; cur = cur.Next() {
		f := cur.Value.(HeaderAndPayload)
		if sized, ok := f.(core.Frame); ok {
			n += sized.Len() - core.FrameHeaderLen
			if f.Header().Flag().Check(core.FlagMetadata) {
				n -= 3
			}
		}
	}
	return n
}
