package fragmentation

import (
	"container/list"
	"fmt"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/rsocket-go-contrib/fragment/payload"
	"go.uber.org/atomic"
)

const (
	// MinFragment is minimum fragment size in bytes.
	MinFragment = core.FrameHeaderLen + 4
	// MaxFragment is maximum fragment size in bytes.
	MaxFragment = common.MaxUint24 - 3
)

var errInvalidFragmentLen = fmt.Errorf("invalid fragment: [%d,%d]", MinFragment, MaxFragment)

// HeaderAndPayload is Payload which having a FrameHeader.
type HeaderAndPayload interface {
	payload.Payload
	// Header returns a header of frame.
	Header() core.FrameHeader
}

// Joiner is used to join frames to a payload.
type Joiner interface {
	common.Releasable
	HeaderAndPayload
	// First returns the first frame.
	First() core.BufferedFrame
	// Push append a new frame and returns true if joiner is end.
	Push(elem HeaderAndPayload) (end bool)
	// Size returns the accumulated payload size in bytes.
	Size() int
	// Len returns the wire length of the reassembled frame.
	Len() int
}

// NewJoiner returns a new joiner.
func NewJoiner(first HeaderAndPayload) Joiner {
	root := list.New()
	root.PushBack(first)
	j := &implJoiner{
		root: root,
		size: atomic.NewInt64(0),
	}
	j.size.Add(sizeOf(first))
	return j
}

// IsValidFragment validate fragment size.
func IsValidFragment(fragment int) (err error) {
	if fragment < MinFragment || fragment > MaxFragment {
		err = errInvalidFragmentLen
	}
	return
}

// IsFragmentable returns true for frame types whose payload may legally be split.
func IsFragmentable(t core.FrameType) bool {
	switch t {
	case core.FrameTypeRequestResponse,
		core.FrameTypeRequestFNF,
		core.FrameTypeRequestStream,
		core.FrameTypeRequestChannel,
		core.FrameTypePayload:
		return true
	default:
		return false
	}
}

func sizeOf(elem HeaderAndPayload) (n int64) {
	n = int64(len(elem.Data()))
	if m, ok := elem.Metadata(); ok {
		n += int64(len(m))
	}
	return
}
