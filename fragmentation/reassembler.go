package fragmentation

import (
	"fmt"
	"sync"

	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/internal/common"
)

// Reassembler accumulates inbound fragments per stream id and emits the
// reassembled frame when the terminal fragment of a chain arrives.
//
// The stream map tolerates concurrent access, but a stream's accumulator is
// not synchronized: calls that touch the same stream id (including Dispose)
// must not run concurrently. A connection's receive loop feeds it from a
// single goroutine.
type Reassembler struct {
	joiners sync.Map // key=streamID, value=Joiner
	maxSize int
}

// NewReassembler creates a Reassembler. A positive maxSize caps the
// accumulated metadata+data bytes per stream; zero or negative means no cap.
func NewReassembler(maxSize int) *Reassembler {
	return &Reassembler{
		maxSize: maxSize,
	}
}

// Reassemble feeds one inbound frame through the reassembly state machine.
// It returns a non-nil frame when input completes a chain or is not part of
// one, otherwise nil while the chain is still being collected.
func (r *Reassembler) Reassemble(input HeaderAndPayload) (out HeaderAndPayload, err error) {
	h := input.Header()
	sid := h.StreamID()
	if v, loaded := r.joiners.Load(sid); loaded {
		joiner := v.(Joiner)
		if h.Type() != core.FrameTypePayload {
			r.joiners.Delete(sid)
			joiner.Release()
			common.TryRelease(input)
			err = fmt.Errorf("reassemble stream %d: continuation frame type %s: %w", sid, h.Type(), common.ErrReassemblyProtocolViolation)
			return
		}
		end := joiner.Push(input)
		if r.maxSize > 0 && joiner.Size() > r.maxSize {
			r.joiners.Delete(sid)
			joiner.Release()
			err = fmt.Errorf("reassemble stream %d: %d bytes accumulated: %w", sid, joiner.Size(), common.ErrReassemblyTooLarge)
			return
		}
		if end {
			r.joiners.Delete(sid)
			out = joiner
		}
		return
	}
	if !h.Flag().Check(core.FlagFollow) || !IsFragmentable(h.Type()) {
		out = input
		return
	}
	joiner := NewJoiner(input)
	if r.maxSize > 0 && joiner.Size() > r.maxSize {
		joiner.Release()
		err = fmt.Errorf("reassemble stream %d: %d bytes accumulated: %w", sid, joiner.Size(), common.ErrReassemblyTooLarge)
		return
	}
	r.joiners.Store(sid, joiner)
	return
}

// Abort drops any partial chain collected for the given stream id.
func (r *Reassembler) Abort(sid uint32) {
	if v, loaded := r.joiners.LoadAndDelete(sid); loaded {
		v.(Joiner).Release()
	}
}

// Dispose releases all pending accumulators. No frame is emitted.
func (r *Reassembler) Dispose() {
	r.joiners.Range(func(key, value interface{}) bool {
		r.joiners.Delete(key)
		value.(Joiner).Release()
		return true
	})
}
