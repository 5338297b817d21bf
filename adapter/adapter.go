// Package adapter wraps a frame-level connection with transparent
// fragmentation and reassembly. Outbound frames larger than the configured
// MTU are split into a chain of wire fragments, inbound fragment chains are
// buffered per stream and surfaced as one logical frame.
package adapter

import (
	"io"
	"sync"

	"github.com/panjf2000/ants"
	"github.com/pkg/errors"
	"github.com/rsocket-go-contrib/fragment/core"
	"github.com/rsocket-go-contrib/fragment/core/framing"
	"github.com/rsocket-go-contrib/fragment/core/transport"
	"github.com/rsocket-go-contrib/fragment/fragmentation"
	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/rsocket-go-contrib/fragment/logger"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

// FrameHandler handles one inbound logical frame. The handler owns the frame
// and must release it.
type FrameHandler = func(frame core.Frame) error

// Config configures an Adapter.
type Config struct {
	// MTU caps the wire size of a single fragment. Zero or negative disables
	// fragmentation entirely.
	MTU int
	// MaxReassemblySize caps the accumulated metadata+data bytes per stream
	// while reassembling. Zero means no cap.
	MaxReassemblySize int
}

// Adapter is a fragmenting duplex connection. Whether wire frames carry a
// length prefix is decided by the underlying transport.Conn: a TCP connection
// prefixes, a WebSocket connection does not.
type Adapter struct {
	conn        transport.Conn
	mtu         int
	reassembler *fragmentation.Reassembler
	counter     *core.TrafficCounter
	pool        *ants.Pool
	dispatching sync.WaitGroup
	onError     func(error)
	closed      *atomic.Bool
	closeOnce   sync.Once
	closeHooks  []func()
	mu          sync.Mutex
}

// New creates an Adapter over conn.
func New(conn transport.Conn, conf Config) (*Adapter, error) {
	if conf.MTU > 0 {
		if err := fragmentation.IsValidFragment(conf.MTU); err != nil {
			return nil, err
		}
	}
	// A single worker keeps handler dispatch in frame order while a slow
	// handler still cannot starve buffer reclaim in the read loop.
	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}
	counter := core.NewTrafficCounter()
	conn.SetCounter(counter)
	return &Adapter{
		conn:        conn,
		mtu:         conf.MTU,
		reassembler: fragmentation.NewReassembler(conf.MaxReassemblySize),
		counter:     counter,
		pool:        pool,
		onError: func(err error) {
			logger.Errorf("adapter: %s\n", err)
		},
		closed: atomic.NewBool(false),
	}, nil
}

// OnError registers a callback for per-frame errors surfaced by the receive
// loop. The default logs them.
func (p *Adapter) OnError(fn func(error)) {
	if fn != nil {
		p.onError = fn
	}
}

// OnClose registers a callback invoked once when the adapter is disposed.
func (p *Adapter) OnClose(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeHooks = append(p.closeHooks, fn)
}

// Counter returns the traffic counter bound to the underlying connection.
func (p *Adapter) Counter() *core.TrafficCounter {
	return p.counter
}

// SendOne writes one logical frame, splitting it when it is fragmentable and
// exceeds the MTU. The frame is released after its bytes reach the wire.
func (p *Adapter) SendOne(frame core.BufferedFrame) (err error) {
	defer frame.Release()
	if !p.shouldSplit(frame.Len()) || !fragmentation.IsFragmentable(frame.Header().Type()) {
		return p.writeSingle(frame)
	}
	return p.sendFragments(frame)
}

// Send writes frames strictly in order: fragments of one frame are never
// interleaved with another frame.
func (p *Adapter) Send(frames []core.BufferedFrame) error {
	for _, frame := range frames {
		if err := p.SendOne(frame); err != nil {
			return err
		}
	}
	return nil
}

// Receive reads frames off the underlying connection until it closes, feeding
// each through the reassembler and dispatching every logical frame to
// handler. Fragment chains still in flight when the loop ends are dropped.
func (p *Adapter) Receive(handler FrameHandler) error {
	defer p.reassembler.Dispose()
	defer p.dispatching.Wait()
	for {
		next, err := p.conn.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if p.IsDisposed() {
				return nil
			}
			return errors.Wrap(common.ErrTransportFailure, err.Error())
		}
		p.process(next, handler)
	}
}

// Dispose closes the underlying connection and releases all reassembly state.
// It is safe to call more than once.
func (p *Adapter) Dispose() (err error) {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		err = multierr.Append(err, p.conn.Close())
		err = multierr.Append(err, p.pool.Release())
		p.reassembler.Dispose()
		p.mu.Lock()
		hooks := p.closeHooks
		p.closeHooks = nil
		p.mu.Unlock()
		for _, fn := range hooks {
			fn()
		}
	})
	return
}

// IsDisposed returns true once Dispose has run.
func (p *Adapter) IsDisposed() bool {
	return p.closed.Load()
}

// Availability reports 1.0 while the adapter accepts frames, 0.0 after
// dispose.
func (p *Adapter) Availability() float64 {
	if p.IsDisposed() {
		return 0
	}
	return 1
}

func (p *Adapter) shouldSplit(size int) bool {
	return p.mtu > 0 && size > p.mtu
}

func (p *Adapter) writeSingle(frame core.BufferedFrame) error {
	out, ok := frame.(core.WriteableFrame)
	if !ok {
		return errors.Wrapf(common.ErrInvalidFrameType, "frame %s is not writeable", frame.Header())
	}
	if err := p.conn.Write(out); err != nil {
		return err
	}
	return p.conn.Flush()
}

func (p *Adapter) sendFragments(frame core.BufferedFrame) error {
	h := frame.Header()
	sid := h.StreamID()

	var (
		data, metadata []byte
		metadataOk     bool
		skip           int
		initN          uint32
	)
	switch f := frame.(type) {
	case *framing.RequestResponseFrame:
		data = f.Data()
		metadata, metadataOk = f.Metadata()
	case *framing.FireAndForgetFrame:
		data = f.Data()
		metadata, metadataOk = f.Metadata()
	case *framing.PayloadFrame:
		data = f.Data()
		metadata, metadataOk = f.Metadata()
	case *framing.RequestStreamFrame:
		skip, initN = 4, f.InitialRequestN()
		data = f.Data()
		metadata, metadataOk = f.Metadata()
	case *framing.RequestChannelFrame:
		skip, initN = 4, f.InitialRequestN()
		data = f.Data()
		metadata, metadataOk = f.Metadata()
	default:
		return errors.Wrapf(common.ErrInvalidFrameType, "cannot fragment frame type %s", h.Type())
	}
	emptyMetadata := metadataOk && len(metadata) == 0

	// Flags beyond follows and metadata belong to the logical frame. A
	// request chain carries them on the first fragment; a PAYLOAD chain
	// carries next/complete on the terminal fragment instead.
	carry := h.Flag() & ^(core.FlagFollow | core.FlagMetadata)

	var err error
	fragmentation.SplitSkip(p.mtu, skip, data, metadata, func(index int, result fragmentation.SplitResult) {
		if err != nil {
			return
		}
		md := result.Metadata
		flag := result.Flag
		if index == 0 && emptyMetadata {
			md = []byte{}
			flag |= core.FlagMetadata
		}
		var out core.WriteableFrame
		if index == 0 {
			keep := carry
			if h.Type() == core.FrameTypePayload && flag.Check(core.FlagFollow) {
				keep &= ^(core.FlagNext | core.FlagComplete)
			}
			switch h.Type() {
			case core.FrameTypeRequestResponse:
				out = framing.NewWriteableRequestResponseFrame(sid, result.Data, md, flag|keep)
			case core.FrameTypeRequestFNF:
				out = framing.NewWriteableFireAndForgetFrame(sid, result.Data, md, flag|keep)
			case core.FrameTypeRequestStream:
				out = framing.NewWriteableRequestStreamFrame(sid, initN, result.Data, md, flag|keep)
			case core.FrameTypeRequestChannel:
				out = framing.NewWriteableRequestChannelFrame(sid, initN, result.Data, md, flag|keep)
			default:
				out = framing.NewPayloadFrameSupport(sid, result.Data, md, flag|keep)
			}
		} else {
			if h.Type() == core.FrameTypePayload && !flag.Check(core.FlagFollow) {
				flag |= carry & (core.FlagNext | core.FlagComplete)
			}
			out = framing.NewPayloadFrameSupport(sid, result.Data, md, flag)
		}
		err = p.conn.Write(out)
	})
	if err != nil {
		return err
	}
	return p.conn.Flush()
}

func (p *Adapter) process(next core.BufferedFrame, handler FrameHandler) {
	var out core.Frame
	if hp, ok := next.(fragmentation.HeaderAndPayload); ok {
		res, err := p.reassembler.Reassemble(hp)
		if err != nil {
			p.onError(err)
			return
		}
		if res == nil {
			return
		}
		out, ok = res.(core.Frame)
		if !ok {
			p.onError(errors.Wrapf(common.ErrInvalidFrame, "reassembled frame %s", res.Header()))
			return
		}
	} else {
		out = next
	}
	p.dispatching.Add(1)
	if err := p.pool.Submit(func() {
		defer p.dispatching.Done()
		if err := handler(out); err != nil {
			p.onError(err)
		}
	}); err != nil {
		p.dispatching.Done()
		common.TryRelease(out)
		p.onError(err)
	}
}
