package common

import "errors"

// Error defines.
var (
	ErrFrameLengthExceed  = errors.New("rsocket: frame length is greater than 24bits")
	ErrInvalidTransport   = errors.New("rsocket: invalid Transport")
	ErrInvalidFrame       = errors.New("rsocket: invalid frame")
	ErrInvalidContext     = errors.New("rsocket: invalid context")
	ErrInvalidFrameLength = errors.New("rsocket: invalid frame length")
	ErrReleasedResource   = errors.New("rsocket: resource has been released")
	ErrInvalidEmitter     = errors.New("rsocket: invalid emitter")
	ErrHandlerNil         = errors.New("rsocket: handler cannot be nil")
	ErrHandlerExist       = errors.New("rsocket: handler exists already")
	ErrSendFull           = errors.New("rsocket: frame send channel is full")

	// ErrInvalidFrameType means a frame carries a frame type unknown to this codec.
	ErrInvalidFrameType = errors.New("rsocket: invalid frame type")
	// ErrMalformedFrame means a frame is shorter than its header or length-prefix claims.
	ErrMalformedFrame = errors.New("rsocket: malformed frame")
	// ErrReassemblyProtocolViolation means a fragment arrived out of the order the
	// reassembly state machine requires: a frame other than PAYLOAD for a stream
	// id that is already mid-collection.
	ErrReassemblyProtocolViolation = errors.New("rsocket: reassembly protocol violation")
	// ErrReassemblyTooLarge means the accumulated size of a fragment chain exceeded
	// the configured reassembly cap before a terminal fragment arrived.
	ErrReassemblyTooLarge = errors.New("rsocket: reassembled frame exceeds size limit")
	// ErrTransportFailure wraps a read/write error surfaced by the underlying duplex.
	ErrTransportFailure = errors.New("rsocket: transport failure")
)
