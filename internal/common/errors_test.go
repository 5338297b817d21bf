package common_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rsocket-go-contrib/fragment/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrorsWrapAndUnwrap(t *testing.T) {
	sentinels := []error{
		common.ErrInvalidFrameType,
		common.ErrMalformedFrame,
		common.ErrReassemblyProtocolViolation,
		common.ErrReassemblyTooLarge,
		common.ErrTransportFailure,
	}
	for _, sentinel := range sentinels {
		wrapped := fmt.Errorf("stream 7: %w", sentinel)
		assert.True(t, errors.Is(wrapped, sentinel))
	}
}
