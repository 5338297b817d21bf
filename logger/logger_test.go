package logger_test

import (
	"testing"

	"github.com/rsocket-go-contrib/fragment/logger"
	"github.com/stretchr/testify/assert"
)

var (
	fakeFormat = "fake format: %v"
	fakeArgs   = []interface{}{"fake args"}
)

func TestSetLevel(t *testing.T) {
	defer logger.SetLevel(logger.LevelInfo)

	logger.SetLevel(logger.LevelDebug)
	assert.Equal(t, logger.LevelDebug, logger.GetLevel())
	assert.True(t, logger.IsDebugEnabled())

	logger.SetLevel(logger.LevelWarn)
	assert.False(t, logger.IsDebugEnabled())
}

func TestSetFunc(t *testing.T) {
	defer logger.SetLevel(logger.LevelInfo)
	logger.SetLevel(logger.LevelDebug)

	var calls []logger.Level
	record := func(lvl logger.Level) logger.Func {
		return func(format string, v ...interface{}) {
			calls = append(calls, lvl)
		}
	}
	logger.SetFunc(logger.LevelDebug, record(logger.LevelDebug))
	logger.SetFunc(logger.LevelInfo, record(logger.LevelInfo))
	logger.SetFunc(logger.LevelWarn, record(logger.LevelWarn))
	logger.SetFunc(logger.LevelError, record(logger.LevelError))

	logger.Debugf(fakeFormat, fakeArgs...)
	logger.Infof(fakeFormat, fakeArgs...)
	logger.Warnf(fakeFormat, fakeArgs...)
	logger.Errorf(fakeFormat, fakeArgs...)

	assert.Equal(t, []logger.Level{logger.LevelDebug, logger.LevelInfo, logger.LevelWarn, logger.LevelError}, calls)

	// a nil func is ignored, previous func stays registered.
	logger.SetFunc(logger.LevelDebug, nil)
	logger.Debugf(fakeFormat, fakeArgs...)
	assert.Len(t, calls, 5)
}
