package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tactical-map/internal/pkg/logger"
)

func TestNew_Levels(t *testing.T) {
	log, err := logger.New("warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = logger.New("nonsense")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestComponent_NilSafe(t *testing.T) {
	assert.NotNil(t, logger.Component(nil, "geocoding"))

	log, err := logger.New("info")
	require.NoError(t, err)
	assert.NotNil(t, logger.Component(log, "geocoding"))
}
