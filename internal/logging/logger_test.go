package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetRestore(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := Set(zap.New(core))

	Named("record").Debug("schema derived", zap.String("type", "Person"))

	restore()
	L().Debug("dropped")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "record", entry.LoggerName)
	assert.Equal(t, "schema derived", entry.Message)
	assert.Equal(t, "Person", entry.ContextMap()["type"])
}

func TestSetNil(t *testing.T) {
	restore := Set(nil)
	defer restore()

	assert.NotNil(t, L())
}

func TestNew(t *testing.T) {
	logger, err := New(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = New(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
