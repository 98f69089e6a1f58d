package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Level(t *testing.T) {
	log, err := New("warn", false)
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNew_Development(t *testing.T) {
	log, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}
