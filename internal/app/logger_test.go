package app

import (
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_LevelByEnvironment(t *testing.T) {
	dev, err := NewLogger(&config.Config{Environment: "development", Timezone: time.UTC})
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	prod, err := NewLogger(&config.Config{Environment: "production", Timezone: time.UTC})
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLogger_LogLevelOverride(t *testing.T) {
	logger, err := NewLogger(&config.Config{Environment: "development", LogLevel: "warn", Timezone: time.UTC})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger(&config.Config{Environment: "development", LogLevel: "loud", Timezone: time.UTC})
	assert.Error(t, err)
}
