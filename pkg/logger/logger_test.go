package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewZapLoggerLevels(t *testing.T) {
	log, err := NewZapLogger(&ZapLoggerConfig{Encoding: "json", Level: "warn"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewZapLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := NewZapLogger(&ZapLoggerConfig{IsDevelopment: true, Encoding: "console", Level: "loud"})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
