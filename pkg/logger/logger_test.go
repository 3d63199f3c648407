package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-widget/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	log, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.log")

	log, err := New(config.LoggingConfig{Level: "debug", Format: "console", OutputPath: path})
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	assert.FileExists(t, path)
}
