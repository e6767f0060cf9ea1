package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nested", "bot.log")
	var console bytes.Buffer

	l, err := New(Config{Level: "debug", OutputFile: file, MaxSize: 1, MaxBackups: 1, Console: &console})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("symbol", "BTCUSDT").Info("placing order")

	assert.Contains(t, console.String(), "placing order")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "symbol=BTCUSDT")
}

func TestNewFallsBackToInfo(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Config{Level: "loud", Console: &console})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l.Debug("hidden")
	assert.Empty(t, console.String())
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "logs/trading_bot.log", c.OutputFile)
	assert.Equal(t, 5, c.MaxSize)
	assert.Equal(t, 2, c.MaxBackups)
}
