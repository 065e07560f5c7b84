package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, l)

	l, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestFilePluginWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraper.log")

	plugin, closer := NewFilePlugin(path, zapcore.InfoLevel)
	logger := NewLogger([]Plugin{plugin})
	logger.Debug("hidden")
	logger.Info("fetching page", zap.String("url", "http://example.com"))
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"fetching page"`)
	assert.Contains(t, string(b), `"url":"http://example.com"`)
	assert.NotContains(t, string(b), "hidden")
}
