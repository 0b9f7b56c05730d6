package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "info", Encoding: "json"}, &buf)

	logger.Info("collapse applied", zap.Int("survivors", 12))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "collapse applied", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "wavesim", entry["logger"])
	assert.Equal(t, float64(12), entry["survivors"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: "warn", Encoding: "json"}, &buf)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"loud":  zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wavesim.log")
	logger, closer, err := New(Config{Output: path})
	require.NoError(t, err)
	logger.Info("run started")
	require.NoError(t, logger.Sync())
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}
