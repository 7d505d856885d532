package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   LevelDebug,
		"Info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		t.Run(name, func(t *testing.T) {
			level, err := ParseLevel(name)
			require.NoError(t, err)
			assert.Equal(t, expected, level)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseLevel("loud")
		assert.Error(t, err)
	})
}

func TestNew(t *testing.T) {
	t.Run("fanout", func(t *testing.T) {
		var console, file bytes.Buffer
		logger := New(Config{Level: LevelInfo, Console: &console, File: &file})

		logger.Info("machine halted", "pc", 0x3005)
		logger.Debug("hidden")

		assert.Contains(t, console.String(), "machine halted")
		assert.Contains(t, console.String(), "pc=12293")
		assert.NotContains(t, console.String(), "hidden")

		var record map[string]any
		require.NoError(t, json.Unmarshal(file.Bytes(), &record))
		assert.Equal(t, "machine halted", record["msg"])
		assert.Equal(t, "INFO", record["level"])
	})

	t.Run("trace level name", func(t *testing.T) {
		var console bytes.Buffer
		logger := New(Config{Level: LevelTrace, Console: &console})

		logger.Log(t.Context(), LevelTrace, "step")

		assert.Contains(t, console.String(), "level=TRACE")
	})

	t.Run("no sinks", func(t *testing.T) {
		logger := New(Config{})
		assert.False(t, logger.Enabled(t.Context(), LevelError))
	})
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lc3unit.log")

	logger, closer, err := Open("error", path)
	require.NoError(t, err)

	logger.Error("boom")
	require.NoError(t, closer.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"boom"`)

	_, _, err = Open("nope", "")
	assert.Error(t, err)
}
