package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&Options{LogFormat: "JSON"}, &buf).Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&Options{LogLevel: "warn", LogFormat: "text"}, &buf)
		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("invalid options are reset", func(t *testing.T) {
		var buf bytes.Buffer
		options := &Options{LogLevel: "loud", LogFormat: "yaml"}
		newLogger(options, &buf)
		assert.Empty(t, options.LogLevel)
		assert.Equal(t, "text", options.LogFormat)
		assert.Contains(t, buf.String(), "could not parse logger level")
		assert.Contains(t, buf.String(), "could not parse logger format")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "contacts.log")
		New(&Options{LogFile: path, LogFormat: "text"}).Error("boom")
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(b), "msg=boom")
	})

	t.Run("discard", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&Options{LogFile: os.DevNull}, &buf).Error("boom")
		assert.Empty(t, buf.String())
	})
}
