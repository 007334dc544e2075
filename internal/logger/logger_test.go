package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("writes json lines with ts", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter("info", &buf)

		log.Info("hello")
		log.Debug("hidden")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.NotEmpty(t, entry["ts"])
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter("chatty", &buf)

		log.Debug("hidden")

		assert.Contains(t, buf.String(), "invalid log level configured")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter("DEBUG", &buf)

		log.Debug("visible")

		assert.Contains(t, buf.String(), "visible")
	})
}
