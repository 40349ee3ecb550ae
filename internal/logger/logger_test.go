package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("INFO"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("Error"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("nonsense"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, parseFormat("json"))
	assert.Equal(t, FormatConsole, parseFormat("console"))
	assert.Equal(t, FormatConsole, parseFormat(""))
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("WARN", FormatConsole, &buf)

	log.Info("hidden")
	log.Warn("shown", zap.String("kind", "script"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, `"kind": "script"`)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("DEBUG", FormatJSON, &buf).Named(ComponentRunner)

	log.Debug("discovered files", zap.Int("count", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "runner", entry["component"])
	assert.Equal(t, "discovered files", entry["msg"])
	assert.EqualValues(t, 3, entry["count"])
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envLevel, "error")
	t.Setenv(envFormat, "json")

	log := FromEnv()
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(envLevel, "")
	t.Setenv(envFormat, "")

	log := FromEnv()
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
