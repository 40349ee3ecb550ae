// Package logger builds the zap logger used for diagnostics on stderr.
// Stdout is reserved for the validation report.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoder.
type Format string

const (
	FormatConsole Format = "CONSOLE"
	FormatJSON    Format = "JSON"
)

const (
	envLevel  = "ASSETLINT_LOG_LEVEL"
	envFormat = "ASSETLINT_LOG_FORMAT"

	defaultLevel = "WARN"
)

// Component names attached with Logger.Named.
const (
	ComponentRunner = "runner"
	ComponentSuite  = "suite"
	ComponentMCP    = "mcp"
)

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func parseFormat(format string) Format {
	if f := Format(strings.ToUpper(format)); f == FormatJSON {
		return f
	}
	return FormatConsole
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05 MST"))
}

// New creates a logger writing to stderr at the given level.
func New(level string, format Format) *zap.Logger {
	return newLogger(level, format, os.Stderr)
}

// FromEnv creates a logger configured by ASSETLINT_LOG_LEVEL and
// ASSETLINT_LOG_FORMAT. Unset or unknown values fall back to WARN and CONSOLE.
func FromEnv() *zap.Logger {
	level := os.Getenv(envLevel)
	if level == "" {
		level = defaultLevel
	}
	return New(level, parseFormat(os.Getenv(envFormat)))
}

func newLogger(level string, format Format, w io.Writer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var encoder zapcore.Encoder
	if format == FormatJSON {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = timeEncoder
		encoderConfig.ConsoleSeparator = " | "
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(parseLevel(level)))
	return zap.New(core)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
