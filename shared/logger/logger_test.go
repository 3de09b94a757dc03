package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	cfg.writer = output

	logger, err := New(&cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	return logger, output
}

func TestNewJSONFormat(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:      "debug",
		Format:     "json",
		TimeFormat: time.RFC3339,
	})

	logger.Debug("queue declared", slog.String("queue", "statements_parse_queue"))

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	assert.Equal(t, "DEBUG", logEntry["level"])
	assert.Equal(t, "queue declared", logEntry["msg"])
	assert.Equal(t, "statements_parse_queue", logEntry["queue"])
	assert.Contains(t, logEntry, "time")
}

func TestNewLevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		emit      func(l *Logger)
		wantLevel string
		wantMsg   string
	}{
		{
			level: "info",
			emit: func(l *Logger) {
				l.Debug("suppressed")
				l.Info("job claimed", slog.String("job_id", "abc"))
			},
			wantLevel: "INFO",
			wantMsg:   "job claimed",
		},
		{
			level: "warn",
			emit: func(l *Logger) {
				l.Info("suppressed")
				l.Warn("sweep found stale jobs", slog.Int("count", 2))
			},
			wantLevel: "WARN",
			wantMsg:   "sweep found stale jobs",
		},
		{
			level: "error",
			emit: func(l *Logger) {
				l.Warn("suppressed")
				l.Error("publish failed", slog.String("exchange", "statements_exchange"))
			},
			wantLevel: "ERROR",
			wantMsg:   "publish failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, output := newTestLogger(t, Config{
				Level:  tt.level,
				Format: "json",
			})

			tt.emit(logger)

			lines := strings.Split(strings.TrimSpace(output.String()), "\n")
			require.Len(t, lines, 1)

			var logEntry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &logEntry))

			assert.Equal(t, tt.wantLevel, logEntry["level"])
			assert.Equal(t, tt.wantMsg, logEntry["msg"])
		})
	}
}

func TestNewConsoleFormat(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
	})

	logger.Info("worker started")

	// tint renders the level as "INF"
	logOutput := output.String()
	assert.Contains(t, logOutput, "INF")
	assert.Contains(t, logOutput, "worker started")
}

func TestNewWithSource(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:        "info",
		Format:       "json",
		EnableSource: true,
	})

	logger.Info("message with source")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	require.Contains(t, logEntry, "source")
	source := logEntry["source"].(map[string]interface{})
	assert.Contains(t, source, "file")
	assert.Contains(t, source, "line")
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{level: "debug", expected: slog.LevelDebug},
		{level: "info", expected: slog.LevelInfo},
		{level: "warn", expected: slog.LevelWarn},
		{level: "warning", expected: slog.LevelWarn},
		{level: "error", expected: slog.LevelError},
		// parseLevel is case-sensitive; unknown values default to info
		{level: "DEBUG", expected: slog.LevelInfo},
		{level: "invalid", expected: slog.LevelInfo},
		{level: "", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestLoggerWith(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:  "info",
		Format: "json",
	})

	contextLogger := logger.With(
		slog.String("service", "statement-api-service"),
		slog.Int("port", 8080),
	)
	require.NotNil(t, contextLogger)

	contextLogger.Info("listening")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	assert.Equal(t, "statement-api-service", logEntry["service"])
	assert.Equal(t, float64(8080), logEntry["port"])
}

func TestLoggerWithAttrs(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:  "info",
		Format: "json",
	})

	attrLogger := logger.WithAttrs(
		slog.String("worker_id", "worker-1a2b3c4d"),
	)
	attrLogger.Info("claim succeeded")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	assert.Equal(t, "worker-1a2b3c4d", logEntry["worker_id"])
}

func TestLoggerWithGroup(t *testing.T) {
	logger, output := newTestLogger(t, Config{
		Level:  "info",
		Format: "json",
	})

	groupLogger := logger.WithGroup("rabbitmq")
	groupLogger.Info("connected", slog.String("vhost", "/"))

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(output.Bytes(), &logEntry))

	require.Contains(t, logEntry, "rabbitmq")
	group := logEntry["rabbitmq"].(map[string]interface{})
	assert.Equal(t, "/", group["vhost"])
}
