package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs the default logger at the requested level. Output goes to
// stderr so it never mixes with table or JSON command output.
func Init(levelStr string) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
		slog.Warn("invalid log level, defaulting to warn", "configuredLevel", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
