// Package logging provides the process-wide JSON logger. The terminal
// belongs to the UI, so nothing is written unless a log path is set before
// the first call to GetLogger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logFile *os.File
	logPath string

	setupOnce sync.Once
	writer    io.Writer = io.Discard
	setupErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   = &slog.LevelVar{}
)

// SetLogPath sets the full path for the log file, including filename.
// Parent directories are created on first use.
func SetLogPath(path string) {
	logPath = path
}

func setup() {
	setupOnce.Do(func() {
		if logPath == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			setupErr = err
			return
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			setupErr = err
			return
		}
		logFile = f
		writer = f
	})
}

// GetLogger returns the shared logger.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		setup()
		handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:     levelVar,
			AddSource: false,
		})
		logger = slog.New(handler)
	})
	return logger
}

// Err returns the error, if any, hit while opening the log file. Logging
// falls back to discarding output in that case.
func Err() error {
	GetLogger()
	return setupErr
}

func SetLogLevel(level slog.Level) {
	levelVar.Set(level)
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a level.
// Anything else is info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func SetRawLogLevel(raw string) {
	SetLogLevel(ParseLevel(raw))
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
