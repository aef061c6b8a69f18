package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// Setup configures the global slog logger: a tinted console handler on
// stdout, plus a timestamped JSON log file when logOutputDir is set
func Setup(levelStr string, logOutputDir string) error {
	level := parseLogLevel(levelStr)

	handlers := []slog.Handler{
		tint.NewHandler(os.Stdout, &tint.Options{Level: level}),
	}

	if logOutputDir != "" {
		fileHandler, err := newFileHandler(os.ExpandEnv(logOutputDir), level)
		if err != nil {
			return err
		}
		handlers = append(handlers, fileHandler)
	}

	if len(handlers) == 1 {
		slog.SetDefault(slog.New(handlers[0]))
	} else {
		slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	}

	return nil
}

// newFileHandler creates a JSON handler writing to a timestamped file
// in logDir, creating the directory if needed
func newFileHandler(logDir string, level slog.Level) (slog.Handler, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	logFilePath := filepath.Join(logDir, fmt.Sprintf("mintypak_%s.log", timestamp))

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logging to file: %s\n", logFilePath)

	return slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level}), nil
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error", "fatal":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
