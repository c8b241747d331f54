package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func InitLogger() {
	InitLoggerTo(os.Stdout, LevelFromEnv())
}

// InitLoggerTo installs a tint handler writing to w as the default logger.
// The client logs to stderr so stdout only carries rendered output.
func InitLoggerTo(w io.Writer, level slog.Level) {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	})

	slog.SetDefault(slog.New(handler))
}

// LevelFromEnv reads LOG_LEVEL (debug, info, warn, error), defaulting to info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
