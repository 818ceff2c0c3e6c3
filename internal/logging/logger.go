package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"

	"github.com/trebuchet-org/trebcfg/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewRedactHandler,
	NewLogger,
)

// ParseLevel maps TREBCFG_LOG_LEVEL values onto slog levels
func ParseLevel(val string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// unknown value, keep default
		return fallback
	}
}

// NewRedactHandler builds the stderr handler for the runtime configuration,
// wrapped so that resolved secrets never reach the log output
func NewRedactHandler(cfg *config.RuntimeConfig) *RedactHandler {
	return NewRedactFilter(newTextHandler(os.Stderr, cfg))
}

// NewLogger creates a new logger on top of the redacting handler
func NewLogger(h *RedactHandler) *slog.Logger {
	return slog.New(h)
}

func newTextHandler(w io.Writer, cfg *config.RuntimeConfig) slog.Handler {
	level := ParseLevel(os.Getenv("TREBCFG_LOG_LEVEL"), slog.LevelInfo)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time for cleaner output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			// Shorten source paths
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	if cfg != nil && cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.NewTextHandler(w, opts)
}

// shortPath returns a shortened version of the file path
func shortPath(file string) string {
	// Try to make paths relative to project root
	if idx := strings.Index(file, "trebcfg/"); idx != -1 {
		return file[idx+len("trebcfg/"):]
	}
	// Otherwise, relative to this package's module
	_, f, _, _ := runtime.Caller(0)
	if idx := strings.LastIndex(f, "/"); idx != -1 {
		if idx2 := strings.LastIndex(file, f[:idx]); idx2 != -1 {
			return file[idx2+len(f[:idx])+1:]
		}
	}
	// Last resort: just the filename
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}
