package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogFileName is the name of the log file created inside the log directory.
const LogFileName = "focusgate.log"

// Logger provides structured logging with persistent attributes.
// It is safe for concurrent use.
type Logger struct {
	logger *slog.Logger
	closer io.Closer
	mu     *sync.Mutex
	attrs  []slog.Attr
}

// NewLogger creates a Logger that writes JSON-formatted logs to
// {dir}/focusgate.log, rotating it according to rotation.
// If dir is empty, logs are written to stderr and rotation is ignored.
//
// Unrecognized level strings fall back to INFO.
func NewLogger(dir string, level string, rotation RotationConfig) (*Logger, error) {
	var writer io.Writer = os.Stderr
	var closer io.Closer

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rw, err := NewRotatingWriter(filepath.Join(dir, LogFileName), rotation)
		if err != nil {
			return nil, err
		}
		writer = rw
		closer = rw
	}

	return newLogger(writer, closer, level), nil
}

// NewWriterLogger creates a Logger writing JSON lines to w. The caller owns w.
func NewWriterLogger(w io.Writer, level string) *Logger {
	return newLogger(w, nil, level)
}

func newLogger(w io.Writer, closer io.Closer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{
		logger: slog.New(handler),
		closer: closer,
		mu:     &sync.Mutex{},
		attrs:  make([]slog.Attr, 0),
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSurface returns a child Logger tagged with the surface name
// (e.g. "popup", "settings", "tour").
func (l *Logger) WithSurface(surface string) *Logger {
	return l.withAttr(slog.String("surface", surface))
}

// WithComponent returns a child Logger tagged with a component name
// (e.g. "relay", "onboarding", "file-channel").
func (l *Logger) WithComponent(component string) *Logger {
	return l.withAttr(slog.String("component", component))
}

// With returns a child Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments; non-string keys are skipped.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	newAttrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	newAttrs = append(newAttrs, l.attrs...)
	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}
	return l.derive(newAttrs)
}

func (l *Logger) withAttr(attr slog.Attr) *Logger {
	newAttrs := make([]slog.Attr, len(l.attrs)+1)
	copy(newAttrs, l.attrs)
	newAttrs[len(l.attrs)] = attr
	return l.derive(newAttrs)
}

func (l *Logger) derive(attrs []slog.Attr) *Logger {
	return &Logger{
		logger: l.logger,
		closer: l.closer,
		mu:     l.mu,
		attrs:  attrs,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}

// Close flushes and closes the log file. Loggers writing to stderr or to a
// caller-owned writer treat Close as a no-op. Closing a child closes the
// shared file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// NopLogger returns a Logger that discards all log output.
func NopLogger() *Logger {
	return newLogger(io.Discard, nil, LevelError)
}

// ParseLevel normalizes a level string to one of the Level constants.
// Returns LevelInfo if the level string is not recognized.
func ParseLevel(level string) string {
	switch strings.ToUpper(level) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return strings.ToUpper(level)
	default:
		return LevelInfo
	}
}

// ValidLevels returns the list of valid log level strings.
func ValidLevels() []string {
	return []string{LevelDebug, LevelInfo, LevelWarn, LevelError}
}
