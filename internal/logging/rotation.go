package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig holds configuration for log rotation.
type RotationConfig struct {
	// MaxSizeMB is the maximum size of a log file in megabytes before rotation.
	// A value of 0 disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of old log files to keep.
	MaxBackups int
}

// DefaultRotationConfig returns the rotation settings used when config omits them.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  5,
		MaxBackups: 2,
	}
}

// RotatingWriter is an io.Writer over a file that is renamed to
// path.1 .. path.N once it would exceed the configured size.
// It is safe for concurrent use.
type RotatingWriter struct {
	mu sync.Mutex

	filePath   string
	maxSizeB   int64
	maxBackups int

	file        *os.File
	currentSize int64
}

// NewRotatingWriter opens (or creates) filePath for appending.
func NewRotatingWriter(filePath string, config RotationConfig) (*RotatingWriter, error) {
	rw := &RotatingWriter{
		filePath:   filePath,
		maxSizeB:   int64(config.MaxSizeMB) * 1024 * 1024,
		maxBackups: config.MaxBackups,
	}
	if err := rw.openFile(); err != nil {
		return nil, err
	}
	return rw, nil
}

// openFile opens the log file. The caller must hold the mutex.
func (rw *RotatingWriter) openFile() error {
	if err := os.MkdirAll(filepath.Dir(rw.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(rw.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	rw.file = file
	rw.currentSize = info.Size()
	return nil
}

// Write implements io.Writer.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}

	if rw.maxSizeB > 0 && rw.currentSize > 0 && rw.currentSize+int64(len(p)) > rw.maxSizeB {
		if err := rw.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
			if rw.file == nil {
				return 0, err
			}
		}
	}

	n, err := rw.file.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// rotate shifts backups and starts a fresh file. The caller must hold the mutex.
func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil

	if rw.maxBackups <= 0 {
		if err := os.Remove(rw.filePath); err != nil && !os.IsNotExist(err) {
			return rw.reopenAfter(fmt.Errorf("failed to discard log file: %w", err))
		}
		return rw.openFile()
	}

	_ = os.Remove(rw.backupPath(rw.maxBackups))
	for i := rw.maxBackups - 1; i >= 1; i-- {
		if _, err := os.Stat(rw.backupPath(i)); err == nil {
			_ = os.Rename(rw.backupPath(i), rw.backupPath(i+1))
		}
	}

	if err := os.Rename(rw.filePath, rw.backupPath(1)); err != nil {
		return rw.reopenAfter(fmt.Errorf("failed to rename log file: %w", err))
	}
	return rw.openFile()
}

func (rw *RotatingWriter) reopenAfter(cause error) error {
	if err := rw.openFile(); err != nil {
		return fmt.Errorf("%v; reopen: %w", cause, err)
	}
	return cause
}

func (rw *RotatingWriter) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", rw.filePath, n)
}

// Close syncs and closes the underlying file. Safe to call twice.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	if err := rw.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rw.file = nil
	return nil
}

// CurrentSize returns the current size of the log file in bytes.
func (rw *RotatingWriter) CurrentSize() int64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.currentSize
}

// FilePath returns the path to the log file.
func (rw *RotatingWriter) FilePath() string {
	return rw.filePath
}
