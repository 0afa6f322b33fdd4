package broadcast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Iron-Ham/focusgate/internal/errors"
)

// Log appends envelopes to a JSONL broadcast log, one envelope per line.
// It plays the producer side of a FileChannel.
type Log struct {
	path string
	mu   sync.Mutex
}

// NewLog creates a Log writing to path. The file and its directory are
// created lazily on first append.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes env as one line. Writes are serialized and use O_APPEND so a
// tailing reader never sees interleaved lines.
func (l *Log) Append(env Envelope) error {
	if env.Type == "" {
		return errors.NewValidationError("envelope type is required").WithField("type")
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.NewStorageError("mkdir", filepath.Dir(l.path), err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewStorageError("open", l.path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.NewStorageError("append", l.path, err)
	}
	return f.Close()
}

// Emit encodes ev and appends it.
func (l *Log) Emit(ev Event) error {
	env, err := Encode(ev)
	if err != nil {
		return err
	}
	return l.Append(env)
}

// ReadAll returns every well-formed envelope in the log. A missing log reads
// as empty; malformed lines are skipped.
func (l *Log) ReadAll() ([]Envelope, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStorageError("open", l.path, err)
	}
	defer func() { _ = f.Close() }()

	var envelopes []Envelope
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			continue
		}
		envelopes = append(envelopes, env)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewStorageError("scan", l.path, err)
	}
	return envelopes, nil
}
