package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Iron-Ham/focusgate/internal/errors"
)

// RecordFileName is the onboarding document inside the storage directory.
const RecordFileName = "onboarding.json"

// Record is the persisted onboarding document.
type Record struct {
	Completed bool `json:"completed"`
}

// Store reads and writes the persisted onboarding record.
type Store interface {
	// GetOnboardingState returns the record, or nil if none was ever written.
	GetOnboardingState(ctx context.Context) (*Record, error)
	// CompleteOnboarding persists completed=true.
	CompleteOnboarding(ctx context.Context) error
}

// FileStore keeps the record as a JSON file. Writes replace the file
// atomically so a reader never sees a partial document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore under dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, RecordFileName)}
}

// Path returns the record file path.
func (s *FileStore) Path() string {
	return s.path
}

// GetOnboardingState reads the record. A missing file returns nil, nil.
func (s *FileStore) GetOnboardingState(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewStorageError("read", s.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.NewStorageError("decode", s.path,
			fmt.Errorf("%w: %v", errors.ErrRecordCorrupted, err))
	}
	return &rec, nil
}

// CompleteOnboarding writes completed=true.
func (s *FileStore) CompleteOnboarding(ctx context.Context) error {
	return s.write(ctx, Record{Completed: true})
}

// Reset writes completed=false. Developer tooling only; the Sequencer never
// un-completes the tour.
func (s *FileStore) Reset(ctx context.Context) error {
	return s.write(ctx, Record{Completed: false})
}

func (s *FileStore) write(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal onboarding record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStorageError("mkdir", dir, err)
	}
	if err := atomicWriteFile(s.path, data, 0o644); err != nil {
		return errors.NewStorageError("write", s.path, err)
	}
	return nil
}

// atomicWriteFile writes data to a temp file in the same directory and
// renames it over path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// MemoryStore keeps the record in memory. `tour --ephemeral` uses it so a
// walkthrough leaves the saved record alone.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

// NewMemoryStore returns a MemoryStore. A nil rec means nothing persisted.
func NewMemoryStore(rec *Record) *MemoryStore {
	if rec != nil {
		copied := *rec
		rec = &copied
	}
	return &MemoryStore{rec: rec}
}

// GetOnboardingState returns a copy of the record.
func (s *MemoryStore) GetOnboardingState(ctx context.Context) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil, nil
	}
	copied := *s.rec
	return &copied, nil
}

// CompleteOnboarding records completion.
func (s *MemoryStore) CompleteOnboarding(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &Record{Completed: true}
	return nil
}

// Reset clears completion.
func (s *MemoryStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &Record{Completed: false}
	return nil
}
