package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", LogFileName)

	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = rw.Close() }()

	if _, err := rw.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if rw.CurrentSize() != 6 {
		t.Errorf("CurrentSize() = %d, want 6", rw.CurrentSize())
	}
	if rw.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", rw.FilePath(), path)
	}
}

func TestRotatingWriterRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LogFileName)

	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = rw.Close() }()
	rw.maxSizeB = 10

	for _, chunk := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		if _, err := rw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	current, _ := os.ReadFile(path)
	if strings.TrimSpace(string(current)) != "dddddddd" {
		t.Errorf("current file = %q, want newest chunk", current)
	}
	backup1, _ := os.ReadFile(path + ".1")
	if strings.TrimSpace(string(backup1)) != "cccccccc" {
		t.Errorf("backup .1 = %q, want cccccccc", backup1)
	}
	backup2, _ := os.ReadFile(path + ".2")
	if strings.TrimSpace(string(backup2)) != "bbbbbbbb" {
		t.Errorf("backup .2 = %q, want bbbbbbbb", backup2)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("expected no more than MaxBackups backups")
	}
}

func TestRotatingWriterNoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 0})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	defer func() { _ = rw.Close() }()
	rw.maxSizeB = 10

	_, _ = rw.Write([]byte("first-line\n"))
	_, _ = rw.Write([]byte("second\n"))

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("expected no backup file when MaxBackups is 0")
	}
	current, _ := os.ReadFile(path)
	if string(current) != "second\n" {
		t.Errorf("current file = %q, want %q", current, "second\n")
	}
}

func TestRotatingWriterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), LogFileName), DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	if err := rw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}
