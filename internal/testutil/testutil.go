// Package testutil provides testing utilities for focusgate tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Dirs are the isolated directories a test runs against.
type Dirs struct {
	// Config is focusgate's config directory ($XDG_CONFIG_HOME/focusgate).
	Config string
	// State is the default storage directory ($XDG_STATE_HOME/focusgate).
	State string
}

// SetupStateDirs points XDG_CONFIG_HOME and XDG_STATE_HOME at fresh
// temporary directories for the duration of the test, so config and
// storage lookups never touch the user's files. FOCUSGATE_* variables
// that would override them are cleared.
func SetupStateDirs(t *testing.T) Dirs {
	t.Helper()

	root := t.TempDir()
	configHome := filepath.Join(root, "config")
	stateHome := filepath.Join(root, "state")
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", stateHome)
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "FOCUSGATE_") {
			t.Setenv(name, "")
			if err := os.Unsetenv(name); err != nil {
				t.Fatalf("failed to unset %s: %v", name, err)
			}
		}
	}

	return Dirs{
		Config: filepath.Join(configHome, "focusgate"),
		State:  filepath.Join(stateHome, "focusgate"),
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadLines returns the non-empty lines of path, or nil if it does not exist.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Eventually polls cond until it returns true, failing the test after
// timeout.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %v: %s", timeout, msg)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
