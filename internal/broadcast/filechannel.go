package broadcast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/focusgate/internal/errors"
	"github.com/Iron-Ham/focusgate/internal/logging"
)

// readDebounce coalesces the burst of write events a single append produces.
const readDebounce = 20 * time.Millisecond

// FileChannelOptions configures a FileChannel.
type FileChannelOptions struct {
	// FromStart publishes every line already in the log on Start. Otherwise
	// only lines appended after Start are published.
	FromStart bool
}

// FileChannel is a Channel fed by an append-only JSONL broadcast log. Each
// complete line is decoded into an Envelope and published, in file order,
// through the embedded Hub.
type FileChannel struct {
	*Hub

	path    string
	opts    FileChannelOptions
	logger  *logging.Logger
	watcher *fsnotify.Watcher

	// guarded by readMu
	readMu  sync.Mutex
	offset  int64
	partial []byte

	mu      sync.Mutex
	started bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileChannel creates a FileChannel for the log at path. The file does
// not need to exist yet; its directory is created on Start.
func NewFileChannel(path string, opts FileChannelOptions, logger *logging.Logger) (*FileChannel, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return &FileChannel{
		Hub:     NewHub(logger),
		path:    abs,
		opts:    opts,
		logger:  logger.WithComponent("file-channel"),
		watcher: watcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Path returns the absolute path of the tailed log.
func (c *FileChannel) Path() string {
	return c.path
}

// Start begins tailing the log. Without FromStart, lines already present are
// skipped. With it, they are published from the watch goroutine ahead of any
// new line, so listeners must be registered before Start to see them.
func (c *FileChannel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrClosed
	}
	if c.started {
		return nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStorageError("mkdir", dir, err)
	}
	// Watch the directory so creation and rotation of the log are seen.
	if err := c.watcher.Add(dir); err != nil {
		return errors.NewStorageError("watch", dir, err)
	}

	if !c.opts.FromStart {
		if info, err := os.Stat(c.path); err == nil {
			c.readMu.Lock()
			c.offset = info.Size()
			c.readMu.Unlock()
		}
	}

	c.started = true
	go c.watchLoop()
	c.logger.Debug("tailing broadcast log", "path", c.path, "from_start", c.opts.FromStart)
	return nil
}

// Close stops tailing and releases the watcher. Listeners stay registered on
// the Hub but receive nothing further. Safe to call more than once.
func (c *FileChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	close(c.stopCh)
	c.mu.Unlock()

	err := c.watcher.Close()
	if started {
		<-c.doneCh
	}
	return err
}

// Poll reads and publishes any complete lines appended since the last read.
// The watch loop calls it on every change; callers may also use it to force
// a read.
func (c *FileChannel) Poll() error {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewStorageError("open", c.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return errors.NewStorageError("stat", c.path, err)
	}
	if info.Size() < c.offset {
		c.logger.Info("broadcast log truncated, rewinding", "path", c.path)
		c.offset = 0
		c.partial = nil
	}
	if info.Size() == c.offset {
		return nil
	}

	if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
		return errors.NewStorageError("seek", c.path, err)
	}
	chunk, err := io.ReadAll(f)
	if err != nil {
		return errors.NewStorageError("read", c.path, err)
	}
	c.offset += int64(len(chunk))

	data := append(c.partial, chunk...)
	lastNL := bytes.LastIndexByte(data, '\n')
	if lastNL < 0 {
		c.partial = data
		return nil
	}
	c.partial = append([]byte(nil), data[lastNL+1:]...)

	for _, line := range bytes.Split(data[:lastNL], []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var env Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			c.logger.Warn("skipping malformed line", "path", c.path, "error", err.Error())
			continue
		}
		c.Publish(env)
	}
	return nil
}

func (c *FileChannel) watchLoop() {
	defer close(c.doneCh)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	defer debounceTimer.Stop()

	if c.opts.FromStart {
		if err := c.Poll(); err != nil {
			c.logger.Warn("initial read failed", "path", c.path, "error", err.Error())
		}
	}

	for {
		select {
		case <-c.stopCh:
			return

		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != c.path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				c.readMu.Lock()
				c.offset = 0
				c.partial = nil
				c.readMu.Unlock()
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounceTimer.Reset(readDebounce)

		case <-debounceTimer.C:
			if err := c.Poll(); err != nil {
				c.logger.Warn("read failed", "path", c.path, "error", err.Error())
			}

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("watcher error", "path", c.path, "error", err.Error())
		}
	}
}
