package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Iron-Ham/focusgate/internal/broadcast"
	"github.com/Iron-Ham/focusgate/internal/config"
	"github.com/Iron-Ham/focusgate/internal/logging"
	"github.com/Iron-Ham/focusgate/internal/onboarding"
)

// runtimeEnv is what every surface command needs from the configuration.
type runtimeEnv struct {
	cfg    *config.Config
	dir    string
	logger *logging.Logger
}

// loadEnv reads the configuration and opens the debug log.
func loadEnv() (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	env := &runtimeEnv{
		cfg:    cfg,
		dir:    cfg.Storage.ResolveDir(),
		logger: logging.NopLogger(),
	}

	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(env.dir, cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		env.logger = logger
	}
	return env, nil
}

func (e *runtimeEnv) Close() error {
	return e.logger.Close()
}

func (e *runtimeEnv) broadcastLogPath() string {
	return e.cfg.Broadcast.ResolveLogFile(e.dir)
}

func (e *runtimeEnv) debugLogPath() string {
	return filepath.Join(e.dir, logging.LogFileName)
}

// openChannel prepares a channel on the broadcast log. fromStart overrides
// the configured setting when true. The channel is not started: callers
// mount their surface first and then call Start, or a replay would reach no
// listener.
func (e *runtimeEnv) openChannel(fromStart bool) (*broadcast.FileChannel, error) {
	opts := broadcast.FileChannelOptions{FromStart: fromStart || e.cfg.Broadcast.FromStart}
	return broadcast.NewFileChannel(e.broadcastLogPath(), opts, e.logger)
}

func (e *runtimeEnv) store() *onboarding.FileStore {
	return onboarding.NewFileStore(e.dir)
}
