package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete focusgate configuration
type Config struct {
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Broadcast  BroadcastConfig  `mapstructure:"broadcast" yaml:"broadcast"`
	Onboarding OnboardingConfig `mapstructure:"onboarding" yaml:"onboarding"`
	TUI        TUIConfig        `mapstructure:"tui" yaml:"tui"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// StorageConfig controls where persisted UI state lives
type StorageConfig struct {
	// Dir holds onboarding.json and the log file.
	// If empty, defaults to $XDG_STATE_HOME/focusgate (or ~/.local/state/focusgate).
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// BroadcastConfig controls how surfaces receive broadcasts from the background process
type BroadcastConfig struct {
	// LogFile is the append-only JSONL file the background process writes broadcasts to.
	// Relative paths resolve against storage.dir. (default: "broadcasts.jsonl")
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
	// FromStart replays the whole log when a surface mounts instead of only new lines.
	FromStart bool `mapstructure:"from_start" yaml:"from_start"`
}

// OnboardingConfig controls the first-run tour
type OnboardingConfig struct {
	// AutoAdvanceMs is how long a step's success acknowledgment is shown
	// before the tour advances on its own (default: 2000)
	AutoAdvanceMs int `mapstructure:"auto_advance_ms" yaml:"auto_advance_ms"`
}

// TUIConfig controls the terminal surfaces
type TUIConfig struct {
	// FeedSize is how many recent broadcasts the tour keeps on screen (default: 8)
	FeedSize int `mapstructure:"feed_size" yaml:"feed_size"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logs are written to storage.dir (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 2)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: "", // Empty means StateDir()
		},
		Broadcast: BroadcastConfig{
			LogFile:   "broadcasts.jsonl",
			FromStart: false,
		},
		Onboarding: OnboardingConfig{
			AutoAdvanceMs: 2000,
		},
		TUI: TUIConfig{
			FeedSize: 8,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
	}
}

// AutoAdvanceDelay returns the onboarding auto-advance delay as a time.Duration
func (c *OnboardingConfig) AutoAdvanceDelay() time.Duration {
	return time.Duration(c.AutoAdvanceMs) * time.Millisecond
}

// ResolveDir returns the absolute storage directory.
func (s *StorageConfig) ResolveDir() string {
	if s.Dir == "" {
		return StateDir()
	}
	return expandHome(s.Dir)
}

// ResolveLogFile returns the broadcast log path, resolving relative paths
// against storageDir.
func (b *BroadcastConfig) ResolveLogFile(storageDir string) string {
	path := expandHome(b.LogFile)
	if !filepath.IsAbs(path) {
		path = filepath.Join(storageDir, path)
	}
	return path
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.dir", defaults.Storage.Dir)

	viper.SetDefault("broadcast.log_file", defaults.Broadcast.LogFile)
	viper.SetDefault("broadcast.from_start", defaults.Broadcast.FromStart)

	viper.SetDefault("onboarding.auto_advance_ms", defaults.Onboarding.AutoAdvanceMs)

	viper.SetDefault("tui.feed_size", defaults.TUI.FeedSize)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it cannot be loaded
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "focusgate")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusgate"
	}
	return filepath.Join(home, ".config", "focusgate")
}

// StateDir returns the default storage directory
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "focusgate")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusgate"
	}
	return filepath.Join(home, ".local", "state", "focusgate")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
