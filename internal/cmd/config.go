package cmd

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/focusgate/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify focusgate configuration",
	Long: `View or modify focusgate configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  focusgate config set onboarding.auto_advance_ms 3000
  focusgate config set broadcast.from_start true
  focusgate config set logging.level debug

Valid keys:
  storage.dir                - Directory for onboarding.json and logs
  broadcast.log_file         - Broadcast log, relative to storage.dir
  broadcast.from_start       - Replay the whole log on mount (true/false)
  onboarding.auto_advance_ms - Success acknowledgment duration
  tui.feed_size              - Broadcasts kept in the tour feed
  logging.enabled            - Write focusgate.log (true/false)
  logging.level              - debug, info, warn, error
  logging.max_size_mb        - Rotate the log after this many MB
  logging.max_backups        - Rotated logs to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at $XDG_CONFIG_HOME/focusgate/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// configKeys maps every settable key to its value type.
var configKeys = map[string]string{
	"storage.dir":                "string",
	"broadcast.log_file":         "string",
	"broadcast.from_start":       "bool",
	"onboarding.auto_advance_ms": "int",
	"tui.feed_size":              "int",
	"logging.enabled":            "bool",
	"logging.level":              "string",
	"logging.max_size_mb":        "int",
	"logging.max_backups":        "int",
}

// configComments annotate the document written by config init.
var configComments = map[string]string{
	"storage":                    "Where persisted UI state lives",
	"storage.dir":                "Empty means $XDG_STATE_HOME/focusgate. Supports ~.",
	"broadcast":                  "Broadcasts from the background process",
	"broadcast.log_file":         "Append-only JSONL log; relative paths resolve against storage.dir",
	"broadcast.from_start":       "Replay the whole log when a surface mounts",
	"onboarding":                 "First-run tour",
	"onboarding.auto_advance_ms": "How long a step's success message shows before advancing",
	"tui":                        "Terminal surfaces",
	"tui.feed_size":              "Recent broadcasts kept on screen",
	"logging":                    "Debug log written to storage.dir/focusgate.log",
	"logging.level":              "debug, info, warn, error",
	"logging.max_size_mb":        "Rotate after this many megabytes (0 disables rotation)",
}

func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "Config file: (none - using defaults)")
	}
	fmt.Fprintf(out, "Storage directory: %s\n", cfg.Storage.ResolveDir())
	fmt.Fprintln(out)

	data, err := encodeYAML(cfg, nil)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// parseConfigValue converts value to the type registered for key.
func parseConfigValue(key, value string) (any, error) {
	keyType, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'focusgate config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	default:
		if key == "logging.level" {
			value = strings.ToLower(value)
			if !slices.Contains(config.ValidLogLevels(), value) {
				return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidLogLevels(), ", "))
			}
		}
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	// Set the value in viper and make sure the result still validates
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'focusgate config set' to modify values", configFile)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := encodeYAML(config.Default(), configComments)
	if err != nil {
		return err
	}
	header := "# focusgate configuration\n# Run 'focusgate config path' to see where this file is read from.\n\n"
	if err := os.WriteFile(configFile, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit this file to customize focusgate's behavior.")
	return nil
}

// encodeYAML renders cfg with a head comment on every key found in comments.
func encodeYAML(cfg *config.Config, comments map[string]string) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	annotate(&doc, "", comments)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func annotate(n *yaml.Node, prefix string, comments map[string]string) {
	if n.Kind != yaml.MappingNode || len(comments) == 0 {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		path := k.Value
		if prefix != "" {
			path = prefix + "." + k.Value
		}
		if c, ok := comments[path]; ok {
			k.HeadComment = c
		}
		annotate(v, path, comments)
	}
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintf(out, "Storage directory: %s\n", config.Get().Storage.ResolveDir())
	fmt.Fprintln(out, "\nSettable keys:")
	for _, k := range sortedConfigKeys() {
		fmt.Fprintf(out, "  %s\n", k)
	}
	fmt.Fprintln(out, "\nEnvironment variables: FOCUSGATE_* (e.g., FOCUSGATE_LOGGING_LEVEL)")
	return nil
}
