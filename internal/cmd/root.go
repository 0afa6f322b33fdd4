package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/focusgate/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "focusgate",
	Short: "Terminal surfaces for the focusgate site limiter",
	Long: `focusgate mirrors the extension's UI surfaces in the terminal.

Surfaces follow the background process through its broadcast log: every
site and group change is relayed to each mounted surface, and the
onboarding tour keeps its progress in the storage directory.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context so long-running surfaces unmount cleanly.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/focusgate/config.yaml)")
	bindFlags()
}

func bindFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FOCUSGATE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., FOCUSGATE_BROADCAST_LOG_FILE for broadcast.log_file
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
