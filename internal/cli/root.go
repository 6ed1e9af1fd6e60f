package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessarchive/internal/config"
	"github.com/mcoot/chessarchive/internal/factory"
)

var (
	opts     *Options
	settings config.Config
	logger   *slog.Logger
	app      *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts = DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "chessarchive",
		Short: "Query chess.com game archives through a local cache",
		Long: `chessarchive reads a player's public game archive from chess.com.

Month archives are cached on first use, so repeated queries are served
locally. Requests are throttled and identify the caller with a User-Agent
built from the configured identity.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}

			var err error
			if settings, err = opts.Load(); err != nil {
				return err
			}
			logger = settings.Log.NewLogger(cmd.ErrOrStderr())

			app, err = factory.New(factory.ConfigFrom(settings, logger))
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeApp()
		},
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", opts.ConfigFile, "YAML config file (env: CHESSARCHIVE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "Storage backend: memory, file, redis (env: CHESSARCHIVE_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "Cache directory for file storage (env: CHESSARCHIVE_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&opts.RedisURL, "redis-url", "", "Redis URL for redis storage (env: CHESSARCHIVE_REDIS_URL)")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", opts.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newMonthsCmd())
	rootCmd.AddCommand(newRecentCmd())
	rootCmd.AddCommand(newBetweenCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	err := NewRootCmd().Execute()
	_ = closeApp()
	if err != nil {
		os.Exit(1)
	}
}

func closeApp() error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}
