package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/smart-doorbell/internal/config"
	"github.com/oshokin/smart-doorbell/internal/service/app"
	"github.com/oshokin/smart-doorbell/internal/version"
)

var (
	// configPath to the settings YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd runs the doorbell window.
	rootCmd = &cobra.Command{
		Use:   "doorbell",
		Short: "Run the smart doorbell camera window.",
		Long: `Opens the doorbell window: a live camera preview, a clock, the door lock status
and the doorbell controls.

Ringing shows an accept/reject prompt. Without a decision within the decision
timeout the visitor is denied. Accepting unlocks the door until it is locked
again. Settings are read from the YAML file given by --config; without one,
defaults are used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return app.Run(ctx, &app.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})
		},
	}

	// consoleCmd runs the doorbell without a window.
	consoleCmd = &cobra.Command{
		Use:   "console",
		Short: "Run the doorbell with a line-oriented console instead of the window.",
		Long: `Reads commands from standard input (ring, accept, reject, close, status, help, quit)
and prints every state change to standard output. Logs go to standard error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return app.Run(ctx, &app.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
				Console:    true,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
			})
		},
	}
)

// Execute runs the doorbell CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "path to settings file (default "+config.DefaultConfigFilename+")")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "", "log level override: debug, info, warn, error")

	rootCmd.AddCommand(consoleCmd, newConfigCommand())
}
