package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/smart-doorbell/internal/config"
)

// errSettingsExist is returned when init would overwrite a file without --force.
var errSettingsExist = errors.New("settings file already exists, use --force to overwrite")

// newConfigCommand builds the `config` command group.
func newConfigCommand() *cobra.Command {
	var force bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage doorbell settings.",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with default values.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFilename
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s: %w", path, errSettingsExist)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", path)

			return nil
		},
	}

	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing settings file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
