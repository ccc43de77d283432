package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mwantia/joinpractice/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management utilities",
		Long: `Manage joinpractice configuration files.

The configuration selects the database backend and controls logging.
Values are read from config.yaml, JOINPRACTICE_* environment variables
and command line flags.`,
	}

	cmd.AddCommand(newConfigGenerateCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigGenerateCommand() *cobra.Command {
	var outputDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write joinpractice.yaml with every default value",
		Long: `Write joinpractice.yaml containing every setting with its default value.

Rename it to config.yaml or pass it with --config to use it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			filename := filepath.Join(outputDir, "joinpractice.yaml")

			written, err := writeDefaultConfig(filename, overwrite)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(out, "Skipping %s (file exists, use --overwrite to replace)\n", filename)
				return nil
			}

			fmt.Fprintf(out, "Generated %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", ".", "output directory for configuration files")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing files")

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), cfg, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON instead of YAML")

	return cmd
}

// writeDefaultConfig reports false when filename exists and overwrite is off
func writeDefaultConfig(filename string, overwrite bool) (bool, error) {
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return false, nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to check %s: %w", filename, err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := yaml.Marshal(config.GetDefault())
	if err != nil {
		return false, fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write config file %s: %w", filename, err)
	}
	return true, nil
}
