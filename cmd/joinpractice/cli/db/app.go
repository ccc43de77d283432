package db

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mwantia/joinpractice/internal/app"
	"github.com/mwantia/joinpractice/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runWithApp loads the configuration, opens the database and hands the
// ready application to fn. The application is closed afterwards.
func runWithApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a := app.New(cfg)
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := a.Setup(cmd.Context()); err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return fn(a)
}

func writeOutput(w io.Writer, value any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}
