package db

import (
	"github.com/mwantia/joinpractice/internal/app"
	"github.com/mwantia/joinpractice/pkg/db/seed"
	"github.com/spf13/cobra"
)

func NewSeedCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all rows with the sample dataset",
		Long: `Apply pending migrations, then clear every table and insert the sample
blogs, headers, posts, tags and comments inside a single transaction.

The row count of every table is printed afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(a *app.App) error {
				ctx := cmd.Context()

				s, err := a.Store(ctx)
				if err != nil {
					return err
				}
				if _, err := s.Migrate(ctx); err != nil {
					return err
				}

				if err := seed.NewSeeder(s.DB(), a.Logger()).Seed(ctx); err != nil {
					return err
				}

				counts, err := s.Counts(ctx)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), counts, asJSON)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print counts as JSON instead of YAML")

	return cmd
}
