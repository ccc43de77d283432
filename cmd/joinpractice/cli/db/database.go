package db

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/mwantia/joinpractice/internal/app"
	"github.com/spf13/cobra"
)

func NewDatabaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the database schema",
		Long:  "Apply, roll back and inspect the versioned schema migrations.",
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newRollbackCommand())
	cmd.AddCommand(newStatusCommand())

	return cmd
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(a *app.App) error {
				s, err := a.Store(cmd.Context())
				if err != nil {
					return err
				}
				applied, err := s.Migrate(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s), database is up to date\n", applied)
				return nil
			})
		},
	}
}

func newRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(a *app.App) error {
				s, err := a.Store(cmd.Context())
				if err != nil {
					return err
				}

				status, err := s.Rollback(cmd.Context())
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back version %d: %s\n", status.Version, status.Description)
				return nil
			})
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(a *app.App) error {
				s, err := a.Store(cmd.Context())
				if err != nil {
					return err
				}

				statuses, err := s.MigrationStatus(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tAPPLIED\tAPPLIED AT\tDESCRIPTION")
				for _, status := range statuses {
					appliedAt := "-"
					if status.AppliedAt != nil {
						appliedAt = status.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%d\t%t\t%s\t%s\n", status.Version, status.Applied, appliedAt, status.Description)
				}
				return w.Flush()
			})
		},
	}
}
