package db

import (
	"fmt"
	"text/tabwriter"

	"github.com/mwantia/joinpractice/internal/app"
	"github.com/mwantia/joinpractice/pkg/db/query"
	"github.com/spf13/cobra"
)

func NewQueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run join queries",
		Long: `List and run the join query catalogue.

Every query can be executed in three styles that return the same result:
preload (GORM eager loading), sql (hand-written SQL) and builder (GORM
query chain).`,
	}

	cmd.AddCommand(newQueryListCommand())
	cmd.AddCommand(newQueryRunCommand())
	cmd.AddCommand(newQuerySQLCommand())

	return cmd
}

func newQueryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRELATIONSHIP\tJOIN\tDESCRIPTION")
			for _, def := range query.Definitions() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, def.Relationship, def.Join, def.Description)
			}
			return w.Flush()
		},
	}
}

func newQueryRunCommand() *cobra.Command {
	var style string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run a query and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, def, err := parseQueryArgs(args[0], style)
			if err != nil {
				return err
			}

			return runWithApp(cmd, func(a *app.App) error {
				store, err := a.Store(cmd.Context())
				if err != nil {
					return err
				}

				result, err := query.New(store.DB(), a.Logger()).Run(cmd.Context(), def.Name, s)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), result, asJSON)
			})
		},
	}

	cmd.Flags().StringVar(&style, "style", string(query.StylePreload), "query style (preload, sql, builder)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON instead of YAML")

	return cmd
}

func newQuerySQLCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "sql <name>",
		Short: "Print the SQL a query sends for its root entity",
		Long: `Print the SQL statement a query sends for its root entity without running it.

With the preload style the associations are loaded by additional
statements that are not shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, def, err := parseQueryArgs(args[0], style)
			if err != nil {
				return err
			}

			return runWithApp(cmd, func(a *app.App) error {
				store, err := a.Store(cmd.Context())
				if err != nil {
					return err
				}

				statement, err := query.New(store.DB(), a.Logger()).SQL(def.Name, s)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), statement)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&style, "style", string(query.StylePreload), "query style (preload, sql, builder)")

	return cmd
}

// parseQueryArgs validates the query name and style before the database is
// opened
func parseQueryArgs(name, style string) (query.Style, query.Definition, error) {
	def, err := query.Lookup(name)
	if err != nil {
		return "", query.Definition{}, err
	}

	s, err := query.ParseStyle(style)
	if err != nil {
		return "", query.Definition{}, err
	}

	return s, def, nil
}
