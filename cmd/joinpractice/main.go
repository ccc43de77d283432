package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mwantia/joinpractice/cmd/joinpractice/cli"
	"github.com/mwantia/joinpractice/cmd/joinpractice/cli/db"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(db.NewConfigCommand())
	root.AddCommand(db.NewDatabaseCommand())
	root.AddCommand(db.NewSeedCommand())
	root.AddCommand(db.NewQueryCommand())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
