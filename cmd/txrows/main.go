package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "txrows",
		Usage: "Render wallet transactions as list rows",
		Description: `A command-line tool for previewing how wallet transactions are presented.

Use "render" to print the row visuals for a JSON file of transactions and
"token" to mint a development JWT for the txfeed API.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			renderCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
