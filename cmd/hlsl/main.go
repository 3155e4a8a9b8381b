// Package main provides the hlsl CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "hlsl",
		Version: version,
		Usage:   "HLSL symbol completion and lookup",
		Commands: []*cli.Command{
			completeCommand(),
			symbolsCommand(),
			catalogCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
