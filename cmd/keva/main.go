// Package main provides the entry point for keva.
package main

import (
	"fmt"
	"os"

	"github.com/nzoba/keva-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
