// Package main is the entry point for the kanto CLI.
package main

import (
	"os"

	"github.com/leeovery/kanto/internal/cli"
)

func main() {
	app := &cli.App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getwd:  os.Getwd,
	}
	os.Exit(app.Run(os.Args))
}
