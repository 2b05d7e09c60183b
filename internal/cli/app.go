// Package cli implements the kanto command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leeovery/kanto/internal/engine"
)

// App is the kanto CLI application. Zero-value Getwd falls back to os.Getwd.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Getwd  func() (string, error)

	// Publisher replaces the Postgres publisher when set.
	Publisher engine.PublishFunc
}

// globalFlags holds flags accepted before the subcommand.
type globalFlags struct {
	Quiet   bool
	Verbose bool
	Toon    bool
	Pretty  bool
	JSON    bool
	Help    bool
}

// Run parses args, dispatches the subcommand, and returns the exit code.
// args[0] is the program name.
func (a *App) Run(args []string) int {
	gf, subcmd, rest := parseGlobalFlags(args[1:])

	if gf.Help {
		printTopLevelHelp(a.Stdout)
		return 0
	}

	var err error
	code := 0
	switch subcmd {
	case "", "extract":
		err = a.runExtract(gf, rest)
	case "doctor":
		code, err = a.runDoctor(rest)
	case "help":
		err = a.runHelp(rest)
	default:
		err = fmt.Errorf("unknown command '%s'. Run 'kanto help' for usage.", subcmd)
	}

	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %s\n", err)
		return 1
	}
	return code
}

// parseGlobalFlags consumes global flags up to the first subcommand. An
// unrecognised flag ends global parsing and is passed to the subcommand, so
// "kanto --input x.csv" runs extract.
func parseGlobalFlags(args []string) (gf globalFlags, subcmd string, rest []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--quiet", "-q":
			gf.Quiet = true
		case "--verbose", "-v":
			gf.Verbose = true
		case "--toon":
			gf.Toon = true
		case "--pretty":
			gf.Pretty = true
		case "--json":
			gf.JSON = true
		case "--help", "-h":
			gf.Help = true
		default:
			if strings.HasPrefix(arg, "-") {
				return gf, "", args[i:]
			}
			return gf, arg, args[i+1:]
		}
	}
	return gf, "", nil
}

func (a *App) workDir() (string, error) {
	getwd := a.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}
	dir, err := getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}
	return dir, nil
}
