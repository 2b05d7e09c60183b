package cli

import (
	"fmt"
	"io"
)

// flagInfo describes a single command flag for help output.
type flagInfo struct {
	Name string // "--input"
	Arg  string // "<path>", "" for bool
	Desc string
}

// commandInfo describes a command for help output.
type commandInfo struct {
	Name        string
	Summary     string // one-line for top-level listing
	Usage       string
	Description string
	Flags       []flagInfo
}

// commands is the ordered registry of kanto commands.
var commands = []commandInfo{
	{
		Name:    "extract",
		Summary: "Extract Kanto municipalities and towns (default)",
		Usage:   "kanto [extract] [flags]",
		Description: "Reads the Japan Post KEN_ALL postal file, keeps rows for the seven\n" +
			"Kanto prefectures, and writes sorted, de-duplicated municipality and\n" +
			"town CSV files. Settings come from kanto.yaml when present; flags win.",
		Flags: []flagInfo{
			{"--config", "<path>", "Config file (default: kanto.yaml if present)"},
			{"--input", "<path>", "Postal file (default: utf_ken_all.csv)"},
			{"--encoding", "<utf-8|shift_jis>", "Input encoding (default: utf-8)"},
			{"--towns", "<path>", "Town output (default: kanto_towns.csv)"},
			{"--municipalities", "<path>", "Municipality output (default: kanto_municipalities.csv)"},
			{"--sqlite", "<path>", "Also export both sets to a SQLite database"},
			{"--publish", "", "Also replace the Kanto rows in Postgres (DATABASE_URL)"},
		},
	},
	{
		Name:    "doctor",
		Summary: "Check the written outputs",
		Usage:   "kanto doctor [flags]",
		Description: "Reads the outputs back and checks headers, row shape, prefectures,\n" +
			"sort order, town references, and SQLite export freshness. Resolves\n" +
			"paths the same way as extract. Never modifies files.",
		Flags: []flagInfo{
			{"--config", "<path>", "Config file (default: kanto.yaml if present)"},
			{"--input", "<path>", "Postal file the export should match"},
			{"--encoding", "<utf-8|shift_jis>", "Input encoding"},
			{"--towns", "<path>", "Town output to check"},
			{"--municipalities", "<path>", "Municipality output to check"},
			{"--sqlite", "<path>", "SQLite export to check"},
		},
	},
	{
		Name:        "help",
		Summary:     "Show help for a command",
		Usage:       "kanto help [<command>]",
		Description: "Shows usage information. With a command name, shows detailed help for that command.",
	},
}

// findCommand returns the commandInfo for the given name, or nil.
func findCommand(name string) *commandInfo {
	for i := range commands {
		if commands[i].Name == name {
			return &commands[i]
		}
	}
	return nil
}

// runHelp implements "kanto help [<command>]".
func (a *App) runHelp(args []string) error {
	if len(args) == 0 {
		printTopLevelHelp(a.Stdout)
		return nil
	}
	cmd := findCommand(args[0])
	if cmd == nil {
		return fmt.Errorf("unknown command '%s'. Run 'kanto help' for usage.", args[0])
	}
	printCommandHelp(a.Stdout, cmd)
	return nil
}

// printTopLevelHelp writes the command listing to w.
func printTopLevelHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: kanto [global flags] [<command>] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-14s%s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global flags:")
	fmt.Fprintln(w, "  --quiet, -q     Suppress the summary")
	fmt.Fprintln(w, "  --verbose, -v   Show debug information on stderr")
	fmt.Fprintln(w, "  --toon          TOON summary")
	fmt.Fprintln(w, "  --pretty        Plain summary (default)")
	fmt.Fprintln(w, "  --json          JSON summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'kanto help <command>' for detailed help on a command.")
}

// printCommandHelp writes detailed help for a single command to w.
func printCommandHelp(w io.Writer, cmd *commandInfo) {
	fmt.Fprintf(w, "Usage: %s\n", cmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, cmd.Description)

	if len(cmd.Flags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		for _, f := range cmd.Flags {
			label := f.Name
			if f.Arg != "" {
				label += " " + f.Arg
			}
			fmt.Fprintf(w, "  %-34s%s\n", label, f.Desc)
		}
	}
}
