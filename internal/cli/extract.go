package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"

	"github.com/leeovery/kanto/internal/config"
	"github.com/leeovery/kanto/internal/engine"
)

// parseExtractArgs turns extract flags into config overrides. Value flags
// accept both "--flag value" and "--flag=value".
func parseExtractArgs(args []string) (config.Overrides, error) {
	var ov config.Overrides

	for i := 0; i < len(args); i++ {
		name, value, inline := strings.Cut(args[i], "=")
		if !strings.HasPrefix(name, "--") {
			return ov, fmt.Errorf("unexpected argument %q", args[i])
		}

		if name == "--publish" {
			on := true
			if inline {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return ov, fmt.Errorf("--publish must be true or false, got %q", value)
				}
				on = b
			}
			ov.Publish = &on
			continue
		}

		var target **string
		switch name {
		case "--input":
			target = &ov.Input
		case "--encoding":
			target = &ov.Encoding
		case "--towns":
			target = &ov.Towns
		case "--municipalities":
			target = &ov.Municipalities
		case "--sqlite":
			target = &ov.SQLite
		case "--config":
			// handled below
		default:
			return ov, fmt.Errorf("unknown flag %q. Run 'kanto help extract' for usage.", name)
		}

		if !inline {
			i++
			if i >= len(args) {
				return ov, fmt.Errorf("%s requires a value", name)
			}
			value = args[i]
		}
		if value == "" {
			return ov, fmt.Errorf("%s requires a value", name)
		}

		if target == nil {
			ov.ConfigPath = value
			continue
		}
		v := value
		*target = &v
	}

	return ov, nil
}

// runExtract implements the extract command, which is also the default.
func (a *App) runExtract(gf globalFlags, args []string) error {
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		printCommandHelp(a.Stdout, findCommand("extract"))
		return nil
	}

	fc, err := NewFormatConfig(gf)
	if err != nil {
		return err
	}

	ov, err := parseExtractArgs(args)
	if err != nil {
		return err
	}

	dir, err := a.workDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir, ov)
	if err != nil {
		return err
	}
	if err := config.LoadEnv(dir); err != nil {
		return err
	}

	logger := engine.NewVerboseLogger(a.Stderr, fc.Verbose)
	opts := []engine.Option{engine.WithLogger(logger)}
	if a.Publisher != nil {
		opts = append(opts, engine.WithPublisher(a.Publisher))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := engine.NewRunner(cfg, opts...).Run(ctx)
	if err != nil {
		return err
	}

	if fc.Quiet {
		return nil
	}
	return fc.Formatter().FormatSummary(a.Stdout, newSummaryData(cfg, sum))
}
