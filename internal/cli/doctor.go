package cli

import (
	"context"
	"errors"
	"slices"

	"github.com/leeovery/kanto/internal/config"
	"github.com/leeovery/kanto/internal/doctor"
)

// runDoctor implements "kanto doctor". It resolves output paths exactly as
// extract does, then runs the output checks. Doctor always prints
// human-readable text and never writes files.
func (a *App) runDoctor(args []string) (int, error) {
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		printCommandHelp(a.Stdout, findCommand("doctor"))
		return 0, nil
	}

	ov, err := parseExtractArgs(args)
	if err != nil {
		return 1, err
	}
	if ov.Publish != nil {
		return 1, errors.New("--publish is not valid for doctor")
	}

	dir, err := a.workDir()
	if err != nil {
		return 1, err
	}
	cfg, err := config.Load(dir, ov)
	if err != nil {
		return 1, err
	}

	report := doctor.NewDefaultRunner().RunAll(context.Background(), doctor.Load(cfg))
	doctor.FormatReport(a.Stdout, report)

	return doctor.ExitCode(report), nil
}
