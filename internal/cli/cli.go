/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cli turns the command line of gomps into a validated config.Config.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/costela/gomps/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...interface{}) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// Parse processes command-line arguments. Settings come from the defaults,
// then the -config file, then flags given explicitly. It returns the
// resolved config, whether the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	defaults := config.Default()

	flagSet := flag.NewFlagSet("gomps", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gomps - compile MPS linear programs into matrix form.

Usage:
  gomps [options] FILE.mps

Arguments:
  FILE.mps
    Path to a fixed or free MPS file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL config file.")
	solverFlag := flagSet.String("solver", defaults.Solver, "Solver to run on the compiled model. Options: 'none', 'simplex', 'lpsolve' or 'glpk'.")
	objectiveFlag := flagSet.String("objective", defaults.Objective, "Which N row becomes the objective when several are declared. Options: 'last' or 'first'.")
	formatFlag := flagSet.String("format", defaults.Format, "Report format. Options: 'text' or 'yaml'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	toleranceFlag := flagSet.Float64("tolerance", defaults.Tolerance, "Numerical tolerance of the simplex solver.")
	timeoutFlag := flagSet.Duration("timeout", defaults.Timeout, "Abort solving after this long, e.g. '30s'. Zero means no limit.")
	writeLPFlag := flagSet.String("write-lp", defaults.WriteLP, "Also write the compiled model to this path in CPLEX LP format.")
	glpkMethodFlag := flagSet.String("glpk-method", defaults.GLPKMethod, "Simplex method used by glpk. Options: 'primal', 'dualprimal' or 'dual'.")
	glpkPresolveFlag := flagSet.Bool("glpk-presolve", defaults.GLPKPresolve, "Run the glpk LP presolver.")
	lpsolveVerbosityFlag := flagSet.Int("lpsolve-verbosity", defaults.LPSolveVerbosity, "lp_solve log verbosity, from 0 (silent) to 6.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err)
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No MPS file provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected one MPS file, got %d arguments", flagSet.NArg())
	}

	cfg := defaults
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag, cfg)
		if err != nil {
			return nil, false, usageError("%s", err)
		}
		cfg = loaded
		slog.Debug("Config file loaded.", "path", *configFlag)
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "solver":
			cfg.Solver = strings.ToLower(*solverFlag)
		case "objective":
			cfg.Objective = strings.ToLower(*objectiveFlag)
		case "format":
			cfg.Format = strings.ToLower(*formatFlag)
		case "log-level":
			cfg.LogLevel = strings.ToLower(*logLevelFlag)
		case "log-format":
			cfg.LogFormat = strings.ToLower(*logFormatFlag)
		case "tolerance":
			cfg.Tolerance = *toleranceFlag
		case "timeout":
			cfg.Timeout = *timeoutFlag
		case "write-lp":
			cfg.WriteLP = *writeLPFlag
		case "glpk-method":
			cfg.GLPKMethod = strings.ToLower(*glpkMethodFlag)
		case "glpk-presolve":
			cfg.GLPKPresolve = *glpkPresolveFlag
		case "lpsolve-verbosity":
			cfg.LPSolveVerbosity = *lpsolveVerbosityFlag
		}
	})
	cfg.ModelPath = flagSet.Arg(0)

	if err := cfg.Validate(); err != nil {
		return nil, false, usageError("%s", err)
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return &cfg, false, nil
}
