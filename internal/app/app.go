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

// Package app wires the gomps command together: it compiles the MPS file
// named in the config, optionally hands the model to a solver and writes the
// report.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/costela/gomps"
	"github.com/costela/gomps/glpk"
	"github.com/costela/gomps/internal/config"
	"github.com/costela/gomps/internal/report"
	"github.com/costela/gomps/lpsolve"
	"github.com/costela/gomps/simplex"
)

// ErrNotSolved is returned after the report was written when the selected
// solver did not reach a usable solution.
var ErrNotSolved = errors.New("solver did not find a solution")

// App encapsulates the command's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *config.Config
}

// NewApp returns an App writing its report to outW and its logs to logW.
func NewApp(outW, logW io.Writer, cfg *config.Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run compiles, solves and reports once.
func (a *App) Run(ctx context.Context) error {
	policy, err := gomps.ParseObjectivePolicy(a.config.Objective)
	if err != nil {
		return err
	}

	a.logger.Debug("Compiling model.", "path", a.config.ModelPath, "objective", policy)
	model, err := gomps.CompileFile(a.config.ModelPath,
		gomps.WithLogger(printLogger{logger: a.logger, level: slog.LevelInfo, component: "compiler"}),
		gomps.WithObjectivePolicy(policy),
	)
	if err != nil {
		return err
	}
	a.logger.Info("Model compiled.",
		"name", model.Name(),
		"variables", model.VariableCount(),
		"constraints", model.ConstraintCount(),
		"warnings", len(model.Warnings()),
	)

	if a.config.WriteLP != "" {
		if err := glpk.WriteLP(model, a.config.WriteLP); err != nil {
			return errors.Wrap(err, "exporting model")
		}
		a.logger.Info("Model exported.", "path", a.config.WriteLP, "format", "lp")
	}

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	rep := report.New(model)

	solved := true
	switch a.config.Solver {
	case "none":
	case "simplex":
		solved, err = a.runSimplex(ctx, model, rep)
	case "lpsolve":
		solved, err = a.runLPSolve(ctx, model, rep)
	case "glpk":
		solved, err = a.runGLPK(ctx, model, rep)
	default:
		err = errors.Errorf("unknown solver %q", a.config.Solver)
	}
	if err != nil {
		return err
	}

	if err := rep.Write(a.outW, a.config.Format); err != nil {
		return errors.Wrap(err, "writing report")
	}

	if !solved {
		return ErrNotSolved
	}

	return nil
}

func (a *App) runSimplex(ctx context.Context, model *gomps.Model, rep *report.Report) (bool, error) {
	res, err := simplex.Solve(ctx, model,
		simplex.WithTolerance(a.config.Tolerance),
		simplex.WithLogger(printLogger{logger: a.logger, level: slog.LevelDebug, component: "simplex"}),
	)
	if err != nil {
		return false, errors.Wrap(err, "simplex")
	}
	a.logger.Info("Solver finished.", "solver", "simplex", "status", res.Status, "objective", res.Objective)

	rep.WithSolution(model, "simplex", res.Status, res.Success, res.Objective, 0, res.Values)

	return res.Success, nil
}

func (a *App) runLPSolve(ctx context.Context, model *gomps.Model, rep *report.Report) (bool, error) {
	res, err := lpsolve.Solve(ctx, model,
		lpsolve.WithLogger(printLogger{logger: a.logger, level: slog.LevelDebug, component: "lpsolve"}),
		lpsolve.WithTimeout(a.config.Timeout),
		lpsolve.WithVerbosity(a.config.LPSolveVerbosity),
	)

	var solveErr lpsolve.SolveError
	switch {
	case errors.As(err, &solveErr):
		a.logger.Info("Solver finished.", "solver", "lpsolve", "status", solveErr.Error())
		rep.WithSolution(model, "lpsolve", solveErr.Error(), false, 0, 0, nil)
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "lpsolve")
	}
	a.logger.Info("Solver finished.", "solver", "lpsolve", "status", res.Status.String(), "objective", res.Objective)

	rep.WithSolution(model, "lpsolve", res.Status.String(), res.Success(), res.Objective, res.Iterations, res.Values).
		WithDuals(model, res.Duals)

	return res.Success(), nil
}

func (a *App) runGLPK(ctx context.Context, model *gomps.Model, rep *report.Report) (bool, error) {
	method, err := glpk.ParseMethod(a.config.GLPKMethod)
	if err != nil {
		return false, errors.Wrap(err, "glpk")
	}

	res, err := glpk.Solve(ctx, model, glpk.WithMethod(method), glpk.WithPresolve(a.config.GLPKPresolve))
	if err != nil {
		return false, errors.Wrap(err, "glpk")
	}
	a.logger.Info("Solver finished.", "solver", "glpk", "status", res.Status.String(), "objective", res.Objective)

	rep.WithSolution(model, "glpk", res.Status.String(), res.Success(), res.Objective, 0, res.Values).
		WithDuals(model, res.Duals)

	return res.Success(), nil
}
