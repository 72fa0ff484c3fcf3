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

// Package simplex solves compiled MPS models with gonum's pure Go simplex
// implementation. It is the default solver of the gomps command and needs no
// C libraries.
//
// gonum's lp.Simplex requires the equality system to have full row rank.
// Models with redundant equality rows fail with the status
// "lp: A is singular"; solve those with the lpsolve or glpk packages, which
// cope with dependent rows.
package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/costela/gomps"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	StatusOptimal    = "optimal"
	StatusInfeasible = "infeasible"
	StatusUnbounded  = "unbounded"
)

// Result is the solver's answer, forwarded as is. Values holds the primal
// solution in the model's variable order and is only set when Success is
// true.
type Result struct {
	Status    string
	Objective float64
	Success   bool
	Values    []float64
}

type Option func(*solver) error

type solver struct {
	tol    float64
	logger gomps.Logger
}

type nopLogger struct{}

func (nopLogger) Print(v ...interface{}) {}

// WithTolerance sets the reduced cost tolerance of the simplex iterations.
// Zero selects gonum's default.
func WithTolerance(tol float64) Option {
	return func(s *solver) error {
		if tol < 0 || math.IsNaN(tol) {
			return fmt.Errorf("invalid tolerance %v", tol)
		}
		s.tol = tol

		return nil
	}
}

func WithLogger(logger gomps.Logger) Option {
	return func(s *solver) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger

		return nil
	}
}

type outcome struct {
	x   []float64
	err error
}

// Solve minimizes the model. Infeasible or unbounded models, as well as
// numerical failures reported by gonum, yield a Result with Success set to
// false; an error is only returned for invalid options, an unsupported model
// shape or a done context. The simplex iterations cannot be interrupted: when
// ctx is done, Solve returns at once and the computation finishes in the
// background.
func Solve(ctx context.Context, model *gomps.Model, opts ...Option) (*Result, error) {
	s := &solver{logger: nopLogger{}}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := model.VariableCount()
	if n == 0 {
		if !model.EmptyRowsFeasible() {
			return &Result{Status: StatusInfeasible, Objective: math.NaN()}, nil
		}
		return &Result{Status: StatusOptimal, Success: true}, nil
	}

	c := model.Objective()
	g, h := inequalities(model)
	a, b := equalities(model)
	if len(b) > 2*n {
		return nil, fmt.Errorf("model has %d equality rows but only %d variables", len(b), n)
	}

	cNew, aNew, bNew := lp.Convert(c, g, h, a, b)
	rows, cols := aNew.Dims()
	s.logger.Print(fmt.Sprintf("simplex: standard form has %d rows and %d columns", rows, cols))

	done := make(chan outcome, 1)
	go func() {
		_, x, err := lp.Simplex(cNew, aNew, bNew, s.tol, nil)
		done <- outcome{x: x, err: err}
	}()

	var o outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o = <-done:
	}

	switch {
	case o.err == nil:
	case errors.Is(o.err, lp.ErrInfeasible):
		return &Result{Status: StatusInfeasible, Objective: math.NaN()}, nil
	case errors.Is(o.err, lp.ErrUnbounded):
		return &Result{Status: StatusUnbounded, Objective: math.Inf(-1)}, nil
	default:
		return &Result{Status: o.err.Error(), Objective: math.NaN()}, nil
	}

	// the standard form splits every variable into x = xp - xn
	x := make([]float64, n)
	floats.SubTo(x, o.x[:n], o.x[n:2*n])

	return &Result{
		Status:    StatusOptimal,
		Objective: floats.Dot(c, x),
		Success:   true,
		Values:    x,
	}, nil
}

// inequalities stacks the "<=" system of the model with one row per finite
// variable bound, since the standard form only knows x >= 0 after splitting.
func inequalities(model *gomps.Model) (mat.Matrix, []float64) {
	n := model.VariableCount()
	bounds := model.Bounds()
	h := model.Bub()
	ub := model.SparseUb()
	m, _ := ub.Dims()

	type boundRow struct {
		col  int
		sign float64
	}
	var extra []boundRow
	for j, b := range bounds {
		if !math.IsInf(b.Lower, 0) {
			extra = append(extra, boundRow{col: j, sign: -1})
			h = append(h, -b.Lower)
		}
		if !math.IsInf(b.Upper, 0) {
			extra = append(extra, boundRow{col: j, sign: 1})
			h = append(h, b.Upper)
		}
	}

	if len(h) == 0 {
		return nil, nil
	}

	g := mat.NewDense(len(h), n, nil)
	ub.DoNonZero(g.Set)
	for i, r := range extra {
		g.Set(m+i, r.col, r.sign)
	}

	// avoid -0 right-hand sides for zero lower bounds
	for i := m; i < len(h); i++ {
		if h[i] == 0 {
			h[i] = 0
		}
	}

	return g, h
}

func equalities(model *gomps.Model) (mat.Matrix, []float64) {
	eq := model.SparseEq()
	if r, _ := eq.Dims(); r == 0 {
		return nil, nil
	}

	return eq, model.Beq()
}
