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
package glpk

// #include <glpk.h>
import "C"

import "fmt"

// Result is GLPK's answer for a compiled model. Values are in the model's
// variable order; Duals has one entry per constraint, equality rows first,
// then inequality rows. Both are left empty when the presolver already
// proved there is no solution.
type Result struct {
	Status    SolveStatus
	Objective float64
	Values    []float64
	Duals     []float64
}

type SolveStatus C.int

const (
	SolutionOptimal    = SolveStatus(C.GLP_OPT)
	SolutionFeasible   = SolveStatus(C.GLP_FEAS)
	SolutionInfeasible = SolveStatus(C.GLP_INFEAS)
	SolutionNoFeasible = SolveStatus(C.GLP_NOFEAS)
	SolutionUnbounded  = SolveStatus(C.GLP_UNBND)
	SolutionUndefined  = SolveStatus(C.GLP_UNDEF)

	// SolutionNoDualFeasible is reported when the presolver finds no dual
	// feasible solution, meaning the model is unbounded or infeasible.
	SolutionNoDualFeasible = SolveStatus(-1)
)

func (s SolveStatus) String() string {
	switch s {
	case SolutionOptimal:
		return "optimal"
	case SolutionFeasible:
		return "feasible"
	case SolutionInfeasible:
		return "infeasible"
	case SolutionNoFeasible:
		return "no feasible solution"
	case SolutionUnbounded:
		return "unbounded"
	case SolutionUndefined:
		return "undefined"
	case SolutionNoDualFeasible:
		return "no dual feasible solution"
	default:
		return fmt.Sprintf("SolveStatus(%d)", int(s))
	}
}

// Success reports whether the status carries an optimal solution.
func (res *Result) Success() bool {
	return res.Status == SolutionOptimal
}

func glpkError(err C.int) error {
	switch err {
	case 0:
		return nil
	case C.GLP_EBADB:
		return fmt.Errorf("initial basis invalid")
	case C.GLP_ESING:
		return fmt.Errorf("initial basis is exactly singular")
	case C.GLP_ECOND:
		return fmt.Errorf("initial basis is ill-conditioned")
	case C.GLP_EBOUND:
		return fmt.Errorf("double-bounded variables have incorrect bounds")
	case C.GLP_EFAIL:
		return fmt.Errorf("solver failure")
	case C.GLP_EOBJLL, C.GLP_EOBJUL:
		return fmt.Errorf("objective limit reached")
	case C.GLP_EITLIM:
		return fmt.Errorf("simplex iteration limit exceeded")
	case C.GLP_ETMLIM:
		return fmt.Errorf("time limit exceeded")
	default:
		return fmt.Errorf("unknown glpk error: %d", err)
	}
}
