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

package lpsolve

// #include <lp_lib.h>
import "C"

// Result is lp_solve's answer for a compiled model. Values are in the
// model's variable order; Duals has one entry per constraint, equality rows
// first, then inequality rows, matching gomps.Model's row order.
type Result struct {
	Status     SolveStatus
	Objective  float64
	Iterations int64
	Values     []float64
	Duals      []float64
}

type SolveStatus C.int

const (
	SolutionOptimal    = SolveStatus(C.OPTIMAL)
	SolutionSuboptimal = SolveStatus(C.SUBOPTIMAL)
)

func (s SolveStatus) String() string {
	switch s {
	case SolutionOptimal:
		return "optimal"
	case SolutionSuboptimal:
		return "suboptimal"
	default:
		return "unknown"
	}
}

// Success reports whether the status carries a usable solution.
func (res *Result) Success() bool {
	return res.Status == SolutionOptimal || res.Status == SolutionSuboptimal
}

type SolveError C.int

const (
	ErrBranchCutBreak   = SolveError(C.PROCBREAK)
	ErrBranchCutFail    = SolveError(C.PROCFAIL)
	ErrFeasibleFound    = SolveError(C.FEASFOUND)
	ErrModelDegenerate  = SolveError(C.DEGENERATE)
	ErrModelInfeasible  = SolveError(C.INFEASIBLE)
	ErrModelUnbounded   = SolveError(C.UNBOUNDED)
	ErrNoFeasibleFound  = SolveError(C.NOFEASFOUND)
	ErrNoMemory         = SolveError(C.NOMEMORY)
	ErrNumericalFailure = SolveError(C.NUMFAILURE)
	ErrPresolved        = SolveError(C.PRESOLVED) // presolve stays off, the row and column order must survive
	ErrTimeout          = SolveError(C.TIMEOUT)
	ErrUserAbort        = SolveError(C.USERABORT)
)

// Error returns a string representation of the given error value.
func (e SolveError) Error() string {
	switch e {
	case ErrBranchCutBreak:
		return "branch-and-cut stopped at breakpoint"
	case ErrBranchCutFail:
		return "branch-and-cut failure"
	case ErrFeasibleFound:
		return "feasible but non-integer solution found"
	case ErrModelDegenerate:
		return "model is degenerate"
	case ErrModelInfeasible:
		return "model is infeasible"
	case ErrModelUnbounded:
		return "model is unbounded"
	case ErrNoFeasibleFound:
		return "no feasible solution found"
	case ErrNoMemory:
		return "ran out of memory while solving"
	case ErrNumericalFailure:
		return "numerical failure while solving"
	case ErrPresolved:
		return "model was presolved"
	case ErrTimeout:
		return "timeout occurred before a solution was found"
	case ErrUserAbort:
		return "aborted by user abort function"
	default:
		return "unrecognized lp_solve result"
	}
}
