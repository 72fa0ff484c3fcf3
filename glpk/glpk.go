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

/*
Package glpk hands compiled MPS models to the GNU Linear Programming Kit.

Each call builds a fresh glp_prob from the model's sparse matrices, runs the
simplex method and deletes the problem again.

	model, _ := gomps.CompileFile("afiro.mps")
	res, err := glpk.Solve(ctx, model, glpk.WithMethod(glpk.DualPrimal))
	if err == nil && res.Success() {
		fmt.Println(res.Objective, res.Values)
	}

GLPK cannot be interrupted from the outside. The context is checked before
solving, and its deadline, if any, becomes GLPK's time limit.

WriteLP exports a compiled model in CPLEX LP format; SolveFile reads such a
file back and solves it.
*/
package glpk

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
// #include <stdlib.h>
import "C"

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"
	"unsafe"

	"github.com/costela/gomps"
)

// Solve minimizes the model with GLPK's simplex method. Problems GLPK
// proves to be without a feasible solution are reported through the Result
// status; other GLPK failures are returned as errors.
func Solve(ctx context.Context, model *gomps.Model, opts ...Option) (*Result, error) {
	s, err := newSolver(opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if model.VariableCount() == 0 {
		if !model.EmptyRowsFeasible() {
			return &Result{Status: SolutionNoFeasible}, nil
		}
		return &Result{Status: SolutionOptimal}, nil
	}

	prob := newProblem(model)
	// plug the underlying C library's destructor, otherwise we leak the struct
	defer C.glp_delete_prob(prob)

	return s.simplex(ctx, prob)
}

// SolveFile reads a problem in CPLEX LP format, as written by WriteLP, and
// solves it like Solve. Values follow the column order of the file.
func SolveFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	s, err := newSolver(opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prob := C.glp_create_prob()
	defer C.glp_delete_prob(prob)

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var ret C.int
	s.quietly(func() { ret = C.glp_read_lp(prob, nil, cPath) })
	if ret != 0 {
		return nil, fmt.Errorf("could not read LP file %s", path)
	}

	return s.simplex(ctx, prob)
}

// WriteLP writes the model to path in CPLEX LP format, the format HiGHS,
// GLPK and CPLEX read as ".lp" files.
func WriteLP(model *gomps.Model, path string, opts ...Option) error {
	s, err := newSolver(opts)
	if err != nil {
		return err
	}

	prob := newProblem(model)
	defer C.glp_delete_prob(prob)

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var ret C.int
	s.quietly(func() { ret = C.glp_write_lp(prob, nil, cPath) })
	if ret != 0 {
		return fmt.Errorf("could not write LP file %s", path)
	}

	return nil
}

func newSolver(opts []Option) (*solver, error) {
	s := &solver{presolve: true, method: Primal}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}

	return s, nil
}

// quietly runs fn with GLPK's terminal output off unless the solver is
// verbose. The setting is per thread in GLPK, so the thread is pinned.
func (s *solver) quietly(fn func()) {
	if s.verbose {
		fn()
		return
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	prev := C.glp_term_out(C.GLP_OFF)
	defer C.glp_term_out(prev)

	fn()
}

func newProblem(model *gomps.Model) *C.glp_prob {
	prob := C.glp_create_prob()

	cName := C.CString(model.Name())
	defer C.free(unsafe.Pointer(cName))
	C.glp_set_prob_name(prob, cName)
	C.glp_set_obj_dir(prob, C.GLP_MIN)

	load(prob, model)

	return prob
}

func (s *solver) simplex(ctx context.Context, prob *C.glp_prob) (*Result, error) {
	var parm C.glp_smcp
	C.glp_init_smcp(&parm)
	parm.meth = C.int(s.method)

	if s.verbose {
		parm.msg_lev = C.GLP_MSG_ON
	} else {
		parm.msg_lev = C.GLP_MSG_OFF
	}

	if s.presolve {
		parm.presolve = C.GLP_ON
	} else {
		parm.presolve = C.GLP_OFF
	}

	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return nil, context.DeadlineExceeded
		}
		parm.tm_lim = C.int(millis(left))
	}

	switch ret := C.glp_simplex(prob, &parm); ret {
	case 0:
	case C.GLP_ENOPFS:
		return &Result{Status: SolutionNoFeasible}, nil
	case C.GLP_ENODFS:
		return &Result{Status: SolutionNoDualFeasible}, nil
	case C.GLP_ETMLIM:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, glpkError(ret)
	default:
		return nil, glpkError(ret)
	}

	return result(prob, int(C.glp_get_num_cols(prob))), nil
}

func millis(d time.Duration) int {
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(ms)
}

func load(prob *C.glp_prob, model *gomps.Model) {
	n := model.VariableCount()
	eq, ub := model.SparseEq(), model.SparseUb()
	eqRows, _ := eq.Dims()
	ubRows, _ := ub.Dims()

	if n > 0 {
		C.glp_add_cols(prob, C.int(n))
	}
	objective := model.Objective()
	bounds := model.Bounds()
	for j, name := range model.Variables() {
		cName := C.CString(name)
		C.glp_set_col_name(prob, C.int(j+1), cName)
		C.free(unsafe.Pointer(cName))

		C.glp_set_obj_coef(prob, C.int(j+1), C.double(objective[j]))
		setColumnBounds(prob, j+1, bounds[j])
	}

	if eqRows+ubRows == 0 {
		return
	}

	C.glp_add_rows(prob, C.int(eqRows+ubRows))
	addRowNames(prob, 1, model.EqualityRows())
	addRowNames(prob, eqRows+1, model.InequalityRows())

	for i, v := range model.Beq() {
		C.glp_set_row_bnds(prob, C.int(i+1), C.GLP_FX, C.double(v), C.double(v))
	}
	for i, v := range model.Bub() {
		C.glp_set_row_bnds(prob, C.int(eqRows+i+1), C.GLP_UP, C.double(0), C.double(v))
	}

	// glpk indices start at 1; index 0 is reserved
	nnz := eq.NNZ() + ub.NNZ()
	ia := make([]C.int, 1, nnz+1)
	ja := make([]C.int, 1, nnz+1)
	ar := make([]C.double, 1, nnz+1)
	appendTriplets := func(offset int) func(i, j int, v float64) {
		return func(i, j int, v float64) {
			ia = append(ia, C.int(offset+i+1))
			ja = append(ja, C.int(j+1))
			ar = append(ar, C.double(v))
		}
	}
	eq.DoNonZero(appendTriplets(0))
	ub.DoNonZero(appendTriplets(eqRows))

	C.glp_load_matrix(prob, C.int(nnz), &ia[0], &ja[0], &ar[0])
}

func addRowNames(prob *C.glp_prob, first int, names []string) {
	for i, name := range names {
		cName := C.CString(name)
		C.glp_set_row_name(prob, C.int(first+i), cName)
		C.free(unsafe.Pointer(cName))
	}
}

func setColumnBounds(prob *C.glp_prob, col int, b gomps.Bound) {
	lower, upper := b.Lower, b.Upper
	switch {
	case math.IsInf(lower, -1) && math.IsInf(upper, 1):
		C.glp_set_col_bnds(prob, C.int(col), C.GLP_FR, C.double(0), C.double(0))
	case math.IsInf(lower, -1):
		C.glp_set_col_bnds(prob, C.int(col), C.GLP_UP, C.double(0), C.double(upper))
	case math.IsInf(upper, 1):
		C.glp_set_col_bnds(prob, C.int(col), C.GLP_LO, C.double(lower), C.double(0))
	case upper == lower:
		C.glp_set_col_bnds(prob, C.int(col), C.GLP_FX, C.double(lower), C.double(upper))
	default:
		C.glp_set_col_bnds(prob, C.int(col), C.GLP_DB, C.double(lower), C.double(upper))
	}
}

func result(prob *C.glp_prob, n int) *Result {
	res := &Result{
		Status:    SolveStatus(C.glp_get_status(prob)),
		Objective: float64(C.glp_get_obj_val(prob)),
		Values:    make([]float64, n),
	}

	for j := range res.Values {
		res.Values[j] = float64(C.glp_get_col_prim(prob, C.int(j+1)))
	}

	rows := int(C.glp_get_num_rows(prob))
	res.Duals = make([]float64, rows)
	for i := range res.Duals {
		res.Duals[i] = float64(C.glp_get_row_dual(prob, C.int(i+1)))
	}

	return res
}
