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
Package lpsolve hands compiled MPS models to the lp_solve 5.5 library.

The model is loaded column-major into a fresh lprec, minimized and released
again; nothing is kept between calls, so concurrent calls do not share solver
state.

	model, _ := gomps.CompileFile("afiro.mps")
	res, err := lpsolve.Solve(ctx, model)
	if err != nil {
		// an lpsolve.SolveError (e.g. ErrModelInfeasible) or ctx.Err()
	}
	fmt.Printf("z = %f after %d iterations\n", res.Objective, res.Iterations)
*/
package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve/
// #cgo linux LDFLAGS: -llpsolve55 -lm -ldl -lcolamd
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
// #include <stdlib.h>
/*
// https://golang.org/issue/19837
extern int abortCallback(lprec *lp, void *userhandle);
extern void logCallback(lprec *lp, void *userhandle, char *buf);
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/costela/gomps"
)

//export logCallback
func logCallback(prob *C.lprec, loggerPtr unsafe.Pointer, msg *C.char) {
	logger, ok := loadRef(loggerPtr).(gomps.Logger)
	if !ok {
		return
	}

	logger.Print(C.GoString(msg))
}

//export abortCallback
func abortCallback(prob *C.lprec, ctxPtr unsafe.Pointer) C.int {
	ctx, ok := loadRef(ctxPtr).(context.Context)
	if ok && ctx.Err() != nil {
		return C.TRUE
	}

	return C.FALSE
}

// Solve minimizes the model with lp_solve. Solutions that are not optimal
// or suboptimal are reported as a SolveError. If ctx is done while solving,
// the search is aborted and ctx.Err() is returned.
func Solve(ctx context.Context, model *gomps.Model, opts ...Option) (*Result, error) {
	s := &solver{logger: noopLogger{}}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying solver option: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := model.VariableCount()
	prob := C.make_lp(0, C.int(n))
	if prob == nil {
		return nil, errors.New("could not allocate lp_solve model")
	}
	// plug the underlying C library's destructor, otherwise we leak the struct
	defer C.delete_lp(prob)

	// disable stdout logging and redirect to our logger
	loggerRef := saveRef(s.logger)
	defer deleteRef(loggerRef)
	C.put_logfunc(prob, (*C.lphandlestr_func)(C.logCallback), loggerRef)
	noFile := C.CString("")
	defer C.free(unsafe.Pointer(noFile))
	C.set_outputfile(prob, noFile)
	C.set_verbose(prob, C.int(s.verbosity))

	if s.timeout > 0 {
		C.set_timeout(prob, C.long((s.timeout+time.Second-1)/time.Second))
	}

	cName := C.CString(model.Name())
	defer C.free(unsafe.Pointer(cName))
	C.set_lp_name(prob, cName)
	C.set_minim(prob)
	C.set_sensitivity(prob, C.TRUE)

	if err := load(prob, model); err != nil {
		return nil, err
	}

	ctxRef := saveRef(ctx)
	defer deleteRef(ctxRef)
	C.put_abortfunc(prob, (*C.lphandle_intfunc)(C.abortCallback), ctxRef)
	defer C.put_abortfunc(prob, nil, nil)

	ret := C.solve(prob)

	switch ret {
	case C.OPTIMAL, C.SUBOPTIMAL:
		return result(prob, SolveStatus(ret), n), nil
	case C.USERABORT:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrUserAbort
	default:
		return nil, SolveError(ret)
	}
}

func load(prob *C.lprec, model *gomps.Model) error {
	n := model.VariableCount()

	for j, name := range model.Variables() {
		cName := C.CString(name)
		C.set_col_name(prob, C.int(j+1), cName)
		C.free(unsafe.Pointer(cName))
	}

	if n > 0 {
		row := make([]C.REAL, n)
		colno := make([]C.int, n)
		for j, coef := range model.Objective() {
			row[j] = C.REAL(coef)
			colno[j] = C.int(j + 1)
		}
		if C.set_obj_fnex(prob, C.int(n), &row[0], &colno[0]) != C.TRUE {
			return errors.New("could not set objective function")
		}
	}

	C.set_add_rowmode(prob, C.TRUE)
	if err := addRows(prob, model.SparseEq(), model.Beq(), model.EqualityRows(), C.EQ); err != nil {
		return err
	}
	if err := addRows(prob, model.SparseUb(), model.Bub(), model.InequalityRows(), C.LE); err != nil {
		return err
	}
	C.set_add_rowmode(prob, C.FALSE)

	inf := float64(C.get_infinite(prob))
	for j, b := range model.Bounds() {
		lower, upper := b.Lower, b.Upper
		if math.IsInf(lower, -1) {
			lower = -inf
		}
		if math.IsInf(upper, 1) {
			upper = inf
		}
		C.set_bounds(prob, C.int(j+1), C.REAL(lower), C.REAL(upper))
	}

	return nil
}

func addRows(prob *C.lprec, a *gomps.Sparse, rhs []float64, names []string, kind C.int) error {
	rows, _ := a.Dims()
	for i := 0; i < rows; i++ {
		cols, vals := a.Row(i)

		var (
			row   *C.REAL
			colno *C.int
		)
		if len(cols) > 0 {
			cRow := make([]C.REAL, len(cols))
			cColno := make([]C.int, len(cols))
			for k, j := range cols {
				cColno[k] = C.int(j + 1)
				cRow[k] = C.REAL(vals[k])
			}
			row, colno = &cRow[0], &cColno[0]
		}

		if C.add_constraintex(prob, C.int(len(cols)), row, colno, kind, C.REAL(rhs[i])) != C.TRUE {
			return fmt.Errorf("could not add constraint %q", names[i])
		}

		cName := C.CString(names[i])
		C.set_row_name(prob, C.get_Nrows(prob), cName)
		C.free(unsafe.Pointer(cName))
	}

	return nil
}

func result(prob *C.lprec, status SolveStatus, n int) *Result {
	res := &Result{
		Status:     status,
		Objective:  float64(C.get_objective(prob)),
		Iterations: int64(C.get_total_iter(prob)),
		Values:     make([]float64, n),
	}

	if n > 0 {
		values := make([]C.REAL, n)
		C.get_variables(prob, &values[0])
		for j, v := range values {
			res.Values[j] = float64(v)
		}
	}

	// get_var_*result uses funny indexing: 0=objective,1 to Nrows=constraint,Nrows to Nrows+Ncols=variable
	rows := int(C.get_Nrows(prob))
	res.Duals = make([]float64, rows)
	for i := 0; i < rows; i++ {
		res.Duals[i] = float64(C.get_var_dualresult(prob, C.int(i+1)))
	}

	return res
}
