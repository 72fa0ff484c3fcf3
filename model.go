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

package gomps

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Bound is the feasible interval of a variable. Upper may be +Inf.
type Bound struct {
	Lower, Upper float64
}

// DefaultBound is the interval of any variable without BOUNDS entries.
var DefaultBound = Bound{Lower: 0, Upper: math.Inf(1)}

// Model is a compiled linear program of the form
//
//	minimize   c · x
//	subject to Aeq · x  = beq
//	           Aub · x <= bub
//	           lower <= x <= upper
//
// Variables are ordered by name. A Model is immutable: every accessor
// returns a copy.
type Model struct {
	name         string
	objectiveRow string
	variables    []string
	objective    []float64
	eq, ub       *Sparse
	beq, bub     []float64
	eqRows       []string
	ubRows       []string
	bounds       []Bound
	warnings     []Warning
}

// Name returns the problem name from the NAME line, or "" if absent.
func (m *Model) Name() string {
	return m.name
}

// ObjectiveRow returns the name of the N row used as objective.
func (m *Model) ObjectiveRow() string {
	return m.objectiveRow
}

// Variables returns the variable names in index order.
func (m *Model) Variables() []string {
	return append([]string(nil), m.variables...)
}

func (m *Model) VariableCount() int {
	return len(m.variables)
}

// ConstraintCount returns the number of equality plus inequality rows.
func (m *Model) ConstraintCount() int {
	return len(m.beq) + len(m.bub)
}

// Objective returns the dense objective vector c.
func (m *Model) Objective() []float64 {
	return append([]float64(nil), m.objective...)
}

// Aeq returns a dense copy of the equality matrix, or nil if the model has
// no equality rows.
func (m *Model) Aeq() *mat.Dense {
	return m.eq.Dense()
}

// Aub returns a dense copy of the inequality matrix, or nil if the model has
// no inequality rows. Every row reads "<=".
func (m *Model) Aub() *mat.Dense {
	return m.ub.Dense()
}

// SparseEq returns the equality matrix in CSR form.
func (m *Model) SparseEq() *Sparse {
	return m.eq
}

// SparseUb returns the inequality matrix in CSR form.
func (m *Model) SparseUb() *Sparse {
	return m.ub
}

func (m *Model) Beq() []float64 {
	return append([]float64(nil), m.beq...)
}

func (m *Model) Bub() []float64 {
	return append([]float64(nil), m.bub...)
}

// EqualityRows returns the row names of the equality system, in row order.
func (m *Model) EqualityRows() []string {
	return append([]string(nil), m.eqRows...)
}

// InequalityRows returns the row names of the inequality system, in row
// order. Rows declared as G appear here negated.
func (m *Model) InequalityRows() []string {
	return append([]string(nil), m.ubRows...)
}

// Bounds returns the variable bounds in variable order.
func (m *Model) Bounds() []Bound {
	return append([]Bound(nil), m.bounds...)
}

// Warnings returns the recovered problems found while compiling.
func (m *Model) Warnings() []Warning {
	return append([]Warning(nil), m.warnings...)
}

// EmptyRowsFeasible reports whether every constraint row without stored
// coefficients holds, i.e. 0 = beq[i] and 0 <= bub[i] for those rows. For a
// model without variables this decides feasibility on its own.
func (m *Model) EmptyRowsFeasible() bool {
	for i, v := range m.beq {
		if m.eq.start[i] == m.eq.start[i+1] && v != 0 {
			return false
		}
	}
	for i, v := range m.bub {
		if m.ub.start[i] == m.ub.start[i+1] && v < 0 {
			return false
		}
	}

	return true
}
