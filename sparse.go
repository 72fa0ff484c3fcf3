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
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Triplet is a single nonzero (row, column, value) entry of a constraint
// matrix.
type Triplet struct {
	Row, Col int
	Val      float64
}

// Sparse is an immutable matrix in compressed sparse row form. Within each
// row the column indices are strictly increasing. Sparse implements
// mat.Matrix, so it can be handed directly to gonum routines.
type Sparse struct {
	rows, cols int
	start      []int
	index      []int
	value      []float64
}

var _ mat.Matrix = (*Sparse)(nil)

// newSparse builds a CSR matrix from triplets in O(nnz + rows + cols) with
// two stable counting sorts, first by column and then by row. The triplets
// must not contain duplicate (row, column) pairs.
func newSparse(rows, cols int, triplets []Triplet) *Sparse {
	byCol := countingSort(triplets, cols, func(t Triplet) int { return t.Col })
	byRow := countingSort(byCol, rows, func(t Triplet) int { return t.Row })

	s := &Sparse{
		rows:  rows,
		cols:  cols,
		start: make([]int, rows+1),
		index: make([]int, len(byRow)),
		value: make([]float64, len(byRow)),
	}
	for i, t := range byRow {
		s.index[i] = t.Col
		s.value[i] = t.Val
		s.start[t.Row+1]++
	}
	for r := 0; r < rows; r++ {
		s.start[r+1] += s.start[r]
	}

	return s
}

func countingSort(in []Triplet, buckets int, key func(Triplet) int) []Triplet {
	offsets := make([]int, buckets+1)
	for _, t := range in {
		offsets[key(t)+1]++
	}
	for i := 0; i < buckets; i++ {
		offsets[i+1] += offsets[i]
	}

	out := make([]Triplet, len(in))
	for _, t := range in {
		k := key(t)
		out[offsets[k]] = t
		offsets[k]++
	}

	return out
}

// Dims returns the number of rows and columns of the matrix.
func (s *Sparse) Dims() (r, c int) {
	return s.rows, s.cols
}

// At returns the element at row i, column j.
func (s *Sparse) At(i, j int) float64 {
	if i < 0 || i >= s.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= s.cols {
		panic(mat.ErrColAccess)
	}

	lo, hi := s.start[i], s.start[i+1]
	k := lo + sort.SearchInts(s.index[lo:hi], j)
	if k < hi && s.index[k] == j {
		return s.value[k]
	}

	return 0
}

// T returns the transpose of the matrix.
func (s *Sparse) T() mat.Matrix {
	return mat.Transpose{Matrix: s}
}

// NNZ returns the number of stored nonzero entries.
func (s *Sparse) NNZ() int {
	return len(s.value)
}

// Row returns copies of the column indices and values stored in row i.
func (s *Sparse) Row(i int) (cols []int, vals []float64) {
	if i < 0 || i >= s.rows {
		panic(mat.ErrRowAccess)
	}

	lo, hi := s.start[i], s.start[i+1]
	cols = append([]int(nil), s.index[lo:hi]...)
	vals = append([]float64(nil), s.value[lo:hi]...)

	return cols, vals
}

// DoNonZero calls fn for each stored entry in row-major order.
func (s *Sparse) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < s.rows; i++ {
		for k := s.start[i]; k < s.start[i+1]; k++ {
			fn(i, s.index[k], s.value[k])
		}
	}
}

// Triplets returns the stored entries in row-major order.
func (s *Sparse) Triplets() []Triplet {
	out := make([]Triplet, 0, len(s.value))
	s.DoNonZero(func(i, j int, v float64) {
		out = append(out, Triplet{Row: i, Col: j, Val: v})
	})

	return out
}

// Dense returns a freshly allocated dense copy of the matrix, or nil when
// the matrix has no rows or no columns (gonum does not allow empty dense
// matrices).
func (s *Sparse) Dense() *mat.Dense {
	if s.rows == 0 || s.cols == 0 {
		return nil
	}

	d := mat.NewDense(s.rows, s.cols, nil)
	s.DoNonZero(d.Set)

	return d
}
