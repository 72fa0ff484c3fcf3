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
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

const smallLE = `NAME          SMALL
ROWS
 N  COST
 L  LIM1
COLUMNS
    X         COST      2.0        LIM1      1.0
RHS
    RHS       LIM1      10.0
ENDATA
`

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Print(v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprint(v...))
}

func compileString(t *testing.T, src string, opts ...Option) *Model {
	t.Helper()

	model, err := Compile(strings.NewReader(src), opts...)
	require.NoError(t, err)
	require.NotNil(t, model)

	return model
}

func TestCompileLessOrEqual(t *testing.T) {
	model := compileString(t, smallLE)

	assert.Equal(t, "SMALL", model.Name())
	assert.Equal(t, "COST", model.ObjectiveRow())
	assert.Equal(t, []string{"X"}, model.Variables())
	assert.Equal(t, []float64{2}, model.Objective())
	assert.Equal(t, mat.NewDense(1, 1, []float64{1}), model.Aub())
	assert.Equal(t, []float64{10}, model.Bub())
	assert.Nil(t, model.Aeq())
	assert.Empty(t, model.Beq())
	assert.Equal(t, []Bound{{Lower: 0, Upper: math.Inf(1)}}, model.Bounds())
	assert.Empty(t, model.Warnings())
}

func TestCompileGreaterOrEqualIsNegated(t *testing.T) {
	model := compileString(t, strings.Replace(smallLE, " L  LIM1", " G  LIM1", 1))

	assert.Equal(t, []float64{2}, model.Objective())
	assert.Equal(t, mat.NewDense(1, 1, []float64{-1}), model.Aub())
	assert.Equal(t, []float64{-10}, model.Bub())
	assert.Equal(t, []string{"LIM1"}, model.InequalityRows())
}

func TestGreaterOrEqualRoundTrip(t *testing.T) {
	src := `NAME RT
ROWS
 N obj
 G ge1
 G ge2
COLUMNS
 x ge1 3 ge2 -1
 y ge1 1.5
 y ge2 4
RHS
 rhs ge1 6 ge2 -2
ENDATA
`
	model := compileString(t, src)
	original := [][]float64{{3, 1.5}, {-1, 4}}
	rhs := []float64{6, -2}

	aub := model.Aub()
	bub := model.Bub()
	points := [][]float64{{0, 0}, {1, 1}, {2, 0}, {0, 4}, {3, -1}, {-2, 5}}
	for _, x := range points {
		for i := range original {
			lhs := original[i][0]*x[0] + original[i][1]*x[1]
			ub := aub.At(i, 0)*x[0] + aub.At(i, 1)*x[1]
			assert.Equal(t, lhs >= rhs[i], ub <= bub[i], "row %d at %v", i, x)
		}
	}
}

func TestVariablesAreSorted(t *testing.T) {
	src := `NAME ORDER
ROWS
 N obj
 E c1
COLUMNS
 zeta obj 1 c1 1
 alpha obj 2
 Mid c1 3
 alpha c1 4
 beta obj 5
RHS
 rhs c1 7
ENDATA
`
	model := compileString(t, src)

	assert.Equal(t, []string{"Mid", "alpha", "beta", "zeta"}, model.Variables())
	assert.Equal(t, []float64{0, 2, 5, 1}, model.Objective())
	assert.Equal(t, mat.NewDense(1, 4, []float64{3, 4, 0, 1}), model.Aeq())
	assert.Equal(t, []float64{7}, model.Beq())
	assert.Equal(t, []string{"c1"}, model.EqualityRows())
	assert.Nil(t, model.Aub())
}

func TestMixedSystems(t *testing.T) {
	src := `NAME MIXED
ROWS
 N  obj
 E  bal
 L  cap
 G  dem
COLUMNS
 x  obj  1   bal  1
 x  cap  2
 y  obj  -3  dem  1
 y  bal  -1
RHS
 rhs bal 0 cap 8
 rhs dem 2
ENDATA
`
	model := compileString(t, src)

	assert.Equal(t, []string{"x", "y"}, model.Variables())
	assert.Equal(t, []float64{1, -3}, model.Objective())
	assert.Equal(t, mat.NewDense(1, 2, []float64{1, -1}), model.Aeq())
	assert.Equal(t, []float64{0}, model.Beq())
	assert.Equal(t, mat.NewDense(2, 2, []float64{2, 0, 0, -1}), model.Aub())
	assert.Equal(t, []float64{8, -2}, model.Bub())
	assert.Equal(t, []string{"cap", "dem"}, model.InequalityRows())
	assert.Equal(t, 2, model.VariableCount())
	assert.Equal(t, 3, model.ConstraintCount())
}

func TestBounds(t *testing.T) {
	src := `NAME BOUNDS
ROWS
 N obj
 L c1
COLUMNS
 free obj 1 c1 1
 up obj 1 c1 1
 fx1 obj 1 c1 1
 fx2 obj 1 c1 1
 both obj 1 c1 1
RHS
 rhs c1 100
BOUNDS
 UP up 5.0
 FX fx1 3.0
 LO fx1 1.0
 UP fx1 9.0
 LO fx2 -4
 FX fx2 2.5
 LO both -1
 UP both 1
ENDATA
`
	model := compileString(t, src)

	require.Equal(t, []string{"both", "free", "fx1", "fx2", "up"}, model.Variables())
	assert.Equal(t, []Bound{
		{Lower: -1, Upper: 1},
		{Lower: 0, Upper: math.Inf(1)},
		{Lower: 3, Upper: 3},
		{Lower: 2.5, Upper: 2.5},
		{Lower: 0, Upper: 5},
	}, model.Bounds())
}

func TestBoundsWithSetName(t *testing.T) {
	src := smallLE[:strings.Index(smallLE, "ENDATA")] + "BOUNDS\n UP BND X 4\n LO BND X 1\nENDATA\n"
	model := compileString(t, src)

	assert.Equal(t, []Bound{{Lower: 1, Upper: 4}}, model.Bounds())
}

func TestUnknownBoundTypeIsIgnored(t *testing.T) {
	src := smallLE[:strings.Index(smallLE, "ENDATA")] + "BOUNDS\n FR BND X\n MI X 7\n UP X 4\nENDATA\n"
	model := compileString(t, src)

	assert.Equal(t, []Bound{{Lower: 0, Upper: 4}}, model.Bounds())

	warnings := model.Warnings()
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, ErrUnknownBoundType, w.Kind)
		assert.Equal(t, SectionBounds, w.Section)
	}
	assert.Equal(t, 10, warnings[0].Line)
}

func TestMalformedBoundIsFatal(t *testing.T) {
	src := smallLE[:strings.Index(smallLE, "ENDATA")] + "BOUNDS\n UP X five\nENDATA\n"
	model, err := Compile(strings.NewReader(src))

	assert.Nil(t, model)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCoefficient)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, SectionBounds, perr.Section)
	assert.Equal(t, 10, perr.Line)
	assert.Equal(t, " UP X five", perr.Content)
}

func TestMalformedCoefficientIsFatal(t *testing.T) {
	src := strings.Replace(smallLE, "LIM1      1.0", "LIM1      one", 1)
	model, err := Compile(strings.NewReader(src))

	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrMalformedCoefficient)
	assert.True(t, ErrMalformedCoefficient.Fatal())

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, SectionColumns, perr.Section)
	assert.Equal(t, 6, perr.Line)
	assert.Contains(t, err.Error(), "line 6")
}

func TestNaNCoefficientIsFatal(t *testing.T) {
	src := strings.Replace(smallLE, "LIM1      1.0", "LIM1      NaN", 1)
	_, err := Compile(strings.NewReader(src))

	assert.ErrorIs(t, err, ErrMalformedCoefficient)
}

func TestMalformedRhsIsRecovered(t *testing.T) {
	src := strings.Replace(smallLE, "LIM1      10.0", "LIM1      ten", 1)
	logger := &recordingLogger{}
	model := compileString(t, src, WithLogger(logger))

	assert.Equal(t, []float64{0}, model.Bub())

	warnings := model.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, ErrMalformedRhs, warnings[0].Kind)
	assert.Equal(t, SectionRHS, warnings[0].Section)
	assert.Equal(t, 8, warnings[0].Line)
	assert.False(t, ErrMalformedRhs.Fatal())

	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "line 8")
}

func TestRhsPairsAreIndependent(t *testing.T) {
	src := `NAME PAIRS
ROWS
 N obj
 L a
 L b
COLUMNS
 x obj 1 a 1
 x b 1
RHS
 rhs a bad b 4
ENDATA
`
	model := compileString(t, src)

	assert.Equal(t, []float64{0, 4}, model.Bub())
	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, ErrMalformedRhs, model.Warnings()[0].Kind)
}

func TestMissingSections(t *testing.T) {
	for _, sec := range []Section{SectionRows, SectionColumns, SectionRHS} {
		t.Run(string(sec), func(t *testing.T) {
			var kept []string
			for _, l := range strings.Split(smallLE, "\n") {
				if l != string(sec) {
					kept = append(kept, l)
				}
			}

			model, err := Compile(strings.NewReader(strings.Join(kept, "\n")))
			assert.Nil(t, model)
			assert.ErrorIs(t, err, ErrMissingSection)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, sec, perr.Section)
		})
	}
}

func TestLastObjectiveWins(t *testing.T) {
	src := `NAME TWOOBJ
ROWS
 N first
 L lim
 N second
COLUMNS
 x first 1 second 5
 x lim 1
RHS
 rhs lim 3
ENDATA
`
	model := compileString(t, src)
	assert.Equal(t, "second", model.ObjectiveRow())
	assert.Equal(t, []float64{5}, model.Objective())
	assert.Equal(t, []string{"lim"}, model.InequalityRows())

	model = compileString(t, src, WithObjectivePolicy(FirstObjective))
	assert.Equal(t, "first", model.ObjectiveRow())
	assert.Equal(t, []float64{1}, model.Objective())
	assert.Equal(t, []string{"lim"}, model.InequalityRows())
}

func TestMissingObjectiveIsRecovered(t *testing.T) {
	src := strings.Replace(smallLE, " N  COST\n", "", 1)
	src = strings.Replace(src, "COST      2.0        ", "", 1)
	model := compileString(t, src)

	assert.Equal(t, "", model.ObjectiveRow())
	assert.Equal(t, []float64{0}, model.Objective())
	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, ErrMissingObjective, model.Warnings()[0].Kind)
}

func TestLastCoefficientWins(t *testing.T) {
	src := strings.Replace(smallLE, "RHS\n", "    X         LIM1      3.5\nRHS\n", 1)
	model := compileString(t, src)

	assert.Equal(t, mat.NewDense(1, 1, []float64{3.5}), model.Aub())
	assert.Equal(t, 1, model.SparseUb().NNZ())
}

func TestRecoveredReferences(t *testing.T) {
	src := `NAME REFS
ROWS
 N obj
 L lim
 L lim
 X odd
 LL odd2
 malformed
COLUMNS
 x obj 1 ghost 2
 x lim 1
 y
RHS
 rhs ghost 1 lim 2
ENDATA
`
	model := compileString(t, src)

	assert.Equal(t, []string{"x"}, model.Variables())
	assert.Equal(t, []float64{2}, model.Bub())

	var kinds []ErrorKind
	for _, w := range model.Warnings() {
		kinds = append(kinds, w.Kind)
	}
	assert.Equal(t, []ErrorKind{
		ErrDuplicateRow,
		ErrUnknownRowType,
		ErrUnknownRowType,
		ErrUnknownRow,
		ErrUnknownRow,
	}, kinds)
}

func TestCommentsAndLineEndings(t *testing.T) {
	src := "* a comment\r\nNAME CRLF\r\nROWS\r\n N obj\r\n* another\r\n L c\r\n\r\nCOLUMNS\r\n x obj 1 c 2\r\nRHS\r\n r c 4\r\nENDATA\r\n"
	model := compileString(t, src)

	assert.Equal(t, "CRLF", model.Name())
	assert.Equal(t, []float64{1}, model.Objective())
	assert.Equal(t, mat.NewDense(1, 1, []float64{2}), model.Aub())
	assert.Equal(t, []float64{4}, model.Bub())
}

func TestUnsupportedSectionIsSkipped(t *testing.T) {
	src := strings.Replace(smallLE, "ENDATA", "RANGES\n    RNG       LIM1      4.0\nENDATA", 1)
	model := compileString(t, src)

	assert.Equal(t, []float64{10}, model.Bub())
	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, ErrUnsupportedSection, model.Warnings()[0].Kind)
	assert.Equal(t, Section("RANGES"), model.Warnings()[0].Section)
}

func TestIdempotence(t *testing.T) {
	src := `NAME IDEM
ROWS
 N obj
 G g1
 E e1
 L l1
COLUMNS
 c obj 0.1 g1 1e-3
 a obj 3 e1 2
 b g1 -7.25 l1 1
 a l1 9
RHS
 rhs g1 1 e1 2
 rhs l1 3
BOUNDS
 UP a 4
 FX b 1
ENDATA
`
	first := compileString(t, src)
	second := compileString(t, src)

	assert.Equal(t, first.Variables(), second.Variables())
	assert.Equal(t, first.Objective(), second.Objective())
	assert.Equal(t, first.Aeq(), second.Aeq())
	assert.Equal(t, first.Aub(), second.Aub())
	assert.Equal(t, first.Beq(), second.Beq())
	assert.Equal(t, first.Bub(), second.Bub())
	assert.Equal(t, first.Bounds(), second.Bounds())
	assert.Equal(t, first.SparseUb().Triplets(), second.SparseUb().Triplets())

	for i, v := range first.Objective() {
		assert.Equal(t, math.Float64bits(v), math.Float64bits(second.Objective()[i]))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	model := compileString(t, smallLE)

	model.Objective()[0] = 42
	model.Variables()[0] = "Y"
	model.Bounds()[0].Upper = 1
	model.Aub().Set(0, 0, 9)

	assert.Equal(t, []float64{2}, model.Objective())
	assert.Equal(t, []string{"X"}, model.Variables())
	assert.Equal(t, DefaultBound, model.Bounds()[0])
	assert.Equal(t, 1.0, model.Aub().At(0, 0))
}

func TestOptions(t *testing.T) {
	_, err := Compile(strings.NewReader(smallLE), WithLogger(nil))
	assert.Error(t, err)

	_, err = Compile(strings.NewReader(smallLE), WithObjectivePolicy(ObjectivePolicy(7)))
	assert.Error(t, err)

	p, err := ParseObjectivePolicy("first")
	require.NoError(t, err)
	assert.Equal(t, FirstObjective, p)

	_, err = ParseObjectivePolicy("middle")
	assert.Error(t, err)
}

func TestEmptyRowsFeasible(t *testing.T) {
	assert.True(t, compileString(t, smallLE).EmptyRowsFeasible())

	// an empty row holds with the default right-hand side of zero
	model := compileString(t, strings.Replace(smallLE, " L  LIM1\n", " L  LIM1\n L  EMPTY\n", 1))
	assert.True(t, model.EmptyRowsFeasible())

	model = compileString(t, strings.Replace(
		strings.Replace(smallLE, " L  LIM1\n", " L  LIM1\n L  EMPTY\n", 1),
		"LIM1      10.0\n", "LIM1      10.0     EMPTY     -1\n", 1))
	assert.False(t, model.EmptyRowsFeasible())

	model = compileString(t, strings.Replace(
		strings.Replace(smallLE, " L  LIM1\n", " L  LIM1\n E  PIN\n", 1),
		"LIM1      10.0\n", "LIM1      10.0     PIN       0.5\n", 1))
	assert.False(t, model.EmptyRowsFeasible())
}

func TestUnknownErrorKind(t *testing.T) {
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).Error())
	assert.False(t, ErrorKind(99).Fatal())

	var w Warning
	assert.NotPanics(t, func() { _ = w.String() })
	assert.Equal(t, ": ErrorKind(0)", w.String())
}

func TestCompileFile(t *testing.T) {
	model, err := CompileFile("testdata/example.mps")
	require.NoError(t, err)

	assert.Equal(t, "EXAMPLE", model.Name())
	assert.Equal(t, []string{"X1", "X2", "X3"}, model.Variables())
	assert.InDeltaSlice(t, []float64{-1, -2, 2}, model.Objective(), delta)

	_, err = CompileFile("testdata/does-not-exist.mps")
	assert.Error(t, err)
}

func generateMPS(rows, cols int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "NAME BIG\nROWS\n N obj\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, " L r%d\n", i)
	}
	b.WriteString("COLUMNS\n")
	for j := 0; j < cols; j++ {
		fmt.Fprintf(&b, " x%d obj %d r%d 1\n", j, j%7, j%rows)
		fmt.Fprintf(&b, " x%d r%d -1\n", j, (j+1)%rows)
	}
	b.WriteString("RHS\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, " rhs r%d %d\n", i, i)
	}
	b.WriteString("ENDATA\n")

	return b.String()
}

func TestBig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	const n = 20000
	model := compileString(t, generateMPS(n, n))

	r, c := model.SparseUb().Dims()
	assert.Equal(t, n, r)
	assert.Equal(t, n, c)
	assert.Equal(t, 2*n, model.SparseUb().NNZ())
	assert.Equal(t, float64(n-1), model.Bub()[n-1])
}

/* Benchmarks */

func BenchmarkCompile(b *testing.B) {
	src := generateMPS(5000, 5000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Compile(strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}
}
