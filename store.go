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
	"strconv"
)

// RowKind is the sense of a row as declared in the ROWS section.
type RowKind byte

const (
	ObjectiveRow      RowKind = 'N'
	EqualityRow       RowKind = 'E'
	LessOrEqualRow    RowKind = 'L'
	GreaterOrEqualRow RowKind = 'G'
)

func (k RowKind) String() string {
	switch k {
	case ObjectiveRow, EqualityRow, LessOrEqualRow, GreaterOrEqualRow:
		return string(k)
	default:
		return fmt.Sprintf("RowKind(%q)", byte(k))
	}
}

// BoundType is one of the supported BOUNDS entry types.
type BoundType string

const (
	LowerBound BoundType = "LO"
	UpperBound BoundType = "UP"
	FixedBound BoundType = "FX"
)

var errNotANumber = errors.New("value is not a number")

type row struct {
	name string
	kind RowKind
}

type coefficientKey struct {
	variable int
	row      string
}

type coefficient struct {
	variable int // declaration index into store.variables
	row      string
	value    float64
}

type boundEntry struct {
	lower, upper, fixed       float64
	hasLower, hasUpper, fixes bool
}

// store holds the sparse, name-keyed content of one MPS file. It is filled
// once, section by section, and never modified after assembly.
type store struct {
	logger Logger
	policy ObjectivePolicy

	name      string
	rows      []row
	rowKinds  map[string]RowKind
	objective string

	variables     []string
	variableIndex map[string]int

	coefficients     []coefficient
	coefficientIndex map[coefficientKey]int

	rhs    map[string]float64
	bounds map[string]*boundEntry

	warnings []Warning
}

func newStore(logger Logger, policy ObjectivePolicy) *store {
	return &store{
		logger:           logger,
		policy:           policy,
		rowKinds:         make(map[string]RowKind),
		variableIndex:    make(map[string]int),
		coefficientIndex: make(map[coefficientKey]int),
		rhs:              make(map[string]float64),
		bounds:           make(map[string]*boundEntry),
	}
}

func (s *store) warn(kind ErrorKind, sec Section, l line) {
	w := Warning{Kind: kind, Section: sec, Line: l.num, Content: l.text}
	s.warnings = append(s.warnings, w)
	s.logger.Print(w.String())
}

func (s *store) skip(sec Section, l line) {
	s.logger.Print(fmt.Sprintf("line %d: %s: skipping malformed line %q", l.num, sec, l.text))
}

func parseValue(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, errNotANumber
	}

	return v, nil
}

func (s *store) addRows(lines []line) {
	for _, l := range lines {
		if len(l.fields) != 2 {
			s.skip(SectionRows, l)
			continue
		}

		typ, name := l.fields[0], l.fields[1]
		if len(typ) != 1 {
			s.warn(ErrUnknownRowType, SectionRows, l)
			continue
		}

		kind := RowKind(typ[0])
		switch kind {
		case ObjectiveRow, EqualityRow, LessOrEqualRow, GreaterOrEqualRow:
		default:
			s.warn(ErrUnknownRowType, SectionRows, l)
			continue
		}

		if _, dup := s.rowKinds[name]; dup {
			s.warn(ErrDuplicateRow, SectionRows, l)
			continue
		}

		s.rowKinds[name] = kind
		s.rows = append(s.rows, row{name: name, kind: kind})

		if kind != ObjectiveRow {
			continue
		}
		switch {
		case s.objective == "":
			s.objective = name
		case s.policy == LastObjective:
			s.logger.Print(fmt.Sprintf("line %d: ROWS: objective %q replaces %q", l.num, name, s.objective))
			s.objective = name
		default:
			s.logger.Print(fmt.Sprintf("line %d: ROWS: dropping free row %q", l.num, name))
		}
	}

	if s.objective == "" {
		w := Warning{Kind: ErrMissingObjective, Section: SectionRows}
		s.warnings = append(s.warnings, w)
		s.logger.Print(w.String())
	}
}

func (s *store) variable(name string) int {
	if idx, ok := s.variableIndex[name]; ok {
		return idx
	}

	idx := len(s.variables)
	s.variables = append(s.variables, name)
	s.variableIndex[name] = idx

	return idx
}

func (s *store) addColumns(lines []line) error {
	for _, l := range lines {
		if len(l.fields) != 3 && len(l.fields) != 5 {
			s.skip(SectionColumns, l)
			continue
		}

		v := s.variable(l.fields[0])
		for i := 1; i < len(l.fields); i += 2 {
			value, err := parseValue(l.fields[i+1])
			if err != nil {
				return &ParseError{Kind: ErrMalformedCoefficient, Section: SectionColumns, Line: l.num, Content: l.text, Err: err}
			}
			s.setCoefficient(v, l.fields[i], value, l)
		}
	}

	return nil
}

func (s *store) setCoefficient(v int, rowName string, value float64, l line) {
	if _, ok := s.rowKinds[rowName]; !ok {
		s.warn(ErrUnknownRow, SectionColumns, l)
		return
	}

	key := coefficientKey{variable: v, row: rowName}
	if pos, ok := s.coefficientIndex[key]; ok {
		s.coefficients[pos].value = value
		return
	}

	s.coefficientIndex[key] = len(s.coefficients)
	s.coefficients = append(s.coefficients, coefficient{variable: v, row: rowName, value: value})
}

func (s *store) addRHS(lines []line) {
	for _, l := range lines {
		if len(l.fields) != 3 && len(l.fields) != 5 {
			s.skip(SectionRHS, l)
			continue
		}

		// fields[0] names the RHS set; only one implicit vector is supported.
		for i := 1; i < len(l.fields); i += 2 {
			rowName := l.fields[i]
			value, err := parseValue(l.fields[i+1])
			if err != nil {
				s.warn(ErrMalformedRhs, SectionRHS, l)
				continue
			}
			if _, ok := s.rowKinds[rowName]; !ok {
				s.warn(ErrUnknownRow, SectionRHS, l)
				continue
			}
			s.rhs[rowName] = value
		}
	}
}

func (s *store) addBounds(lines []line) error {
	for _, l := range lines {
		var typ, name, tok string
		switch len(l.fields) {
		case 3:
			typ, name, tok = l.fields[0], l.fields[1], l.fields[2]
		case 4:
			// type, bound set name, variable, value
			typ, name, tok = l.fields[0], l.fields[2], l.fields[3]
		default:
			s.skip(SectionBounds, l)
			continue
		}

		bt := BoundType(typ)
		switch bt {
		case LowerBound, UpperBound, FixedBound:
		default:
			s.warn(ErrUnknownBoundType, SectionBounds, l)
			continue
		}

		value, err := parseValue(tok)
		if err != nil {
			return &ParseError{Kind: ErrMalformedCoefficient, Section: SectionBounds, Line: l.num, Content: l.text, Err: err}
		}

		if _, ok := s.variableIndex[name]; !ok {
			s.warn(ErrUnknownVariable, SectionBounds, l)
			continue
		}

		entry, ok := s.bounds[name]
		if !ok {
			entry = new(boundEntry)
			s.bounds[name] = entry
		}

		switch bt {
		case LowerBound:
			entry.lower, entry.hasLower = value, true
		case UpperBound:
			entry.upper, entry.hasUpper = value, true
		case FixedBound:
			entry.fixed, entry.fixes = value, true
		}
	}

	return nil
}
