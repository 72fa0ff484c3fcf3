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

import "sort"

type system int

const (
	objectiveSystem system = iota
	equalitySystem
	inequalitySystem
	droppedSystem
)

type rowSlot struct {
	system  system
	ordinal int
	negate  bool
}

// assemble converts the sparse store into a Model. The coefficient entries
// are visited exactly once, so the cost is linear in the number of declared
// coefficients plus rows and variables.
func (s *store) assemble() *Model {
	m := &Model{
		name:         s.name,
		objectiveRow: s.objective,
		warnings:     append([]Warning(nil), s.warnings...),
	}

	m.variables = append([]string(nil), s.variables...)
	sort.Strings(m.variables)

	position := make(map[string]int, len(m.variables))
	for j, name := range m.variables {
		position[name] = j
	}
	// column of each variable, by declaration index
	column := make([]int, len(s.variables))
	for i, name := range s.variables {
		column[i] = position[name]
	}

	slots := make(map[string]rowSlot, len(s.rows))
	for _, r := range s.rows {
		switch r.kind {
		case ObjectiveRow:
			if r.name == s.objective {
				slots[r.name] = rowSlot{system: objectiveSystem}
			} else {
				slots[r.name] = rowSlot{system: droppedSystem}
			}
		case EqualityRow:
			slots[r.name] = rowSlot{system: equalitySystem, ordinal: len(m.eqRows)}
			m.eqRows = append(m.eqRows, r.name)
		case LessOrEqualRow, GreaterOrEqualRow:
			slots[r.name] = rowSlot{system: inequalitySystem, ordinal: len(m.ubRows), negate: r.kind == GreaterOrEqualRow}
			m.ubRows = append(m.ubRows, r.name)
		}
	}

	m.objective = make([]float64, len(m.variables))
	var eq, ub []Triplet
	for _, e := range s.coefficients {
		slot, ok := slots[e.row]
		if !ok || e.value == 0 {
			continue
		}

		j := column[e.variable]
		switch slot.system {
		case objectiveSystem:
			m.objective[j] = e.value
		case equalitySystem:
			eq = append(eq, Triplet{Row: slot.ordinal, Col: j, Val: e.value})
		case inequalitySystem:
			v := e.value
			if slot.negate {
				v = -v
			}
			ub = append(ub, Triplet{Row: slot.ordinal, Col: j, Val: v})
		}
	}

	m.eq = newSparse(len(m.eqRows), len(m.variables), eq)
	m.ub = newSparse(len(m.ubRows), len(m.variables), ub)

	m.beq = make([]float64, len(m.eqRows))
	for i, name := range m.eqRows {
		m.beq[i] = s.rhs[name]
	}
	m.bub = make([]float64, len(m.ubRows))
	for i, name := range m.ubRows {
		v := s.rhs[name]
		if slots[name].negate && v != 0 {
			v = -v
		}
		m.bub[i] = v
	}

	m.bounds = make([]Bound, len(m.variables))
	for j, name := range m.variables {
		m.bounds[j] = s.bound(name)
	}

	return m
}

// bound resolves the BOUNDS entries of one variable; FX wins over LO and UP
// regardless of declaration order.
func (s *store) bound(name string) Bound {
	b := DefaultBound

	entry, ok := s.bounds[name]
	if !ok {
		return b
	}
	if entry.hasLower {
		b.Lower = entry.lower
	}
	if entry.hasUpper {
		b.Upper = entry.upper
	}
	if entry.fixes {
		b.Lower, b.Upper = entry.fixed, entry.fixed
	}

	return b
}
