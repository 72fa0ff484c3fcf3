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

type Option func(*solver) error

type Method int

const (
	Primal     = Method(C.GLP_PRIMAL)
	DualPrimal = Method(C.GLP_DUALP)
	Dual       = Method(C.GLP_DUAL)
)

// ParseMethod maps "primal", "dualprimal" or "dual" to a Method.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "primal":
		return Primal, nil
	case "dualprimal":
		return DualPrimal, nil
	case "dual":
		return Dual, nil
	default:
		return 0, fmt.Errorf("unknown simplex method %q", name)
	}
}

type solver struct {
	method   Method
	verbose  bool
	presolve bool
}

func WithMethod(m Method) Option {
	return func(s *solver) error {
		switch m {
		case Primal, DualPrimal, Dual:
			s.method = m
			return nil
		default:
			return fmt.Errorf("unknown simplex method %d", int(m))
		}
	}
}

// WithVerbose lets GLPK print its progress to stdout.
func WithVerbose(verbose bool) Option {
	return func(s *solver) error {
		s.verbose = verbose
		return nil
	}
}

// WithPresolve toggles GLPK's LP presolver. It is on by default.
func WithPresolve(presolve bool) Option {
	return func(s *solver) error {
		s.presolve = presolve
		return nil
	}
}
