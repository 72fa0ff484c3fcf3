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

import "fmt"

// ErrorKind classifies the problems found while compiling an MPS file.
// Every ErrorKind is an error value itself, so callers can match them
// with errors.Is.
type ErrorKind int

const (
	ErrMissingSection ErrorKind = iota + 1
	ErrMalformedCoefficient
	ErrMalformedRhs
	ErrUnknownBoundType
	ErrUnknownRowType
	ErrDuplicateRow
	ErrUnknownRow
	ErrUnknownVariable
	ErrUnsupportedSection
	ErrMissingObjective
)

// Error returns a string representation of the given error kind.
func (e ErrorKind) Error() string {
	switch e {
	case ErrMissingSection:
		return "required section missing"
	case ErrMalformedCoefficient:
		return "malformed numeric value"
	case ErrMalformedRhs:
		return "malformed right-hand-side value"
	case ErrUnknownBoundType:
		return "unknown bound type"
	case ErrUnknownRowType:
		return "unknown row type"
	case ErrDuplicateRow:
		return "duplicate row declaration"
	case ErrUnknownRow:
		return "reference to undeclared row"
	case ErrUnknownVariable:
		return "reference to undeclared variable"
	case ErrUnsupportedSection:
		return "unsupported section"
	case ErrMissingObjective:
		return "no objective row declared"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(e))
	}
}

// Fatal reports whether an error of this kind aborts the compilation.
// Non-fatal kinds are recorded as warnings on the compiled model.
func (e ErrorKind) Fatal() bool {
	switch e {
	case ErrMissingSection, ErrMalformedCoefficient:
		return true
	default:
		return false
	}
}

// ParseError is returned for fatal problems. It carries enough context to
// find the offending line; Line is 0 when the error is not tied to a line
// (e.g. a missing section).
type ParseError struct {
	Kind    ErrorKind
	Section Section
	Line    int
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Section != "" {
		msg = fmt.Sprintf("%s: %s", e.Section, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s %q", e.Line, msg, e.Content)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}

	return msg
}

// Is matches the error against its ErrorKind.
func (e *ParseError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Warning is a recovered problem: the offending entry was skipped and the
// documented default applies instead.
type Warning struct {
	Kind    ErrorKind
	Section Section
	Line    int
	Content string
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("%s: %s", w.Section, w.Kind.Error())
	}

	return fmt.Sprintf("line %d: %s: %s %q", w.Line, w.Section, w.Kind.Error(), w.Content)
}
