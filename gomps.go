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

GoMPS compiles linear programs written in the MPS interchange format into a
solver-agnostic model.

As an example, the problem

    Minimize:
      z = 2 x
    Subject to:
      x <= 10
      x >= 0

is written in MPS as

	NAME          SMALL
	ROWS
	 N  COST
	 L  LIM1
	COLUMNS
	    X         COST      2.0        LIM1      1.0
	RHS
	    RHS       LIM1      10.0
	ENDATA

and can be compiled like this:

	package main

	import (
		"fmt"
		"log"

		"github.com/costela/gomps"
	)

	func main() {
		model, err := gomps.CompileFile("small.mps")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(model.Variables()) // [X]
		fmt.Println(model.Objective()) // [2]
		fmt.Println(model.Bub())       // [10]
		// ⋮
	}

Rows declared with G are negated, so every row of the inequality system
reads "<=". Variables are ordered by name, which makes the compiled model
independent of the declaration order in the file.

Problems that have a documented default (a malformed RHS value, an unknown
bound type, ...) do not abort the compilation; they are reported through the
Logger and recorded as Warnings on the model. Everything else returns a
*ParseError.
*/
package gomps

import (
	"fmt"
	"io"
	"os"
)

type compiler struct {
	logger    Logger
	objective ObjectivePolicy
}

func newCompiler(opts []Option) (*compiler, error) {
	c := &compiler{
		logger:    noopLogger{},
		objective: LastObjective,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("applying compiler option: %w", err)
		}
	}

	return c, nil
}

// Compile reads an MPS file from r and returns the compiled model. No model
// is returned together with an error.
func Compile(r io.Reader, opts ...Option) (*Model, error) {
	c, err := newCompiler(opts)
	if err != nil {
		return nil, err
	}

	return c.compile(r)
}

// CompileFile is a shorthand for opening path and calling Compile on it.
func CompileFile(path string, opts ...Option) (*Model, error) {
	c, err := newCompiler(opts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening MPS file: %w", err)
	}
	defer f.Close()

	return c.compile(f)
}

func (c *compiler) compile(r io.Reader) (*Model, error) {
	secs, err := scanSections(r)
	if err != nil {
		return nil, err
	}

	s := newStore(c.logger, c.objective)
	s.name = secs.name

	for _, l := range secs.ignored {
		s.warn(ErrUnsupportedSection, Section(l.fields[0]), l)
	}

	s.addRows(secs.blocks[SectionRows])
	if err := s.addColumns(secs.blocks[SectionColumns]); err != nil {
		return nil, err
	}
	s.addRHS(secs.blocks[SectionRHS])
	if err := s.addBounds(secs.blocks[SectionBounds]); err != nil {
		return nil, err
	}

	return s.assemble(), nil
}
