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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Section names one of the MPS section headers.
type Section string

const (
	SectionName    Section = "NAME"
	SectionRows    Section = "ROWS"
	SectionColumns Section = "COLUMNS"
	SectionRHS     Section = "RHS"
	SectionBounds  Section = "BOUNDS"
	SectionEnd     Section = "ENDATA"
)

// maxLineLength bounds a single input line; free MPS lines are short, but
// generated files sometimes carry very long names.
const maxLineLength = 1 << 20

// headers lists every line that switches the scanner state. RANGES and
// OBJSENSE are recognised only so their content does not leak into the
// preceding section.
var headers = map[string]Section{
	"ROWS":     SectionRows,
	"COLUMNS":  SectionColumns,
	"RHS":      SectionRHS,
	"BOUNDS":   SectionBounds,
	"RANGES":   "RANGES",
	"OBJSENSE": "OBJSENSE",
	"ENDATA":   SectionEnd,
}

var requiredSections = []Section{SectionRows, SectionColumns, SectionRHS}

type line struct {
	num    int
	text   string
	fields []string
}

type sections struct {
	name   string
	blocks map[Section][]line
	// ignored holds the headers of unsupported sections, by line number.
	ignored []line
}

func (s *sections) has(sec Section) bool {
	_, ok := s.blocks[sec]
	return ok
}

// scanSections splits the input into section blocks in a single pass. The
// scanner is a small state machine: the current state is the last header
// seen, and every data line is appended to the block of that state.
func scanSections(r io.Reader) (*sections, error) {
	s := &sections{blocks: make(map[Section][]line)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var (
		state  Section
		num    int
		ignore bool
	)

scan:
	for scanner.Scan() {
		num++
		text := strings.TrimRight(scanner.Text(), " \t\r")
		if text == "" || strings.HasPrefix(text, "*") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if state == "" && fields[0] == string(SectionName) {
			if len(fields) > 1 {
				s.name = fields[1]
			}
			continue
		}

		if len(fields) == 1 {
			if header, ok := headers[fields[0]]; ok {
				switch header {
				case SectionEnd:
					break scan
				case SectionRows, SectionColumns, SectionRHS, SectionBounds:
					state, ignore = header, false
					if _, seen := s.blocks[header]; !seen {
						s.blocks[header] = nil
					}
				default:
					state, ignore = header, true
					s.ignored = append(s.ignored, line{num: num, text: text, fields: fields})
				}
				continue
			}
		}

		if state == "" || ignore {
			continue
		}

		s.blocks[state] = append(s.blocks[state], line{num: num, text: text, fields: fields})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading MPS input: %w", err)
	}

	for _, sec := range requiredSections {
		if !s.has(sec) {
			return nil, &ParseError{Kind: ErrMissingSection, Section: sec}
		}
	}

	return s, nil
}
