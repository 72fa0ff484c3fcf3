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
)

type Option func(*compiler) error

// ObjectivePolicy decides which N row becomes the objective when a file
// declares more than one.
type ObjectivePolicy int

const (
	// LastObjective uses the last declared N row; earlier ones are dropped.
	LastObjective ObjectivePolicy = iota
	// FirstObjective uses the first declared N row and treats later ones as
	// free rows, which are dropped. This is the usual MPS reading.
	FirstObjective
)

func (p ObjectivePolicy) String() string {
	switch p {
	case LastObjective:
		return "last"
	case FirstObjective:
		return "first"
	default:
		return fmt.Sprintf("ObjectivePolicy(%d)", int(p))
	}
}

// ParseObjectivePolicy maps "last" and "first" to their policy.
func ParseObjectivePolicy(s string) (ObjectivePolicy, error) {
	switch s {
	case "last", "":
		return LastObjective, nil
	case "first":
		return FirstObjective, nil
	default:
		return 0, fmt.Errorf("unknown objective policy %q", s)
	}
}

func WithLogger(logger Logger) Option {
	return func(c *compiler) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		c.logger = logger

		return nil
	}
}

func WithObjectivePolicy(policy ObjectivePolicy) Option {
	return func(c *compiler) error {
		switch policy {
		case LastObjective, FirstObjective:
			c.objective = policy
			return nil
		default:
			return fmt.Errorf("unknown objective policy %d", int(policy))
		}
	}
}
