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

package lpsolve

import (
	"errors"
	"fmt"
	"time"

	"github.com/costela/gomps"
)

type Option func(*solver) error

type solver struct {
	logger    gomps.Logger
	timeout   time.Duration
	verbosity int
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}

func WithLogger(logger gomps.Logger) Option {
	return func(s *solver) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger

		return nil
	}
}

// WithTimeout limits the solve time. lp_solve only supports whole seconds,
// so the duration is rounded up.
func WithTimeout(d time.Duration) Option {
	return func(s *solver) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %s", d)
		}
		s.timeout = d

		return nil
	}
}

// WithVerbosity sets lp_solve's message level, from 0 (NEUTRAL) to 6
// (FULL). Messages are routed to the configured logger.
func WithVerbosity(level int) Option {
	return func(s *solver) error {
		if level < 0 || level > 6 {
			return fmt.Errorf("verbosity out of range: %d", level)
		}
		s.verbosity = level

		return nil
	}
}
