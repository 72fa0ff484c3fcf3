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
package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/costela/gomps"
	"github.com/costela/gomps/internal/config"
	"github.com/costela/gomps/internal/report"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

const infeasibleMPS = `NAME INFEASIBLE
ROWS
 N  COST
 L  LIM
COLUMNS
    X  COST  1
    X  LIM   1
RHS
    RHS  LIM  -1
ENDATA
`

func testConfig(modelPath string) *config.Config {
	cfg := config.Default()
	cfg.ModelPath = modelPath
	cfg.LogLevel = "debug"

	return &cfg
}

func runApp(t *testing.T, cfg *config.Config) (string, string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	err := NewApp(&out, &logs, cfg).Run(context.Background())

	return out.String(), logs.String(), err
}

func TestRunCompileOnly(t *testing.T) {
	out, logs, err := runApp(t, testConfig("../../testdata/example.mps"))
	require.NoError(t, err)

	assert.Contains(t, out, "EXAMPLE")
	assert.NotContains(t, out, "Solver:")
	assert.Contains(t, logs, "Model compiled.")
}

func TestRunSolvers(t *testing.T) {
	for _, solver := range []string{"simplex", "lpsolve", "glpk"} {
		t.Run(solver, func(t *testing.T) {
			cfg := testConfig("../../testdata/example.mps")
			cfg.Solver = solver
			cfg.Format = "yaml"

			out, _, err := runApp(t, cfg)
			require.NoError(t, err)

			var rep report.Report
			require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
			require.NotNil(t, rep.Solution)
			assert.Equal(t, solver, rep.Solution.Solver)
			assert.True(t, rep.Solution.Success)
			assert.InDelta(t, -6, rep.Solution.Objective, delta)
			require.Len(t, rep.Solution.Values, 3)
			assert.Equal(t, "X1", rep.Solution.Values[0].Name)
			assert.InDelta(t, 2, rep.Solution.Values[0].Value, delta)

			if solver == "simplex" {
				assert.Empty(t, rep.Solution.Duals)
				return
			}
			require.Len(t, rep.Solution.Duals, 4)
			var names []string
			for _, c := range rep.Solution.Duals {
				names = append(names, c.Name)
			}
			assert.Equal(t, []string{"C3", "C1", "C2", "C4"}, names)
			// C2 and C4 are slack at the optimum
			assert.InDelta(t, 0, rep.Solution.Duals[2].Dual, delta)
			assert.InDelta(t, 0, rep.Solution.Duals[3].Dual, delta)
		})
	}
}

func TestRunNotSolved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "infeasible.mps")
	require.NoError(t, os.WriteFile(path, []byte(infeasibleMPS), 0o644))

	for _, solver := range []string{"simplex", "lpsolve", "glpk"} {
		t.Run(solver, func(t *testing.T) {
			cfg := testConfig(path)
			cfg.Solver = solver

			out, _, err := runApp(t, cfg)
			assert.ErrorIs(t, err, ErrNotSolved)
			assert.Contains(t, out, "Success:")
			assert.Contains(t, out, "false")
		})
	}
}

func TestRunObjectivePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.mps")
	require.NoError(t, os.WriteFile(path, []byte(`NAME TWO
ROWS
 N  FIRSTOBJ
 N  SECONDOBJ
COLUMNS
    X  FIRSTOBJ   1
    X  SECONDOBJ  2
RHS
ENDATA
`), 0o644))

	cfg := testConfig(path)
	cfg.Objective = "first"
	cfg.Format = "yaml"

	out, logs, err := runApp(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "objective_row: FIRSTOBJ")
	assert.Contains(t, logs, "component=compiler")
}

func TestRunWriteLP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.lp")

	cfg := testConfig("../../testdata/example.mps")
	cfg.WriteLP = path

	_, logs, err := runApp(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "Model exported.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject To")
	assert.Contains(t, string(data), "X3")
}

func TestRunSolverSettings(t *testing.T) {
	t.Run("glpk", func(t *testing.T) {
		cfg := testConfig("../../testdata/example.mps")
		cfg.Solver = "glpk"
		cfg.GLPKMethod = "dual"
		cfg.GLPKPresolve = false
		cfg.Timeout = 10 * time.Second

		out, _, err := runApp(t, cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "-6")
	})

	t.Run("lpsolve", func(t *testing.T) {
		cfg := testConfig("../../testdata/example.mps")
		cfg.Solver = "lpsolve"
		cfg.LPSolveVerbosity = 5
		cfg.Timeout = 10 * time.Second

		out, _, err := runApp(t, cfg)
		require.NoError(t, err)
		assert.Contains(t, out, "-6")
	})
}

func TestRunErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := runApp(t, testConfig(filepath.Join(t.TempDir(), "missing.mps")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("fatal parse error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.mps")
		require.NoError(t, os.WriteFile(path, []byte("NAME X\nROWS\n N COST\nENDATA\n"), 0o644))

		_, _, err := runApp(t, testConfig(path))
		assert.ErrorIs(t, err, gomps.ErrMissingSection)
	})

	t.Run("unwritable lp path", func(t *testing.T) {
		cfg := testConfig("../../testdata/example.mps")
		cfg.WriteLP = filepath.Join(t.TempDir(), "missing", "example.lp")

		out, _, err := runApp(t, cfg)
		assert.ErrorContains(t, err, "exporting model")
		assert.Empty(t, out)
	})

	t.Run("cancelled", func(t *testing.T) {
		cfg := testConfig("../../testdata/example.mps")
		cfg.Solver = "simplex"

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out, logs bytes.Buffer
		err := NewApp(&out, &logs, cfg).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, out.String())
	})
}

func TestPrintLogger(t *testing.T) {
	var buf bytes.Buffer
	l := printLogger{logger: newLogger("debug", "json", &buf), component: "test"}

	l.Print("hello ", 42, "\n")
	l.Print("")

	assert.Contains(t, buf.String(), `"msg":"hello 42"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
