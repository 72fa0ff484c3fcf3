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

// Package config holds the settings of the gomps command and loads them from
// HCL files.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Config is the resolved configuration of one gomps invocation.
type Config struct {
	ModelPath string
	WriteLP   string
	Solver    string
	Objective string
	Format    string
	LogLevel  string
	LogFormat string
	Tolerance float64
	Timeout   time.Duration

	GLPKMethod       string
	GLPKPresolve     bool
	LPSolveVerbosity int
}

// Default returns the settings used when neither a file nor a flag says
// otherwise.
func Default() Config {
	return Config{
		Solver:    "none",
		Objective: "last",
		Format:    "text",
		LogLevel:  "info",
		LogFormat: "text",
		Tolerance: 1e-10,

		GLPKMethod:   "primal",
		GLPKPresolve: true,
	}
}

// hclConfigFile mirrors the attributes accepted in a config file. Unset
// attributes stay nil and leave the base value alone.
type hclConfigFile struct {
	WriteLP   *string  `hcl:"write_lp,optional"`
	Solver    *string  `hcl:"solver,optional"`
	Objective *string  `hcl:"objective,optional"`
	Format    *string  `hcl:"format,optional"`
	LogLevel  *string  `hcl:"log_level,optional"`
	LogFormat *string  `hcl:"log_format,optional"`
	Tolerance *float64 `hcl:"tolerance,optional"`
	Timeout   *string  `hcl:"timeout,optional"`

	GLPKMethod       *string `hcl:"glpk_method,optional"`
	GLPKPresolve     *bool   `hcl:"glpk_presolve,optional"`
	LPSolveVerbosity *int    `hcl:"lpsolve_verbosity,optional"`
}

// Load parses the HCL file at path and applies its attributes on top of
// base. Expressions may refer to environment variables as env.NAME.
func Load(path string, base Config) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed hclConfigFile
	diags = gohcl.DecodeBody(file.Body, evalContext(os.Environ()), &parsed)
	if diags.HasErrors() {
		return base, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	cfg := base
	if parsed.WriteLP != nil {
		cfg.WriteLP = *parsed.WriteLP
	}
	setString(&cfg.Solver, parsed.Solver)
	setString(&cfg.Objective, parsed.Objective)
	setString(&cfg.Format, parsed.Format)
	setString(&cfg.LogLevel, parsed.LogLevel)
	setString(&cfg.LogFormat, parsed.LogFormat)
	if parsed.Tolerance != nil {
		cfg.Tolerance = *parsed.Tolerance
	}
	if parsed.Timeout != nil {
		d, err := time.ParseDuration(*parsed.Timeout)
		if err != nil {
			return base, fmt.Errorf("invalid timeout in config file %s: %w", path, err)
		}
		cfg.Timeout = d
	}
	setString(&cfg.GLPKMethod, parsed.GLPKMethod)
	if parsed.GLPKPresolve != nil {
		cfg.GLPKPresolve = *parsed.GLPKPresolve
	}
	if parsed.LPSolveVerbosity != nil {
		cfg.LPSolveVerbosity = *parsed.LPSolveVerbosity
	}

	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.ToLower(*v)
	}
}

func evalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			env[pair[0]] = cty.StringVal(pair[1])
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// Validate rejects settings the command cannot act on.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("no MPS file given")
	}

	switch c.Solver {
	case "none", "simplex", "lpsolve", "glpk":
	default:
		return fmt.Errorf("invalid solver %q: must be 'none', 'simplex', 'lpsolve' or 'glpk'", c.Solver)
	}

	switch c.Objective {
	case "last", "first":
	default:
		return fmt.Errorf("invalid objective %q: must be 'last' or 'first'", c.Objective)
	}

	switch c.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("invalid format %q: must be 'text' or 'yaml'", c.Format)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}

	if c.Tolerance < 0 || math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) {
		return fmt.Errorf("invalid tolerance %v", c.Tolerance)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}

	switch c.GLPKMethod {
	case "primal", "dualprimal", "dual":
	default:
		return fmt.Errorf("invalid glpk-method %q: must be 'primal', 'dualprimal' or 'dual'", c.GLPKMethod)
	}

	if c.LPSolveVerbosity < 0 || c.LPSolveVerbosity > 6 {
		return fmt.Errorf("invalid lpsolve-verbosity %d: must be between 0 and 6", c.LPSolveVerbosity)
	}

	return nil
}
