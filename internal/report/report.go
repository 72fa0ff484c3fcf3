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

// Package report renders a compiled model, and the solution a solver found
// for it, as plain text or YAML.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/costela/gomps"
)

// Report is the serializable view of one gomps run.
type Report struct {
	Name         string    `yaml:"name"`
	ObjectiveRow string    `yaml:"objective_row"`
	Variables    int       `yaml:"variables"`
	Equalities   int       `yaml:"equalities"`
	Inequalities int       `yaml:"inequalities"`
	NonZeros     int       `yaml:"nonzeros"`
	Warnings     []string  `yaml:"warnings,omitempty"`
	Solution     *Solution `yaml:"solution,omitempty"`
}

// Solution is a solver outcome, forwarded as the solver reported it.
type Solution struct {
	Solver     string       `yaml:"solver"`
	Status     string       `yaml:"status"`
	Success    bool         `yaml:"success"`
	Objective  float64      `yaml:"objective"`
	Iterations int64        `yaml:"iterations,omitempty"`
	Values     []Variable   `yaml:"values,omitempty"`
	Duals      []Constraint `yaml:"duals,omitempty"`
}

// Variable is one named entry of the primal solution.
type Variable struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
}

// Constraint is the dual value of one constraint row.
type Constraint struct {
	Name string  `yaml:"name"`
	Dual float64 `yaml:"dual"`
}

// New summarizes model. The solution is attached separately with
// WithSolution.
func New(model *gomps.Model) *Report {
	eqRows, _ := model.SparseEq().Dims()
	ubRows, _ := model.SparseUb().Dims()

	r := &Report{
		Name:         model.Name(),
		ObjectiveRow: model.ObjectiveRow(),
		Variables:    model.VariableCount(),
		Equalities:   eqRows,
		Inequalities: ubRows,
		NonZeros:     model.SparseEq().NNZ() + model.SparseUb().NNZ(),
	}

	for _, w := range model.Warnings() {
		r.Warnings = append(r.Warnings, w.String())
	}

	return r
}

// WithSolution attaches a solver outcome. values must follow the model's
// variable order.
func (r *Report) WithSolution(model *gomps.Model, solver, status string, success bool, objective float64, iterations int64, values []float64) *Report {
	sol := &Solution{
		Solver:     solver,
		Status:     status,
		Success:    success,
		Objective:  objective,
		Iterations: iterations,
	}

	names := model.Variables()
	if len(values) == len(names) {
		sol.Values = make([]Variable, len(names))
		for j, name := range names {
			sol.Values[j] = Variable{Name: name, Value: values[j]}
		}
	}

	r.Solution = sol

	return r
}

// WithDuals attaches dual values to the solution set by WithSolution. duals
// must follow the model's row order, equality rows first; other lengths are
// ignored.
func (r *Report) WithDuals(model *gomps.Model, duals []float64) *Report {
	if r.Solution == nil {
		return r
	}

	names := append(model.EqualityRows(), model.InequalityRows()...)
	if len(duals) != len(names) || len(names) == 0 {
		return r
	}

	r.Solution.Duals = make([]Constraint, len(names))
	for i, name := range names {
		r.Solution.Duals[i] = Constraint{Name: name, Dual: duals[i]}
	}

	return r
}

// Write renders the report in the given format, "text" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "text":
		return r.writeText(w)
	case "yaml":
		return r.writeYAML(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func (r *Report) writeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}

	return enc.Close()
}

func (r *Report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Objective row:\t%s\n", r.ObjectiveRow)
	fmt.Fprintf(tw, "Variables:\t%d\n", r.Variables)
	fmt.Fprintf(tw, "Equalities:\t%d\n", r.Equalities)
	fmt.Fprintf(tw, "Inequalities:\t%d\n", r.Inequalities)
	fmt.Fprintf(tw, "Non-zeros:\t%d\n", r.NonZeros)

	if sol := r.Solution; sol != nil {
		fmt.Fprintf(tw, "Solver:\t%s\n", sol.Solver)
		fmt.Fprintf(tw, "Status:\t%s\n", sol.Status)
		fmt.Fprintf(tw, "Success:\t%t\n", sol.Success)
		if sol.Success {
			fmt.Fprintf(tw, "Objective value:\t%.12g\n", sol.Objective)
		}
		if sol.Iterations > 0 {
			fmt.Fprintf(tw, "Iterations:\t%d\n", sol.Iterations)
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if sol := r.Solution; sol != nil && sol.Success && len(sol.Values) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "Variable\tValue\t\n")
		for _, v := range sol.Values {
			fmt.Fprintf(tw, "%s\t%.12g\t\n", v.Name, v.Value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if sol := r.Solution; sol != nil && sol.Success && len(sol.Duals) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "Constraint\tDual\t\n")
		for _, c := range sol.Duals {
			fmt.Fprintf(tw, "%s\t%.12g\t\n", c.Name, c.Dual)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}

	return nil
}
