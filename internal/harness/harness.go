package harness

import (
	"fmt"

	"github.com/roach88/typegen/internal/cli"
	"github.com/roach88/typegen/internal/compiler"
	"github.com/roach88/typegen/internal/ir"
	"github.com/roach88/typegen/internal/prelude"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	Table      *ir.Table
	Validation []compiler.ValidationError

	// Artifact is the generated prelude. Zero when generation failed.
	Artifact ir.Artifact

	// GenerateErr is the error returned by prelude.Generate, if any.
	GenerateErr error

	// Errors contains failed expectation messages.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// ValidationCodes returns the codes of r.Validation in order.
func (r *Result) ValidationCodes() []string {
	codes := make([]string, len(r.Validation))
	for i, e := range r.Validation {
		codes[i] = e.Code
	}
	return codes
}

// Run loads the scenario's definitions, validates them, generates the
// prelude, and evaluates the scenario's expectations.
//
// Validation errors do not stop generation; the scenario decides through
// its expectations whether they are acceptable. The returned error is
// reserved for definitions that cannot be loaded at all.
func Run(scenario *Scenario) (*Result, error) {
	loaded, err := cli.LoadDefinitions(scenario.Definitions)
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}
	table := loaded.Table

	result := NewResult()
	result.Table = table
	result.Validation = compiler.Validate(table)

	cfg := prelude.Config{
		BaseType:  scenario.Config.BaseType,
		Generator: scenario.Config.Generator,
		Path:      scenario.Config.Path,
	}
	result.Artifact, result.GenerateErr = prelude.Generate(table, cfg)

	for _, err := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(err.Error())
	}

	return result, nil
}
