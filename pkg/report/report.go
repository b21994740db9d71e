// Package report carries the run results produced by the stage validators
// and renders them for the console, machine output, and HTML summaries.
package report

import (
	"time"

	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

// StageResult holds the outcome of one stage validation.
type StageResult struct {
	Stage       int                   `json:"stage" yaml:"stage"`
	Name        string                `json:"name" yaml:"name"`
	Checks      int                   `json:"checks" yaml:"checks"`
	Diagnostics []modgraph.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Duration    time.Duration         `json:"duration" yaml:"duration"`
}

// Errors returns the error-severity diagnostics of the stage.
func (r *StageResult) Errors() []modgraph.Diagnostic {
	return r.filter(modgraph.SeverityError)
}

// Warnings returns the warning-severity diagnostics of the stage.
func (r *StageResult) Warnings() []modgraph.Diagnostic {
	return r.filter(modgraph.SeverityWarning)
}

// Passed reports whether the stage produced no error diagnostics.
// Warnings do not fail a stage.
func (r *StageResult) Passed() bool {
	return len(r.Errors()) == 0
}

func (r *StageResult) filter(severity modgraph.Severity) []modgraph.Diagnostic {
	var out []modgraph.Diagnostic

	for _, diag := range r.Diagnostics {
		if diag.Severity == severity {
			out = append(out, diag)
		}
	}

	return out
}

// Run aggregates the results of every validated stage.
type Run struct {
	Root     string        `json:"root" yaml:"root"`
	Started  time.Time     `json:"started" yaml:"started"`
	Stages   []StageResult `json:"stages" yaml:"stages"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Passed reports whether every stage in the run passed.
func (r *Run) Passed() bool {
	for i := range r.Stages {
		if !r.Stages[i].Passed() {
			return false
		}
	}

	return true
}

// TotalErrors counts error diagnostics across all stages.
func (r *Run) TotalErrors() int {
	total := 0
	for i := range r.Stages {
		total += len(r.Stages[i].Errors())
	}

	return total
}

// TotalWarnings counts warning diagnostics across all stages.
func (r *Run) TotalWarnings() int {
	total := 0
	for i := range r.Stages {
		total += len(r.Stages[i].Warnings())
	}

	return total
}

// TotalChecks counts the checks executed across all stages.
func (r *Run) TotalChecks() int {
	total := 0
	for i := range r.Stages {
		total += r.Stages[i].Checks
	}

	return total
}
