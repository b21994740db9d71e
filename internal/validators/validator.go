// Package validators implements the five stage validators of the
// scaffolding pipeline. Each validator checks the generated tree against the
// artifacts its stage was supposed to produce, combining file and pattern
// checks with the modgraph resolution engine.
package validators

import (
	"context"
	"errors"
	"fmt"

	"github.com/stagegate-dev/stagegate/pkg/modgraph"
)

// ErrUnknownStage is returned when a stage number has no registered validator.
var ErrUnknownStage = errors.New("unknown stage")

// ErrDuplicateStage is returned when two validators claim the same stage.
var ErrDuplicateStage = errors.New("duplicate stage")

// Descriptor contains stable validator metadata.
type Descriptor struct {
	Stage       int
	Name        string
	Description string
}

// Outcome is what one validator produces: its diagnostics and the number of
// named checks it executed.
type Outcome struct {
	Diagnostics []modgraph.Diagnostic
	Checks      int
}

// Validator checks one pipeline stage against the loaded inputs.
type Validator interface {
	Descriptor() Descriptor
	Validate(ctx context.Context, in *Inputs) Outcome
}

// Registry stores stage validators with deterministic ordering.
type Registry struct {
	ordered []Validator
	index   map[int]Validator
}

// NewRegistry creates a registry holding the given validators.
func NewRegistry(validators ...Validator) (*Registry, error) {
	ordered := make([]Validator, 0, len(validators))
	index := make(map[int]Validator, len(validators))

	for _, validator := range validators {
		stage := validator.Descriptor().Stage
		if _, exists := index[stage]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateStage, stage)
		}

		index[stage] = validator
		ordered = append(ordered, validator)
	}

	return &Registry{ordered: ordered, index: index}, nil
}

// DefaultRegistry creates a registry with all five stage validators.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(
		&Stage1{},
		&Stage2{},
		&Stage3{},
		&Stage4{},
		&Stage5{},
	)
	if err != nil {
		// The built-in set has fixed stage numbers; a collision here is a
		// programming error.
		panic(err)
	}

	return registry
}

// All returns every validator in stage order.
func (r *Registry) All() []Validator {
	out := make([]Validator, len(r.ordered))
	copy(out, r.ordered)

	return out
}

// Lookup returns the validator registered for the given stage.
func (r *Registry) Lookup(stage int) (Validator, bool) {
	validator, ok := r.index[stage]

	return validator, ok
}

// Select returns the validators for the given stages, preserving the
// requested order.
func (r *Registry) Select(stages []int) ([]Validator, error) {
	if len(stages) == 0 {
		return r.All(), nil
	}

	out := make([]Validator, 0, len(stages))

	for _, stage := range stages {
		validator, ok := r.index[stage]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownStage, stage)
		}

		out = append(out, validator)
	}

	return out, nil
}
