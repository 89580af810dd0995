package subagent

import (
	"context"
	"fmt"
	"strings"

	agent "github.com/armatrix/deepagents-go"
)

// Worker is the executable context of a specialization. Run receives an
// isolated state and returns the state the worker ended with.
type Worker interface {
	Run(ctx context.Context, st *agent.State) (*agent.State, error)
}

// WorkerFunc adapts a function to Worker.
type WorkerFunc func(ctx context.Context, st *agent.State) (*agent.State, error)

// Run calls f.
func (f WorkerFunc) Run(ctx context.Context, st *agent.State) (*agent.State, error) {
	return f(ctx, st)
}

// Specialization pairs a definition with its executable context.
type Specialization struct {
	Definition Definition
	Worker     Worker
}

// Registry is the fixed mapping from specialization name to executable
// context. It is read-only once built and safe for concurrent use.
type Registry struct {
	specs map[string]*Specialization
	order []string
}

// NewRegistry builds a specialization for every definition. Each worker is an
// agent.Agent bound to model, to the definition's directive, and to the
// capability subset it names (or all of caps when it names none). base
// options are applied to every worker before the definition's own.
//
// An unknown capability name fails construction with *UnknownCapabilityError.
func NewRegistry(defs []Definition, caps []agent.Capability, model *agent.Model, base ...agent.AgentOption) (*Registry, error) {
	full := agent.NewCapabilityRegistry(caps...)
	r := &Registry{specs: make(map[string]*Specialization, len(defs))}

	for _, def := range defs {
		bound, err := bindCapabilities(def, full)
		if err != nil {
			return nil, err
		}
		opts := append([]agent.AgentOption{}, base...)
		opts = append(opts, agent.WithCapabilities(bound...))
		opts = append(opts, buildWorkerOptions(model, def)...)

		if err := r.Add(def, agent.NewAgent(opts...)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a specialization with a caller-supplied worker.
func (r *Registry) Add(def Definition, w Worker) error {
	if def.Name == "" {
		return ErrEmptyName
	}
	if _, exists := r.specs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSpecialization, def.Name)
	}
	if r.specs == nil {
		r.specs = make(map[string]*Specialization)
	}
	r.specs[def.Name] = &Specialization{Definition: def, Worker: w}
	r.order = append(r.order, def.Name)
	return nil
}

// Lookup returns the specialization registered under name.
func (r *Registry) Lookup(name string) (*Specialization, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns the specialization names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Describe renders one "- name: description" line per specialization.
func (r *Registry) Describe() string {
	var b strings.Builder
	for i, name := range r.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %s", name, r.specs[name].Definition.Description)
	}
	return b.String()
}

// Len returns the number of specializations.
func (r *Registry) Len() int {
	return len(r.order)
}

func bindCapabilities(def Definition, full *agent.CapabilityRegistry) ([]agent.Capability, error) {
	if def.Capabilities == nil {
		return full.List(), nil
	}
	bound := make([]agent.Capability, 0, len(def.Capabilities))
	for _, name := range def.Capabilities {
		c, err := full.Resolve(name)
		if err != nil {
			return nil, &UnknownCapabilityError{Specialization: def.Name, Capability: name}
		}
		bound = append(bound, c)
	}
	return bound, nil
}

// buildWorkerOptions turns a definition's overrides into agent options.
func buildWorkerOptions(model *agent.Model, def Definition) []agent.AgentOption {
	opts := []agent.AgentOption{agent.WithName(def.Name)}

	if model != nil {
		opts = append(opts, agent.WithModel(model.WithID(def.Model)))
	}
	if def.Directive != "" {
		opts = append(opts, agent.WithDirective(def.Directive))
	}
	if def.MaxTurns > 0 {
		opts = append(opts, agent.WithMaxTurns(def.MaxTurns))
	}
	if !def.MaxBudget.IsZero() {
		opts = append(opts, agent.WithBudget(def.MaxBudget))
	}

	return append(opts, def.Options...)
}
