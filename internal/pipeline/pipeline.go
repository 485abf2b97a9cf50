// Package pipeline implements the step registry and execution engine. A
// Pipeline holds named steps, each a plain function bound to a stored prompt,
// and executes them with keyword-based argument dispatch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promptforge/promptforge/internal/domain"
	"github.com/promptforge/promptforge/internal/storage"
)

// Pipeline is a named collection of registered steps backed by a prompt store
// and, optionally, a data store for run records.
type Pipeline struct {
	name        string
	promptStore storage.PromptStore
	dataStore   storage.DataStore
	logger      *slog.Logger

	steps map[string]*StepRegistration
	order []string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDataStore configures run-record persistence. Without it, runs are not
// recorded.
func WithDataStore(ds storage.DataStore) Option {
	return func(p *Pipeline) { p.dataStore = ds }
}

// WithLogger sets the pipeline's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline with the given name and prompt store.
func New(name string, promptStore storage.PromptStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:        name,
		promptStore: promptStore,
		logger:      slog.Default(),
		steps:       make(map[string]*StepRegistration),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// Register adds a step to the pipeline. The definition is validated and its
// parameter spec copied exactly once; the prompt store is not consulted here.
// Registration is atomic: on any error nothing is recorded and the error
// returned, leaving a previously registered step of the same name untouched.
func (p *Pipeline) Register(def StepDefinition) error {
	if def.Name == "" {
		return &domain.InvalidStepError{Name: def.Name, Reason: "name must not be empty"}
	}
	if def.Func == nil {
		return &domain.InvalidStepError{Name: def.Name, Reason: "step function must not be nil"}
	}
	if _, exists := p.steps[def.Name]; exists {
		return &domain.DuplicateStepError{Name: def.Name}
	}
	seen := make(map[string]bool, len(def.Params))
	for _, spec := range def.Params {
		if spec.Name == ReservedParamName {
			return &domain.InvalidStepError{Name: def.Name, Reason: fmt.Sprintf("parameter name %q is reserved", ReservedParamName)}
		}
		if spec.Name == "" {
			return &domain.InvalidStepError{Name: def.Name, Reason: "parameter name must not be empty"}
		}
		if seen[spec.Name] {
			return &domain.InvalidStepError{Name: def.Name, Reason: fmt.Sprintf("duplicate parameter %q", spec.Name)}
		}
		seen[spec.Name] = true
	}

	reg := &StepRegistration{
		Name:      def.Name,
		PromptID:  def.PromptID,
		Params:    append([]ParamSpec(nil), def.Params...),
		DependsOn: append([]string(nil), def.DependsOn...),
		fn:        def.Func,
	}
	p.steps[def.Name] = reg
	p.order = append(p.order, def.Name)

	p.logger.Info("registered step",
		slog.String("pipeline", p.name),
		slog.String("step", def.Name),
		slog.String("prompt_id", def.PromptID))
	return nil
}

// MustRegister is Register but panics on error, for wiring steps at startup.
func (p *Pipeline) MustRegister(def StepDefinition) {
	if err := p.Register(def); err != nil {
		panic(err)
	}
}

// Get returns the registration for name.
func (p *Pipeline) Get(name string) (*StepRegistration, error) {
	reg, ok := p.steps[name]
	if !ok {
		return nil, &domain.UnknownStepError{Name: name}
	}
	return reg, nil
}

// List returns all registrations in registration order. Stable iteration
// order keeps route listings deterministic.
func (p *Pipeline) List() []*StepRegistration {
	result := make([]*StepRegistration, 0, len(p.order))
	for _, name := range p.order {
		result = append(result, p.steps[name])
	}
	return result
}

// ResolvePrompt fetches the step's bound prompt from the store. When the
// stored prompt declares no template variables, they are backfilled from the
// step's declared parameter names and the updated prompt persisted.
func (p *Pipeline) ResolvePrompt(ctx context.Context, reg *StepRegistration) (*domain.Prompt, error) {
	prompt, err := p.promptStore.GetPrompt(ctx, reg.PromptID)
	if err != nil {
		return nil, err
	}
	if len(prompt.TemplateVars) == 0 {
		for _, spec := range reg.Params {
			prompt.TemplateVars = append(prompt.TemplateVars, spec.Name)
		}
		if err := p.promptStore.StorePrompt(ctx, prompt); err != nil {
			return nil, fmt.Errorf("backfill template vars for prompt %q: %w", prompt.ID, err)
		}
	}
	return prompt, nil
}

// Call invokes a registered step directly, outside the web layer. Arguments
// are dispatched strictly by name; declared defaults fill in absent optional
// parameters, and a missing required parameter is a binding error. The bound
// prompt is resolved lazily and injected. When a data store is configured the
// run is recorded.
func (p *Pipeline) Call(ctx context.Context, stepName string, args Args) (any, error) {
	reg, err := p.Get(stepName)
	if err != nil {
		return nil, err
	}

	prompt, err := p.ResolvePrompt(ctx, reg)
	if err != nil {
		return nil, err
	}

	merged := args.clone()
	for _, spec := range reg.Params {
		if _, ok := merged[spec.Name]; ok {
			continue
		}
		if spec.Required() {
			return nil, &domain.ParameterBindingError{Param: spec.Name, Reason: "required parameter missing"}
		}
		merged[spec.Name] = spec.Default
	}

	p.logger.Info("running step",
		slog.String("pipeline", p.name),
		slog.String("step", stepName))

	result, err := reg.fn(ctx, merged, prompt)
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", stepName, err)
	}

	if p.dataStore != nil {
		run := domain.NewRunData(stepName, reg.PromptID, merged, result)
		if err := p.dataStore.StoreRun(ctx, run); err != nil {
			p.logger.Warn("failed to record run",
				slog.String("step", stepName),
				slog.String("error", err.Error()))
		}
	}
	return result, nil
}
