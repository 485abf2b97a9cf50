package pipeline

import (
	"context"

	"github.com/promptforge/promptforge/internal/domain"
)

// Args carries step arguments keyed by parameter name. All dispatch into step
// functions goes through Args; there is no positional calling convention.
type Args map[string]any

// String returns the named argument as a string, or def when absent or not a
// string.
func (a Args) String(name, def string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return def
}

// Int returns the named argument as an int, or def when absent or not an int.
func (a Args) Int(name string, def int) int {
	if v, ok := a[name].(int); ok {
		return v
	}
	return def
}

// Bool returns the named argument as a bool, or def when absent or not a bool.
func (a Args) Bool(name string, def bool) bool {
	if v, ok := a[name].(bool); ok {
		return v
	}
	return def
}

// clone returns a shallow copy so callers and stored run records don't share
// the same map.
func (a Args) clone() Args {
	c := make(Args, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// StepFunc is the unit of pipeline work. It receives its arguments by name
// and the resolved prompt bound to the step.
type StepFunc func(ctx context.Context, args Args, prompt *domain.Prompt) (any, error)

// StepDefinition describes a step to register: the function, its bound prompt
// id, its declared parameters, and any upstream dependencies.
type StepDefinition struct {
	// Name uniquely identifies the step within a pipeline.
	Name string

	// PromptID names the stored prompt injected on every invocation.
	// Resolution is lazy: the store is consulted per call, not at
	// registration, so edited prompts take effect without re-registering.
	PromptID string

	// Params declares the step's parameters in order.
	Params []ParamSpec

	// DependsOn lists step names whose outputs feed this step when running
	// the whole pipeline.
	DependsOn []string

	// Func is the step implementation.
	Func StepFunc
}

// StepRegistration is an immutable registered step. It is written once at
// registration and read-only thereafter, so registry reads during serving
// need no synchronization.
type StepRegistration struct {
	Name      string
	PromptID  string
	Params    []ParamSpec
	DependsOn []string

	fn StepFunc
}

// PathParams returns the step's required parameters in declaration order.
func (s *StepRegistration) PathParams() []ParamSpec {
	path, _ := Classify(s.Params)
	return path
}

// QueryParams returns the step's optional parameters in declaration order.
func (s *StepRegistration) QueryParams() []ParamSpec {
	_, query := Classify(s.Params)
	return query
}
