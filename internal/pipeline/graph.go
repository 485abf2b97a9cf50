package pipeline

import (
	"context"
	"fmt"

	"github.com/promptforge/promptforge/internal/domain"
)

// ErrCyclicDependency is returned when the step dependency graph contains a
// cycle.
var ErrCyclicDependency = fmt.Errorf("cyclic step dependency detected")

// topoSort orders all registered steps so every step comes after its
// dependencies. Ties break by registration order, keeping the result
// deterministic.
func (p *Pipeline) topoSort() ([]string, error) {
	indegree := make(map[string]int, len(p.order))
	dependents := make(map[string][]string, len(p.order))

	for _, name := range p.order {
		indegree[name] = 0
	}
	for _, name := range p.order {
		for _, dep := range p.steps[name].DependsOn {
			if _, ok := p.steps[dep]; !ok {
				return nil, fmt.Errorf("step %q depends on %w", name, &domain.UnknownStepError{Name: dep})
			}
			dependents[dep] = append(dependents[dep], name)
			indegree[name]++
		}
	}

	var queue []string
	for _, name := range p.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	var order []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, next := range dependents[name] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(p.order) {
		return nil, ErrCyclicDependency
	}
	return order, nil
}

// RunFunc executes a pipeline slice from a starting step through the final
// step and returns the final step's output.
type RunFunc func(ctx context.Context, initial Args) (any, error)

// Runner builds a function that runs the whole pipeline in dependency order,
// starting at startFrom (or the first step when startFrom is empty). The
// starting step receives the initial arguments; every later step receives its
// dependencies' outputs bound to its declared parameters by position of the
// dependency list, passed on by name.
func (p *Pipeline) Runner(startFrom string) (RunFunc, error) {
	order, err := p.topoSort()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("pipeline %q has no steps", p.name)
	}

	startIndex := 0
	if startFrom != "" {
		found := false
		for i, name := range order {
			if name == startFrom {
				startIndex = i
				found = true
				break
			}
		}
		if !found {
			return nil, &domain.UnknownStepError{Name: startFrom}
		}
	}

	run := func(ctx context.Context, initial Args) (any, error) {
		results := make(map[string]any, len(order))
		var last any
		for i, name := range order[startIndex:] {
			reg := p.steps[name]
			var args Args
			switch {
			case i == 0:
				args = initial
			case len(reg.DependsOn) > 0:
				args = make(Args, len(reg.DependsOn))
				for j, dep := range reg.DependsOn {
					if j >= len(reg.Params) {
						break
					}
					// A dependency before the starting step has no
					// result; leave the key absent so the required
					// binding check reports it instead of passing nil.
					if v, ok := results[dep]; ok {
						args[reg.Params[j].Name] = v
					}
				}
			default:
				args = Args{}
			}
			result, err := p.Call(ctx, name, args)
			if err != nil {
				return nil, err
			}
			results[name] = result
			last = result
		}
		return last, nil
	}
	return run, nil
}
