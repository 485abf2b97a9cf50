package pipeline

import (
	"fmt"
	"strconv"

	"github.com/promptforge/promptforge/internal/domain"
)

// ReservedParamName is the parameter name reserved for the injected prompt.
// Step parameters may not use it; the resolved prompt is always passed to the
// step function separately.
const ReservedParamName = "prompt"

// ParamType is the declared transport type of a step parameter.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
)

// ParamSpec is the declarative description of one step parameter. A spec
// without a default is required and becomes a path parameter; a spec with a
// default is optional and becomes a query parameter.
type ParamSpec struct {
	// Name is the parameter name, used for keyword dispatch and in the
	// synthesized route.
	Name string `json:"name"`

	// Type is the transport type used for coercion. Empty means string.
	Type ParamType `json:"type,omitempty"`

	// Default, when non-nil, marks the parameter optional and supplies the
	// value used when the caller omits it.
	Default any `json:"default,omitempty"`
}

// Required reports whether the parameter must be supplied by the caller.
func (p ParamSpec) Required() bool {
	return p.Default == nil
}

// Coerce converts a raw transport string into the parameter's declared type.
func (p ParamSpec) Coerce(raw string) (any, error) {
	switch p.Type {
	case TypeString, "":
		return raw, nil
	case TypeInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &domain.ParameterBindingError{Param: p.Name, Reason: fmt.Sprintf("expected int, got %q", raw)}
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &domain.ParameterBindingError{Param: p.Name, Reason: fmt.Sprintf("expected float, got %q", raw)}
		}
		return v, nil
	case TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &domain.ParameterBindingError{Param: p.Name, Reason: fmt.Sprintf("expected bool, got %q", raw)}
		}
		return v, nil
	default:
		return nil, &domain.ParameterBindingError{Param: p.Name, Reason: fmt.Sprintf("unsupported type %q", p.Type)}
	}
}

// Classify partitions parameter specs into path parameters (required) and
// query parameters (optional, carrying a default). Both sequences preserve
// declaration order and are disjoint; a spec using the reserved prompt name
// is excluded entirely.
//
// Declaration order only determines path-segment order and the relative order
// within each sequence. It is never used as positional argument order:
// dispatch back into the step function is keyword-based end to end, so a
// required parameter declared after an optional one cannot swap values.
func Classify(specs []ParamSpec) (path, query []ParamSpec) {
	for _, spec := range specs {
		if spec.Name == ReservedParamName {
			continue
		}
		if spec.Required() {
			path = append(path, spec)
		} else {
			query = append(query, spec)
		}
	}
	return path, query
}
