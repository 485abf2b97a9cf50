package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DuplicateStepError indicates a step name is already registered in the
// pipeline. The existing registration is kept.
type DuplicateStepError struct {
	Name string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("step %q is already registered", e.Name)
}

// UnknownStepError indicates a lookup of a step name that was never
// registered.
type UnknownStepError struct {
	Name string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step %q", e.Name)
}

// PromptNotFoundError indicates a prompt id has no stored prompt. Recoverable
// by storing the prompt and retrying.
type PromptNotFoundError struct {
	ID string
}

func (e *PromptNotFoundError) Error() string {
	return fmt.Sprintf("prompt %q not found", e.ID)
}

// ParameterBindingError indicates a transport-level argument could not be
// bound to a step parameter: missing required value or a type mismatch. The
// wrapped function is never invoked when binding fails.
type ParameterBindingError struct {
	Param  string
	Reason string
}

func (e *ParameterBindingError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// InvalidStepError indicates a step definition that cannot be registered,
// such as a missing function or a parameter using the reserved name.
type InvalidStepError struct {
	Name   string
	Reason string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step %q: %s", e.Name, e.Reason)
}

// HTTPStatusCode maps a domain error to the HTTP status the API surface
// reports. Binding failures are the caller's fault; a step name that doesn't
// resolve is a 404; an unresolved prompt is a server-side fault per the
// invocation contract.
func HTTPStatusCode(err error) int {
	var (
		bindErr      *ParameterBindingError
		unknownErr   *UnknownStepError
		promptErr    *PromptNotFoundError
		duplicateErr *DuplicateStepError
		invalidErr   *InvalidStepError
	)
	switch {
	case errors.As(err, &bindErr):
		return http.StatusBadRequest
	case errors.As(err, &unknownErr):
		return http.StatusNotFound
	case errors.As(err, &promptErr):
		return http.StatusInternalServerError
	case errors.As(err, &duplicateErr), errors.As(err, &invalidErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
