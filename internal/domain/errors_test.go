package domain

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ParameterBindingError{Param: "x", Reason: "missing"}, http.StatusBadRequest},
		{&UnknownStepError{Name: "s"}, http.StatusNotFound},
		{&PromptNotFoundError{ID: "p"}, http.StatusInternalServerError},
		{&DuplicateStepError{Name: "s"}, http.StatusConflict},
		{&InvalidStepError{Name: "s", Reason: "bad"}, http.StatusConflict},
		{fmt.Errorf("anything else"), http.StatusInternalServerError},
		// Wrapped errors must still map through errors.As.
		{fmt.Errorf("step failed: %w", &PromptNotFoundError{ID: "p"}), http.StatusInternalServerError},
		{fmt.Errorf("bind: %w", &ParameterBindingError{Param: "x", Reason: "nope"}), http.StatusBadRequest},
	}

	for _, tt := range tests {
		if got := HTTPStatusCode(tt.err); got != tt.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
