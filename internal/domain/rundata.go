package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunData records a single step invocation: which step ran, with what inputs,
// against which prompt, and what it produced.
type RunData struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`

	// StepName is the name of the step that ran.
	StepName string `json:"step_name"`

	// PromptID is the id of the prompt that was resolved for the run.
	PromptID string `json:"prompt_id"`

	// Input holds the arguments the step was called with, keyed by
	// parameter name.
	Input map[string]any `json:"input"`

	// Output is the step's return value.
	Output any `json:"output"`

	// CreatedAt is when the run happened.
	CreatedAt time.Time `json:"created_at"`
}

// NewRunData builds a RunData with a fresh run id and timestamp.
func NewRunData(stepName, promptID string, input map[string]any, output any) *RunData {
	return &RunData{
		RunID:     uuid.New().String(),
		StepName:  stepName,
		PromptID:  promptID,
		Input:     input,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}
}
