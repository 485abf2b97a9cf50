// Package storage defines the persistence interfaces consumed by the
// pipeline: prompt storage and run-data storage. Backends are pluggable; the
// memory and sqlite subpackages provide the two bundled implementations.
package storage

import (
	"context"

	"github.com/promptforge/promptforge/internal/domain"
)

// PromptStore persists prompts by id.
type PromptStore interface {
	// StorePrompt creates or replaces the prompt under its id.
	StorePrompt(ctx context.Context, p *domain.Prompt) error

	// GetPrompt returns the prompt for id, or a *domain.PromptNotFoundError
	// if absent.
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)

	// ListPrompts returns all stored prompts ordered by id.
	ListPrompts(ctx context.Context) ([]*domain.Prompt, error)
}

// DataStore persists run records.
type DataStore interface {
	// StoreRun appends a run record.
	StoreRun(ctx context.Context, run *domain.RunData) error

	// ListRuns returns stored runs, newest first.
	ListRuns(ctx context.Context) ([]*domain.RunData, error)
}
