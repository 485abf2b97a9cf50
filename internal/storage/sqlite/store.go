// Package sqlite provides SQLite-backed implementations of the storage
// interfaces using modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/promptforge/promptforge/internal/domain"
	"github.com/promptforge/promptforge/internal/storage"
)

// Store is a SQLite implementation of both PromptStore and DataStore.
type Store struct {
	db *sql.DB
}

var (
	_ storage.PromptStore = (*Store)(nil)
	_ storage.DataStore   = (*Store)(nil)
)

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prompts (
			id TEXT PRIMARY KEY,
			template_vars TEXT NOT NULL,
			system TEXT NOT NULL,
			user TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			step_name TEXT NOT NULL,
			prompt_id TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_step_name ON runs(step_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StorePrompt(ctx context.Context, p *domain.Prompt) error {
	vars, err := json.Marshal(p.TemplateVars)
	if err != nil {
		return fmt.Errorf("failed to marshal template vars: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompts (id, template_vars, system, user, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template_vars = excluded.template_vars,
			system = excluded.system,
			user = excluded.user,
			updated_at = excluded.updated_at`,
		p.ID, string(vars), p.System, p.User, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store prompt: %w", err)
	}
	return nil
}

func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	var p domain.Prompt
	var vars string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, template_vars, system, user FROM prompts WHERE id = ?`, id).
		Scan(&p.ID, &vars, &p.System, &p.User)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.PromptNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	if err := json.Unmarshal([]byte(vars), &p.TemplateVars); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template vars: %w", err)
	}
	return &p, nil
}

func (s *Store) ListPrompts(ctx context.Context) ([]*domain.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, template_vars, system, user FROM prompts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty store serves a JSON array, not null.
	result := make([]*domain.Prompt, 0)
	for rows.Next() {
		var p domain.Prompt
		var vars string
		if err := rows.Scan(&p.ID, &vars, &p.System, &p.User); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		if err := json.Unmarshal([]byte(vars), &p.TemplateVars); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template vars: %w", err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func (s *Store) StoreRun(ctx context.Context, run *domain.RunData) error {
	input, err := json.Marshal(run.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	output, err := json.Marshal(run.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, step_name, prompt_id, input, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StepName, run.PromptID, string(input), string(output), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context) ([]*domain.RunData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, step_name, prompt_id, input, output, created_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.RunData, 0)
	for rows.Next() {
		var run domain.RunData
		var input, output string
		if err := rows.Scan(&run.RunID, &run.StepName, &run.PromptID, &input, &output, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(input), &run.Input); err != nil {
			return nil, fmt.Errorf("failed to unmarshal input: %w", err)
		}
		if err := json.Unmarshal([]byte(output), &run.Output); err != nil {
			return nil, fmt.Errorf("failed to unmarshal output: %w", err)
		}
		result = append(result, &run)
	}
	return result, rows.Err()
}
