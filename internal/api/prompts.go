package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptforge/promptforge/internal/domain"
)

// promptDetail is the prompt representation returned by the API, including
// approximate token counts for the template text.
type promptDetail struct {
	*domain.Prompt
	SystemTokens int `json:"system_tokens"`
	UserTokens   int `json:"user_tokens"`
}

func (a *API) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := a.promptStore.ListPrompts(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, prompts)
}

func (a *API) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prompt, err := a.promptStore.GetPrompt(r.Context(), id)
	if err != nil {
		// For prompt management a missing prompt is a 404, unlike step
		// invocation where an unresolved binding is a server fault.
		var notFound *domain.PromptNotFoundError
		if errors.As(err, &notFound) {
			a.writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
				Type:    "not_found",
				Message: err.Error(),
			}})
			return
		}
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, promptDetail{
		Prompt:       prompt,
		SystemTokens: a.counter.Count(prompt.System),
		UserTokens:   a.counter.Count(prompt.User),
	})
}

func (a *API) handleStorePrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var prompt domain.Prompt
	if err := json.NewDecoder(r.Body).Decode(&prompt); err != nil {
		a.writeError(w, r, &domain.ParameterBindingError{Param: "body", Reason: "invalid prompt JSON"})
		return
	}
	prompt.ID = id
	if err := a.promptStore.StorePrompt(r.Context(), &prompt); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, &prompt)
}

func (a *API) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.dataStore.ListRuns(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, runs)
}
