package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/promptforge/promptforge/internal/domain"
)

// errorBody is the structured error payload the API returns. Invocation-time
// errors are always surfaced here, never swallowed or replaced by defaults.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorType(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusConflict:
		return "conflict"
	case status >= 400 && status < 500:
		return "invalid_request"
	default:
		return "server_error"
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatusCode(err)
	if status >= 500 {
		a.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	a.writeJSON(w, status, errorBody{Error: errorDetail{
		Type:    errorType(status),
		Message: err.Error(),
	}})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
