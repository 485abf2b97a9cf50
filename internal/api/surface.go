// Package api synthesizes the HTTP surface of a pipeline: one GET route per
// registered step, a step listing, prompt management endpoints, and the
// static playground.
package api

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptforge/promptforge/internal/assets"
	"github.com/promptforge/promptforge/internal/pipeline"
	"github.com/promptforge/promptforge/internal/storage"
	"github.com/promptforge/promptforge/internal/tokens"
)

// StepInfo is one entry in the step listing.
type StepInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// API builds the HTTP surface for a pipeline.
type API struct {
	flow        *pipeline.Pipeline
	promptStore storage.PromptStore
	dataStore   storage.DataStore
	counter     *tokens.Counter
	logger      *slog.Logger
}

// Option configures the API surface.
type Option func(*API)

// WithDataStore enables the run listing endpoint.
func WithDataStore(ds storage.DataStore) Option {
	return func(a *API) { a.dataStore = ds }
}

// WithLogger sets the surface's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) { a.logger = logger }
}

// New creates an API surface over the pipeline and its prompt store.
func New(flow *pipeline.Pipeline, promptStore storage.PromptStore, opts ...Option) *API {
	a := &API{
		flow:        flow,
		promptStore: promptStore,
		counter:     tokens.NewCounter(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Build assembles the router: one route per registered step in registration
// order, the step listing, prompt and run endpoints, and static assets.
// Routes are a pure projection of the registry; building twice from an
// unchanged registry yields identical paths and classifications.
func (a *API) Build() *chi.Mux {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	steps := make([]StepInfo, 0)
	for _, reg := range a.flow.List() {
		route := a.BuildRoute(reg)
		r.Get(route.Path, route.Handler)
		steps = append(steps, StepInfo{Name: route.Name, Path: route.Path})
		a.logger.Info("mounted step route",
			slog.String("step", route.Name),
			slog.String("path", route.Path))
	}

	r.Get("/api/steps", func(w http.ResponseWriter, req *http.Request) {
		a.writeJSON(w, http.StatusOK, steps)
	})

	r.Get("/api/prompts", a.handleListPrompts)
	r.Get("/api/prompts/{id}", a.handleGetPrompt)
	r.Put("/api/prompts/{id}", a.handleStorePrompt)

	if a.dataStore != nil {
		r.Get("/api/runs", a.handleListRuns)
	}

	static, err := fs.Sub(assets.Static, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	return r
}

// Routes returns the synthesized routes for all registered steps without
// mounting them, in registration order.
func (a *API) Routes() []SynthesizedRoute {
	regs := a.flow.List()
	routes := make([]SynthesizedRoute, 0, len(regs))
	for _, reg := range regs {
		routes = append(routes, a.BuildRoute(reg))
	}
	return routes
}

// corsMiddleware allows the playground, typically served from another origin,
// to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
