package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptforge/promptforge/internal/domain"
	"github.com/promptforge/promptforge/internal/pipeline"
)

// SynthesizedRoute is the HTTP projection of a step registration: the route
// path, the transport classification of its parameters, and the handler. It
// has no identity of its own and is rebuilt on every surface build.
type SynthesizedRoute struct {
	Name        string
	Path        string
	PathParams  []pipeline.ParamSpec
	QueryParams []pipeline.ParamSpec
	Handler     http.HandlerFunc
}

// BuildRoute synthesizes the route for one registered step. The path starts
// at /api/<step> and gains one /{name} segment per required parameter, in
// classifier order. Optional parameters bind from the query string with their
// declared defaults.
func (a *API) BuildRoute(reg *pipeline.StepRegistration) SynthesizedRoute {
	pathParams, queryParams := pipeline.Classify(reg.Params)

	path := "/api/" + reg.Name
	for _, spec := range pathParams {
		path += "/{" + spec.Name + "}"
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		args, err := bindArgs(r, pathParams, queryParams)
		if err != nil {
			// The wrapped function is never invoked on a binding failure.
			a.writeError(w, r, err)
			return
		}

		result, err := a.flow.Call(r.Context(), reg.Name, args)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		a.writeJSON(w, http.StatusOK, result)
	}

	return SynthesizedRoute{
		Name:        reg.Name,
		Path:        path,
		PathParams:  pathParams,
		QueryParams: queryParams,
		Handler:     handler,
	}
}

// bindArgs reconstructs the step's arguments by name from the transport
// request: path parameters from URL segments, query parameters from the query
// string with declared defaults for absent values.
func bindArgs(r *http.Request, pathParams, queryParams []pipeline.ParamSpec) (pipeline.Args, error) {
	args := make(pipeline.Args, len(pathParams)+len(queryParams))

	for _, spec := range pathParams {
		raw := chi.URLParam(r, spec.Name)
		if raw == "" {
			return nil, &domain.ParameterBindingError{Param: spec.Name, Reason: "required path parameter missing"}
		}
		v, err := spec.Coerce(raw)
		if err != nil {
			return nil, err
		}
		args[spec.Name] = v
	}

	query := r.URL.Query()
	for _, spec := range queryParams {
		if !query.Has(spec.Name) {
			args[spec.Name] = spec.Default
			continue
		}
		v, err := spec.Coerce(query.Get(spec.Name))
		if err != nil {
			return nil, err
		}
		args[spec.Name] = v
	}
	return args, nil
}
