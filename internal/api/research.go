package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/courier/internal/workflow"
	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/routes"
)

// ResearchRequest is the body of a research run.
type ResearchRequest struct {
	Location string `json:"location" validate:"max=200"`
	Query    string `json:"query" validate:"required,max=2000"`
}

// ClassifyRequest is the body of an intent classification.
type ClassifyRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// Classification reports the detected intent of a query and the steps a run
// would visit.
type Classification struct {
	Intent workflow.Intent `json:"intent"`
	Plan   []string        `json:"plan"`
}

// ResearchHandler exposes the research workflow over HTTP.
type ResearchHandler struct {
	runtime  *workflow.Runtime
	maxBytes int64
	logger   *slog.Logger
}

// NewResearchHandler creates a ResearchHandler. Request bodies larger than
// maxBytes are rejected.
func NewResearchHandler(rt *workflow.Runtime, maxBytes int64, logger *slog.Logger) *ResearchHandler {
	return &ResearchHandler{
		runtime:  rt,
		maxBytes: maxBytes,
		logger:   logger.With("handler", "research"),
	}
}

// Routes returns the route group definition for research endpoints.
func (h *ResearchHandler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/research",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Research},
			{Method: "POST", Pattern: "/classify", Handler: h.Classify},
			{Method: "GET", Pattern: "/plans/{intent}", Handler: h.Plan},
		},
	}
}

// Research runs the workflow for a location and query and returns the result.
// A run is not cancelled when the client disconnects.
func (h *ResearchHandler) Research(w http.ResponseWriter, r *http.Request) {
	var req ResearchRequest
	if err := handlers.Bind(w, r, h.maxBytes, &req); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := workflow.Execute(context.WithoutCancel(r.Context()), h.runtime, req.Location, req.Query)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Classify reports the intent and execution plan for a query without
// running the workflow.
func (h *ResearchHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := handlers.Bind(w, r, h.maxBytes, &req); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	intent := workflow.ClassifyIntent(req.Query)

	handlers.RespondJSON(w, http.StatusOK, Classification{
		Intent: intent,
		Plan:   workflow.Plan(intent),
	})
}

// Plan returns the steps a run would visit for a known intent.
func (h *ResearchHandler) Plan(w http.ResponseWriter, r *http.Request) {
	intent, err := workflow.ParseIntent(r.PathValue("intent"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Classification{
		Intent: intent,
		Plan:   workflow.Plan(intent),
	})
}
