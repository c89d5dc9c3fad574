package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/courier/pkg/handlers"
	"github.com/JaimeStill/courier/pkg/routes"
)

// Handler provides read-only HTTP endpoints for prompt stages.
type Handler struct {
	logger *slog.Logger
}

// StageContent is the response type for stage-scoped content endpoints.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

// NewHandler creates a Handler with the given logger.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger.With("handler", "prompts"),
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/{stage}/instructions", Handler: h.Instructions},
		},
	}
}

// Stages returns the list of prompted workflow stages.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// Instructions returns the instructions used for a workflow stage.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	text, err := Instructions(stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: text})
}
