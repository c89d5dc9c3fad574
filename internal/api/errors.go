package api

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/courier/internal/workflow"
	"github.com/JaimeStill/courier/pkg/handlers"
)

// ErrInvalidRequest indicates a research request body that could not be
// decoded or failed validation.
var ErrInvalidRequest = errors.New("invalid research request")

// MapHTTPStatus maps API errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, handlers.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, workflow.ErrInvalidIntent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
