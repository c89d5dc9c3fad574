// Package prompts holds the fixed prompt text used by the research workflow:
// per-stage instructions, prompt composition, and the canned help and
// failure messages returned to users.
package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for prompt operations.
var (
	ErrInvalidStage = errors.New("stage must be weather, news, or combine")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidStage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
