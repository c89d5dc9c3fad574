// Package workflow implements the research workflow: a state graph that
// classifies a request (coordinator), gathers weather and news results as
// needed, and synthesizes a single final answer (summary).
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrMissingState  = errors.New("missing workflow state")
	ErrInvalidIntent = errors.New("intent must be weather, news, both, or unknown")
)
