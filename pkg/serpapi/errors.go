package serpapi

import "errors"

var (
	// ErrMissingAPIKey indicates a search was attempted without credentials.
	ErrMissingAPIKey = errors.New("serpapi: api key is missing")
	// ErrRequestFailed indicates SerpAPI answered with an error status or payload.
	ErrRequestFailed = errors.New("serpapi: request failed")
)
