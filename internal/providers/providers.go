// Package providers implements the capability providers consulted by the
// research workflow: weather and news search plus location normalization.
//
// Weather and News never return errors. Missing credentials and search
// failures are reported as descriptive text that flows through the workflow
// like a real result.
package providers

import "context"

// Weather looks up current weather information for a query and location.
type Weather interface {
	Lookup(ctx context.Context, query, location string) string
}

// News looks up recent news for a query and location.
type News interface {
	Lookup(ctx context.Context, query, location string) string
}

// Location normalizes free-text location input. Implementations are pure,
// total and idempotent.
type Location interface {
	Normalize(raw string) string
}

// LookupFunc adapts a function to the Weather and News interfaces.
type LookupFunc func(ctx context.Context, query, location string) string

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, query, location string) string {
	return f(ctx, query, location)
}
