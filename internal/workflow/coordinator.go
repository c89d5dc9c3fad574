package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

var (
	weatherKeywords = []string{"weather", "temperature", "forecast", "rain", "sunny", "cloudy"}
	newsKeywords    = []string{"news", "headlines", "current events", "breaking"}
)

// ClassifyIntent maps request text to an intent by keyword containment.
// Matching is case-insensitive substring matching with no stemming or
// negation handling, so "no rain please" is still a weather request.
func ClassifyIntent(text string) Intent {
	text = strings.ToLower(text)

	hasWeather := containsAny(text, weatherKeywords)
	hasNews := containsAny(text, newsKeywords)

	switch {
	case hasWeather && hasNews:
		return IntentBoth
	case hasWeather:
		return IntentWeather
	case hasNews:
		return IntentNews
	default:
		return IntentUnknown
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// CoordinatorNode returns a state node that classifies the first user
// message and normalizes the location. A research record without messages
// passes through untouched.
func CoordinatorNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := extractResearch(s)
		if err != nil {
			return s, fmt.Errorf("coordinator: %w", err)
		}

		r = Coordinate(rt, r).Visit(StepCoordinator)

		rt.Logger.InfoContext(
			ctx, "coordinator node complete",
			"run_id", runID(s),
			"intent", r.Intent,
			"location", r.Location,
		)

		return s.Set(KeyResearch, r), nil
	})
}

// Coordinate runs the coordinator step: it sets the intent from the first
// user message and normalizes a non-empty location.
func Coordinate(rt *Runtime, r Research) Research {
	if len(r.Conversation) == 0 {
		return r
	}

	location := r.Location
	if location != "" {
		location = rt.Location.Normalize(location)
	}

	return r.WithIntent(ClassifyIntent(r.Query()), location)
}
