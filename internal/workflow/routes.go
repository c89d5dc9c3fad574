package workflow

import (
	"slices"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Transition is one edge of the research graph. A nil When is unconditional.
// Edges leaving the same step have mutually exclusive predicates.
type Transition struct {
	From string
	To   string
	When func(Intent) bool
}

var transitions = []Transition{
	{From: StepCoordinator, To: StepWeather, When: Intent.WantsWeather},
	{From: StepCoordinator, To: StepNews, When: skipWeatherToNews},
	{From: StepCoordinator, To: StepSummary, When: skipBoth},
	{From: StepWeather, To: StepNews, When: Intent.WantsNews},
	{From: StepWeather, To: StepSummary, When: skipNews},
	{From: StepNews, To: StepSummary},
}

func skipWeatherToNews(i Intent) bool { return !i.WantsWeather() && i.WantsNews() }
func skipBoth(i Intent) bool          { return !i.WantsWeather() && !i.WantsNews() }
func skipNews(i Intent) bool          { return !i.WantsNews() }

// Transitions returns the fixed transition table of the research graph.
func Transitions() []Transition {
	return slices.Clone(transitions)
}

// Plan walks the transition table for intent without running any step and
// returns the step names the graph will visit, entry to exit.
func Plan(intent Intent) []string {
	path := []string{StepCoordinator}
	current := StepCoordinator

	for range len(transitions) {
		if current == StepSummary {
			break
		}
		next, ok := nextStep(current, intent)
		if !ok {
			break
		}
		path = append(path, next)
		current = next
	}

	return path
}

func nextStep(from string, intent Intent) (string, bool) {
	for _, t := range transitions {
		if t.From != from {
			continue
		}
		if t.When == nil || t.When(intent) {
			return t.To, true
		}
	}
	return "", false
}

// guard adapts an intent predicate to a graph edge predicate. A state
// without a research record never satisfies a conditional edge.
func guard(when func(Intent) bool) func(state.State) bool {
	if when == nil {
		return nil
	}
	return func(s state.State) bool {
		r, err := extractResearch(s)
		if err != nil {
			return false
		}
		return when(r.Intent)
	}
}
