package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/JaimeStill/courier/internal/prompts"
)

// Step names used as graph node identifiers and trace entries.
const (
	StepCoordinator = "coordinator"
	StepWeather     = "weather"
	StepNews        = "news"
	StepSummary     = "summary"
)

// WeatherNode returns a state node that gathers and formats weather results.
func WeatherNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := extractResearch(s)
		if err != nil {
			return s, fmt.Errorf("weather: %w", err)
		}

		r = GatherWeather(ctx, rt, r).Visit(StepWeather)

		rt.Logger.InfoContext(
			ctx, "weather node complete",
			"run_id", runID(s),
			"result_len", len(r.Weather),
		)

		return s.Set(KeyResearch, r), nil
	})
}

// NewsNode returns a state node that gathers and formats news results.
func NewsNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := extractResearch(s)
		if err != nil {
			return s, fmt.Errorf("news: %w", err)
		}

		r = GatherNews(ctx, rt, r).Visit(StepNews)

		rt.Logger.InfoContext(
			ctx, "news node complete",
			"run_id", runID(s),
			"result_len", len(r.News),
		)

		return s.Set(KeyResearch, r), nil
	})
}

// SummaryNode returns the terminal state node that replaces the conversation
// with the single final answer.
func SummaryNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		r, err := extractResearch(s)
		if err != nil {
			return s, fmt.Errorf("summary: %w", err)
		}

		r = Summarize(ctx, rt, r).Visit(StepSummary)

		rt.Logger.InfoContext(
			ctx, "summary node complete",
			"run_id", runID(s),
			"intent", r.Intent,
		)

		return s.Set(KeyResearch, r), nil
	})
}

// GatherWeather runs the weather step: a no-op unless the intent wants
// weather, otherwise a provider lookup followed by one responder call.
func GatherWeather(ctx context.Context, rt *Runtime, r Research) Research {
	if !r.Intent.WantsWeather() {
		return r
	}

	query := r.Query()
	raw := rt.Weather.Lookup(ctx, query, r.Location)
	prompt := prompts.ComposeWeather(raw, query, r.Location)

	return r.WithToolOutput(raw).WithWeather(complete(ctx, rt, "weather", prompt))
}

// GatherNews runs the news step: a no-op unless the intent wants news,
// otherwise a provider lookup followed by one responder call.
func GatherNews(ctx context.Context, rt *Runtime, r Research) Research {
	if !r.Intent.WantsNews() {
		return r
	}

	query := r.Query()
	raw := rt.News.Lookup(ctx, query, r.Location)
	prompt := prompts.ComposeNews(raw, query, r.Location)

	return r.WithToolOutput(raw).WithNews(complete(ctx, rt, "news", prompt))
}

// Summarize runs the synthesis step. Only a "both" request with both results
// present makes a responder call; single results pass through verbatim.
func Summarize(ctx context.Context, rt *Runtime, r Research) Research {
	return r.WithFinal(summarize(ctx, rt, r))
}

func summarize(ctx context.Context, rt *Runtime, r Research) string {
	switch r.Intent {
	case IntentUnknown:
		return prompts.Help
	case IntentBoth:
		if r.Weather != "" && r.News != "" {
			prompt := prompts.ComposeCombine(r.Location, r.Weather, r.News)
			return complete(ctx, rt, "combined", prompt)
		}
	case IntentWeather, IntentNews:
	}

	switch {
	case r.Weather != "":
		return r.Weather
	case r.News != "":
		return r.News
	default:
		return prompts.NotFound(string(r.Intent), r.Location)
	}
}

// complete never fails: a responder error becomes the completion text.
func complete(ctx context.Context, rt *Runtime, topic, prompt string) string {
	text, err := rt.Responder.Complete(ctx, prompt)
	if err != nil {
		rt.Logger.WarnContext(ctx, "responder call failed", "topic", topic, "error", err)
		return prompts.ResponderFailure(topic, err)
	}
	return text
}

func extractResearch(s state.State) (Research, error) {
	val, ok := s.Get(KeyResearch)
	if !ok {
		return Research{}, fmt.Errorf("%w: missing %s in state", ErrMissingState, KeyResearch)
	}

	r, ok := val.(Research)
	if !ok {
		return Research{}, fmt.Errorf("%w: %s is not Research", ErrMissingState, KeyResearch)
	}

	return r, nil
}

func runID(s state.State) uuid.UUID {
	val, ok := s.Get(KeyRunID)
	if !ok {
		return uuid.Nil
	}
	id, _ := val.(uuid.UUID)
	return id
}
