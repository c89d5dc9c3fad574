package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the research workflow for a single request. It seeds a new
// research record with the query as the only user message, runs the graph
// (coordinator → weather? → news? → summary) and returns the final answer.
// Provider and responder failures never surface here; an error means the
// graph itself could not be built or run.
func Execute(ctx context.Context, rt *Runtime, location, query string) (*Result, error) {
	return Run(ctx, rt, NewResearch(location, query))
}

// Run executes the research graph starting from an arbitrary record.
func Run(ctx context.Context, rt *Runtime, r Research) (*Result, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	id := uuid.New()

	rt.Logger.InfoContext(
		ctx, "research started",
		"run_id", id,
		"location", r.Location,
		"query", r.Query(),
	)

	initialState := state.New(nil)
	initialState = initialState.Set(KeyRunID, id)
	initialState = initialState.Set(KeyResearch, r)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState, id)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("courier-research")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{StepCoordinator, CoordinatorNode(rt)},
		{StepWeather, WeatherNode(rt)},
		{StepNews, NewsNode(rt)},
		{StepSummary, SummaryNode(rt)},
	}

	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return nil, err
		}
	}

	for _, t := range transitions {
		if err := graph.AddEdge(t.From, t.To, guard(t.When)); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(StepCoordinator); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(StepSummary); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State, id uuid.UUID) (*Result, error) {
	r, err := extractResearch(s)
	if err != nil {
		return nil, err
	}

	final, ok := r.Last()
	if !ok {
		return nil, fmt.Errorf("%w: final conversation is empty", ErrMissingState)
	}

	return &Result{
		ID:           id,
		Intent:       r.Intent,
		Location:     r.Location,
		Response:     final.Content,
		Conversation: r.Conversation,
		Trace:        r.Trace,
		CompletedAt:  time.Now(),
	}, nil
}
