package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/courier/internal/workflow"
)

// Case is a canned demo request.
type Case struct {
	Description string
	Location    string
	Query       string
}

// DemoCases returns one request per non-trivial execution path.
func DemoCases() []Case {
	return []Case{
		{Description: "Weather-only query", Location: "San Francisco, CA", Query: "weather"},
		{Description: "News-only query", Location: "New York, NY", Query: "news"},
		{Description: "Combined query", Location: "London, UK", Query: "weather and news"},
	}
}

type outcome struct {
	result *workflow.Result
	err    error
}

// Demo runs cases concurrently, at most limit at a time, and prints them in
// order. A failing case is reported in place and does not stop the others.
func Demo(ctx context.Context, rt *workflow.Runtime, out io.Writer, cases []Case, limit int) error {
	c := New(rt, nil, out)
	outcomes := make([]outcome, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, tc := range cases {
		g.Go(func() error {
			result, err := c.run(gctx, tc.Location, tc.Query)
			outcomes[i] = outcome{result: result, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	banner := strings.Repeat("=", len(rule))
	fmt.Fprintln(out, "Running demo...")

	for i, tc := range cases {
		fmt.Fprintf(out, "\n%s\n", banner)
		fmt.Fprintf(out, "Case %d: %s\n", i+1, tc.Description)
		fmt.Fprintf(out, "Location: %s\n", tc.Location)
		fmt.Fprintf(out, "Query: %s\n", tc.Query)
		fmt.Fprintln(out, banner)

		o := outcomes[i]
		if o.err != nil {
			fmt.Fprintf(out, "\nError in case %d: %v\n", i+1, o.err)
			continue
		}

		fmt.Fprintf(out, "\nIntent detected: %s\n", o.result.Intent)
		fmt.Fprintf(out, "Location resolved: %s\n", o.result.Location)
		fmt.Fprintf(out, "\nFinal Response:\n%s\n", o.result.Response)
	}

	fmt.Fprintf(out, "\n%s\nDemo complete!\n", banner)
	return nil
}
