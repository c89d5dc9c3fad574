// Package console runs the research workflow from a terminal: an interactive
// chat loop, a single question, and the canned demo cases.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/courier/internal/workflow"
)

const rule = "--------------------------------------------------"

var quitWords = []string{"quit", "exit", "q"}

// Console reads requests from in and writes answers to out.
type Console struct {
	rt  *workflow.Runtime
	in  io.Reader
	out io.Writer
}

// New creates a Console over the given runtime and streams.
func New(rt *workflow.Runtime, in io.Reader, out io.Writer) *Console {
	return &Console{rt: rt, in: in, out: out}
}

// Chat runs the interactive loop until the user quits, input ends, or ctx
// is cancelled. Each of these is a normal exit and returns nil. A run in
// progress is never cancelled; ctx is checked between runs.
func (c *Console) Chat(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines := scan(c.in, done)

	fmt.Fprintln(c.out, "Ready! Weather and news research.")
	fmt.Fprintln(c.out, rule)

	for {
		location, err := c.prompt(ctx, lines, "\nEnter your location (or 'quit' to exit): ")
		if err != nil {
			return c.goodbye(err)
		}
		if isQuit(location) {
			return c.goodbye(nil)
		}

		query, err := c.prompt(ctx, lines, "Enter your query (e.g., 'weather', 'news', or 'weather and news'): ")
		if err != nil {
			return c.goodbye(err)
		}
		if query == "" {
			fmt.Fprintln(c.out, "Please enter a valid query.")
			continue
		}

		fmt.Fprintf(c.out, "\nProcessing your request for %s...\n", location)

		result, err := c.run(context.WithoutCancel(ctx), location, query)
		if err != nil {
			fmt.Fprintf(c.out, "\nError: %v\nPlease try again.\n", err)
			continue
		}

		fmt.Fprintf(c.out, "\nResults:\n%s\n", result.Response)
	}
}

// Ask runs a single request and prints the final answer.
func (c *Console) Ask(ctx context.Context, location, query string) error {
	result, err := c.run(ctx, location, query)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, result.Response)
	return nil
}

// run executes one request, converting a panic into an error so a single
// bad run never ends the chat loop.
func (c *Console) run(ctx context.Context, location, query string) (result *workflow.Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			c.rt.Logger.ErrorContext(ctx, "research panic", "panic", v)
			err = fmt.Errorf("unexpected failure: %v", v)
		}
	}()

	return workflow.Execute(ctx, c.rt, location, query)
}

func (c *Console) prompt(ctx context.Context, lines <-chan string, label string) (string, error) {
	fmt.Fprint(c.out, label)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func (c *Console) goodbye(err error) error {
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintln(c.out, "\nGoodbye!")
	return nil
}

// scan feeds input lines to a channel that closes at end of input or once
// done is closed. A reader blocked on open input exits after its next line.
func scan(in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		s := bufio.NewScanner(in)
		for s.Scan() {
			select {
			case <-done:
				return
			default:
			}

			select {
			case lines <- s.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}

func isQuit(s string) bool {
	for _, w := range quitWords {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}
