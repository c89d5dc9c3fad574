package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/courier/internal/prompts"
	"github.com/JaimeStill/courier/internal/providers"
	"github.com/JaimeStill/courier/internal/responder"
	"github.com/JaimeStill/courier/internal/workflow"
)

type lookupCall struct {
	query    string
	location string
}

type fakeLookup struct {
	mu     sync.Mutex
	calls  []lookupCall
	result string
}

func (f *fakeLookup) Lookup(_ context.Context, query, location string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, lookupCall{query, location})
	return f.result
}

func (f *fakeLookup) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeResponder struct {
	mu      sync.Mutex
	prompts []string
	fail    func(prompt string) bool
}

const (
	weatherCompletion  = "It is sunny and 72 degrees."
	newsCompletion     = "The city council approved a new park."
	combinedCompletion = "Sunny today, and a new park is coming."
)

func (f *fakeResponder) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.fail != nil && f.fail(prompt) {
		return "", errors.Join(responder.ErrResponder, errors.New("quota exceeded"))
	}

	switch {
	case strings.HasPrefix(prompt, "Based on this weather data"):
		return weatherCompletion, nil
	case strings.HasPrefix(prompt, "Based on this news data"):
		return newsCompletion, nil
	case strings.HasPrefix(prompt, "Combine this weather and news"):
		return combinedCompletion, nil
	}
	return "unexpected prompt", nil
}

func (f *fakeResponder) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

type fixture struct {
	rt        *workflow.Runtime
	weather   *fakeLookup
	news      *fakeLookup
	responder *fakeResponder
}

func newFixture() *fixture {
	f := &fixture{
		weather:   &fakeLookup{result: "Current weather in San Francisco, CA: 72, Sunny"},
		news:      &fakeLookup{result: "Recent news for London, UK:\n\n• Park approved (Gazette)\n  details"},
		responder: &fakeResponder{},
	}
	f.rt = &workflow.Runtime{
		Responder: f.responder,
		Weather:   f.weather,
		News:      f.news,
		Location:  providers.NewLocation(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		text string
		want workflow.Intent
	}{
		{"weather", workflow.IntentWeather},
		{"What's the TEMPERATURE tomorrow?", workflow.IntentWeather},
		{"will it rain", workflow.IntentWeather},
		{"sunny or cloudy?", workflow.IntentWeather},
		{"7-day forecast", workflow.IntentWeather},
		{"news", workflow.IntentNews},
		{"top headlines", workflow.IntentNews},
		{"current events downtown", workflow.IntentNews},
		{"Breaking stories", workflow.IntentNews},
		{"weather and news", workflow.IntentBoth},
		{"forecast plus headlines", workflow.IntentBoth},
		{"hello there", workflow.IntentUnknown},
		{"", workflow.IntentUnknown},
		{"events", workflow.IntentUnknown},
		{"no rain please", workflow.IntentWeather},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := workflow.ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseIntent(t *testing.T) {
	for _, i := range workflow.Intents() {
		got, err := workflow.ParseIntent(string(i))
		if err != nil {
			t.Fatalf("ParseIntent(%s) error: %v", i, err)
		}
		if got != i {
			t.Errorf("ParseIntent(%s) = %s", i, got)
		}
	}

	if _, err := workflow.ParseIntent("sports"); !errors.Is(err, workflow.ErrInvalidIntent) {
		t.Errorf("ParseIntent(sports) error = %v, want ErrInvalidIntent", err)
	}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		intent workflow.Intent
		want   []string
	}{
		{workflow.IntentUnknown, []string{"coordinator", "summary"}},
		{workflow.IntentWeather, []string{"coordinator", "weather", "summary"}},
		{workflow.IntentNews, []string{"coordinator", "news", "summary"}},
		{workflow.IntentBoth, []string{"coordinator", "weather", "news", "summary"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			if got := workflow.Plan(tt.intent); !slices.Equal(got, tt.want) {
				t.Errorf("Plan(%s) = %v, want %v", tt.intent, got, tt.want)
			}
		})
	}
}

func TestTransitionsExclusive(t *testing.T) {
	steps := []string{
		workflow.StepCoordinator,
		workflow.StepWeather,
		workflow.StepNews,
	}

	for _, intent := range workflow.Intents() {
		for _, from := range steps {
			matches := 0
			for _, tr := range workflow.Transitions() {
				if tr.From == from && (tr.When == nil || tr.When(intent)) {
					matches++
				}
			}
			if matches != 1 {
				t.Errorf("intent %s from %s: %d matching transitions, want 1", intent, from, matches)
			}
		}
	}
}

func TestResearchCopyOnWrite(t *testing.T) {
	base := workflow.NewResearch("SF", "weather")
	base.Conversation = slices.Grow(base.Conversation, 4)

	a := base.WithWeather("a")
	b := base.WithNews("b")

	if len(base.Conversation) != 1 {
		t.Fatalf("base conversation length = %d, want 1", len(base.Conversation))
	}
	if got := a.Conversation[1].Content; got != "Weather: a" {
		t.Errorf("a message = %q, want %q", got, "Weather: a")
	}
	if got := b.Conversation[1].Content; got != "News: b" {
		t.Errorf("b message = %q, want %q", got, "News: b")
	}
	if base.Weather != "" || base.News != "" {
		t.Errorf("base results mutated: %q %q", base.Weather, base.News)
	}
}

func TestCoordinate(t *testing.T) {
	f := newFixture()

	r := workflow.Coordinate(f.rt, workflow.NewResearch("nyc", "Any breaking news?"))
	if r.Intent != workflow.IntentNews {
		t.Errorf("intent = %s, want news", r.Intent)
	}
	if r.Location != "New York, NY" {
		t.Errorf("location = %q, want %q", r.Location, "New York, NY")
	}

	empty := workflow.Coordinate(f.rt, workflow.Research{Intent: workflow.IntentUnknown, Location: "la"})
	if empty.Intent != workflow.IntentUnknown || empty.Location != "la" {
		t.Errorf("empty conversation changed: %+v", empty)
	}

	noLocation := workflow.Coordinate(f.rt, workflow.NewResearch("", "weather"))
	if noLocation.Location != "" {
		t.Errorf("location = %q, want empty", noLocation.Location)
	}
}

func TestGatherWeatherGating(t *testing.T) {
	for _, intent := range workflow.Intents() {
		t.Run(string(intent), func(t *testing.T) {
			f := newFixture()
			r := workflow.NewResearch("Boston", "weather").WithIntent(intent, "Boston")

			got := workflow.GatherWeather(context.Background(), f.rt, r)

			if intent.WantsWeather() {
				if f.weather.count() != 1 {
					t.Errorf("weather lookups = %d, want 1", f.weather.count())
				}
				if got.Weather != weatherCompletion {
					t.Errorf("Weather = %q, want %q", got.Weather, weatherCompletion)
				}
				want := []workflow.Message{
					workflow.UserMessage("weather"),
					workflow.ToolMessage(f.weather.result),
					workflow.AssistantMessage("Weather: " + weatherCompletion),
				}
				if !slices.Equal(got.Conversation, want) {
					t.Errorf("conversation = %+v, want %+v", got.Conversation, want)
				}
				return
			}

			if f.weather.count() != 0 || len(f.responder.prompts) != 0 {
				t.Errorf("weather step ran for intent %s", intent)
			}
			if len(got.Conversation) != 1 || got.Weather != "" {
				t.Errorf("state changed for intent %s: %+v", intent, got)
			}
		})
	}
}

func TestGatherNewsPromptEmbedsInputs(t *testing.T) {
	f := newFixture()
	r := workflow.NewResearch("London, UK", "news please").WithIntent(workflow.IntentNews, "London, UK")

	got := workflow.GatherNews(context.Background(), f.rt, r)

	if got.News != newsCompletion {
		t.Errorf("News = %q, want %q", got.News, newsCompletion)
	}
	if len(f.news.calls) != 1 || f.news.calls[0] != (lookupCall{"news please", "London, UK"}) {
		t.Errorf("news calls = %+v", f.news.calls)
	}

	prompt := f.responder.prompts[0]
	for _, want := range []string{f.news.result, "User asked: news please", "Location: London, UK"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		intent       workflow.Intent
		weather      string
		news         string
		want         string
		wantCombines int
	}{
		{"unknown ignores results", workflow.IntentUnknown, "w", "n", prompts.Help, 0},
		{"unknown empty", workflow.IntentUnknown, "", "", prompts.Help, 0},
		{"both combines", workflow.IntentBoth, "w result", "n result", combinedCompletion, 1},
		{"both missing news passes weather", workflow.IntentBoth, "w result", "", "w result", 0},
		{"both missing weather passes news", workflow.IntentBoth, "", "n result", "n result", 0},
		{"weather passthrough", workflow.IntentWeather, "w result", "", "w result", 0},
		{"news passthrough", workflow.IntentNews, "", "n result", "n result", 0},
		{"nothing found", workflow.IntentWeather, "", "", prompts.NotFound("weather", "Paris"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			r := workflow.NewResearch("Paris", "q").WithIntent(tt.intent, "Paris")
			r.Weather = tt.weather
			r.News = tt.news

			got := workflow.Summarize(context.Background(), f.rt, r)

			if len(got.Conversation) != 1 {
				t.Fatalf("conversation length = %d, want 1", len(got.Conversation))
			}
			msg := got.Conversation[0]
			if msg.Role != workflow.RoleAssistant || msg.Content != tt.want {
				t.Errorf("final = %+v, want assistant %q", msg, tt.want)
			}
			if n := f.responder.count("Combine"); n != tt.wantCombines {
				t.Errorf("combine calls = %d, want %d", n, tt.wantCombines)
			}
			if tt.wantCombines == 1 {
				prompt := f.responder.prompts[0]
				if !strings.Contains(prompt, tt.weather) || !strings.Contains(prompt, tt.news) {
					t.Errorf("combine prompt missing results:\n%s", prompt)
				}
			}
		})
	}
}

func TestExecuteWeather(t *testing.T) {
	f := newFixture()

	result, err := workflow.Execute(context.Background(), f.rt, "San Francisco, CA", "weather")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Intent != workflow.IntentWeather {
		t.Errorf("intent = %s, want weather", result.Intent)
	}
	if len(f.weather.calls) != 1 || f.weather.calls[0].location != "San Francisco, CA" {
		t.Errorf("weather calls = %+v", f.weather.calls)
	}
	if f.news.count() != 0 {
		t.Errorf("news lookups = %d, want 0", f.news.count())
	}
	if f.responder.count("Based on this news data") != 0 {
		t.Error("news responder call made for weather intent")
	}
	if result.Response == "" {
		t.Error("empty response")
	}
	if len(result.Conversation) != 1 {
		t.Errorf("conversation length = %d, want 1", len(result.Conversation))
	}
	if want := []string{"coordinator", "weather", "summary"}; !slices.Equal(result.Trace, want) {
		t.Errorf("trace = %v, want %v", result.Trace, want)
	}
}

func TestExecuteBoth(t *testing.T) {
	f := newFixture()

	result, err := workflow.Execute(context.Background(), f.rt, "London, UK", "weather and news")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Intent != workflow.IntentBoth {
		t.Errorf("intent = %s, want both", result.Intent)
	}
	if f.weather.count() != 1 || f.news.count() != 1 {
		t.Errorf("lookups weather=%d news=%d, want 1 each", f.weather.count(), f.news.count())
	}
	if result.Response != combinedCompletion {
		t.Errorf("response = %q, want %q", result.Response, combinedCompletion)
	}
	if n := f.responder.count("Combine"); n != 1 {
		t.Errorf("combine calls = %d, want 1", n)
	}
	if want := workflow.Plan(workflow.IntentBoth); !slices.Equal(result.Trace, want) {
		t.Errorf("trace = %v, want %v", result.Trace, want)
	}
}

func TestExecutePaths(t *testing.T) {
	tests := []struct {
		query  string
		intent workflow.Intent
	}{
		{"hello", workflow.IntentUnknown},
		{"forecast", workflow.IntentWeather},
		{"headlines", workflow.IntentNews},
		{"forecast and headlines", workflow.IntentBoth},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newFixture()

			result, err := workflow.Execute(context.Background(), f.rt, "chi", tt.query)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}

			if result.Intent != tt.intent {
				t.Errorf("intent = %s, want %s", result.Intent, tt.intent)
			}
			if result.Location != "Chicago, IL" {
				t.Errorf("location = %q, want Chicago, IL", result.Location)
			}
			if want := workflow.Plan(tt.intent); !slices.Equal(result.Trace, want) {
				t.Errorf("trace = %v, want %v", result.Trace, want)
			}
		})
	}
}

func TestExecuteUnknownReturnsHelp(t *testing.T) {
	f := newFixture()

	result, err := workflow.Execute(context.Background(), f.rt, "Paris", "tell me a joke")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Response != prompts.Help {
		t.Errorf("response = %q, want help text", result.Response)
	}
	if f.weather.count()+f.news.count() != 0 || len(f.responder.prompts) != 0 {
		t.Error("collaborators called for unknown intent")
	}
}

func TestExecuteFailures(t *testing.T) {
	t.Run("provider error sentinel", func(t *testing.T) {
		f := newFixture()
		f.weather.result = "Error fetching weather data: connection refused"

		result, err := workflow.Execute(context.Background(), f.rt, "SF", "weather")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if result.Response == "" {
			t.Error("empty response")
		}
		if !strings.Contains(f.responder.prompts[0], f.weather.result) {
			t.Error("sentinel text not passed to responder")
		}
	})

	t.Run("responder error", func(t *testing.T) {
		f := newFixture()
		f.responder.fail = func(string) bool { return true }

		result, err := workflow.Execute(context.Background(), f.rt, "SF", "weather")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if !strings.HasPrefix(result.Response, "Unable to generate weather response:") {
			t.Errorf("response = %q", result.Response)
		}
	})

	t.Run("combine error", func(t *testing.T) {
		f := newFixture()
		f.responder.fail = func(p string) bool { return strings.HasPrefix(p, "Combine") }

		result, err := workflow.Execute(context.Background(), f.rt, "SF", "weather and news")
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if !strings.HasPrefix(result.Response, "Unable to generate combined response:") {
			t.Errorf("response = %q", result.Response)
		}
		if result.Trace[len(result.Trace)-1] != workflow.StepSummary {
			t.Errorf("trace = %v, want to end at summary", result.Trace)
		}
	})
}

func TestRunIndependentRequests(t *testing.T) {
	f := newFixture()

	var wg sync.WaitGroup
	results := make([]*workflow.Result, 8)
	for i := range results {
		wg.Go(func() {
			query := "weather"
			if i%2 == 1 {
				query = "news"
			}
			r, err := workflow.Execute(context.Background(), f.rt, "SF", query)
			if err != nil {
				t.Errorf("Execute() error: %v", err)
				return
			}
			results[i] = r
		})
	}
	wg.Wait()

	for i, r := range results {
		if r == nil {
			continue
		}
		want := weatherCompletion
		if i%2 == 1 {
			want = newsCompletion
		}
		if r.Response != want {
			t.Errorf("result %d response = %q, want %q", i, r.Response, want)
		}
	}
}
