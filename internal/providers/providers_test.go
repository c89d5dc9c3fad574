package providers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/JaimeStill/courier/internal/providers"
	"github.com/JaimeStill/courier/pkg/serpapi"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type searchServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []url.Values
}

func newSearchServer(t *testing.T, status int, payload any) *searchServer {
	t.Helper()
	s := &searchServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.URL.Query())
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *searchServer) last(t *testing.T) url.Values {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("no search requests made")
	}
	return s.requests[len(s.requests)-1]
}

func newProviderConfig(t *testing.T) *providers.Config {
	t.Helper()
	cfg := &providers.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	return cfg
}

func newSearch(t *testing.T, srv *searchServer, key string) serpapi.System {
	t.Helper()
	cfg := &serpapi.Config{APIKey: key, BaseURL: srv.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	return serpapi.NewWithClient(cfg, srv.Client(), discard)
}

func TestNormalize(t *testing.T) {
	loc := providers.NewLocation()

	tests := []struct {
		raw  string
		want string
	}{
		{"nyc", "New York, NY"},
		{"NYC", "New York, NY"},
		{"  la  ", "Los Angeles, CA"},
		{"Sf", "San Francisco, CA"},
		{"chi", "Chicago, IL"},
		{"ſf", "San Francisco, CA"},
		{"ǆ", "ǅ"},
		{"san   francisco", "San Francisco"},
		{"london, UK", "London, UK"},
		{"paris", "Paris"},
		{"rio de janeiro", "Rio De Janeiro"},
		{"New York, NY", "New York, NY"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := loc.Normalize(tt.raw)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if again := loc.Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestWeatherLookup(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		location string
		want     string
	}{
		{
			name: "weather result",
			payload: map[string]any{
				"weather_result": map[string]any{
					"location": "San Francisco, CA", "temperature": "64°F", "weather": "Partly cloudy",
				},
			},
			location: "San Francisco, CA",
			want:     "Current weather in San Francisco, CA: 64°F, Partly cloudy",
		},
		{
			name: "weather answer box",
			payload: map[string]any{
				"answer_box": map[string]any{
					"type": "weather_result", "temperature": 18, "unit": "Celsius", "weather": "Rain",
				},
			},
			location: "London, UK",
			want:     "Current weather in London, UK: 18°Celsius, Rain",
		},
		{
			name: "organic fallback",
			payload: map[string]any{
				"organic_results": []map[string]any{
					{"title": "Boston Weather", "snippet": "Cold and windy"},
					{"title": "Second", "snippet": "ignored"},
				},
			},
			location: "Boston",
			want:     "Weather for Boston: Boston Weather\nCold and windy",
		},
		{
			name:     "nothing found",
			payload:  map[string]any{},
			location: "Nowhere",
			want:     "No weather information found for Nowhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newSearchServer(t, http.StatusOK, tt.payload)
			w := providers.NewWeather(newSearch(t, srv, "key"), newProviderConfig(t), discard)

			got := w.Lookup(context.Background(), "weather", tt.location)
			if got != tt.want {
				t.Errorf("Lookup() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeatherQueryParameters(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, map[string]any{})
	w := providers.NewWeather(newSearch(t, srv, "key"), newProviderConfig(t), discard)

	w.Lookup(context.Background(), "tomorrow", "Denver")
	q := srv.last(t)
	if got := q.Get("q"); got != "Denver weather tomorrow" {
		t.Errorf("q = %q", got)
	}
	if got := q.Get("location"); got != "Denver" {
		t.Errorf("location = %q", got)
	}

	w.Lookup(context.Background(), "tomorrow", "")
	q = srv.last(t)
	if got := q.Get("q"); got != "tomorrow weather" {
		t.Errorf("q = %q", got)
	}
	if got := q.Get("location"); got != "United States" {
		t.Errorf("default location = %q", got)
	}
}

func TestNewsLookup(t *testing.T) {
	news := map[string]any{
		"news_results": []map[string]any{
			{"title": "Park approved", "source": "Gazette", "snippet": "Council votes yes"},
			{"title": "Bridge reopens", "source": map[string]any{"name": "Daily"}, "snippet": "Traffic eases"},
			{"title": "Library expands", "source": "Gazette", "snippet": "New wing"},
			{"title": "Fourth story", "source": "Extra", "snippet": "dropped"},
		},
	}

	srv := newSearchServer(t, http.StatusOK, news)
	n := providers.NewNews(newSearch(t, srv, "key"), newProviderConfig(t), discard)

	got := n.Lookup(context.Background(), "news", "Austin")

	want := "Recent news for Austin:\n\n" +
		"• Park approved (Gazette)\n  Council votes yes\n\n" +
		"• Bridge reopens (Daily)\n  Traffic eases\n\n" +
		"• Library expands (Gazette)\n  New wing"
	if got != want {
		t.Errorf("Lookup() =\n%q\nwant\n%q", got, want)
	}

	q := srv.last(t)
	if q.Get("tbm") != "nws" || q.Get("num") != "3" || q.Get("q") != "Austin news news" {
		t.Errorf("unexpected params: %v", q)
	}
}

func TestNewsFallbacks(t *testing.T) {
	t.Run("organic", func(t *testing.T) {
		srv := newSearchServer(t, http.StatusOK, map[string]any{
			"organic_results": []map[string]any{
				{"title": "City page", "snippet": "Latest updates"},
			},
		})
		n := providers.NewNews(newSearch(t, srv, "key"), newProviderConfig(t), discard)

		got := n.Lookup(context.Background(), "headlines", "Reno")
		if want := "News for Reno:\n\n• City page\n  Latest updates"; got != want {
			t.Errorf("Lookup() = %q, want %q", got, want)
		}
	})

	t.Run("empty", func(t *testing.T) {
		srv := newSearchServer(t, http.StatusOK, map[string]any{})
		n := providers.NewNews(newSearch(t, srv, "key"), newProviderConfig(t), discard)

		got := n.Lookup(context.Background(), "headlines", "Reno")
		if want := "No recent news found for Reno"; got != want {
			t.Errorf("Lookup() = %q, want %q", got, want)
		}
	})
}

func TestLookupFailures(t *testing.T) {
	t.Run("missing key makes no request", func(t *testing.T) {
		srv := newSearchServer(t, http.StatusOK, map[string]any{})
		search := newSearch(t, srv, "")
		cfg := newProviderConfig(t)

		w := providers.NewWeather(search, cfg, discard).Lookup(context.Background(), "weather", "SF")
		n := providers.NewNews(search, cfg, discard).Lookup(context.Background(), "news", "SF")

		for _, got := range []string{w, n} {
			if got != cfg.MissingKey() {
				t.Errorf("Lookup() = %q, want %q", got, cfg.MissingKey())
			}
			if !strings.Contains(got, "COURIER_SEARCH_API_KEY") {
				t.Errorf("missing key text does not name the variable: %q", got)
			}
		}
		if len(srv.requests) != 0 {
			t.Errorf("requests = %d, want 0", len(srv.requests))
		}
	})

	t.Run("search error", func(t *testing.T) {
		srv := newSearchServer(t, http.StatusUnauthorized, map[string]any{"error": "Invalid API key."})
		search := newSearch(t, srv, "bad")
		cfg := newProviderConfig(t)

		w := providers.NewWeather(search, cfg, discard).Lookup(context.Background(), "weather", "SF")
		if !strings.HasPrefix(w, "Error fetching weather data: ") || !strings.Contains(w, "Invalid API key.") {
			t.Errorf("weather = %q", w)
		}

		n := providers.NewNews(search, cfg, discard).Lookup(context.Background(), "news", "SF")
		if !strings.HasPrefix(n, "Error fetching news data: ") {
			t.Errorf("news = %q", n)
		}
		if strings.Contains(w+n, "bad") {
			t.Error("api key leaked into provider text")
		}
	})
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_NEWS_COUNT", "5")
	t.Setenv("TEST_DEFAULT_LOCATION", "Canada")

	cfg := &providers.Config{}
	env := &providers.Env{NewsCount: "TEST_NEWS_COUNT", DefaultLocation: "TEST_DEFAULT_LOCATION"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}

	if cfg.NewsCount != 5 || cfg.DefaultLocation != "Canada" {
		t.Errorf("config = %+v", cfg)
	}

	bad := &providers.Config{NewsCount: -1}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for negative news_count")
	}
}
