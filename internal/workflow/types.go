package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	KeyRunID    = "run_id"
	KeyResearch = "research"
)

// Intent is the classified purpose of a request. The set is closed; every
// switch over Intent handles all four values.
type Intent string

// Recognized intents.
const (
	IntentWeather Intent = "weather"
	IntentNews    Intent = "news"
	IntentBoth    Intent = "both"
	IntentUnknown Intent = "unknown"
)

var intents = []Intent{
	IntentWeather,
	IntentNews,
	IntentBoth,
	IntentUnknown,
}

// Intents returns the list of valid intents.
func Intents() []Intent {
	return intents
}

// ParseIntent validates a string as a known intent.
func ParseIntent(s string) (Intent, error) {
	v := Intent(s)
	if !slices.Contains(intents, v) {
		return "", ErrInvalidIntent
	}
	return v, nil
}

// WantsWeather reports whether the weather step should run for this intent.
func (i Intent) WantsWeather() bool {
	switch i {
	case IntentWeather, IntentBoth:
		return true
	case IntentNews, IntentUnknown:
		return false
	}
	return false
}

// WantsNews reports whether the news step should run for this intent.
func (i Intent) WantsNews() bool {
	switch i {
	case IntentNews, IntentBoth:
		return true
	case IntentWeather, IntentUnknown:
		return false
	}
	return false
}

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single conversation entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a message authored by the user.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates a message authored by the assistant.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage creates a message carrying tool output.
func ToolMessage(content string) Message {
	return Message{Role: RoleTool, Content: content}
}

// Research is the record threaded through the workflow graph. It is a value
// type: the With* methods return a modified copy and never share the
// underlying Conversation or Trace arrays with the receiver, so a snapshot
// held by one step cannot be changed by another.
type Research struct {
	Conversation []Message `json:"conversation"`
	Location     string    `json:"location"`
	Intent       Intent    `json:"intent"`
	Weather      string    `json:"weather,omitempty"`
	News         string    `json:"news,omitempty"`
	Trace        []string  `json:"trace"`
}

// NewResearch creates the initial record for a request: a single user
// message, the raw location and an unknown intent.
func NewResearch(location, query string) Research {
	return Research{
		Conversation: []Message{UserMessage(query)},
		Location:     location,
		Intent:       IntentUnknown,
	}
}

// Query returns the content of the first message, which is the user request.
// Later messages never feed back into routing.
func (r Research) Query() string {
	if len(r.Conversation) == 0 {
		return ""
	}
	return r.Conversation[0].Content
}

// Last returns the most recent message and whether one exists.
func (r Research) Last() (Message, bool) {
	if len(r.Conversation) == 0 {
		return Message{}, false
	}
	return r.Conversation[len(r.Conversation)-1], true
}

// WithIntent returns a copy classified as intent at the given location.
func (r Research) WithIntent(intent Intent, location string) Research {
	r = r.clone()
	r.Intent = intent
	r.Location = location
	return r
}

// WithToolOutput returns a copy with the raw output of a capability
// appended as a tool message.
func (r Research) WithToolOutput(content string) Research {
	r = r.clone()
	r.Conversation = append(r.Conversation, ToolMessage(content))
	return r
}

// WithWeather returns a copy holding the formatted weather result and the
// matching assistant message.
func (r Research) WithWeather(result string) Research {
	r = r.clone()
	r.Weather = result
	r.Conversation = append(r.Conversation, AssistantMessage("Weather: "+result))
	return r
}

// WithNews returns a copy holding the formatted news result and the matching
// assistant message.
func (r Research) WithNews(result string) Research {
	r = r.clone()
	r.News = result
	r.Conversation = append(r.Conversation, AssistantMessage("News: "+result))
	return r
}

// WithFinal returns a copy whose conversation is replaced by a single
// assistant message.
func (r Research) WithFinal(content string) Research {
	r = r.clone()
	r.Conversation = []Message{AssistantMessage(content)}
	return r
}

// Visit returns a copy with step appended to the trace.
func (r Research) Visit(step string) Research {
	r = r.clone()
	r.Trace = append(r.Trace, step)
	return r
}

func (r Research) clone() Research {
	r.Conversation = slices.Clone(r.Conversation)
	r.Trace = slices.Clone(r.Trace)
	return r
}

// Result is the output of a completed workflow run.
type Result struct {
	ID           uuid.UUID `json:"id"`
	Intent       Intent    `json:"intent"`
	Location     string    `json:"location"`
	Response     string    `json:"response"`
	Conversation []Message `json:"conversation"`
	Trace        []string  `json:"trace"`
	CompletedAt  time.Time `json:"completed_at"`
}
