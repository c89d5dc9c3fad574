package serpapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Response is the subset of a SerpAPI Google search payload used by the
// weather and news providers.
type Response struct {
	WeatherResult  *WeatherResult  `json:"weather_result,omitempty"`
	AnswerBox      *AnswerBox      `json:"answer_box,omitempty"`
	OrganicResults []OrganicResult `json:"organic_results,omitempty"`
	NewsResults    []NewsResult    `json:"news_results,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// Weather returns the weather box of the response, preferring the dedicated
// weather_result block over an answer box of type weather_result.
func (r *Response) Weather() (*WeatherResult, bool) {
	if r.WeatherResult != nil {
		return r.WeatherResult, true
	}
	if r.AnswerBox != nil && r.AnswerBox.Type == "weather_result" {
		temp := r.AnswerBox.Temperature
		if temp != "" && r.AnswerBox.Unit != "" {
			temp = Text(string(temp) + "°" + string(r.AnswerBox.Unit))
		}
		return &WeatherResult{
			Location:    r.AnswerBox.Location,
			Temperature: temp,
			Weather:     r.AnswerBox.Weather,
		}, true
	}
	return nil, false
}

// WeatherResult is a current-conditions weather box.
type WeatherResult struct {
	Location    Text `json:"location"`
	Temperature Text `json:"temperature"`
	Weather     Text `json:"weather"`
}

// AnswerBox is the Google answer box; only weather answer boxes are used.
type AnswerBox struct {
	Type        string `json:"type"`
	Location    Text   `json:"location"`
	Temperature Text   `json:"temperature"`
	Unit        Text   `json:"unit"`
	Weather     Text   `json:"weather"`
}

// OrganicResult is a regular web result.
type OrganicResult struct {
	Title   Text `json:"title"`
	Link    Text `json:"link"`
	Snippet Text `json:"snippet"`
}

// NewsResult is a Google News result.
type NewsResult struct {
	Title   Text `json:"title"`
	Link    Text `json:"link"`
	Source  Text `json:"source"`
	Snippet Text `json:"snippet"`
	Date    Text `json:"date"`
}

// Text decodes loosely typed SerpAPI fields. Strings decode as-is, numbers
// and booleans decode to their literal form, and objects decode to their
// "name" (or "title") member, which covers news sources reported as
// {"name": "..."}.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{':
		var obj struct {
			Name  string `json:"name"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Name != "" {
			*t = Text(obj.Name)
		} else {
			*t = Text(obj.Title)
		}
	case '[':
		*t = ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*t = Text(n.String())
			return nil
		}
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(b))
	}
	return nil
}

// Or returns t, or fallback when t is empty.
func (t Text) Or(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}
