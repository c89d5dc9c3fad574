package prompts

import (
	"fmt"
	"strings"
)

// Help is the final response for requests that match no known topic.
const Help = "I can help you with weather information and news. Please ask about the weather or recent news for a specific location."

// ComposeWeather builds the prompt that turns raw weather search output into
// a conversational answer.
func ComposeWeather(data, query, location string) string {
	return composeTopic("weather", StageWeather, data, query, location)
}

// ComposeNews builds the prompt that turns raw news search output into a
// summary.
func ComposeNews(data, query, location string) string {
	return composeTopic("news", StageNews, data, query, location)
}

func composeTopic(topic string, stage Stage, data, query, location string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on this %s data: %s\n", topic, data)
	fmt.Fprintf(&sb, "User asked: %s\n", query)
	fmt.Fprintf(&sb, "Location: %s\n\n", location)
	sb.WriteString(instructions[stage])
	return sb.String()
}

// ComposeCombine builds the prompt that merges the formatted weather and news
// answers. Both texts are embedded verbatim under labelled blocks.
func ComposeCombine(location, weather, news string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Combine this weather and news information for %s:\n\n", location)
	sb.WriteString("WEATHER:\n")
	sb.WriteString(weather)
	sb.WriteString("\n\nNEWS:\n")
	sb.WriteString(news)
	sb.WriteString("\n\n")
	sb.WriteString(instructions[StageCombine])
	return sb.String()
}

// NotFound is the final response when no step produced a result.
func NotFound(intent, location string) string {
	return fmt.Sprintf(
		"I couldn't find %s information for %s. Please try again with a different location or check your API keys.",
		intent, location,
	)
}

// ResponderFailure is substituted for a completion when the language
// responder fails, so the workflow can still reach its final step.
func ResponderFailure(topic string, err error) string {
	return fmt.Sprintf("Unable to generate %s response: %v", topic, err)
}
