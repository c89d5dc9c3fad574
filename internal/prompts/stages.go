package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the workflow step a prompt is composed for.
type Stage string

// Prompted workflow stages.
const (
	StageWeather Stage = "weather"
	StageNews    Stage = "news"
	StageCombine Stage = "combine"
)

var stages = []Stage{
	StageWeather,
	StageNews,
	StageCombine,
}

// Stages returns the list of valid workflow stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known workflow stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
