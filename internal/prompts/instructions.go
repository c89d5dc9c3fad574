package prompts

const weatherInstructions = `Provide a helpful, conversational response about the weather. Be specific and include relevant details.`

const newsInstructions = `Provide a helpful summary of the relevant news. Be informative and highlight the most important points.`

const combineInstructions = `Provide a comprehensive, well-organized response that addresses both topics.`

var instructions = map[Stage]string{
	StageWeather: weatherInstructions,
	StageNews:    newsInstructions,
	StageCombine: combineInstructions,
}

// Instructions returns the instructions appended to the prompt for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
