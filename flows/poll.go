package flows

import (
	"context"
	"strconv"
	"strings"

	"funbot/core/flow"
)

func pollDefinition() flow.Definition {
	return flow.Definition{
		Kind: KindPoll,
		Steps: []flow.Step{
			{
				Field:    "question",
				Prompt:   pollPromptQuestion,
				Validate: nonEmpty(emptyInputText),
			},
			{
				Field:    "optionCount",
				Prompt:   pollPromptCount,
				Validate: validOptionCount,
			},
			{
				Field:    "options",
				Prompt:   pollPromptOptions,
				Validate: validOptions,
				Terminal: true,
			},
		},
		// The terminal action is purely local: no provider involved.
		Finish: func(_ context.Context, data map[string]string) (flow.Effect, error) {
			return flow.SendPoll{
				Question:        data["question"],
				Options:         strings.Split(data["options"], "\n"),
				Anonymous:       true,
				MultipleAnswers: false,
			}, nil
		},
		AbortText: GenericFailText,
	}
}

func validOptionCount(input string, _ map[string]string) (string, error) {
	trimmed := strings.TrimSpace(input)
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return "", flow.Invalid(pollBadCount)
	}
	return strconv.Itoa(n), nil
}

// validOptions requires the newline-separated option list to match the
// count collected on the previous step; on mismatch the step is re-asked
// without touching the stored question or count.
func validOptions(input string, data map[string]string) (string, error) {
	want, err := strconv.Atoi(data["optionCount"])
	if err != nil {
		return "", err
	}
	if len(strings.Split(input, "\n")) != want {
		return "", flow.Invalid(pollCountMismatch)
	}
	return input, nil
}
