package questions

import "github.com/abhisek/cermat/internal/llm"

// QuestionSetSchema defines the JSON schema for question set generation.
var QuestionSetSchema = &llm.Schema{
	Name:        "cermat-question-set",
	Description: "A set of exam practice questions with answers, explanations and hints",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Short unique identifier within the set",
						},
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"MULTIPLE_CHOICE", "TRUE_FALSE", "FILL_IN"},
							"description": "How the learner answers",
						},
						"questionText": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner, in Czech",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "4 options for MULTIPLE_CHOICE, [\"Ano\", \"Ne\"] for TRUE_FALSE, empty for FILL_IN",
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The correct answer, exactly equal to one of the options when options are given",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Short explanation of the solution, shown after answering",
						},
						"hint": map[string]any{
							"type":        "string",
							"description": "A nudge towards the solution that does not reveal the answer",
						},
					},
					"required":             []any{"id", "type", "questionText", "options", "correctAnswer", "explanation", "hint"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
