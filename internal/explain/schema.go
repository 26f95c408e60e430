package explain

import "github.com/abhisek/quizdeck/internal/llm"

// ExplanationSchema defines the JSON schema for drafted explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "quiz-explanations",
	Description: "One short explanation per quiz question, keyed by element index",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index": map[string]any{
							"type":        "integer",
							"description": "Element index of the question being explained",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right (1-3 sentences)",
						},
					},
					"required":             []any{"index", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"explanations"},
		"additionalProperties": false,
	},
}
