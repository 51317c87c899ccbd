package quizgen

// QuizSchema is the JSON schema every generated quiz must conform to:
// one array-valued field "questions", each element with an integer id, the
// question text, exactly four options, the correct option index and a short
// mentor tip. All fields mandatory. An empty questions array is well-formed
// here; the generator reports it separately as an empty result.
var QuizSchema = &Schema{
	Name: "quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "Sequential question number, unique within the quiz",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text shown to the user",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 answer options",
						},
						"correctAnswerIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
						"mentorTip": map[string]any{
							"type":        "string",
							"description": "Short rationale (at most ~15 words) explaining why the correct option is right",
						},
					},
					"required": []any{"id", "question", "options", "correctAnswerIndex", "mentorTip"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
