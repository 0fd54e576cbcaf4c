package schema

import (
	"encoding/json"

	"voiceform/internal/model"
)

// BuildExtractionSchema builds the strict json_schema payload for structured
// extraction: every field key is a required string property and no extra
// properties are allowed, so the model cannot omit or invent keys.
func BuildExtractionSchema(fields []model.VerificationField) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		properties[f.Key] = map[string]interface{}{
			"type":        "string",
			"description": f.Description,
		}
		required = append(required, f.Key)
	}

	return map[string]interface{}{
		"name": "CandidateAnswers",
		"schema": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties":           properties,
			"required":             required,
		},
		"strict": true,
	}
}

// BuildVerifyTool builds the verify_information function schema handed to the
// realtime voice agent. The same field list drives both this and the
// extraction schema so the agent verifies exactly what extraction collects.
func BuildVerifyTool(fields []model.VerificationField) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		description := f.Description
		if description == "" {
			description = f.Label
		}
		properties[f.Key] = map[string]interface{}{
			"type":        "string",
			"description": description,
		}
		if f.Required {
			required = append(required, f.Key)
		}
	}

	return map[string]interface{}{
		"type":        "function",
		"name":        "verify_information",
		"description": "Show verification popup for the candidate to confirm their information",
		"parameters": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

// BuildExtractorMessages builds the two-message extraction chat payload: a
// system instruction with a per-field guide, and the raw transcript
// serialized as JSON in the user message.
func BuildExtractorMessages(turns []model.ConversationTurn, fields []model.VerificationField) []map[string]string {
	var guide string
	for _, f := range fields {
		guide += "\n- " + f.Key + ": " + f.Description
	}

	system := "Extract concise answers ONLY from what the USER said in the conversation. " +
		"Fill every field below; use an empty string when the user never provided the information. " +
		"Return JSON that strictly matches the provided schema.\n\nFields:" + guide

	transcript, err := json.Marshal(turns)
	if err != nil {
		transcript = []byte("[]")
	}

	return []map[string]string{
		{"role": "system", "content": system},
		{"role": "user", "content": string(transcript)},
	}
}
