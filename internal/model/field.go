package model

// FieldSource tells where a verification field came from
type FieldSource string

const (
	FieldSourceProfile  FieldSource = "profile"  // fixed baseline candidate data
	FieldSourceQuestion FieldSource = "question" // synthesized from an interview question
)

// VerificationField is a synthesized form-field descriptor. The same field
// set feeds both the structured-extraction JSON schema and the voice agent's
// verify_information tool schema.
type VerificationField struct {
	Key         string      `json:"key"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Source      FieldSource `json:"source"`
	// Only set when Source == FieldSourceQuestion
	QuestionID string `json:"questionId,omitempty"`
	HelperText string `json:"helperText,omitempty"`
}
