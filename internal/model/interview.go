package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QuestionType defines how a question is rendered in the builder UI
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeTextarea QuestionType = "textarea"
)

// QuestionEntry is a single interview question. The ID is stable across
// reordering; SequenceNumber is derived and kept dense (1..N).
type QuestionEntry struct {
	ID             string            `json:"id" bson:"id"`
	SequenceNumber int               `json:"sequenceNumber" bson:"sequenceNumber"`
	Text           string            `json:"text" bson:"text"`
	Type           QuestionType      `json:"type" bson:"type"`
	Metadata       map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// InterviewForm is an interview template with its ordered questions embedded.
// Questions live inside the form document so mutations and renumbering commit
// as a single write.
type InterviewForm struct {
	ID        string          `json:"id" bson:"_id,omitempty"`
	Title     string          `json:"title" bson:"title"`
	Role      string          `json:"role,omitempty" bson:"role,omitempty"`
	Summary   string          `json:"summary,omitempty" bson:"summary,omitempty"`
	AIPrompt  string          `json:"aiPrompt,omitempty" bson:"aiPrompt,omitempty"`
	Questions []QuestionEntry `json:"questions" bson:"questions"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// AppendQuestions adds questions to the end of the form, assigning IDs and
// dense sequence numbers.
func (f *InterviewForm) AppendQuestions(texts []string) {
	next := len(f.Questions) + 1
	for _, text := range texts {
		f.Questions = append(f.Questions, QuestionEntry{
			ID:             "q_" + uuid.New().String()[:8],
			SequenceNumber: next,
			Text:           text,
			Type:           QuestionTypeTextarea,
		})
		next++
	}
}

// RemoveQuestion deletes a question by ID and renumbers the remainder.
// Returns false when the ID is not on this form.
func (f *InterviewForm) RemoveQuestion(questionID string) bool {
	for i, q := range f.Questions {
		if q.ID == questionID {
			f.Questions = append(f.Questions[:i], f.Questions[i+1:]...)
			f.Renumber()
			return true
		}
	}
	return false
}

// Renumber rewrites sequence numbers to a dense 1..N range in current order.
func (f *InterviewForm) Renumber() {
	for i := range f.Questions {
		f.Questions[i].SequenceNumber = i + 1
	}
}

// QuestionTexts returns the question strings in sequence order.
func (f *InterviewForm) QuestionTexts() []string {
	texts := make([]string, 0, len(f.Questions))
	for _, q := range f.Questions {
		texts = append(texts, q.Text)
	}
	return texts
}

// RoleLabel returns the role this interview targets, falling back to the title.
func (f *InterviewForm) RoleLabel() string {
	if f.Role != "" {
		return f.Role
	}
	return f.Title
}

// FreshnessToken is a cheap cache-invalidation value. It only moves forward
// because UpdatedAt is monotonically increasing.
func (f *InterviewForm) FreshnessToken() string {
	return fmt.Sprintf("%d:%d", f.UpdatedAt.UnixMilli(), len(f.Questions))
}

// QuestionSummary is the per-question enrichment produced by the intent
// summarizer: a short label, a suggested key, and a one-line summary.
type QuestionSummary struct {
	Label   string `json:"label"`
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Topic   string `json:"topic,omitempty"`
}
