package model

import "time"

// AnswerNil marks a question that was presented but never meaningfully
// answered. Distinct from an absent key, which means "never attempted".
const AnswerNil = "NIL"

// AssessmentQuestion is a snapshot entry on an assessment. The texts are
// frozen at generation time so later edits to the interview cannot change a
// candidate's question set.
type AssessmentQuestion struct {
	ID             string `json:"id" bson:"id"`
	SequenceNumber int    `json:"sequenceNumber" bson:"sequenceNumber"`
	Text           string `json:"text" bson:"text"`
}

// TechnicalAssessment is a follow-up technical round for an analyzed
// conversation. Questions, transcript and the answer sheet are embedded so
// analysis commits atomically in one document write.
type TechnicalAssessment struct {
	ID             string               `json:"id" bson:"_id,omitempty"`
	InterviewID    string               `json:"interviewId,omitempty" bson:"interviewId,omitempty"`
	ConversationID string               `json:"conversationId" bson:"conversationId"`
	Questions      []AssessmentQuestion `json:"questions" bson:"questions"`
	Transcript     []ConversationTurn   `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Answers        map[string]string    `json:"answers,omitempty" bson:"answers,omitempty"`
	IsCompleted    bool                 `json:"isCompleted" bson:"isCompleted"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// SetQuestions snapshots the question texts with IDs and dense sequencing.
func (a *TechnicalAssessment) SetQuestions(texts []string, newID func() string) {
	a.Questions = make([]AssessmentQuestion, 0, len(texts))
	for i, text := range texts {
		a.Questions = append(a.Questions, AssessmentQuestion{
			ID:             newID(),
			SequenceNumber: i + 1,
			Text:           text,
		})
	}
}

// IsValidAnswer reports whether an answer string carries real content.
func IsValidAnswer(text string) bool {
	return text != "" && text != AnswerNil
}

// AnsweredCount returns how many questions have a substantive answer.
func (a *TechnicalAssessment) AnsweredCount() int {
	count := 0
	for _, q := range a.Questions {
		if IsValidAnswer(a.Answers[q.ID]) {
			count++
		}
	}
	return count
}

// CompletionPercentage returns answered/total rounded to one decimal.
func (a *TechnicalAssessment) CompletionPercentage() float64 {
	total := len(a.Questions)
	if total == 0 {
		return 0
	}
	pct := float64(a.AnsweredCount()) / float64(total) * 100
	return float64(int(pct*10+0.5)) / 10
}

// QuestionBank is a curated per-role question set used as a generation
// fallback tier.
type QuestionBank struct {
	Key       string    `json:"-" bson:"_id"`
	Role      string    `json:"role" bson:"role"`
	Questions []string  `json:"questions" bson:"questions"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// QAPair is a question with its recorded answer, for display.
type QAPair struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QAPairs returns all question-answer pairs in sequence order. Questions
// without a recorded answer report the NIL sentinel.
func (a *TechnicalAssessment) QAPairs() []QAPair {
	pairs := make([]QAPair, 0, len(a.Questions))
	for _, q := range a.Questions {
		answer, ok := a.Answers[q.ID]
		if !ok || answer == "" {
			answer = AnswerNil
		}
		pairs = append(pairs, QAPair{
			Number:   q.SequenceNumber,
			Question: q.Text,
			Answer:   answer,
		})
	}
	return pairs
}
