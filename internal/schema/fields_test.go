package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceform/internal/model"
)

func TestHeuristicLabel(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Tell me about your experience with Python?", "Experience Python"},
		{"What is your expected salary?", "Expected Salary"},
		{"How do you handle production incidents under pressure?", "Handle Production Incidents Under"},
		{"Describe your leadership style.", "Leadership Style"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, HeuristicLabel(tt.question))
		})
	}
}

func TestHeuristicLabelAllStopwords(t *testing.T) {
	// Stopword removal eats everything, so raw words are kept instead.
	label := HeuristicLabel("Can you do this?")
	assert.NotEmpty(t, label)
	assert.LessOrEqual(t, len(label), maxLabelLen)
}

func TestNormalizeFieldLabel(t *testing.T) {
	question := "Tell me about your experience with Python?"

	t.Run("good llm label wins", func(t *testing.T) {
		assert.Equal(t, "Python Experience", NormalizeFieldLabel(question, "Python Experience"))
	})
	t.Run("empty falls back", func(t *testing.T) {
		assert.Equal(t, HeuristicLabel(question), NormalizeFieldLabel(question, "  "))
	})
	t.Run("too long falls back", func(t *testing.T) {
		long := strings.Repeat("x", maxLabelLen+1)
		assert.Equal(t, HeuristicLabel(question), NormalizeFieldLabel(question, long))
	})
	t.Run("question echo falls back", func(t *testing.T) {
		echo := "tell me about your experience with python?"
		assert.Equal(t, HeuristicLabel(question), NormalizeFieldLabel(question, echo))
	})
	t.Run("sentence-like falls back", func(t *testing.T) {
		wordy := "the label that reads like a sentence"
		assert.Equal(t, HeuristicLabel(question), NormalizeFieldLabel(question, wordy))
	})
}

func TestBuildFieldsProfileOnly(t *testing.T) {
	fields := BuildFields(nil, nil)

	require.Len(t, fields, 3)
	assert.Equal(t, "name", fields[0].Key)
	assert.Equal(t, "qualification", fields[1].Key)
	assert.Equal(t, "experience", fields[2].Key)
	for _, f := range fields {
		assert.True(t, f.Required)
		assert.Equal(t, model.FieldSourceProfile, f.Source)
	}
}

func TestBuildFieldsWithQuestions(t *testing.T) {
	form := &model.InterviewForm{
		ID: "f1",
		Questions: []model.QuestionEntry{
			{ID: "q_a", SequenceNumber: 1, Text: "Tell me about your experience with Python?"},
			{ID: "q_b", SequenceNumber: 2, Text: "What is your expected salary?"},
		},
	}
	summaries := map[string]model.QuestionSummary{
		"q_a": {Label: "Python Experience", Key: "python_experience", Summary: "Depth of Python background"},
	}

	fields := BuildFields(form, summaries)
	require.Len(t, fields, 5)

	// Summarized question uses the LLM label, key and summary.
	assert.Equal(t, "python_experience", fields[3].Key)
	assert.Equal(t, "Python Experience", fields[3].Label)
	assert.Equal(t, "Depth of Python background", fields[3].Description)
	assert.Equal(t, "q_a", fields[3].QuestionID)
	assert.Equal(t, model.FieldSourceQuestion, fields[3].Source)

	// Unsummarized question degrades to heuristics.
	assert.Equal(t, "Expected Salary", fields[4].Label)
	assert.Equal(t, "expected_salary", fields[4].Key)
	assert.Equal(t, "Candidate's answer to: What is your expected salary?", fields[4].Description)
	assert.Equal(t, "What is your expected salary?", fields[4].HelperText)
}

func TestBuildFieldsKeyCollisions(t *testing.T) {
	form := &model.InterviewForm{
		ID: "f1",
		Questions: []model.QuestionEntry{
			{ID: "q_a", SequenceNumber: 1, Text: "What is your total experience?"},
			{ID: "q_b", SequenceNumber: 2, Text: "What is your total experience?"},
		},
	}
	summaries := map[string]model.QuestionSummary{
		// Both collide with the fixed profile key.
		"q_a": {Label: "Experience", Key: "experience"},
		"q_b": {Label: "Experience", Key: "experience"},
	}

	fields := BuildFields(form, summaries)
	require.Len(t, fields, 5)

	keys := make(map[string]bool)
	for _, f := range fields {
		assert.False(t, keys[f.Key], "duplicate key %q", f.Key)
		keys[f.Key] = true
	}
	assert.Equal(t, "experience_2", fields[3].Key)
	assert.Equal(t, "experience_3", fields[4].Key)
}

func TestBuildFieldsUnsluggableQuestion(t *testing.T) {
	form := &model.InterviewForm{
		ID: "f1",
		Questions: []model.QuestionEntry{
			{ID: "q_a", SequenceNumber: 1, Text: "???"},
		},
	}

	fields := BuildFields(form, nil)
	require.Len(t, fields, 4)
	assert.Equal(t, "question_1", fields[3].Key)
}
