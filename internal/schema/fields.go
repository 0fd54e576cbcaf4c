package schema

import (
	"fmt"
	"strings"

	"voiceform/internal/model"
)

const maxLabelLen = 40

// The three baseline profile fields are always present so the voice agent can
// verify candidate identity even on an interview with zero custom questions.
var profileFields = []model.VerificationField{
	{
		Key:         "name",
		Label:       "Full Name",
		Description: "Candidate's full name as stated in the conversation",
		Required:    true,
		Source:      model.FieldSourceProfile,
	},
	{
		Key:         "qualification",
		Label:       "Highest Qualification",
		Description: "Highest qualification: degree, specialization and graduation year",
		Required:    true,
		Source:      model.FieldSourceProfile,
	},
	{
		Key:         "experience",
		Label:       "Years of Experience",
		Description: "Total years of relevant experience (0 is a valid answer)",
		Required:    true,
		Source:      model.FieldSourceProfile,
	},
}

// Interrogative lead-ins stripped before deriving a heuristic label.
// Longest variants first so the most specific match wins.
var questionPrefixes = []string{
	"can you tell me about your",
	"can you tell me about",
	"could you describe your",
	"could you describe",
	"walk me through your",
	"walk me through",
	"tell me about your",
	"tell me about",
	"what is your",
	"what are your",
	"what was your",
	"what is the",
	"what do you",
	"how do you",
	"how would you",
	"do you have",
	"have you ever",
	"describe your",
	"describe",
	"explain",
	"share your",
	"share",
}

var labelStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "do": true, "does": true, "did": true, "you": true,
	"your": true, "yours": true, "me": true, "my": true, "we": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "and": true, "or": true, "any": true, "some": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"about": true, "that": true, "this": true, "what": true, "which": true,
	"how": true, "when": true, "where": true, "why": true, "who": true,
	"please": true, "would": true, "could": true, "can": true,
}

// HeuristicLabel derives a short title-cased label from a raw question: strip
// the interrogative lead-in, drop stopwords, keep the first four words. When
// stopword removal eats everything, the first four raw words are used instead.
func HeuristicLabel(question string) string {
	text := strings.TrimSpace(question)
	text = strings.TrimRight(text, "?.!: ")
	lower := strings.ToLower(text)

	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			text = text[len(prefix)+1:]
			break
		}
	}

	raw := strings.Fields(text)
	kept := make([]string, 0, len(raw))
	for _, word := range raw {
		if !labelStopwords[strings.ToLower(strings.Trim(word, ",.;:'\""))] {
			kept = append(kept, word)
		}
	}
	if len(kept) == 0 {
		kept = raw
	}
	if len(kept) > 4 {
		kept = kept[:4]
	}

	for i, word := range kept {
		kept[i] = titleWord(strings.Trim(word, ",.;:'\""))
	}
	return clampLabel(strings.Join(kept, " "))
}

// NormalizeFieldLabel picks between an LLM-provided label and the heuristic.
// The LLM label is discarded when it is empty, too long, a verbatim echo of
// the question, or wordy enough (5+ spaces) to read like a sentence.
func NormalizeFieldLabel(question, llmLabel string) string {
	label := strings.TrimSpace(llmLabel)
	if label == "" ||
		len(label) > maxLabelLen ||
		strings.EqualFold(label, strings.TrimSpace(question)) ||
		strings.Count(label, " ") >= 5 {
		return HeuristicLabel(question)
	}
	return label
}

// BuildFields synthesizes the verification-field list for an interview: the
// three fixed profile fields followed by one field per question in sequence
// order. summaries may be nil (summarizer disabled or failed); every question
// then falls back to its heuristic label. Keys are unique across the whole
// list; profile keys are pre-seeded into the used set.
func BuildFields(form *model.InterviewForm, summaries map[string]model.QuestionSummary) []model.VerificationField {
	fields := make([]model.VerificationField, 0, 3)
	used := make(map[string]bool)
	for _, f := range profileFields {
		fields = append(fields, f)
		used[f.Key] = true
	}
	if form == nil {
		return fields
	}

	for i, q := range form.Questions {
		summary := summaries[q.ID]
		label := NormalizeFieldLabel(q.Text, summary.Label)

		base := Slugify(summary.Key, "")
		if base == "" {
			base = Slugify(label, fieldFallbackKey(i))
		}
		key := EnsureUnique(base, used)

		description := strings.TrimSpace(summary.Summary)
		if description == "" {
			description = "Candidate's answer to: " + q.Text
		}

		fields = append(fields, model.VerificationField{
			Key:         key,
			Label:       label,
			Description: description,
			Required:    true,
			Source:      model.FieldSourceQuestion,
			QuestionID:  q.ID,
			HelperText:  q.Text,
		})
	}
	return fields
}

func fieldFallbackKey(index int) string {
	return fmt.Sprintf("question_%d", index+1)
}

func titleWord(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func clampLabel(label string) string {
	if len(label) <= maxLabelLen {
		return label
	}
	cut := label[:maxLabelLen]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
