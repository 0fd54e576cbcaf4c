package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/model"
)

// ExtractionPhase identifies which stage of answer extraction produced a
// result set.
type ExtractionPhase string

const (
	PhaseHeuristic   ExtractionPhase = "heuristic"
	PhaseLLMFallback ExtractionPhase = "llm_fallback"
)

// AssessmentExtractor maps assessment questions to candidate answers in two
// phases: cheap keyword matching against the transcript first, then a single
// LLM call — but only when the heuristic produced no answers at all. The
// all-or-nothing escalation keeps one run's answers from mixing heuristic
// and model output of uneven quality.
type AssessmentExtractor struct {
	cfg    *config.AIConfig
	client *llm.Client
	logger *zap.Logger
}

// NewAssessmentExtractor creates an assessment answer extractor
func NewAssessmentExtractor(cfg *config.AIConfig, client *llm.Client, logger *zap.Logger) *AssessmentExtractor {
	return &AssessmentExtractor{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// ExtractAnswers returns a map keyed "q{sequence}" with one entry per
// question. Values may be empty strings; the flow layer normalizes those to
// the NIL sentinel when persisting.
func (x *AssessmentExtractor) ExtractAnswers(ctx context.Context, turns []model.ConversationTurn, questions []model.AssessmentQuestion) map[string]string {
	answers := HeuristicAnswers(turns, questions)

	if ShouldEscalate(answers) {
		x.logger.Info("heuristic matching found no answers, escalating",
			zap.String("phase", string(PhaseLLMFallback)),
			zap.Int("questions", len(questions)))
		return x.llmAnswers(ctx, turns, questions)
	}
	return answers
}

// HeuristicAnswers is phase one: for each question, find the assistant turn
// that asked it (enough keyword hits) and take the next user turn as the
// answer. First match wins.
func HeuristicAnswers(turns []model.ConversationTurn, questions []model.AssessmentQuestion) map[string]string {
	ordered := make([]model.ConversationTurn, len(turns))
	copy(ordered, turns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		key := fmt.Sprintf("q%d", q.SequenceNumber)
		answers[key] = ""

		keywords := QuestionKeywords(q.Text)
		needed := len(keywords)
		if needed > 3 {
			needed = 3
		}

		for i, turn := range ordered {
			if turn.Role != "assistant" {
				continue
			}
			if countKeywordHits(turn.Content, keywords) < needed {
				continue
			}
			// The assistant asked this question here; the next user turn
			// is taken as the answer.
			for _, reply := range ordered[i+1:] {
				if reply.Role == "user" {
					answers[key] = strings.TrimSpace(reply.Content)
					break
				}
			}
			break
		}
	}
	return answers
}

// QuestionKeywords tokenizes a question into its distinguishing words —
// anything longer than four characters.
func QuestionKeywords(text string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ",.;:?!'\"()")
		if len(word) > 4 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func countKeywordHits(content string, keywords []string) int {
	lower := strings.ToLower(content)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}

// ShouldEscalate triggers phase two only when phase one produced zero
// non-empty answers across all questions.
func ShouldEscalate(answers map[string]string) bool {
	for _, a := range answers {
		if a != "" {
			return false
		}
	}
	return true
}

func (x *AssessmentExtractor) llmAnswers(ctx context.Context, turns []model.ConversationTurn, questions []model.AssessmentQuestion) map[string]string {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		answers[fmt.Sprintf("q%d", q.SequenceNumber)] = ""
	}
	if !x.cfg.IsEnabled() {
		return answers
	}

	var questionList strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&questionList, "Q%d: %s\n", q.SequenceNumber, q.Text)
	}
	var transcript strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&transcript, "%s: %s\n", turn.Role, turn.Content)
	}

	prompt := fmt.Sprintf(
		"Extract the candidate's answers to these questions from the conversation.\n\n"+
			"Questions:\n%s\nConversation:\n%s\n"+
			"Rules:\n"+
			"- extract only substantive answers the user actually gave, in chronological order\n"+
			"- if the user gave a real answer and later said something like \"I don't know\", keep the real answer\n"+
			"- use an empty string for questions that were never answered\n"+
			"Return a flat JSON object: {\"q1\": \"answer\", \"q2\": \"answer\", ...}",
		questionList.String(), transcript.String())

	content, err := x.client.Complete(ctx, llm.ChatRequest{
		Model:       x.cfg.Models.Analysis,
		Temperature: 0.1,
		Messages: []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		x.logger.Warn("llm answer extraction failed", zap.Error(err))
		return answers
	}

	var parsed map[string]string
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &parsed); err != nil {
		x.logger.Warn("failed to parse extracted answers", zap.Error(err))
		return answers
	}

	for key := range answers {
		if value, ok := parsed[key]; ok {
			answers[key] = strings.TrimSpace(value)
		}
	}
	return answers
}
