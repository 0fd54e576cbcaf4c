package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"voiceform/internal/config"
	"voiceform/internal/llm"
	"voiceform/internal/repository"
)

// QuestionProvider is one tier of the assessment question fallback chain.
// Providers are tried in order until the target count is met, so an upstream
// outage can never block assessment generation.
type QuestionProvider interface {
	Name() string
	Provide(ctx context.Context, role string, need int) []string
}

// FillQuestions tries providers in order, collecting case-insensitively
// unique questions in first-seen order, and stops once target is reached.
func FillQuestions(ctx context.Context, role string, target int, providers []QuestionProvider) []string {
	collected := make([]string, 0, target)
	seen := make(map[string]bool)

	for _, provider := range providers {
		if len(collected) >= target {
			break
		}
		for _, q := range provider.Provide(ctx, role, target-len(collected)) {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			lower := strings.ToLower(q)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			collected = append(collected, q)
			if len(collected) >= target {
				break
			}
		}
	}
	return collected
}

// Generator asks the chat model for role-specific technical questions.
type Generator struct {
	cfg    *config.AIConfig
	client *llm.Client
	logger *zap.Logger
}

// NewGenerator creates a role question generator
func NewGenerator(cfg *config.AIConfig, client *llm.Client, logger *zap.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// Generate returns up to count unique questions for the role. Examples, when
// given, are style guidance only. Any failure returns an empty list so the
// caller can fall through to the next provider tier.
func (g *Generator) Generate(ctx context.Context, role string, examples []string, count int) []string {
	if !g.cfg.IsEnabled() {
		return nil
	}

	prompt := fmt.Sprintf(
		"Generate exactly %d unique technical interview questions for a %s candidate.\n"+
			"Rules:\n"+
			"- each question under 22 words\n"+
			"- no yes/no questions\n"+
			"- each question covers a distinct subtopic of the role\n",
		count, role)
	if len(examples) > 0 {
		prompt += "\nThe interviewer previously asked questions in this style (do NOT copy them, match the tone only):\n"
		for i, ex := range examples {
			prompt += fmt.Sprintf("%d. %s\n", i+1, ex)
		}
	}

	content, err := g.client.Complete(ctx, llm.ChatRequest{
		Model:       g.cfg.Models.Generator,
		Temperature: 0.7,
		Messages: []map[string]string{
			{"role": "user", "content": prompt},
		},
		ResponseFormat: map[string]interface{}{
			"type":        "json_schema",
			"json_schema": generatorSchema(count),
		},
	})
	if err != nil {
		g.logger.Warn("question generation failed", zap.String("role", role), zap.Error(err))
		return nil
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFences(content)), &parsed); err != nil {
		g.logger.Warn("failed to parse generated questions", zap.String("role", role), zap.Error(err))
		return nil
	}

	// Dedupe case-insensitively, first seen wins, then cap at count.
	seen := make(map[string]bool)
	unique := make([]string, 0, count)
	for _, q := range parsed.Questions {
		q = strings.TrimSpace(q)
		lower := strings.ToLower(q)
		if q == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, q)
		if len(unique) == count {
			break
		}
	}
	return unique
}

func generatorSchema(count int) map[string]interface{} {
	return map[string]interface{}{
		"name": "AssessmentQuestions",
		"schema": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"questions": map[string]interface{}{
					"type":     "array",
					"items":    map[string]interface{}{"type": "string"},
					"minItems": count,
					"maxItems": count,
				},
			},
			"required": []string{"questions"},
		},
		"strict": true,
	}
}

// llmProvider is the preferred tier: model-generated questions, optionally
// with style examples. The second pass without examples mirrors the retry
// the flow layer used to do by hand.
type llmProvider struct {
	generator *Generator
	examples  []string
}

// NewLLMProvider wraps the generator as a fallback-chain tier.
func NewLLMProvider(generator *Generator, examples []string) QuestionProvider {
	return &llmProvider{generator: generator, examples: examples}
}

func (p *llmProvider) Name() string { return "llm" }

func (p *llmProvider) Provide(ctx context.Context, role string, need int) []string {
	return p.generator.Generate(ctx, role, p.examples, need)
}

// bankProvider serves curated questions seeded per role.
type bankProvider struct {
	repo   repository.QuestionBankRepo
	logger *zap.Logger
}

// NewBankProvider serves questions from the seeded role question bank.
func NewBankProvider(repo repository.QuestionBankRepo, logger *zap.Logger) QuestionProvider {
	return &bankProvider{repo: repo, logger: logger}
}

func (p *bankProvider) Name() string { return "bank" }

func (p *bankProvider) Provide(ctx context.Context, role string, _ int) []string {
	questions, err := p.repo.GetByRole(ctx, role)
	if err != nil {
		p.logger.Warn("question bank lookup failed", zap.String("role", role), zap.Error(err))
		return nil
	}
	return questions
}

// Generic technical questions usable for any role.
var sampleTemplates = []string{
	"Explain a fundamental concept in your field and why it matters.",
	"Describe a practical project you've worked on and your specific contribution.",
	"How would you approach debugging a complex technical problem under time pressure?",
}

type templateProvider struct{}

// NewTemplateProvider serves the generic sample questions.
func NewTemplateProvider() QuestionProvider { return templateProvider{} }

func (templateProvider) Name() string { return "templates" }

func (templateProvider) Provide(_ context.Context, _ string, _ int) []string {
	return sampleTemplates
}

// Last tier: deterministic role-formatted questions. Enough patterns exist
// to cover any realistic target count on their own.
var roleQuestionPatterns = []string{
	"What core skills are most important for a %s, and which is your strongest?",
	"Describe a challenging problem you solved that a %s typically faces.",
	"Which tools or technologies do you rely on most as a %s, and why?",
	"How do you keep your %s skills current as the field changes?",
	"Walk through how you would design a small project typical for a %s.",
	"What quality or testing practices matter most in %s work?",
}

type roleFallbackProvider struct{}

// NewRoleFallbackProvider serves deterministic role-formatted questions.
func NewRoleFallbackProvider() QuestionProvider { return roleFallbackProvider{} }

func (roleFallbackProvider) Name() string { return "role_fallback" }

func (roleFallbackProvider) Provide(_ context.Context, role string, _ int) []string {
	questions := make([]string, 0, len(roleQuestionPatterns))
	for _, pattern := range roleQuestionPatterns {
		questions = append(questions, fmt.Sprintf(pattern, role))
	}
	return questions
}
