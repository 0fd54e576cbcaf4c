package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voiceform/internal/model"
)

// QuestionBankRepo stores curated assessment questions per role, used as a
// generation fallback when the LLM is unavailable.
type QuestionBankRepo interface {
	GetByRole(ctx context.Context, role string) ([]string, error)
	Upsert(ctx context.Context, role string, questions []string) error
}

type questionBankRepo struct {
	collection *mongo.Collection
}

// NewQuestionBankRepo creates a new question bank repository
func NewQuestionBankRepo(db *mongo.Database) QuestionBankRepo {
	return &questionBankRepo{
		collection: db.Collection("assessment_question_bank"),
	}
}

func (r *questionBankRepo) GetByRole(ctx context.Context, role string) ([]string, error) {
	var bank model.QuestionBank
	err := r.collection.FindOne(ctx, bson.M{"_id": bankKey(role)}).Decode(&bank)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bank.Questions, nil
}

func (r *questionBankRepo) Upsert(ctx context.Context, role string, questions []string) error {
	bank := model.QuestionBank{
		Key:       bankKey(role),
		Role:      role,
		Questions: questions,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": bank.Key}, bank, opts)
	return err
}

// bankKey makes role lookups case-insensitive
func bankKey(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
