package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"voiceform/internal/model"
)

// AssessmentRepo handles MongoDB operations for technical assessments
type AssessmentRepo interface {
	Create(ctx context.Context, assessment *model.TechnicalAssessment) error
	GetByID(ctx context.Context, id string) (*model.TechnicalAssessment, error)
	Update(ctx context.Context, assessment *model.TechnicalAssessment) error
	Delete(ctx context.Context, id string) error
	DeleteByConversation(ctx context.Context, conversationID string) error
	CountByConversation(ctx context.Context, conversationID string) (int64, error)
	// ClearFormRef nulls the weak interview reference when a form is deleted
	ClearFormRef(ctx context.Context, formID string) error
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("technical_assessments"),
	}
}

func (r *assessmentRepo) Create(ctx context.Context, assessment *model.TechnicalAssessment) error {
	assessment.CreatedAt = time.Now()
	assessment.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, assessment)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.TechnicalAssessment, error) {
	var assessment model.TechnicalAssessment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assessment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Update replaces the whole assessment document: transcript, answer sheet and
// completion flag commit together.
func (r *assessmentRepo) Update(ctx context.Context, assessment *model.TechnicalAssessment) error {
	assessment.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": assessment.ID}, assessment)
	return err
}

func (r *assessmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *assessmentRepo) DeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"conversationId": conversationID})
	return err
}

func (r *assessmentRepo) CountByConversation(ctx context.Context, conversationID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"conversationId": conversationID})
}

func (r *assessmentRepo) ClearFormRef(ctx context.Context, formID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"interviewId": formID},
		bson.M{"$unset": bson.M{"interviewId": ""}},
	)
	return err
}
