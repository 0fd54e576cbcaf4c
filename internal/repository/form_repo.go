package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voiceform/internal/model"
)

// FormRepo handles MongoDB operations for interview forms
type FormRepo interface {
	Create(ctx context.Context, form *model.InterviewForm) error
	GetByID(ctx context.Context, id string) (*model.InterviewForm, error)
	List(ctx context.Context) ([]*model.InterviewForm, error)
	Update(ctx context.Context, form *model.InterviewForm) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new interview form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("interview_forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, form *model.InterviewForm) error {
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, form)
	return err
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.InterviewForm, error) {
	var form model.InterviewForm
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) List(ctx context.Context) ([]*model.InterviewForm, error) {
	opts := options.Find().SetSort(bson.M{"updatedAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []*model.InterviewForm
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// Update replaces the whole form document so question mutations and
// renumbering land in one atomic write.
func (r *formRepo) Update(ctx context.Context, form *model.InterviewForm) error {
	form.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": form.ID}, form)
	return err
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *formRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
