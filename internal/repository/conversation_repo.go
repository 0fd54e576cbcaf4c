package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voiceform/internal/model"
)

// ConversationRepo handles MongoDB operations for voice conversations
type ConversationRepo interface {
	Create(ctx context.Context, conv *model.VoiceConversation) error
	GetByID(ctx context.Context, id string) (*model.VoiceConversation, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.VoiceConversation, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.VoiceConversation, error)
	Update(ctx context.Context, conv *model.VoiceConversation) error
	Delete(ctx context.Context, id string) error
	// ClearFormRef nulls the weak interview reference when a form is deleted
	ClearFormRef(ctx context.Context, formID string) error
}

type conversationRepo struct {
	collection *mongo.Collection
}

// NewConversationRepo creates a new conversation repository
func NewConversationRepo(db *mongo.Database) ConversationRepo {
	return &conversationRepo{
		collection: db.Collection("voice_conversations"),
	}
}

func (r *conversationRepo) Create(ctx context.Context, conv *model.VoiceConversation) error {
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, conv)
	return err
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*model.VoiceConversation, error) {
	var conv model.VoiceConversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.VoiceConversation, error) {
	var conv model.VoiceConversation
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) ListRecent(ctx context.Context, limit int64) ([]*model.VoiceConversation, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []*model.VoiceConversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepo) Update(ctx context.Context, conv *model.VoiceConversation) error {
	conv.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": conv.ID}, conv)
	return err
}

func (r *conversationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *conversationRepo) ClearFormRef(ctx context.Context, formID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"interviewId": formID},
		bson.M{"$unset": bson.M{"interviewId": ""}},
	)
	return err
}
