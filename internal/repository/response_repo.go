package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// ResponseRepo handles MongoDB operations for evaluation responses. Responses
// are append-only: there is no update, a submission is stored exactly once.
type ResponseRepo interface {
	Create(ctx context.Context, resp *model.EvaluationResponse) error
	GetByID(ctx context.Context, id string) (*model.EvaluationResponse, error)
	GetByTemplateID(ctx context.Context, templateID string) ([]*model.EvaluationResponse, error)
	List(ctx context.Context) ([]*model.EvaluationResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteByTemplateID(ctx context.Context, templateID string) (int64, error)
	CountByTemplateID(ctx context.Context, templateID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository.
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("evaluation_responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, resp *model.EvaluationResponse) error {
	_, err := r.collection.InsertOne(ctx, resp)
	return err
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.EvaluationResponse, error) {
	var resp model.EvaluationResponse
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepo) GetByTemplateID(ctx context.Context, templateID string) ([]*model.EvaluationResponse, error) {
	return r.find(ctx, bson.M{"templateId": templateID})
}

func (r *responseRepo) List(ctx context.Context) ([]*model.EvaluationResponse, error) {
	return r.find(ctx, bson.M{})
}

func (r *responseRepo) find(ctx context.Context, filter bson.M) ([]*model.EvaluationResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.EvaluationResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *responseRepo) DeleteByTemplateID(ctx context.Context, templateID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"templateId": templateID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *responseRepo) CountByTemplateID(ctx context.Context, templateID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"templateId": templateID})
}
