package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
)

// TemplateRepo handles MongoDB operations for question templates.
type TemplateRepo interface {
	Create(ctx context.Context, tpl *model.QuestionTemplate) error
	GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error)
	GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error)
	List(ctx context.Context) ([]*model.QuestionTemplate, error)
	Update(ctx context.Context, tpl *model.QuestionTemplate) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new template repository.
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("question_templates"),
	}
}

func (r *templateRepo) Create(ctx context.Context, tpl *model.QuestionTemplate) error {
	tpl.CreatedAt = time.Now().UTC()
	tpl.UpdatedAt = tpl.CreatedAt

	_, err := r.collection.InsertOne(ctx, tpl)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.QuestionTemplate, error) {
	var tpl model.QuestionTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) GetBySlug(ctx context.Context, slug string) (*model.QuestionTemplate, error) {
	var tpl model.QuestionTemplate
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&tpl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) List(ctx context.Context) ([]*model.QuestionTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []*model.QuestionTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepo) Update(ctx context.Context, tpl *model.QuestionTemplate) error {
	tpl.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": tpl.ID}, tpl)
	return err
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *templateRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if excludeID != "" {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
