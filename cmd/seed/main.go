package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/model"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/slug"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "danhgia"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(dbName).Collection("question_templates")

	name := "Đánh giá nhân viên quý 3"
	now := time.Now().UTC()
	tpl := model.QuestionTemplate{
		ID:          "template-seed-q3-review",
		Slug:        slug.Make(name),
		Name:        name,
		Description: "Anonymous quarterly peer evaluation for the engineering team.",
		IsActive:    true,
		CommonQuestions: []model.Question{
			{
				ID:       "q-overall",
				Kind:     model.KindRating10,
				Content:  "How would you rate the team's overall performance this quarter?",
				Required: true,
			},
			{
				ID:      "q-ranking",
				Kind:    model.KindRanking,
				Content: "Rank the colleagues you evaluated by overall contribution.",
			},
			{
				ID:         "q-channel",
				Kind:       model.KindSingleChoice,
				Content:    "Which channel do you use most for team communication?",
				Options:    []string{"Chat", "Email", "Meetings"},
				AllowOther: true,
			},
		},
		Subjects: []model.Subject{
			{ID: "subj-an", Name: "Nguyễn Văn An", Position: "Backend Engineer", Department: "Engineering"},
			{ID: "subj-binh", Name: "Trần Thị Bình", Position: "Frontend Engineer", Department: "Engineering"},
			{ID: "subj-chi", Name: "Lê Minh Chi", Position: "QA Engineer", Department: "Quality"},
		},
		SubjectQuestions: map[string][]model.Question{
			"subj-an": {
				{ID: "q-an-mentoring", Kind: model.KindYesNo, Content: "Did An's code reviews help you improve?"},
			},
		},
		TemplateQuestions: []model.Question{
			{
				ID:       "q-collab",
				Kind:     model.KindRating5,
				Content:  "How well does {name} collaborate with the rest of the team?",
				Required: true,
			},
			{
				ID:      "q-feedback",
				Kind:    model.KindFreeText,
				Content: "What should {name} keep doing, and what should change?",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := coll.InsertOne(ctx, tpl); err != nil {
		log.Fatalf("Failed to insert sample template: %v", err)
	}

	log.Printf("Seeded template %s (slug %s)", tpl.ID, tpl.Slug)
}
