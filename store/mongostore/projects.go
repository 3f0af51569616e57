package mongostore

import (
	"context"
	"fmt"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectStore struct {
	collection *mongo.Collection
}

func (s *ProjectStore) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, project)
	return translate(err)
}

func (s *ProjectStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (s *ProjectStore) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.collection.Find(ctx, bson.M{"workspaceId": workspaceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("unsuccessful procurement of projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := make([]models.Project, 0)
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("unsuccessful decoding of projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectStore) Update(ctx context.Context, project *models.Project) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProjectStore) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"workspaceId": workspaceID})
	return translate(err)
}
