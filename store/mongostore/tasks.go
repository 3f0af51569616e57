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

type TaskStore struct {
	collection *mongo.Collection
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, task)
	return translate(err)
}

func (s *TaskStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (s *TaskStore) ListByProject(ctx context.Context, projectID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	query := bson.M{"projectId": projectID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *TaskStore) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	return translate(err)
}

func (s *TaskStore) DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"workspaceId": workspaceID})
	return translate(err)
}

func (s *TaskStore) UnassignUser(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	filter := bson.M{"workspaceId": workspaceID, "assignedTo": userID}
	update := bson.M{"$unset": bson.M{"assignedTo": ""}}
	_, err := s.collection.UpdateMany(ctx, filter, update)
	return translate(err)
}
