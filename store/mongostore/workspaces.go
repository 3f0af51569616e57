package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkspaceStore struct {
	collection *mongo.Collection
}

func (s *WorkspaceStore) Create(ctx context.Context, workspace *models.Workspace) error {
	if workspace.ID.IsZero() {
		workspace.ID = primitive.NewObjectID()
	}
	_, err := s.collection.InsertOne(ctx, workspace)
	return translate(err)
}

func (s *WorkspaceStore) findOne(ctx context.Context, filter bson.M) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := s.collection.FindOne(ctx, filter).Decode(&workspace); err != nil {
		return nil, translate(err)
	}
	return &workspace, nil
}

func (s *WorkspaceStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *WorkspaceStore) GetByInviteCode(ctx context.Context, code string) (*models.Workspace, error) {
	return s.findOne(ctx, bson.M{"inviteCode": code})
}

func (s *WorkspaceStore) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := s.collection.Find(ctx, bson.M{"members.userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workspaces: %w", err)
	}
	defer cursor.Close(ctx)

	workspaces := make([]models.Workspace, 0)
	if err := cursor.All(ctx, &workspaces); err != nil {
		return nil, fmt.Errorf("failed to decode workspaces: %w", err)
	}
	return workspaces, nil
}

func (s *WorkspaceStore) Update(ctx context.Context, workspace *models.Workspace) error {
	update := bson.M{"$set": bson.M{
		"name":        workspace.Name,
		"description": workspace.Description,
		"updatedAt":   workspace.UpdatedAt,
	}}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": workspace.ID}, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *WorkspaceStore) AddMember(ctx context.Context, workspaceID primitive.ObjectID, member models.Member) (*models.Workspace, error) {
	filter := bson.M{"_id": workspaceID, "members.userId": bson.M{"$ne": member.UserID}}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updatedAt": member.JoinedAt},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var workspace models.Workspace
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&workspace)
	if err == nil {
		return &workspace, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, translate(err)
	}
	// nothing matched: either the workspace is gone or the user is already in it
	if _, err := s.GetByID(ctx, workspaceID); err != nil {
		return nil, err
	}
	return nil, store.ErrDuplicate
}

func (s *WorkspaceStore) RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error {
	filter := bson.M{"_id": workspaceID, "members.userId": userID}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *WorkspaceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
