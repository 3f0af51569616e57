package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the client, pings it and makes sure the indexes exist.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, store.Stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, store.Stores{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, store.Stores{}, fmt.Errorf("mongo ping: %w", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", dbName)

	db := client.Database(dbName)
	if err := createIndexes(connectCtx, db); err != nil {
		return nil, store.Stores{}, err
	}

	return client, store.Stores{
		Users:      &UserStore{collection: db.Collection("users")},
		Workspaces: &WorkspaceStore{collection: db.Collection("workspaces")},
		Projects:   &ProjectStore{collection: db.Collection("projects")},
		Tasks:      &TaskStore{collection: db.Collection("tasks")},
	}, nil
}

func createIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.M{"email": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "provider", Value: 1}, {Key: "providerId", Value: 1}}},
		},
		"workspaces": {
			{Keys: bson.M{"inviteCode": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.M{"members.userId": 1}},
		},
		"projects": {
			{Keys: bson.M{"workspaceId": 1}},
		},
		"tasks": {
			{Keys: bson.M{"taskCode": 1}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: MongoDB indexes created")
	return nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	}
	return err
}
