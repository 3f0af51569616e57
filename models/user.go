package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProviderEmail  = "EMAIL"
	ProviderGoogle = "GOOGLE"
)

type User struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name             string              `bson:"name" json:"name"`
	Email            string              `bson:"email" json:"email"`
	Password         string              `bson:"password,omitempty" json:"-"`
	ProfilePicture   string              `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Provider         string              `bson:"provider" json:"provider"`
	ProviderID       string              `bson:"providerId" json:"-"`
	IsActive         bool                `bson:"isActive" json:"isActive"`
	CurrentWorkspace *primitive.ObjectID `bson:"currentWorkspace,omitempty" json:"currentWorkspace,omitempty"`
	LastLogin        *time.Time          `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
