package store

import (
	"context"
	"errors"

	"teamsync-project/backend/workspace-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type WorkspaceStore interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workspace, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Workspace, error)
	ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error)
	// Update writes the workspace details. Membership changes go through
	// AddMember and RemoveMember, which apply atomically.
	Update(ctx context.Context, workspace *models.Workspace) error
	// AddMember returns ErrDuplicate when the user is already a member.
	AddMember(ctx context.Context, workspaceID primitive.ObjectID, member models.Member) (*models.Workspace, error)
	RemoveMember(ctx context.Context, workspaceID, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) error
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
	DeleteByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) error
	UnassignUser(ctx context.Context, workspaceID, userID primitive.ObjectID) error
}

// Stores bundles the repositories a backend provides.
type Stores struct {
	Users      UserStore
	Workspaces WorkspaceStore
	Projects   ProjectStore
	Tasks      TaskStore
}
