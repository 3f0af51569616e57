package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamsync-project/backend/workspace-service/logging"
	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"
	"teamsync-project/backend/workspace-service/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkspaceService struct {
	workspaces store.WorkspaceStore
	projects   store.ProjectStore
	tasks      store.TaskStore
	users      store.UserStore
	now        func() time.Time
}

func NewWorkspaceService(stores store.Stores) *WorkspaceService {
	return &WorkspaceService{
		workspaces: stores.Workspaces,
		projects:   stores.Projects,
		tasks:      stores.Tasks,
		users:      stores.Users,
		now:        time.Now,
	}
}

type WorkspaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in *WorkspaceInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return fmt.Errorf("%w: workspace name is required", ErrInvalidInput)
	}
	if len(in.Name) > 255 {
		return fmt.Errorf("%w: workspace name is too long", ErrInvalidInput)
	}
	return nil
}

// MemberView is a workspace member joined with the user's public fields.
type MemberView struct {
	models.Member
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func (s *WorkspaceService) Create(ctx context.Context, ownerID primitive.ObjectID, in WorkspaceInput) (*models.Workspace, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now()
	workspace := &models.Workspace{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		Members:     []models.Member{{UserID: ownerID, Role: models.RoleOwner, JoinedAt: now}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		workspace.InviteCode = utils.InviteCode()
		if err = s.workspaces.Create(ctx, workspace); !errors.Is(err, store.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	logging.Logger.Infof("Event ID: WORKSPACE_CREATED, Description: Workspace %s created by %s", workspace.ID.Hex(), ownerID.Hex())
	return workspace, nil
}

func (s *WorkspaceService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	return s.workspaces.ListByMember(ctx, userID)
}

// Authorize loads the workspace and checks that userID belongs to it with
// one of roles. An empty roles list accepts any member.
func (s *WorkspaceService) Authorize(ctx context.Context, userID, workspaceID primitive.ObjectID, roles ...models.Role) (*models.Workspace, error) {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: workspace", ErrNotFound)
		}
		return nil, err
	}

	role, ok := workspace.MemberRole(userID)
	if !ok {
		logging.Logger.Warnf("Event ID: WORKSPACE_ACCESS_DENIED, Description: User %s is not a member of workspace %s", userID.Hex(), workspaceID.Hex())
		return nil, fmt.Errorf("%w: not a member of this workspace", ErrForbidden)
	}
	if len(roles) == 0 {
		return workspace, nil
	}
	for _, r := range roles {
		if r == role {
			return workspace, nil
		}
	}
	return nil, fmt.Errorf("%w: role %s is not allowed", ErrForbidden, role)
}

func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID primitive.ObjectID) (*models.Workspace, error) {
	return s.Authorize(ctx, userID, workspaceID)
}

func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID primitive.ObjectID, in WorkspaceInput) (*models.Workspace, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	workspace, err := s.Authorize(ctx, userID, workspaceID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	workspace.Name = in.Name
	workspace.Description = in.Description
	workspace.UpdatedAt = s.now()
	if err := s.workspaces.Update(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	return workspace, nil
}

// Delete removes the workspace together with its projects and tasks.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID primitive.ObjectID) error {
	if _, err := s.Authorize(ctx, userID, workspaceID, models.RoleOwner); err != nil {
		return err
	}

	if err := s.tasks.DeleteByWorkspace(ctx, workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace tasks: %w", err)
	}
	if err := s.projects.DeleteByWorkspace(ctx, workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace projects: %w", err)
	}
	if err := s.workspaces.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	logging.Logger.Infof("Event ID: WORKSPACE_DELETED, Description: Workspace %s deleted by %s", workspaceID.Hex(), userID.Hex())
	return nil
}

func (s *WorkspaceService) Members(ctx context.Context, userID, workspaceID primitive.ObjectID) ([]MemberView, error) {
	workspace, err := s.Authorize(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	members := make([]MemberView, 0, len(workspace.Members))
	for _, m := range workspace.Members {
		view := MemberView{Member: m}
		if u, err := s.users.GetByID(ctx, m.UserID); err == nil {
			view.Name = u.Name
			view.Email = u.Email
			view.ProfilePicture = u.ProfilePicture
		}
		members = append(members, view)
	}
	return members, nil
}

func (s *WorkspaceService) JoinByInvite(ctx context.Context, userID primitive.ObjectID, inviteCode string) (*models.Workspace, error) {
	workspace, err := s.workspaces.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid invite code", ErrNotFound)
		}
		return nil, err
	}

	member := models.Member{UserID: userID, Role: models.RoleMember, JoinedAt: s.now()}
	joined, err := s.workspaces.AddMember(ctx, workspace.ID, member)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, fmt.Errorf("%w: already a member of this workspace", ErrConflict)
		case errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("%w: workspace", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to join workspace: %w", err)
	}

	logging.Logger.Infof("Event ID: WORKSPACE_JOINED, Description: User %s joined workspace %s", userID.Hex(), workspace.ID.Hex())
	return joined, nil
}

// RemoveMember drops memberID from the workspace and unassigns their tasks.
// The owner cannot be removed.
func (s *WorkspaceService) RemoveMember(ctx context.Context, userID, workspaceID, memberID primitive.ObjectID) error {
	workspace, err := s.Authorize(ctx, userID, workspaceID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return err
	}
	if memberID == workspace.OwnerID {
		return fmt.Errorf("%w: the workspace owner cannot be removed", ErrInvalidInput)
	}

	if err := s.workspaces.RemoveMember(ctx, workspaceID, memberID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: member", ErrNotFound)
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if err := s.tasks.UnassignUser(ctx, workspaceID, memberID); err != nil {
		return fmt.Errorf("failed to unassign member tasks: %w", err)
	}
	return nil
}
