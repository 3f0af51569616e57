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

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultProjectEmoji = "📊"

type ProjectService struct {
	projects   store.ProjectStore
	tasks      store.TaskStore
	workspaces *WorkspaceService
	now        func() time.Time
}

func NewProjectService(stores store.Stores, workspaces *WorkspaceService) *ProjectService {
	return &ProjectService{
		projects:   stores.Projects,
		tasks:      stores.Tasks,
		workspaces: workspaces,
		now:        time.Now,
	}
}

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

func (in *ProjectInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Emoji = strings.TrimSpace(in.Emoji)
	if in.Name == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if in.Emoji == "" {
		in.Emoji = defaultProjectEmoji
	}
	return nil
}

func (s *ProjectService) Create(ctx context.Context, userID, workspaceID primitive.ObjectID, in ProjectInput) (*models.Project, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.workspaces.Authorize(ctx, userID, workspaceID, models.RoleOwner, models.RoleAdmin); err != nil {
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		ID:          primitive.NewObjectID(),
		WorkspaceID: workspaceID,
		Name:        in.Name,
		Description: in.Description,
		Emoji:       in.Emoji,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created in workspace %s", project.ID.Hex(), workspaceID.Hex())
	return project, nil
}

func (s *ProjectService) ListByWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) ([]models.Project, error) {
	if _, err := s.workspaces.Authorize(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.projects.ListByWorkspace(ctx, workspaceID)
}

// load fetches the project and checks the caller's workspace role.
func (s *ProjectService) load(ctx context.Context, userID, projectID primitive.ObjectID, roles ...models.Role) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: project", ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.workspaces.Authorize(ctx, userID, project.WorkspaceID, roles...); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID primitive.ObjectID) (*models.Project, error) {
	return s.load(ctx, userID, projectID)
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID primitive.ObjectID, in ProjectInput) (*models.Project, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	project, err := s.load(ctx, userID, projectID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	project.Name = in.Name
	project.Description = in.Description
	project.Emoji = in.Emoji
	project.UpdatedAt = s.now()
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes the project and every task in it.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID primitive.ObjectID) error {
	project, err := s.load(ctx, userID, projectID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteByProject(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by %s", projectID.Hex(), userID.Hex())
	return nil
}
