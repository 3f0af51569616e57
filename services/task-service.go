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

type TaskService struct {
	tasks      store.TaskStore
	projects   *ProjectService
	workspaces *WorkspaceService
	now        func() time.Time
}

func NewTaskService(stores store.Stores, projects *ProjectService, workspaces *WorkspaceService) *TaskService {
	return &TaskService{
		tasks:      stores.Tasks,
		projects:   projects,
		workspaces: workspaces,
		now:        time.Now,
	}
}

type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
}

func (in *TaskInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return fmt.Errorf("%w: task title is required", ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, in.Priority)
	}
	return nil
}

func checkAssignee(workspace *models.Workspace, assignee *primitive.ObjectID) error {
	if assignee == nil {
		return nil
	}
	if _, ok := workspace.MemberRole(*assignee); !ok {
		return fmt.Errorf("%w: assigned user is not a member of this workspace", ErrInvalidInput)
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID, projectID primitive.ObjectID, in TaskInput) (*models.Task, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.Authorize(ctx, userID, project.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if err := checkAssignee(workspace, in.AssignedTo); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	now := s.now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		WorkspaceID: project.WorkspaceID,
		ProjectID:   project.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; attempt < 5; attempt++ {
		task.TaskCode = utils.TaskCode()
		if err = s.tasks.Create(ctx, task); !errors.Is(err, store.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s (%s) created in project %s", task.ID.Hex(), task.TaskCode, projectID.Hex())
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID, projectID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID, filter)
}

func (s *TaskService) load(ctx context.Context, userID, taskID primitive.ObjectID, roles ...models.Role) (*models.Task, *models.Workspace, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: task", ErrNotFound)
		}
		return nil, nil, err
	}
	workspace, err := s.workspaces.Authorize(ctx, userID, task.WorkspaceID, roles...)
	if err != nil {
		return nil, nil, err
	}
	return task, workspace, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID primitive.ObjectID) (*models.Task, error) {
	task, _, err := s.load(ctx, userID, taskID)
	return task, err
}

// Update replaces the editable fields. Empty status or priority keep the
// current value; a nil assignee unassigns the task.
func (s *TaskService) Update(ctx context.Context, userID, taskID primitive.ObjectID, in TaskInput) (*models.Task, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	task, workspace, err := s.load(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := checkAssignee(workspace, in.AssignedTo); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	if in.Status != "" {
		task.Status = in.Status
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	task.AssignedTo = in.AssignedTo
	task.DueDate = in.DueDate
	task.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID primitive.ObjectID) error {
	task, _, err := s.load(ctx, userID, taskID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID.Hex(), userID.Hex())
	return nil
}
