package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/services"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var (
	statusOptions   = []models.TaskStatus{models.StatusBacklog, models.StatusTodo, models.StatusInProgress, models.StatusInReview, models.StatusDone}
	priorityOptions = []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
)

type taskPayload struct {
	ProjectID *primitive.ObjectID `json:"projectId,omitempty"`
	services.TaskInput
}

type CreateTaskForm struct {
	userID     primitive.ObjectID
	projectID  *primitive.ObjectID
	workspaces *services.WorkspaceService
	projects   *services.ProjectService
	tasks      *services.TaskService
}

func (f *CreateTaskForm) Render(ctx context.Context) (any, error) {
	view := map[string]any{
		"statuses":   statusOptions,
		"priorities": priorityOptions,
		"values":     services.TaskInput{Status: models.StatusTodo, Priority: models.PriorityMedium},
	}
	if f.projectID == nil {
		return view, nil
	}
	project, err := f.projects.Get(ctx, f.userID, *f.projectID)
	if err != nil {
		return nil, err
	}
	members, err := f.workspaces.Members(ctx, f.userID, project.WorkspaceID)
	if err != nil {
		return nil, err
	}
	view["project"] = project
	view["members"] = members
	return view, nil
}

// Submit creates the task in the dialog's project, or in the projectId
// carried by the payload when the dialog was opened without one.
func (f *CreateTaskForm) Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var in taskPayload
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	projectID := f.projectID
	if projectID == nil {
		projectID = in.ProjectID
	}
	if projectID == nil {
		return nil, fmt.Errorf("%w: projectId is required", services.ErrInvalidInput)
	}
	task, err := f.tasks.Create(ctx, f.userID, *projectID, in.TaskInput)
	if err != nil {
		return nil, err
	}
	onClose()
	return task, nil
}

type EditTaskForm struct {
	userID     primitive.ObjectID
	taskID     primitive.ObjectID
	workspaces *services.WorkspaceService
	tasks      *services.TaskService
}

func (f *EditTaskForm) Render(ctx context.Context) (any, error) {
	task, err := f.tasks.Get(ctx, f.userID, f.taskID)
	if err != nil {
		return nil, err
	}
	members, err := f.workspaces.Members(ctx, f.userID, task.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"task":       task,
		"members":    members,
		"statuses":   statusOptions,
		"priorities": priorityOptions,
		"values": services.TaskInput{
			Title:       task.Title,
			Description: task.Description,
			Status:      task.Status,
			Priority:    task.Priority,
			AssignedTo:  task.AssignedTo,
			DueDate:     task.DueDate,
		},
	}, nil
}

func (f *EditTaskForm) Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var in services.TaskInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	task, err := f.tasks.Update(ctx, f.userID, f.taskID, in)
	if err != nil {
		return nil, err
	}
	onClose()
	return task, nil
}

// TaskDetail is the read-only task view.
type TaskDetail struct {
	userID primitive.ObjectID
	taskID primitive.ObjectID
	tasks  *services.TaskService
}

type taskDetailView struct {
	Task            *models.Task `json:"task"`
	DescriptionHTML string       `json:"descriptionHtml"`
}

func (d *TaskDetail) Render(ctx context.Context) (any, error) {
	task, err := d.tasks.Get(ctx, d.userID, d.taskID)
	if err != nil {
		return nil, err
	}
	html, err := RenderMarkdown(task.Description)
	if err != nil {
		return nil, err
	}
	return taskDetailView{Task: task, DescriptionHTML: html}, nil
}

// RenderMarkdown converts GitHub-flavoured markdown to HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
