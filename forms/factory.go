// Package forms provides the contents shown inside dialogs.
package forms

import (
	"context"
	"encoding/json"
	"fmt"

	"teamsync-project/backend/workspace-service/dialog"
	"teamsync-project/backend/workspace-service/generator"
	"teamsync-project/backend/workspace-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Factory builds dialog contents on top of the domain services.
type Factory struct {
	Workspaces *services.WorkspaceService
	Projects   *services.ProjectService
	Tasks      *services.TaskService
	Generator  *generator.Registry
}

var _ dialog.ContentFactory = (*Factory)(nil)

func (f *Factory) Build(ctx context.Context, userID primitive.ObjectID, kind dialog.Kind, target string) (string, dialog.Content, error) {
	switch kind {
	case dialog.KindCreateWorkspace:
		return "New Workspace", &WorkspaceForm{userID: userID, workspaces: f.Workspaces}, nil

	case dialog.KindCreateProject:
		workspaceID, err := parseTarget(target)
		if err != nil {
			return "", nil, err
		}
		if _, err := f.Workspaces.Get(ctx, userID, workspaceID); err != nil {
			return "", nil, err
		}
		return "New Project", &CreateProjectForm{userID: userID, workspaceID: workspaceID, projects: f.Projects}, nil

	case dialog.KindEditProject:
		projectID, err := parseTarget(target)
		if err != nil {
			return "", nil, err
		}
		if _, err := f.Projects.Get(ctx, userID, projectID); err != nil {
			return "", nil, err
		}
		return "Edit Project", &EditProjectForm{userID: userID, projectID: projectID, projects: f.Projects}, nil

	case dialog.KindCreateTask:
		form := &CreateTaskForm{userID: userID, workspaces: f.Workspaces, projects: f.Projects, tasks: f.Tasks}
		if target != "" {
			projectID, err := parseTarget(target)
			if err != nil {
				return "", nil, err
			}
			if _, err := f.Projects.Get(ctx, userID, projectID); err != nil {
				return "", nil, err
			}
			form.projectID = &projectID
		}
		return "New Task", form, nil

	case dialog.KindEditTask:
		taskID, err := parseTarget(target)
		if err != nil {
			return "", nil, err
		}
		if _, err := f.Tasks.Get(ctx, userID, taskID); err != nil {
			return "", nil, err
		}
		return "Edit Task", &EditTaskForm{userID: userID, taskID: taskID, workspaces: f.Workspaces, tasks: f.Tasks}, nil

	case dialog.KindViewTask:
		taskID, err := parseTarget(target)
		if err != nil {
			return "", nil, err
		}
		task, err := f.Tasks.Get(ctx, userID, taskID)
		if err != nil {
			return "", nil, err
		}
		return task.Title, &TaskDetail{userID: userID, taskID: taskID, tasks: f.Tasks}, nil

	case dialog.KindDocumentUpload:
		return "AI Task", &DocumentUpload{session: f.Generator.Session(userID.Hex()), roster: f.Generator.Roster()}, nil
	}
	return "", nil, dialog.ErrUnknownKind
}

func parseTarget(target string) (primitive.ObjectID, error) {
	if target == "" {
		return primitive.NilObjectID, dialog.ErrTargetRequired
	}
	id, err := primitive.ObjectIDFromHex(target)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid target id", services.ErrInvalidInput)
	}
	return id, nil
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: empty payload", services.ErrInvalidInput)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
	}
	return nil
}
