package forms

import (
	"context"
	"encoding/json"

	"teamsync-project/backend/workspace-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateProjectForm struct {
	userID      primitive.ObjectID
	workspaceID primitive.ObjectID
	projects    *services.ProjectService
}

func (f *CreateProjectForm) Render(context.Context) (any, error) {
	return map[string]any{
		"workspaceId": f.workspaceID,
		"values":      services.ProjectInput{},
	}, nil
}

func (f *CreateProjectForm) Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var in services.ProjectInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	project, err := f.projects.Create(ctx, f.userID, f.workspaceID, in)
	if err != nil {
		return nil, err
	}
	onClose()
	return project, nil
}

type EditProjectForm struct {
	userID    primitive.ObjectID
	projectID primitive.ObjectID
	projects  *services.ProjectService
}

// Render shows the project as currently stored.
func (f *EditProjectForm) Render(ctx context.Context) (any, error) {
	project, err := f.projects.Get(ctx, f.userID, f.projectID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"project": project,
		"values": services.ProjectInput{
			Name:        project.Name,
			Description: project.Description,
			Emoji:       project.Emoji,
		},
	}, nil
}

func (f *EditProjectForm) Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var in services.ProjectInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	project, err := f.projects.Update(ctx, f.userID, f.projectID, in)
	if err != nil {
		return nil, err
	}
	onClose()
	return project, nil
}
