package forms

import (
	"context"
	"encoding/json"

	"teamsync-project/backend/workspace-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkspaceForm struct {
	userID     primitive.ObjectID
	workspaces *services.WorkspaceService
}

func (f *WorkspaceForm) Render(context.Context) (any, error) {
	return map[string]any{"values": services.WorkspaceInput{}}, nil
}

func (f *WorkspaceForm) Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var in services.WorkspaceInput
	if err := decode(payload, &in); err != nil {
		return nil, err
	}
	workspace, err := f.workspaces.Create(ctx, f.userID, in)
	if err != nil {
		return nil, err
	}
	onClose()
	return workspace, nil
}
