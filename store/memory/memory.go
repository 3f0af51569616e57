package memory

import "teamsync-project/backend/workspace-service/store"

// New returns an in-process backend. Data does not survive a restart.
func New() store.Stores {
	return store.Stores{
		Users:      NewUserStore(),
		Workspaces: NewWorkspaceStore(),
		Projects:   NewProjectStore(),
		Tasks:      NewTaskStore(),
	}
}
