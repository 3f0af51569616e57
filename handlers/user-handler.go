package handlers

import (
	"net/http"

	"teamsync-project/backend/workspace-service/services"
)

type UserHandler struct {
	auth       *services.AuthService
	workspaces *services.WorkspaceService
}

func NewUserHandler(auth *services.AuthService, workspaces *services.WorkspaceService) *UserHandler {
	return &UserHandler{auth: auth, workspaces: workspaces}
}

// Current returns the signed-in user and the workspaces they belong to.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	workspaces, err := h.workspaces.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "workspaces": workspaces})
}
