package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	TaskCode   string `json:"taskCode"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	InviteCode string `json:"inviteCode"`
	AssignedTo string `json:"assignedTo"`
}

func TestProjectAndTaskLifecycle(t *testing.T) {
	app := newApp(t, appOptions{})
	owner := register(t, app, "Ana", "ana@example.com")
	workspaceID := owner.User.CurrentWorkspace

	rr := doJSON(t, app, http.MethodPost, "/api/workspaces/"+workspaceID+"/projects", owner.AccessToken, map[string]string{"name": "Website", "emoji": "🌐"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	project := decode[idResponse](t, rr)

	rr = doJSON(t, app, http.MethodGet, "/api/workspaces/"+workspaceID+"/projects", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]idResponse](t, rr), 1)

	rr = doJSON(t, app, http.MethodPost, "/api/projects/"+project.ID+"/tasks", owner.AccessToken, map[string]any{
		"title":      "Login page",
		"priority":   "HIGH",
		"assignedTo": owner.User.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	task := decode[idResponse](t, rr)
	assert.Regexp(t, `^task-[a-z0-9]{3}$`, task.TaskCode)
	assert.Equal(t, "TODO", task.Status)
	assert.Equal(t, owner.User.ID, task.AssignedTo)

	rr = doJSON(t, app, http.MethodPost, "/api/projects/"+project.ID+"/tasks", owner.AccessToken, map[string]any{"title": "Docs"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/projects/"+project.ID+"/tasks?priority=high", owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	filtered := decode[[]idResponse](t, rr)
	require.Len(t, filtered, 1)
	assert.Equal(t, task.ID, filtered[0].ID)

	rr = doJSON(t, app, http.MethodGet, "/api/projects/"+project.ID+"/tasks?status=nope", owner.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, app, http.MethodPut, "/api/tasks/"+task.ID, owner.AccessToken, map[string]any{"title": "Login page", "status": "DONE"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[idResponse](t, rr)
	assert.Equal(t, "DONE", updated.Status)
	assert.Equal(t, "HIGH", updated.Priority)
	assert.Empty(t, updated.AssignedTo)

	rr = doJSON(t, app, http.MethodPut, "/api/tasks/"+task.ID, owner.AccessToken, map[string]any{"title": "Login page", "status": "LATER"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, app, http.MethodDelete, "/api/projects/"+project.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/tasks/"+task.ID, owner.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/tasks/not-an-id", owner.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWorkspaceMembership(t *testing.T) {
	app := newApp(t, appOptions{})
	owner := register(t, app, "Ana", "ana@example.com")
	guest := register(t, app, "Bo", "bo@example.com")

	rr := doJSON(t, app, http.MethodPost, "/api/workspaces", owner.AccessToken, map[string]string{"name": "Acme", "description": "team space"})
	require.Equal(t, http.StatusCreated, rr.Code)
	workspace := decode[idResponse](t, rr)
	require.Len(t, workspace.InviteCode, 8)

	rr = doJSON(t, app, http.MethodPost, "/api/workspaces/"+workspace.ID+"/projects", owner.AccessToken, map[string]string{"name": "Roadmap"})
	require.Equal(t, http.StatusCreated, rr.Code)
	project := decode[idResponse](t, rr)

	rr = doJSON(t, app, http.MethodGet, "/api/workspaces/"+workspace.ID, guest.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, app, http.MethodPost, "/api/projects/"+project.ID+"/tasks", owner.AccessToken, map[string]any{"title": "Plan", "assignedTo": guest.User.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "non-members cannot be assigned")

	rr = doJSON(t, app, http.MethodPost, "/api/workspaces/join/"+workspace.InviteCode, guest.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, app, http.MethodPost, "/api/workspaces/join/"+workspace.InviteCode, guest.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, app, http.MethodPost, "/api/workspaces/join/zzzzzzzz", guest.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/workspaces/"+workspace.ID+"/members", guest.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	members := decode[[]struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
		Name   string `json:"name"`
	}](t, rr)
	require.Len(t, members, 2)
	assert.Equal(t, "OWNER", members[0].Role)
	assert.Equal(t, "MEMBER", members[1].Role)
	assert.Equal(t, "Bo", members[1].Name)

	// members can create tasks but not manage projects
	rr = doJSON(t, app, http.MethodPost, "/api/projects/"+project.ID+"/tasks", guest.AccessToken, map[string]any{"title": "Plan", "assignedTo": guest.User.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	task := decode[idResponse](t, rr)

	rr = doJSON(t, app, http.MethodPut, "/api/projects/"+project.ID, guest.AccessToken, map[string]string{"name": "Hijack"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, app, http.MethodDelete, "/api/tasks/"+task.ID, guest.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, app, http.MethodDelete, "/api/workspaces/"+workspace.ID+"/members/"+guest.User.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/tasks/"+task.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[idResponse](t, rr).AssignedTo)

	rr = doJSON(t, app, http.MethodGet, "/api/projects/"+project.ID, guest.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, app, http.MethodDelete, "/api/workspaces/"+workspace.ID, owner.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, app, http.MethodGet, "/api/projects/"+project.ID, owner.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newApp(t, appOptions{})
	for _, path := range []string{"/api/workspaces", "/api/users/current", "/api/dialogs", "/api/generator"} {
		rr := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newApp(t, appOptions{})
	rr := doJSON(t, app, http.MethodOptions, "/api/workspaces", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
