package forms

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"teamsync-project/backend/workspace-service/dialog"
	"teamsync-project/backend/workspace-service/generator"
	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/services"
	"teamsync-project/backend/workspace-service/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	factory *Factory
	ctrl    *dialog.Controller
	userID  primitive.ObjectID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := memory.New()
	workspaces := services.NewWorkspaceService(stores)
	projects := services.NewProjectService(stores, workspaces)
	tasks := services.NewTaskService(stores, projects, workspaces)

	factory := &Factory{
		Workspaces: workspaces,
		Projects:   projects,
		Tasks:      tasks,
		Generator:  generator.NewRegistry(generator.RegistryOptions{Delay: time.Hour}),
	}
	userID := primitive.NewObjectID()
	return &fixture{factory: factory, ctrl: dialog.NewController(userID, factory), userID: userID}
}

func (f *fixture) submit(t *testing.T, kind dialog.Kind, target, payload string) any {
	t.Helper()
	ctx := context.Background()
	_, err := f.ctrl.Open(ctx, kind, target)
	require.NoError(t, err)
	result, err := f.ctrl.Submit(ctx, kind, json.RawMessage(payload))
	require.NoError(t, err)
	assert.False(t, f.ctrl.IsOpen(kind), "%s should close after submit", kind)
	return result
}

func TestWorkspaceAndProjectForms(t *testing.T) {
	f := newFixture(t)

	workspace := f.submit(t, dialog.KindCreateWorkspace, "", `{"name":"Acme","description":"team"}`).(*models.Workspace)
	assert.Equal(t, "Acme", workspace.Name)

	shell, err := f.ctrl.Open(context.Background(), dialog.KindCreateProject, workspace.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "New Project", shell.Title)
	f.ctrl.Close(dialog.KindCreateProject)

	project := f.submit(t, dialog.KindCreateProject, workspace.ID.Hex(), `{"name":"Website"}`).(*models.Project)
	assert.Equal(t, "Website", project.Name)
	assert.NotEmpty(t, project.Emoji)

	shell, err = f.ctrl.Open(context.Background(), dialog.KindEditProject, project.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Edit Project", shell.Title)
	view, err := shell.View(context.Background())
	require.NoError(t, err)
	values := view.Content.(map[string]any)["values"].(services.ProjectInput)
	assert.Equal(t, "Website", values.Name)

	updated, err := f.ctrl.Submit(context.Background(), dialog.KindEditProject, json.RawMessage(`{"name":"Web app","emoji":"🚀"}`))
	require.NoError(t, err)
	assert.Equal(t, "Web app", updated.(*models.Project).Name)
}

func TestTaskForms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	workspace, err := f.factory.Workspaces.Create(ctx, f.userID, services.WorkspaceInput{Name: "Acme"})
	require.NoError(t, err)
	project, err := f.factory.Projects.Create(ctx, f.userID, workspace.ID, services.ProjectInput{Name: "Website"})
	require.NoError(t, err)

	task := f.submit(t, dialog.KindCreateTask, project.ID.Hex(), `{"title":"Login page","description":"- [ ] form\n- [x] **api**"}`).(*models.Task)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.True(t, strings.HasPrefix(task.TaskCode, "task-"))

	payload := `{"projectId":"` + project.ID.Hex() + `","title":"Signup page","priority":"HIGH"}`
	other := f.submit(t, dialog.KindCreateTask, "", payload).(*models.Task)
	assert.Equal(t, models.PriorityHigh, other.Priority)

	_, err = f.ctrl.Open(ctx, dialog.KindCreateTask, "")
	require.NoError(t, err)
	_, err = f.ctrl.Submit(ctx, dialog.KindCreateTask, json.RawMessage(`{"title":"orphan"}`))
	assert.True(t, errors.Is(err, services.ErrInvalidInput))
	assert.True(t, f.ctrl.IsOpen(dialog.KindCreateTask))

	edited := f.submit(t, dialog.KindEditTask, task.ID.Hex(), `{"title":"Login page","status":"IN_PROGRESS","assignedTo":"`+f.userID.Hex()+`"}`).(*models.Task)
	assert.Equal(t, models.StatusInProgress, edited.Status)
	require.NotNil(t, edited.AssignedTo)

	shell, err := f.ctrl.Open(ctx, dialog.KindViewTask, task.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Login page", shell.Title)
	view, err := shell.View(ctx)
	require.NoError(t, err)
	detail := view.Content.(taskDetailView)
	assert.Contains(t, detail.DescriptionHTML, "<strong>api</strong>")
	assert.Contains(t, detail.DescriptionHTML, `type="checkbox"`)

	_, err = f.ctrl.Submit(ctx, dialog.KindViewTask, nil)
	assert.True(t, errors.Is(err, dialog.ErrNotSubmittable))
}

func TestFormsRequireMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	outsider := primitive.NewObjectID()
	workspace, err := f.factory.Workspaces.Create(ctx, outsider, services.WorkspaceInput{Name: "Private"})
	require.NoError(t, err)

	_, err = f.ctrl.Open(ctx, dialog.KindCreateProject, workspace.ID.Hex())
	assert.True(t, errors.Is(err, services.ErrForbidden))

	_, err = f.ctrl.Open(ctx, dialog.KindEditTask, "not-an-id")
	assert.True(t, errors.Is(err, services.ErrInvalidInput))

	_, err = f.ctrl.Open(ctx, dialog.KindEditProject, "")
	assert.True(t, errors.Is(err, dialog.ErrTargetRequired))
}

func TestDocumentUpload_CloseDiscardsGeneration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	shell, err := f.ctrl.Open(ctx, dialog.KindDocumentUpload, "")
	require.NoError(t, err)
	assert.Equal(t, "AI Task", shell.Title)

	session := f.factory.Generator.Session(f.userID.Hex())
	require.NoError(t, session.SetFile(generator.FileInfo{Name: "requirements.pdf", Size: 2048}))
	token, err := session.Generate()
	require.NoError(t, err)

	view, err := shell.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, generator.StepGenerate, view.Content.(uploadView).Step)
	assert.Len(t, view.Content.(uploadView).Members, 5)

	require.NoError(t, f.ctrl.Close(dialog.KindDocumentUpload))
	require.NoError(t, f.ctrl.Close(dialog.KindDocumentUpload))

	assert.True(t, errors.Is(session.Wait(ctx, token), generator.ErrStaleToken))
	snap := session.Snapshot()
	assert.Equal(t, generator.StepUpload, snap.Step)
	assert.Nil(t, snap.File)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<table>")
}
