package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserStore_EmailIsUniqueIgnoringCase(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &models.User{Email: "ana@example.com"}))
	err := s.Create(ctx, &models.User{Email: "ANA@example.com"})
	assert.True(t, errors.Is(err, store.ErrDuplicate))

	u, err := s.GetByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())

	_, err = s.GetByID(ctx, primitive.NewObjectID())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestWorkspaceStore_MembersAreCopied(t *testing.T) {
	s := NewWorkspaceStore()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	ws := &models.Workspace{Name: "Acme", InviteCode: "abc12345", Members: []models.Member{{UserID: owner, Role: models.RoleOwner}}}
	require.NoError(t, s.Create(ctx, ws))

	ws.Members[0].Role = models.RoleMember
	got, err := s.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, got.Members[0].Role)

	got.Members = append(got.Members, models.Member{UserID: primitive.NewObjectID(), Role: models.RoleMember})
	again, err := s.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, again.Members, 1)

	err = s.Create(ctx, &models.Workspace{Name: "Other", InviteCode: "abc12345"})
	assert.True(t, errors.Is(err, store.ErrDuplicate))

	mine, err := s.ListByMember(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestWorkspaceStore_MemberChanges(t *testing.T) {
	s := NewWorkspaceStore()
	ctx := context.Background()
	owner, member := primitive.NewObjectID(), primitive.NewObjectID()

	ws := &models.Workspace{Name: "Acme", InviteCode: "abc12345", Members: []models.Member{{UserID: owner, Role: models.RoleOwner}}}
	require.NoError(t, s.Create(ctx, ws))

	joined, err := s.AddMember(ctx, ws.ID, models.Member{UserID: member, Role: models.RoleMember})
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	_, err = s.AddMember(ctx, ws.ID, models.Member{UserID: member, Role: models.RoleMember})
	assert.True(t, errors.Is(err, store.ErrDuplicate))
	_, err = s.AddMember(ctx, primitive.NewObjectID(), models.Member{UserID: member})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	// a stale copy written back does not drop the new member
	ws.Name = "Renamed"
	require.NoError(t, s.Update(ctx, ws))
	got, err := s.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, got.Members, 2)

	require.NoError(t, s.RemoveMember(ctx, ws.ID, member))
	assert.True(t, errors.Is(s.RemoveMember(ctx, ws.ID, member), store.ErrNotFound))
	got, err = s.GetByID(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
}

func TestTaskStore_FilterAndCascade(t *testing.T) {
	s := NewTaskStore()
	ctx := context.Background()
	workspaceID, projectID := primitive.NewObjectID(), primitive.NewObjectID()
	alice := primitive.NewObjectID()
	now := time.Now()

	tasks := []*models.Task{
		{TaskCode: "task-aaa", WorkspaceID: workspaceID, ProjectID: projectID, Status: models.StatusTodo, Priority: models.PriorityHigh, AssignedTo: &alice, CreatedAt: now},
		{TaskCode: "task-bbb", WorkspaceID: workspaceID, ProjectID: projectID, Status: models.StatusDone, Priority: models.PriorityLow, CreatedAt: now.Add(time.Second)},
		{TaskCode: "task-ccc", WorkspaceID: workspaceID, ProjectID: primitive.NewObjectID(), Status: models.StatusTodo, Priority: models.PriorityHigh, CreatedAt: now},
	}
	for _, task := range tasks {
		require.NoError(t, s.Create(ctx, task))
	}
	assert.True(t, errors.Is(s.Create(ctx, &models.Task{TaskCode: "task-aaa"}), store.ErrDuplicate))

	all, err := s.ListByProject(ctx, projectID, models.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "task-bbb", all[0].TaskCode)

	high, err := s.ListByProject(ctx, projectID, models.TaskFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "task-aaa", high[0].TaskCode)

	mine, err := s.ListByProject(ctx, projectID, models.TaskFilter{AssignedTo: &alice})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, s.UnassignUser(ctx, workspaceID, alice))
	got, err := s.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssignedTo)

	require.NoError(t, s.DeleteByProject(ctx, projectID))
	left, err := s.ListByProject(ctx, projectID, models.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, left)

	require.NoError(t, s.DeleteByWorkspace(ctx, workspaceID))
	_, err = s.GetByID(ctx, tasks[2].ID)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
