package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeForm struct {
	builds    int
	closed    int
	submitted []string
}

func (f *fakeForm) Render(context.Context) (any, error) {
	return map[string]int{"submitted": len(f.submitted)}, nil
}

func (f *fakeForm) Submit(_ context.Context, payload json.RawMessage, onClose func()) (any, error) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	f.submitted = append(f.submitted, body.Name)
	onClose()
	return body.Name, nil
}

func (f *fakeForm) Close() { f.closed++ }

type staticContent struct{}

func (staticContent) Render(context.Context) (any, error) { return "hello", nil }

type fakeFactory struct {
	forms []*fakeForm
}

func (f *fakeFactory) Build(_ context.Context, _ primitive.ObjectID, kind Kind, target string) (string, Content, error) {
	if kind == KindViewTask {
		if target == "" {
			return "", nil, ErrTargetRequired
		}
		return "Task " + target, staticContent{}, nil
	}
	form := &fakeForm{}
	f.forms = append(f.forms, form)
	return "New Workspace", form, nil
}

func TestVisibility_CloseIsIdempotent(t *testing.T) {
	calls := 0
	v := NewVisibility(func() { calls++ })

	v.Close()
	assert.False(t, v.IsOpen())
	assert.Equal(t, 0, calls)

	v.Open()
	assert.True(t, v.IsOpen())
	for i := 0; i < 3; i++ {
		v.Close()
	}
	assert.False(t, v.IsOpen())
	assert.Equal(t, 1, calls)
}

func TestController_OpenSubmitClose(t *testing.T) {
	factory := &fakeFactory{}
	ctrl := NewController(primitive.NewObjectID(), factory)
	ctx := context.Background()

	shell, err := ctrl.Open(ctx, KindCreateWorkspace, "")
	require.NoError(t, err)
	assert.True(t, shell.IsOpen())
	assert.Equal(t, "New Workspace", shell.Title)

	result, err := ctrl.Submit(ctx, KindCreateWorkspace, json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", result)
	assert.False(t, ctrl.IsOpen(KindCreateWorkspace))
	assert.Equal(t, 1, factory.forms[0].closed)

	_, err = ctrl.Submit(ctx, KindCreateWorkspace, json.RawMessage(`{"name":"again"}`))
	assert.True(t, errors.Is(err, ErrDialogClosed))

	require.NoError(t, ctrl.Close(KindCreateWorkspace))
	require.NoError(t, ctrl.Close(KindCreateWorkspace))
	assert.Equal(t, 1, factory.forms[0].closed)
}

func TestController_CloseNeverOpened(t *testing.T) {
	ctrl := NewController(primitive.NewObjectID(), &fakeFactory{})
	for i := 0; i < 3; i++ {
		assert.NoError(t, ctrl.Close(KindCreateProject))
	}
	assert.False(t, ctrl.IsOpen(KindCreateProject))
	assert.True(t, errors.Is(ctrl.Close(Kind("nope")), ErrUnknownKind))
}

func TestController_ReopenBuildsFreshContent(t *testing.T) {
	factory := &fakeFactory{}
	ctrl := NewController(primitive.NewObjectID(), factory)
	ctx := context.Background()

	_, err := ctrl.Open(ctx, KindCreateWorkspace, "")
	require.NoError(t, err)
	_, err = ctrl.Submit(ctx, KindCreateWorkspace, json.RawMessage(`{"name":"one"}`))
	require.NoError(t, err)

	_, err = ctrl.Open(ctx, KindCreateWorkspace, "")
	require.NoError(t, err)
	require.Len(t, factory.forms, 2)
	assert.Empty(t, factory.forms[1].submitted)

	// reopening an open dialog closes the previous instance
	_, err = ctrl.Open(ctx, KindCreateWorkspace, "")
	require.NoError(t, err)
	assert.Equal(t, 1, factory.forms[1].closed)
	assert.True(t, ctrl.IsOpen(KindCreateWorkspace))
}

func TestController_DialogsAreIndependent(t *testing.T) {
	ctrl := NewController(primitive.NewObjectID(), &fakeFactory{})
	ctx := context.Background()

	_, err := ctrl.Open(ctx, KindCreateWorkspace, "")
	require.NoError(t, err)
	_, err = ctrl.Open(ctx, KindViewTask, "42")
	require.NoError(t, err)

	assert.True(t, ctrl.IsOpen(KindCreateWorkspace))
	assert.True(t, ctrl.IsOpen(KindViewTask))

	require.NoError(t, ctrl.Close(KindViewTask))
	assert.True(t, ctrl.IsOpen(KindCreateWorkspace))

	views, err := ctrl.Views(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, KindCreateWorkspace, views[0].Kind)
	assert.NotNil(t, views[0].Content)
	assert.Equal(t, "Task 42", views[1].Title)
	assert.False(t, views[1].Open)
	assert.Nil(t, views[1].Content)
}

func TestController_NonFormCannotSubmit(t *testing.T) {
	ctrl := NewController(primitive.NewObjectID(), &fakeFactory{})
	ctx := context.Background()

	_, err := ctrl.Open(ctx, KindViewTask, "1")
	require.NoError(t, err)
	_, err = ctrl.Submit(ctx, KindViewTask, nil)
	assert.True(t, errors.Is(err, ErrNotSubmittable))

	_, err = ctrl.Open(ctx, KindViewTask, "")
	assert.True(t, errors.Is(err, ErrTargetRequired))
}

func TestController_UnknownKind(t *testing.T) {
	ctrl := NewController(primitive.NewObjectID(), &fakeFactory{})
	_, err := ctrl.Open(context.Background(), Kind("settings"), "")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRegistry_ControllerPerUser(t *testing.T) {
	factory := &fakeFactory{}
	r := NewRegistry(factory, time.Minute)
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()

	ctrl := r.Controller(alice)
	assert.Same(t, ctrl, r.Controller(alice))
	assert.NotSame(t, ctrl, r.Controller(bob))

	_, err := ctrl.Open(context.Background(), KindCreateWorkspace, "")
	require.NoError(t, err)

	r.Drop(alice)
	assert.False(t, ctrl.IsOpen(KindCreateWorkspace))
	assert.Equal(t, 1, factory.forms[0].closed)
}

func TestRegistry_ExpiredControllerIsClosed(t *testing.T) {
	factory := &fakeFactory{}
	r := NewRegistry(factory, time.Hour)
	r.controllers = cache.New(10*time.Millisecond, 0)
	r.controllers.OnEvicted(r.evicted)
	alice := primitive.NewObjectID()

	ctrl := r.Controller(alice)
	_, err := ctrl.Open(context.Background(), KindCreateWorkspace, "")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.NotSame(t, ctrl, r.Controller(alice))
	assert.False(t, ctrl.IsOpen(KindCreateWorkspace))
	assert.Equal(t, 1, factory.forms[0].closed)
}
