package dialog

import (
	"context"
	"encoding/json"
	"sync"

	"teamsync-project/backend/workspace-service/logging"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentFactory builds fresh content each time a dialog is opened.
type ContentFactory interface {
	Build(ctx context.Context, userID primitive.ObjectID, kind Kind, target string) (title string, content Content, err error)
}

// Controller owns one user's dialogs. Dialogs are independent of each
// other; opening one does not close the rest.
type Controller struct {
	userID  primitive.ObjectID
	factory ContentFactory

	mu     sync.Mutex
	shells map[Kind]*Shell
}

func NewController(userID primitive.ObjectID, factory ContentFactory) *Controller {
	return &Controller{userID: userID, factory: factory, shells: make(map[Kind]*Shell)}
}

// Open shows the dialog with new content. A dialog of the same kind that
// is already open is closed and replaced.
func (c *Controller) Open(ctx context.Context, kind Kind, target string) (*Shell, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	title, content, err := c.factory.Build(ctx, c.userID, kind, target)
	if err != nil {
		return nil, err
	}
	shell := NewShell(kind, title, target, content)

	c.mu.Lock()
	previous := c.shells[kind]
	c.shells[kind] = shell
	c.mu.Unlock()

	if previous != nil {
		previous.Close()
	}
	shell.Open()
	logging.Logger.Debugf("Event ID: DIALOG_OPENED, Description: %s opened %s", c.userID.Hex(), kind)
	return shell, nil
}

// Close hides the dialog. Closing a dialog that is closed or was never
// opened does nothing.
func (c *Controller) Close(kind Kind) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	c.mu.Lock()
	shell := c.shells[kind]
	c.mu.Unlock()

	if shell != nil {
		shell.Close()
	}
	return nil
}

func (c *Controller) IsOpen(kind Kind) bool {
	c.mu.Lock()
	shell := c.shells[kind]
	c.mu.Unlock()
	return shell != nil && shell.IsOpen()
}

func (c *Controller) Submit(ctx context.Context, kind Kind, payload json.RawMessage) (any, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	c.mu.Lock()
	shell := c.shells[kind]
	c.mu.Unlock()

	if shell == nil {
		return nil, ErrDialogClosed
	}
	return shell.Submit(ctx, payload)
}

func (c *Controller) View(ctx context.Context, kind Kind) (View, error) {
	if !kind.Valid() {
		return View{}, ErrUnknownKind
	}
	c.mu.Lock()
	shell := c.shells[kind]
	c.mu.Unlock()

	if shell == nil {
		return View{Kind: kind}, nil
	}
	return shell.View(ctx)
}

// Views lists every dialog the user has opened so far, open or not.
func (c *Controller) Views(ctx context.Context) ([]View, error) {
	views := make([]View, 0, len(Kinds))
	for _, kind := range Kinds {
		c.mu.Lock()
		shell := c.shells[kind]
		c.mu.Unlock()
		if shell == nil {
			continue
		}
		v, err := shell.View(ctx)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (c *Controller) CloseAll() {
	c.mu.Lock()
	shells := make([]*Shell, 0, len(c.shells))
	for _, s := range c.shells {
		shells = append(shells, s)
	}
	c.mu.Unlock()

	for _, s := range shells {
		s.Close()
	}
}
