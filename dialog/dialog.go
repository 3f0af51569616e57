// Package dialog tracks which dialogs a user has open and what they show.
// Each user gets a Controller that owns the state of their dialogs.
package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var (
	ErrUnknownKind    = errors.New("unknown dialog")
	ErrDialogClosed   = errors.New("dialog is not open")
	ErrNotSubmittable = errors.New("dialog has nothing to submit")
	ErrTargetRequired = errors.New("dialog requires a target")
)

type Kind string

const (
	KindCreateWorkspace Kind = "create-workspace"
	KindCreateProject   Kind = "create-project"
	KindEditProject     Kind = "edit-project"
	KindCreateTask      Kind = "create-task"
	KindEditTask        Kind = "edit-task"
	KindViewTask        Kind = "view-task"
	KindDocumentUpload  Kind = "document-upload"
)

var Kinds = []Kind{
	KindCreateWorkspace,
	KindCreateProject,
	KindEditProject,
	KindCreateTask,
	KindEditTask,
	KindViewTask,
	KindDocumentUpload,
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Visibility is the open/close pair handed to dialog contents. Close may
// be called any number of times; onClose runs once per open.
type Visibility struct {
	mu      sync.Mutex
	open    bool
	onClose func()
}

func NewVisibility(onClose func()) *Visibility {
	return &Visibility{onClose: onClose}
}

func (v *Visibility) Open() {
	v.mu.Lock()
	v.open = true
	v.mu.Unlock()
}

func (v *Visibility) Close() {
	v.mu.Lock()
	wasOpen := v.open
	v.open = false
	v.mu.Unlock()

	if wasOpen && v.onClose != nil {
		v.onClose()
	}
}

func (v *Visibility) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// Content is whatever a dialog shows.
type Content interface {
	Render(ctx context.Context) (any, error)
}

// Form is content that accepts a submission. Implementations call onClose
// once the submission succeeded.
type Form interface {
	Content
	Submit(ctx context.Context, payload json.RawMessage, onClose func()) (any, error)
}

// Closer is implemented by content holding state that must be released
// when its dialog closes.
type Closer interface {
	Close()
}
