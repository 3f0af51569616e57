package forms

import (
	"context"
	"encoding/json"

	"teamsync-project/backend/workspace-service/generator"
)

// DocumentUpload shows the caller's task generator. Closing the dialog
// resets the generator, which drops any generation still running.
type DocumentUpload struct {
	session *generator.Session
	roster  *generator.Roster
}

type uploadView struct {
	generator.Snapshot
	Members []generator.Member `json:"members"`
}

func (d *DocumentUpload) Render(context.Context) (any, error) {
	return uploadView{Snapshot: d.session.Snapshot(), Members: d.roster.Members()}, nil
}

// Submit finishes the assignment step and closes the dialog.
func (d *DocumentUpload) Submit(_ context.Context, _ json.RawMessage, onClose func()) (any, error) {
	tasks := d.session.Finish()
	onClose()
	return tasks, nil
}

func (d *DocumentUpload) Close() {
	d.session.Reset()
}
