package dialog

import (
	"context"
	"encoding/json"
)

// Shell is one opened dialog: a title around some content.
type Shell struct {
	Kind    Kind
	Title   string
	Target  string
	vis     *Visibility
	content Content
}

func NewShell(kind Kind, title, target string, content Content) *Shell {
	s := &Shell{Kind: kind, Title: title, Target: target, content: content}
	s.vis = NewVisibility(func() {
		if c, ok := content.(Closer); ok {
			c.Close()
		}
	})
	return s
}

func (s *Shell) Open()        { s.vis.Open() }
func (s *Shell) Close()       { s.vis.Close() }
func (s *Shell) IsOpen() bool { return s.vis.IsOpen() }

func (s *Shell) Submit(ctx context.Context, payload json.RawMessage) (any, error) {
	if !s.IsOpen() {
		return nil, ErrDialogClosed
	}
	form, ok := s.content.(Form)
	if !ok {
		return nil, ErrNotSubmittable
	}
	return form.Submit(ctx, payload, s.Close)
}

type View struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Target  string `json:"target,omitempty"`
	Open    bool   `json:"open"`
	Content any    `json:"content,omitempty"`
}

// View describes the dialog. Content is rendered only while it is open.
func (s *Shell) View(ctx context.Context) (View, error) {
	v := View{Kind: s.Kind, Title: s.Title, Target: s.Target, Open: s.IsOpen()}
	if !v.Open {
		return v, nil
	}
	content, err := s.content.Render(ctx)
	if err != nil {
		return View{}, err
	}
	v.Content = content
	return v, nil
}
