package generator

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"teamsync-project/backend/workspace-service/logging"
)

// DefaultDelay is how long a generation takes when none is configured.
const DefaultDelay = 2 * time.Second

// Observer receives lifecycle notifications from sessions.
type Observer interface {
	Generated()
	Discarded()
	Finished(assigned, total int)
}

type nopObserver struct{}

func (nopObserver) Generated()        {}
func (nopObserver) Discarded()        {}
func (nopObserver) Finished(_, _ int) {}

// Token identifies one call to Generate. It stops being current once the
// session is reset.
type Token struct {
	generation uint64
	done       <-chan struct{}
}

// Session is one user's pass through the upload, generate and assign steps.
// It is safe for concurrent use.
type Session struct {
	owner    string
	delay    time.Duration
	roster   *Roster
	observer Observer

	mu         sync.Mutex
	step       Step
	file       *FileInfo
	tasks      []Task
	generating bool
	generation uint64
	timer      *time.Timer
	pending    chan struct{}
}

func NewSession(owner string, delay time.Duration, roster *Roster, observer Observer) *Session {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Session{
		owner:    owner,
		delay:    delay,
		roster:   roster,
		observer: observer,
		step:     StepUpload,
	}
}

// SetFile records the uploaded document, replacing any earlier one.
func (s *Session) SetFile(info FileInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepUpload {
		return ErrWrongStep
	}
	s.file = &info
	return nil
}

// Generate starts producing tasks for the uploaded file. The tasks appear
// after the configured delay unless the session is reset first.
func (s *Session) Generate() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return Token{}, ErrNoFile
	}
	if s.step != StepUpload {
		return Token{}, ErrWrongStep
	}

	s.generating = true
	s.step = StepGenerate
	s.generation++
	s.pending = make(chan struct{})

	gen := s.generation
	file := *s.file
	s.timer = time.AfterFunc(s.delay, func() { s.complete(gen, file) })

	logging.Logger.Infof("Event ID: TASK_GENERATION_STARTED, Description: Generating tasks from %s for %s", file.Name, s.owner)
	return Token{generation: gen, done: s.pending}, nil
}

func (s *Session) complete(gen uint64, file FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || !s.generating {
		return
	}
	s.tasks = TasksFor(file)
	s.generating = false
	s.step = StepAssign
	s.timer = nil
	close(s.pending)
	s.pending = nil
	s.observer.Generated()
}

// Wait blocks until the generation behind t finishes. It returns
// ErrStaleToken if the session was reset before or after completion.
func (s *Session) Wait(ctx context.Context, t Token) error {
	if t.done == nil {
		return ErrStaleToken
	}
	select {
	case <-t.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.generation != s.generation {
		return ErrStaleToken
	}
	return nil
}

// Assign gives the task to a member. Unknown task ids are ignored.
func (s *Session) Assign(taskID, memberID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			id := memberID
			s.tasks[i].AssignedTo = &id
			s.tasks[i].Status = StatusAssigned
		}
	}
}

// Unassign clears the task's member. Unknown task ids are ignored.
func (s *Session) Unassign(taskID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			s.tasks[i].AssignedTo = nil
			s.tasks[i].Status = StatusUnassigned
		}
	}
}

// Reset returns the session to the upload step. Any generation in flight
// is discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending != nil {
		close(s.pending)
		s.pending = nil
		s.observer.Discarded()
	}
	s.generation++
	s.step = StepUpload
	s.file = nil
	s.tasks = nil
	s.generating = false
}

// Finish logs the final assignments and resets the session. The tasks are
// returned as they were logged; nothing is persisted.
func (s *Session) Finish() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := cloneTasks(s.tasks)
	assigned := 0
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		who := "unassigned"
		if t.AssignedTo != nil {
			assigned++
			who = "member " + s.memberName(*t.AssignedTo)
		}
		lines = append(lines, t.Title+" -> "+who)
	}
	logging.Logger.Infof("Event ID: TASKS_ASSIGNED, Description: %s finished with %d/%d tasks assigned: %s", s.owner, assigned, len(tasks), strings.Join(lines, "; "))
	s.observer.Finished(assigned, len(tasks))

	s.resetLocked()
	return tasks
}

func (s *Session) memberName(id int) string {
	if s.roster != nil {
		if m, ok := s.roster.Lookup(id); ok {
			return m.Name
		}
	}
	return "#" + strconv.Itoa(id)
}

// TaskView is a task with its assignee resolved against the roster.
type TaskView struct {
	Task
	Member *Member `json:"member,omitempty"`
}

type Snapshot struct {
	Step          Step       `json:"step"`
	StepTitle     string     `json:"stepTitle"`
	File          *FileInfo  `json:"file,omitempty"`
	Tasks         []TaskView `json:"tasks"`
	Generating    bool       `json:"generating"`
	AssignedCount int        `json:"assignedCount"`
	TotalCount    int        `json:"totalCount"`
	Accept        []string   `json:"accept"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Step:       s.step,
		StepTitle:  s.step.Title(),
		Tasks:      make([]TaskView, 0, len(s.tasks)),
		Generating: s.generating,
		TotalCount: len(s.tasks),
		Accept:     slices.Clone(AcceptedExtensions),
	}
	if s.file != nil {
		f := *s.file
		snap.File = &f
	}
	for _, t := range cloneTasks(s.tasks) {
		view := TaskView{Task: t}
		if t.AssignedTo != nil {
			snap.AssignedCount++
			if s.roster != nil {
				if m, ok := s.roster.Lookup(*t.AssignedTo); ok {
					view.Member = &m
				}
			}
		}
		snap.Tasks = append(snap.Tasks, view)
	}
	return snap
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.AssignedTo != nil {
			id := *t.AssignedTo
			t.AssignedTo = &id
		}
		out[i] = t
	}
	return out
}
