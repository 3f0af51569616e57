// Package generator holds the mock "generate tasks from a requirements
// document" flow: upload a file, wait for a fixed task list, then assign
// the tasks to team members.
package generator

import "errors"

var (
	ErrNoFile     = errors.New("no document uploaded")
	ErrWrongStep  = errors.New("operation not allowed in the current step")
	ErrStaleToken = errors.New("generation was discarded")
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type TaskStatus string

const (
	StatusUnassigned TaskStatus = "unassigned"
	StatusAssigned   TaskStatus = "assigned"
)

type Task struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       Priority   `json:"priority"`
	EstimatedHours int        `json:"estimatedHours"`
	Category       string     `json:"category"`
	AssignedTo     *int       `json:"assignedTo"`
	Status         TaskStatus `json:"status"`
}

type Member struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

type Step string

const (
	StepUpload   Step = "upload"
	StepGenerate Step = "generate"
	StepAssign   Step = "assign"
)

func (s Step) Title() string {
	switch s {
	case StepGenerate:
		return "Generating Tasks..."
	case StepAssign:
		return "Assign Tasks to Team Members"
	default:
		return "Upload Product Requirement Document"
	}
}

// AcceptedExtensions is advertised to clients; uploads are not checked
// against it.
var AcceptedExtensions = []string{".pdf", ".doc", ".docx"}

var baseTasks = []Task{
	{ID: 1, Title: "Design user authentication flow", Description: "Create wireframes and mockups for login/signup process", Priority: PriorityHigh, EstimatedHours: 8, Category: "Design"},
	{ID: 2, Title: "Implement user registration API", Description: "Develop backend endpoints for user registration and validation", Priority: PriorityHigh, EstimatedHours: 12, Category: "Backend"},
	{ID: 3, Title: "Build responsive dashboard layout", Description: "Create the main dashboard interface with navigation", Priority: PriorityMedium, EstimatedHours: 16, Category: "Frontend"},
	{ID: 4, Title: "Set up database schema", Description: "Design and implement database tables for user data", Priority: PriorityHigh, EstimatedHours: 6, Category: "Backend"},
	{ID: 5, Title: "Write integration tests", Description: "Create comprehensive test suite for new features", Priority: PriorityMedium, EstimatedHours: 10, Category: "QA"},
}

// TasksFor returns the generated task list. The document is not read; every
// file yields the same five unassigned tasks.
func TasksFor(FileInfo) []Task {
	tasks := make([]Task, len(baseTasks))
	for i, t := range baseTasks {
		t.AssignedTo = nil
		t.Status = StatusUnassigned
		tasks[i] = t
	}
	return tasks
}

// DefaultRoster is the team the tasks can be assigned to when no roster
// file is configured.
func DefaultRoster() []Member {
	return []Member{
		{ID: 1, Name: "Alice Johnson", Role: "Frontend Developer", Avatar: "AJ"},
		{ID: 2, Name: "Bob Smith", Role: "Backend Developer", Avatar: "BS"},
		{ID: 3, Name: "Carol Davis", Role: "Designer", Avatar: "CD"},
		{ID: 4, Name: "David Wilson", Role: "Product Manager", Avatar: "DW"},
		{ID: 5, Name: "Eva Brown", Role: "QA Engineer", Avatar: "EB"},
	}
}
