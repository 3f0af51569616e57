package memory

import (
	"context"
	"sort"
	"sync"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]models.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *TaskStore) Create(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.TaskCode == task.TaskCode {
			return store.ErrDuplicate
		}
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func matches(t models.Task, f models.TaskFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
		return false
	}
	return true
}

func (s *TaskStore) ListByProject(_ context.Context, projectID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID && matches(t, filter) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *TaskStore) Update(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) DeleteByProject(_ context.Context, projectID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.ProjectID == projectID {
			delete(s.tasks, id)
		}
	}
	return nil
}

func (s *TaskStore) DeleteByWorkspace(_ context.Context, workspaceID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.WorkspaceID == workspaceID {
			delete(s.tasks, id)
		}
	}
	return nil
}

func (s *TaskStore) UnassignUser(_ context.Context, workspaceID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		if t.WorkspaceID == workspaceID && t.AssignedTo != nil && *t.AssignedTo == userID {
			t.AssignedTo = nil
			s.tasks[id] = t
		}
	}
	return nil
}
