package memory

import (
	"context"
	"sort"
	"sync"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStore struct {
	mu       sync.RWMutex
	projects map[primitive.ObjectID]models.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[primitive.ObjectID]models.Project)}
}

func (s *ProjectStore) Create(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *ProjectStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *ProjectStore) ListByWorkspace(_ context.Context, workspaceID primitive.ObjectID) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Project, 0)
	for _, p := range s.projects {
		if p.WorkspaceID == workspaceID {
			result = append(result, p)
		}
	}
	// newest first, same as the mongo listing
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *ProjectStore) Update(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[project.ID]; !ok {
		return store.ErrNotFound
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *ProjectStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *ProjectStore) DeleteByWorkspace(_ context.Context, workspaceID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.projects {
		if p.WorkspaceID == workspaceID {
			delete(s.projects, id)
		}
	}
	return nil
}
