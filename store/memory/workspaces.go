package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"teamsync-project/backend/workspace-service/models"
	"teamsync-project/backend/workspace-service/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkspaceStore struct {
	mu         sync.RWMutex
	workspaces map[primitive.ObjectID]models.Workspace
}

func NewWorkspaceStore() *WorkspaceStore {
	return &WorkspaceStore{workspaces: make(map[primitive.ObjectID]models.Workspace)}
}

// members are copied in and out so callers never share the backing array
func cloneWorkspace(w models.Workspace) models.Workspace {
	w.Members = append([]models.Member(nil), w.Members...)
	return w
}

func (s *WorkspaceStore) Create(_ context.Context, workspace *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.workspaces {
		if w.InviteCode == workspace.InviteCode {
			return store.ErrDuplicate
		}
	}
	if workspace.ID.IsZero() {
		workspace.ID = primitive.NewObjectID()
	}
	s.workspaces[workspace.ID] = cloneWorkspace(*workspace)
	return nil
}

func (s *WorkspaceStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	w = cloneWorkspace(w)
	return &w, nil
}

func (s *WorkspaceStore) GetByInviteCode(_ context.Context, code string) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.workspaces {
		if w.InviteCode == code {
			w = cloneWorkspace(w)
			return &w, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *WorkspaceStore) ListByMember(_ context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Workspace, 0)
	for _, w := range s.workspaces {
		if _, ok := w.MemberRole(userID); ok {
			result = append(result, cloneWorkspace(w))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *WorkspaceStore) Update(_ context.Context, workspace *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workspaces[workspace.ID]
	if !ok {
		return store.ErrNotFound
	}
	w.Name = workspace.Name
	w.Description = workspace.Description
	w.UpdatedAt = workspace.UpdatedAt
	s.workspaces[workspace.ID] = w
	return nil
}

func (s *WorkspaceStore) AddMember(_ context.Context, workspaceID primitive.ObjectID, member models.Member) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, exists := w.MemberRole(member.UserID); exists {
		return nil, store.ErrDuplicate
	}
	w = cloneWorkspace(w)
	w.Members = append(w.Members, member)
	w.UpdatedAt = member.JoinedAt
	s.workspaces[workspaceID] = w

	w = cloneWorkspace(w)
	return &w, nil
}

func (s *WorkspaceStore) RemoveMember(_ context.Context, workspaceID, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workspaces[workspaceID]
	if !ok {
		return store.ErrNotFound
	}
	kept := make([]models.Member, 0, len(w.Members))
	for _, m := range w.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(w.Members) {
		return store.ErrNotFound
	}
	w.Members = kept
	w.UpdatedAt = time.Now()
	s.workspaces[workspaceID] = w
	return nil
}

func (s *WorkspaceStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.workspaces, id)
	return nil
}
