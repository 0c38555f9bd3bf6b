package memory

import (
	"context"
	"sort"
	"sync"

	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/repository"
)

type InMemoryActionRepository struct {
	actions map[string]*model.ActionRecord
	mutex   sync.RWMutex
}

func NewInMemoryActionRepository() *InMemoryActionRepository {
	return &InMemoryActionRepository{
		actions: make(map[string]*model.ActionRecord),
	}
}

func (r *InMemoryActionRepository) Create(ctx context.Context, action *model.ActionRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *action
	r.actions[action.ID] = &stored
	return nil
}

func (r *InMemoryActionRepository) FindByID(ctx context.Context, id string) (*model.ActionRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	action, exists := r.actions[id]
	if !exists {
		return nil, repository.ErrActionNotFound
	}
	found := *action
	return &found, nil
}

// FindBySession returns the newest records first, at most limit of them
// when limit is positive.
func (r *InMemoryActionRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]*model.ActionRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var actions []*model.ActionRecord
	for _, action := range r.actions {
		if action.SessionID == sessionID {
			found := *action
			actions = append(actions, &found)
		}
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].StartedAt.After(actions[j].StartedAt)
	})
	if limit > 0 && len(actions) > limit {
		actions = actions[:limit]
	}
	return actions, nil
}

func (r *InMemoryActionRepository) Update(ctx context.Context, action *model.ActionRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.actions[action.ID]; !exists {
		return repository.ErrActionNotFound
	}
	stored := *action
	r.actions[action.ID] = &stored
	return nil
}

func (r *InMemoryActionRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, action := range r.actions {
		if action.SessionID == sessionID {
			delete(r.actions, id)
		}
	}
	return nil
}
