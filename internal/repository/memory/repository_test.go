package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/repository"
)

func TestActionRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryActionRepository()

	action := model.NewActionRecord("session-1", model.ActionDelete, []string{"m1"})
	action.StartedAt = time.Now()
	require.NoError(t, repo.Create(ctx, action))

	action.State = model.StateSucceeded
	require.NoError(t, repo.Update(ctx, action))

	found, err := repo.FindByID(ctx, action.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateSucceeded, found.State)

	found.State = model.StateFailed
	again, _ := repo.FindByID(ctx, action.ID)
	assert.Equal(t, model.StateSucceeded, again.State, "stored records are copies")

	require.NoError(t, repo.DeleteBySession(ctx, "session-1"))
	_, err = repo.FindByID(ctx, action.ID)
	assert.ErrorIs(t, err, repository.ErrActionNotFound)
}

func TestFindBySessionNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryActionRepository()
	base := time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC)

	for i, kind := range []model.ActionKind{model.ActionDelete, model.ActionUnsubscribe, model.ActionBulkDelete} {
		action := model.NewActionRecord("s", kind, nil)
		action.StartedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, action))
	}
	other := model.NewActionRecord("other", model.ActionDelete, nil)
	require.NoError(t, repo.Create(ctx, other))

	actions, err := repo.FindBySession(ctx, "s", 2)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, model.ActionBulkDelete, actions[0].Kind)
	assert.Equal(t, model.ActionUnsubscribe, actions[1].Kind)
}

func TestUpdateUnknownAction(t *testing.T) {
	repo := NewInMemoryActionRepository()
	err := repo.Update(context.Background(), model.NewActionRecord("s", model.ActionDelete, nil))
	assert.ErrorIs(t, err, repository.ErrActionNotFound)
}
