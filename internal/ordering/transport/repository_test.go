package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxplan/voxplan/internal/ordering"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

type fakeRepo struct {
	task.Repository

	gotUserID  uuid.UUID
	gotUpdates []task.SortUpdate
	err        error
}

func (f *fakeRepo) UpdateSortOrders(_ context.Context, userID uuid.UUID, updates []task.SortUpdate) (int, error) {
	f.gotUserID = userID
	f.gotUpdates = updates
	if f.err != nil {
		return 0, f.err
	}
	return len(updates), nil
}

func TestRepositoryTransport_Save(t *testing.T) {
	userID := uuid.New()

	t.Run("forwards updates in order", func(t *testing.T) {
		repo := &fakeRepo{}
		transport := NewRepositoryTransport(repo, userID)
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		result, err := transport.Save(context.Background(), ordering.NewPayload("inbox", ids))

		require.NoError(t, err)
		assert.Equal(t, 3, result.UpdatedCount)
		assert.Equal(t, userID, repo.gotUserID)
		require.Len(t, repo.gotUpdates, 3)
		for i, u := range repo.gotUpdates {
			assert.Equal(t, ids[i], u.TaskID)
			assert.Equal(t, i, u.SortOrder)
		}
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repoErr := errors.New("disk full")
		transport := NewRepositoryTransport(&fakeRepo{err: repoErr}, userID)

		_, err := transport.Save(context.Background(), ordering.NewPayload("inbox", []uuid.UUID{uuid.New()}))

		assert.ErrorIs(t, err, repoErr)
	})
}
