package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/ordering"
	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// RepositoryTransport writes sort orders through the local task repository.
// This is the store used by single-user deployments without a remote API.
type RepositoryTransport struct {
	repo   task.Repository
	userID uuid.UUID
}

// NewRepositoryTransport creates a new repository transport for a user.
func NewRepositoryTransport(repo task.Repository, userID uuid.UUID) *RepositoryTransport {
	return &RepositoryTransport{repo: repo, userID: userID}
}

// Save implements ordering.SaveFunc.
func (t *RepositoryTransport) Save(ctx context.Context, payload ordering.Payload) (ordering.SaveResult, error) {
	updates := make([]task.SortUpdate, len(payload.Updates))
	for i, u := range payload.Updates {
		updates[i] = task.SortUpdate{TaskID: u.TaskID, SortOrder: u.SortOrder}
	}

	count, err := t.repo.UpdateSortOrders(ctx, t.userID, updates)
	if err != nil {
		return ordering.SaveResult{}, err
	}
	return ordering.SaveResult{UpdatedCount: count}, nil
}
