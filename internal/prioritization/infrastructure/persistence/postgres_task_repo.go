package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL. Used by
// server deployments where the task store is shared.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// FindByUser retrieves all tasks for a user in sort order.
func (r *PostgresTaskRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, priority, scheduled_date, scheduled_time,
		       duration_minutes, impact, effort, status, created_at, sort_order
		FROM tasks
		WHERE user_id = $1
		ORDER BY sort_order, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			id                                   uuid.UUID
			title, impactStr, effortStr, status  string
			scheduledDate                        *time.Time
			scheduledTime                        sql.NullString
			priority, durationMinutes, sortOrder int
			createdAt                            time.Time
		)
		if err := rows.Scan(&id, &title, &priority, &scheduledDate, &scheduledTime,
			&durationMinutes, &impactStr, &effortStr, &status, &createdAt, &sortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		var dateStr sql.NullString
		if scheduledDate != nil {
			dateStr = sql.NullString{String: scheduledDate.Format("2006-01-02"), Valid: true}
		}
		t, err := rowToTask(id.String(), title, priority, dateStr, scheduledTime,
			durationMinutes, impactStr, effortStr, status, createdAt.Format(time.RFC3339), sortOrder)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdatePriorities writes the 1..4 priority band for each task.
func (r *PostgresTaskRepository) UpdatePriorities(ctx context.Context, userID uuid.UUID, priorities map[uuid.UUID]int) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for id, priority := range priorities {
			if _, err := tx.Exec(ctx,
				`UPDATE tasks SET priority = $1 WHERE id = $2 AND user_id = $3`,
				priority, id, userID,
			); err != nil {
				return fmt.Errorf("failed to update priority: %w", err)
			}
		}
		return nil
	})
}

// UpdateSortOrders writes new manual list positions in one transaction.
func (r *PostgresTaskRepository) UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []task.SortUpdate) (int, error) {
	updated := 0
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, u := range updates {
			tag, err := tx.Exec(ctx,
				`UPDATE tasks SET sort_order = $1 WHERE id = $2 AND user_id = $3`,
				u.SortOrder, u.TaskID, userID,
			)
			if err != nil {
				return fmt.Errorf("failed to update sort order: %w", err)
			}
			updated += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
