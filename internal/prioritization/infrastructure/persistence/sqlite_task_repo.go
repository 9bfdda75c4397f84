// Package persistence provides SQLite and Postgres implementations of the
// task repository.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	title            TEXT NOT NULL,
	priority         INTEGER NOT NULL DEFAULT 1,
	scheduled_date   TEXT,
	scheduled_time   TEXT,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	impact           TEXT NOT NULL DEFAULT '',
	effort           TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'inbox',
	created_at       TEXT NOT NULL,
	sort_order       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tasks_user_sort ON tasks(user_id, sort_order);
`

// OpenSQLite opens the SQLite database at path with the pragmas this engine
// needs and ensures the schema exists.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	// journal_mode=WAL for concurrency, busy_timeout so a lock waits instead
	// of failing immediately.
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite doesn't support multiple writers, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// FindByUser retrieves all tasks for a user in sort order.
func (r *SQLiteTaskRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, priority, scheduled_date, scheduled_time,
		       duration_minutes, impact, effort, status, created_at, sort_order
		FROM tasks
		WHERE user_id = ?
		ORDER BY sort_order, created_at`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			idStr, title, impactStr, effortStr, statusStr string
			scheduledDate, scheduledTime                  sql.NullString
			priority, durationMinutes, sortOrder          int
			createdAtStr                                  string
		)
		if err := rows.Scan(&idStr, &title, &priority, &scheduledDate, &scheduledTime,
			&durationMinutes, &impactStr, &effortStr, &statusStr, &createdAtStr, &sortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		t, err := rowToTask(idStr, title, priority, scheduledDate, scheduledTime,
			durationMinutes, impactStr, effortStr, statusStr, createdAtStr, sortOrder)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdatePriorities writes the 1..4 priority band for each task.
func (r *SQLiteTaskRepository) UpdatePriorities(ctx context.Context, userID uuid.UUID, priorities map[uuid.UUID]int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for id, priority := range priorities {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET priority = ? WHERE id = ? AND user_id = ?`,
			priority, id.String(), userID.String(),
		); err != nil {
			return fmt.Errorf("failed to update priority: %w", err)
		}
	}
	return tx.Commit()
}

// UpdateSortOrders writes new manual list positions.
func (r *SQLiteTaskRepository) UpdateSortOrders(ctx context.Context, userID uuid.UUID, updates []task.SortUpdate) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updated := 0
	for _, u := range updates {
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET sort_order = ? WHERE id = ? AND user_id = ?`,
			u.SortOrder, u.TaskID.String(), userID.String(),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update sort order: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		updated += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

// Save persists a task. Used by the CLI and by tests to seed data; the engine
// itself only reads.
func (r *SQLiteTaskRepository) Save(ctx context.Context, userID uuid.UUID, t task.Task) error {
	if t.ID == uuid.Nil {
		return task.ErrMissingID
	}

	var scheduledDate, scheduledTime sql.NullString
	if t.ScheduledDate != nil {
		scheduledDate = sql.NullString{String: t.ScheduledDate.Format("2006-01-02"), Valid: true}
	}
	if t.ScheduledTime != nil {
		scheduledTime = sql.NullString{String: t.ScheduledTime.String(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, priority, scheduled_date, scheduled_time,
		                   duration_minutes, impact, effort, status, created_at, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			priority = excluded.priority,
			scheduled_date = excluded.scheduled_date,
			scheduled_time = excluded.scheduled_time,
			duration_minutes = excluded.duration_minutes,
			impact = excluded.impact,
			effort = excluded.effort,
			status = excluded.status,
			sort_order = excluded.sort_order`,
		t.ID.String(), userID.String(), t.Title, t.Priority, scheduledDate, scheduledTime,
		t.DurationMinutes, t.Impact.String(), t.Effort.String(), t.Status.String(),
		t.CreatedAt.UTC().Format(time.RFC3339), t.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// rowToTask converts scanned columns into a domain task.
func rowToTask(idStr, title string, priority int, scheduledDate, scheduledTime sql.NullString,
	durationMinutes int, impactStr, effortStr, statusStr, createdAtStr string, sortOrder int) (task.Task, error) {

	id, err := uuid.Parse(idStr)
	if err != nil {
		return task.Task{}, fmt.Errorf("invalid task id %q: %w", idStr, err)
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return task.Task{}, fmt.Errorf("invalid created_at %q: %w", createdAtStr, err)
	}

	status, err := task.ParseStatus(statusStr)
	if err != nil {
		return task.Task{}, err
	}
	impact, err := task.ParseImpact(impactStr)
	if err != nil {
		return task.Task{}, err
	}
	effort, err := task.ParseEffort(effortStr)
	if err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:              id,
		Title:           title,
		Priority:        priority,
		DurationMinutes: durationMinutes,
		Impact:          impact,
		Effort:          effort,
		Status:          status,
		CreatedAt:       createdAt,
		SortOrder:       sortOrder,
	}

	if scheduledDate.Valid && scheduledDate.String != "" {
		date, err := time.ParseInLocation("2006-01-02", scheduledDate.String, time.Local)
		if err != nil {
			return task.Task{}, fmt.Errorf("invalid scheduled_date %q: %w", scheduledDate.String, err)
		}
		t.ScheduledDate = &date
	}
	if scheduledTime.Valid && scheduledTime.String != "" {
		var hour, minute int
		if _, err := fmt.Sscanf(scheduledTime.String, "%d:%d", &hour, &minute); err != nil {
			return task.Task{}, fmt.Errorf("invalid scheduled_time %q: %w", scheduledTime.String, err)
		}
		tod, err := task.NewTimeOfDay(hour, minute)
		if err != nil {
			return task.Task{}, err
		}
		t.ScheduledTime = &tod
	}

	return t, nil
}
