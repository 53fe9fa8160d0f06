package todo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

// Store handles all database operations for tasks. Every query is scoped
// by user_id; nothing here can touch another user's rows.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const taskColumns = `id, user_id, task, due_date, completed, ai_priority, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		t        Task
		due      sql.NullTime
		priority sql.NullInt64
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Text, &due, &t.Completed, &priority, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if priority.Valid {
		p := int(priority.Int64)
		t.AIPriority = &p
	}
	return t, nil
}

func (s *Store) listByUser(ctx context.Context, userID int, onlyIncomplete bool) ([]Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	if onlyIncomplete {
		q += ` AND completed=FALSE`
	}
	q += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) ListByUser(ctx context.Context, userID int) ([]Task, error) {
	return s.listByUser(ctx, userID, false)
}

// ListIncompleteByUser returns the user's pending tasks in stable id order.
// The order matters: distribution tie-breaks follow it.
func (s *Store) ListIncompleteByUser(ctx context.Context, userID int) ([]Task, error) {
	return s.listByUser(ctx, userID, true)
}

func (s *Store) Create(ctx context.Context, userID int, text string, due *time.Time, priority int) (Task, error) {
	var dueVal sql.NullTime
	if due != nil {
		dueVal = sql.NullTime{Time: *due, Valid: true}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, task, due_date, ai_priority)
		VALUES ($1, $2, $3, $4)
		RETURNING `+taskColumns+`
	`, userID, text, dueVal, priority)

	return scanTask(row)
}

func (s *Store) Delete(ctx context.Context, userID, id int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompleted sets the flag when completed is non-nil, toggles otherwise.
func (s *Store) SetCompleted(ctx context.Context, userID, id int, completed *bool) (Task, error) {
	var row *sql.Row
	if completed != nil {
		row = s.db.QueryRowContext(ctx, `
			UPDATE tasks SET completed=$3, updated_at=now()
			WHERE id=$1 AND user_id=$2
			RETURNING `+taskColumns+`
		`, id, userID, *completed)
	} else {
		row = s.db.QueryRowContext(ctx, `
			UPDATE tasks SET completed=NOT completed, updated_at=now()
			WHERE id=$1 AND user_id=$2
			RETURNING `+taskColumns+`
		`, id, userID)
	}

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// UpdatePriority is the only write the AI layer triggers.
func (s *Store) UpdatePriority(ctx context.Context, userID, id, priority int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET ai_priority=$3, updated_at=now()
		WHERE id=$1 AND user_id=$2
	`, id, userID, priority)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
