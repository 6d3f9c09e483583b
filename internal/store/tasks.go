package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sadopc/minima/internal/model"
)

const taskColumns = `id, project_id, name, description, due_date, priority, status, tags, created_at, updated_at`

func scanTask(r rowScanner) (model.Task, error) {
	var t model.Task
	var due sql.NullString
	var priority, status, tags, createdAt, updatedAt string
	if err := r.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &due,
		&priority, &status, &tags, &createdAt, &updatedAt); err != nil {
		return model.Task{}, err
	}
	t.DueDate = parseNullTime(due)
	t.Priority = model.Priority(priority)
	t.Status = model.Status(status)
	t.Tags = splitTags(tags)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// ListTasks returns every task, newest first, with assignees attached.
func (s *Store) ListTasks() ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assignees, err := s.assignees()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].AssigneeIDs = assignees[tasks[i].ID]
	}
	return tasks, nil
}

func (s *Store) GetTask(id string) (model.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return model.Task{}, notFound("task", id, err)
	}
	assignees, err := s.assignees()
	if err != nil {
		return model.Task{}, err
	}
	t.AssigneeIDs = assignees[id]
	return t, nil
}

func (s *Store) assignees() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT task_id, user_id FROM task_assignees ORDER BY task_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list assignees: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var tid, uid string
		if err := rows.Scan(&tid, &uid); err != nil {
			return nil, err
		}
		out[tid] = append(out[tid], uid)
	}
	return out, rows.Err()
}

// SaveTask inserts or replaces t together with its ordered assignee list.
func (s *Store) SaveTask(t model.Task) error {
	return s.withTx(func(tx *sql.Tx) error {
		return saveTask(tx, t)
	})
}

func saveTask(q execer, t model.Task) error {
	_, err := q.Exec(
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id, name = excluded.name, description = excluded.description,
			due_date = excluded.due_date, priority = excluded.priority, status = excluded.status,
			tags = excluded.tags, updated_at = excluded.updated_at`,
		t.ID, t.ProjectID, t.Name, t.Description, formatNullTime(t.DueDate),
		string(t.Priority), string(t.Status), joinTags(t.Tags),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save task %q: %w", t.ID, err)
	}

	if _, err := q.Exec(`DELETE FROM task_assignees WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear assignees of %q: %w", t.ID, err)
	}
	for i, uid := range t.AssigneeIDs {
		if _, err := q.Exec(
			`INSERT OR IGNORE INTO task_assignees (task_id, user_id, position) VALUES (?, ?, ?)`,
			t.ID, uid, i,
		); err != nil {
			return fmt.Errorf("assign %q to %q: %w", uid, t.ID, err)
		}
	}
	return nil
}

// UpdateTaskStatus changes only status and updated_at.
func (s *Store) UpdateTaskStatus(id string, status model.Status, at time.Time) error {
	res, err := s.db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, string(status), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("update status of %q: %w", id, err)
	}
	return requireAffected(res, "task", id)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %q: %w", id, err)
	}
	return requireAffected(res, "task", id)
}
