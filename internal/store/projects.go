package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/minima/internal/model"
)

const projectColumns = `id, name, description, color, owner_id, start_date, end_date, progress, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (model.Project, error) {
	var p model.Project
	var start, end sql.NullString
	var progress sql.NullInt64
	var createdAt, updatedAt string
	if err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.OwnerID,
		&start, &end, &progress, &createdAt, &updatedAt); err != nil {
		return model.Project{}, err
	}
	p.StartDate = parseNullTime(start)
	p.EndDate = parseNullTime(end)
	if progress.Valid {
		v := int(progress.Int64)
		p.Progress = &v
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// ListProjects returns every project, newest first, with members attached.
func (s *Store) ListProjects() ([]model.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		projects = append(projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := s.members()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].MemberIDs = members[projects[i].ID]
	}
	return projects, nil
}

func (s *Store) GetProject(id string) (model.Project, error) {
	p, err := scanProject(s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return model.Project{}, notFound("project", id, err)
	}
	members, err := s.members()
	if err != nil {
		return model.Project{}, err
	}
	p.MemberIDs = members[id]
	return p, nil
}

func (s *Store) members() (map[string][]string, error) {
	rows, err := s.db.Query(`SELECT project_id, user_id FROM project_members ORDER BY project_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var pid, uid string
		if err := rows.Scan(&pid, &uid); err != nil {
			return nil, err
		}
		out[pid] = append(out[pid], uid)
	}
	return out, rows.Err()
}

// SaveProject inserts or replaces p together with its member list.
func (s *Store) SaveProject(p model.Project) error {
	return s.withTx(func(tx *sql.Tx) error {
		return saveProject(tx, p)
	})
}

func saveProject(q execer, p model.Project) error {
	var progress sql.NullInt64
	if p.Progress != nil {
		progress = sql.NullInt64{Int64: int64(*p.Progress), Valid: true}
	}
	_, err := q.Exec(
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, description = excluded.description, color = excluded.color,
			owner_id = excluded.owner_id, start_date = excluded.start_date, end_date = excluded.end_date,
			progress = excluded.progress, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Description, p.Color, p.OwnerID,
		formatNullTime(p.StartDate), formatNullTime(p.EndDate), progress,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save project %q: %w", p.ID, err)
	}

	if _, err := q.Exec(`DELETE FROM project_members WHERE project_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear members of %q: %w", p.ID, err)
	}
	for i, uid := range p.MemberIDs {
		if _, err := q.Exec(
			`INSERT OR IGNORE INTO project_members (project_id, user_id, position) VALUES (?, ?, ?)`,
			p.ID, uid, i,
		); err != nil {
			return fmt.Errorf("add member %q to %q: %w", uid, p.ID, err)
		}
	}
	return nil
}

// DeleteProject removes the project. Its tasks go with it through the
// foreign key cascade.
func (s *Store) DeleteProject(id string) error {
	res, err := s.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %q: %w", id, err)
	}
	return requireAffected(res, "project", id)
}
