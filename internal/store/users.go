package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/minima/internal/model"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *Store) ListUsers() ([]model.User, error) {
	rows, err := s.db.Query(`SELECT id, email, display_name, avatar_url FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) GetUser(id string) (model.User, error) {
	var u model.User
	err := s.db.QueryRow(
		`SELECT id, email, display_name, avatar_url FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL)
	if err != nil {
		return model.User{}, notFound("user", id, err)
	}
	return u, nil
}

// SaveUser inserts or replaces u.
func (s *Store) SaveUser(u model.User) error {
	return saveUser(s.db, u)
}

func saveUser(q execer, u model.User) error {
	_, err := q.Exec(
		`INSERT INTO users (id, email, display_name, avatar_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET email = excluded.email, display_name = excluded.display_name, avatar_url = excluded.avatar_url`,
		u.ID, u.Email, u.DisplayName, u.AvatarURL,
	)
	if err != nil {
		return fmt.Errorf("save user %q: %w", u.ID, err)
	}
	return nil
}
