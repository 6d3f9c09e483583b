package store

import (
	"fmt"

	"github.com/sadopc/minima/internal/model"
)

// ListNotifications returns notifications newest first. An empty userID
// lists every user's.
func (s *Store) ListNotifications(userID string) ([]model.Notification, error) {
	query := `SELECT id, user_id, message, link, is_read, created_at FROM notifications`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var read int
		var createdAt string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &read, &createdAt); err != nil {
			return nil, err
		}
		n.IsRead = read == 1
		n.CreatedAt = parseTime(createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) SaveNotification(n model.Notification) error {
	return saveNotification(s.db, n)
}

func saveNotification(q execer, n model.Notification) error {
	read := 0
	if n.IsRead {
		read = 1
	}
	_, err := q.Exec(
		`INSERT INTO notifications (id, user_id, message, link, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET message = excluded.message, link = excluded.link, is_read = excluded.is_read`,
		n.ID, n.UserID, n.Message, n.Link, read, formatTime(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save notification %q: %w", n.ID, err)
	}
	return nil
}

func (s *Store) MarkNotificationRead(id string) error {
	res, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark %q read: %w", id, err)
	}
	return requireAffected(res, "notification", id)
}

// MarkAllNotificationsRead returns how many notifications changed.
func (s *Store) MarkAllNotificationsRead(userID string) (int64, error) {
	res, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read for %q: %w", userID, err)
	}
	return res.RowsAffected()
}
