package store

import (
	"database/sql"
	"time"

	"github.com/sadopc/minima/internal/model"
)

// Demo is the sample workspace a fresh install starts with.
type Demo struct {
	Users         []model.User
	Projects      []model.Project
	Tasks         []model.Task
	Notifications []model.Notification
}

// DemoData builds the sample workspace with every date relative to now.
func DemoData(now time.Time) Demo {
	days := func(n float64) time.Time {
		return now.Add(time.Duration(n * float64(24*time.Hour)))
	}
	ptr := func(t time.Time) *time.Time { return &t }
	pct := func(v int) *int { return &v }

	users := []model.User{
		{ID: "user-1", Email: "alice@example.com", DisplayName: "Alice Wonderland", AvatarURL: "https://placehold.co/100x100"},
		{ID: "user-2", Email: "bob@example.com", DisplayName: "Bob The Builder", AvatarURL: "https://placehold.co/100x100"},
	}

	projects := []model.Project{
		{
			ID: "project-1", Name: "MinimaProject UI Design",
			Description: "Design the user interface and experience for the new MinimaProject app.",
			Color:       model.Palette[0].Value, OwnerID: "user-1", MemberIDs: []string{"user-1", "user-2"},
			CreatedAt: days(-10), UpdatedAt: days(-1), Progress: pct(60),
		},
		{
			ID: "project-2", Name: "Backend Development",
			Description: "Develop the backend API and database schema for MinimaProject.",
			Color:       model.Palette[1].Value, OwnerID: "user-2", MemberIDs: []string{"user-1", "user-2"},
			CreatedAt: days(-5), UpdatedAt: days(-2), Progress: pct(30),
		},
		{
			ID: "project-3", Name: "Marketing Campaign",
			Description: "Plan and execute the marketing campaign for the launch.",
			Color:       model.Palette[2].Value, OwnerID: "user-1", MemberIDs: []string{"user-1"},
			CreatedAt: days(-2), UpdatedAt: days(-0.5), Progress: pct(10),
		},
	}

	tasks := []model.Task{
		{
			ID: "task-1", ProjectID: "project-1", Name: "Create wireframes for dashboard",
			Description: "Detailed wireframes for all dashboard components and states.",
			AssigneeIDs: []string{"user-1"}, DueDate: ptr(days(3)),
			Priority: model.PriorityHigh, Status: model.StatusInProgress, Tags: []string{"design", "ux"},
			CreatedAt: days(-3), UpdatedAt: now,
		},
		{
			ID: "task-2", ProjectID: "project-1", Name: "Select color palette",
			Description: "Finalize primary, secondary, and accent colors.",
			AssigneeIDs: []string{"user-1"}, DueDate: ptr(days(1)),
			Priority: model.PriorityMedium, Status: model.StatusTodo, Tags: []string{"design", "ui"},
			CreatedAt: days(-2), UpdatedAt: now,
		},
		{
			ID: "task-3", ProjectID: "project-2", Name: "Setup database schema",
			Description: "Define tables for users, projects, tasks.",
			AssigneeIDs: []string{"user-2"}, DueDate: ptr(days(5)),
			Priority: model.PriorityHigh, Status: model.StatusTodo, Tags: []string{"backend", "database"},
			CreatedAt: days(-1), UpdatedAt: now,
		},
		{
			ID: "task-4", ProjectID: "project-1", Name: "User testing for prototype",
			Description: "Conduct user testing sessions with the interactive prototype.",
			AssigneeIDs: []string{"user-1", "user-2"}, DueDate: ptr(days(10)),
			Priority: model.PriorityMedium, Status: model.StatusTodo, Tags: []string{"ux", "research"},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "task-5", ProjectID: "project-2", Name: "Implement authentication API",
			Description: "Endpoints for user registration, login, logout.",
			AssigneeIDs: []string{"user-2"}, DueDate: ptr(days(7)),
			Priority: model.PriorityHigh, Status: model.StatusInProgress, Tags: []string{"backend", "api", "security"},
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "task-6", ProjectID: "project-1", Name: "Design landing page",
			Description: "Create mockups for the MinimaProject landing page.",
			AssigneeIDs: []string{"user-1"}, DueDate: ptr(days(-1)),
			Priority: model.PriorityMedium, Status: model.StatusDone, Tags: []string{"design", "marketing"},
			CreatedAt: days(-10), UpdatedAt: days(-2),
		},
	}

	notifications := []model.Notification{
		{
			ID: "notif-1", UserID: "user-1",
			Message: `You were assigned to "Create wireframes for dashboard".`,
			Link:    "/projects/project-1?task=task-1", CreatedAt: now,
		},
		{
			ID: "notif-2", UserID: "user-1",
			Message: `Task "Select color palette" is due tomorrow.`,
			Link:    "/projects/project-1?task=task-2", CreatedAt: now.Add(-time.Hour),
		},
		{
			ID: "notif-3", UserID: "user-2",
			Message: `Alice commented on "Setup database schema".`,
			Link:    "/projects/project-2?task=task-3", IsRead: true, CreatedAt: days(-2),
		},
	}

	return Demo{Users: users, Projects: projects, Tasks: tasks, Notifications: notifications}
}

// Seed writes the demo workspace in one transaction.
func (s *Store) Seed(now time.Time) error {
	d := DemoData(now)
	return s.withTx(func(tx *sql.Tx) error {
		for _, u := range d.Users {
			if err := saveUser(tx, u); err != nil {
				return err
			}
		}
		for _, p := range d.Projects {
			if err := saveProject(tx, p); err != nil {
				return err
			}
		}
		for _, t := range d.Tasks {
			if err := saveTask(tx, t); err != nil {
				return err
			}
		}
		for _, n := range d.Notifications {
			if err := saveNotification(tx, n); err != nil {
				return err
			}
		}
		return nil
	})
}
