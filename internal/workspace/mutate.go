package workspace

import (
	"fmt"
	"log"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
)

// ChangeStatus moves a task to status.
func (s *Session) ChangeStatus(taskID string, status model.Status) (model.Task, error) {
	if !status.Valid() {
		return model.Task{}, fmt.Errorf("change status: unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := board.FindTask(s.tasks, taskID); !ok {
		return model.Task{}, fmt.Errorf("change status of %q: %w", taskID, ErrTaskNotFound)
	}
	now := s.now()
	next := board.ChangeStatus(s.tasks, taskID, status, now)
	if err := s.store.UpdateTaskStatus(taskID, status, now); err != nil {
		return model.Task{}, err
	}
	s.tasks = next
	t, _ := board.FindTask(next, taskID)
	return t, nil
}

// SaveTask validates f and creates a task in projectID (existingID empty) or
// updates existingID. New assignees are notified.
func (s *Session) SaveTask(f forms.TaskForm, existingID, projectID string) (model.Task, error) {
	if errs := f.Validate(); errs != nil {
		return model.Task{}, errs
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var before *model.Task
	if existingID != "" {
		t, ok := board.FindTask(s.tasks, existingID)
		if !ok {
			return model.Task{}, fmt.Errorf("save task %q: %w", existingID, ErrTaskNotFound)
		}
		before = &t
	}
	if projectID != "" || before == nil {
		if _, ok := board.ResolveProject(projectID, s.projects); !ok {
			return model.Task{}, fmt.Errorf("save task in %q: %w", projectID, ErrProjectNotFound)
		}
	}

	now := s.now()
	task := f.ToTask(before, projectID, now)
	if err := s.store.SaveTask(task); err != nil {
		return model.Task{}, err
	}
	s.tasks = board.UpsertTask(s.tasks, task)

	notices := board.AssignmentNotices(before, task, now)
	var saved []model.Notification
	for _, n := range notices {
		if err := s.store.SaveNotification(n); err != nil {
			log.Printf("notify %s about %s: %v", n.UserID, task.ID, err)
			continue
		}
		saved = append(saved, n)
	}
	s.notifications = board.AppendNotifications(s.notifications, saved...)
	return task, nil
}

func (s *Session) DeleteTask(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := board.FindTask(s.tasks, taskID); !ok {
		return fmt.Errorf("delete task %q: %w", taskID, ErrTaskNotFound)
	}
	if err := s.store.DeleteTask(taskID); err != nil {
		return err
	}
	s.tasks = board.DeleteTask(s.tasks, taskID)
	return nil
}

// SaveProject validates f and creates a project owned by the current user
// (existingID empty) or updates existingID.
func (s *Session) SaveProject(f forms.ProjectForm, existingID string) (model.Project, error) {
	if errs := f.Validate(); errs != nil {
		return model.Project{}, errs
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var before *model.Project
	if existingID != "" {
		p, ok := board.ResolveProject(existingID, s.projects)
		if !ok {
			return model.Project{}, fmt.Errorf("save project %q: %w", existingID, ErrProjectNotFound)
		}
		before = &p
	}

	p := f.ToProject(before, s.userID, s.now())
	if err := s.store.SaveProject(p); err != nil {
		return model.Project{}, err
	}
	s.projects = board.UpsertProject(s.projects, p)
	return p, nil
}

// DeleteProject removes a project and all of its tasks. It returns how many
// tasks went with it.
func (s *Session) DeleteProject(projectID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := board.ResolveProject(projectID, s.projects); !ok {
		return 0, fmt.Errorf("delete project %q: %w", projectID, ErrProjectNotFound)
	}
	if err := s.store.DeleteProject(projectID); err != nil {
		return 0, err
	}
	projects, tasks := board.DeleteProject(s.projects, s.tasks, projectID)
	removed := len(s.tasks) - len(tasks)
	s.projects, s.tasks = projects, tasks
	return removed, nil
}

func (s *Session) MarkRead(notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, n := range s.notifications {
		if n.ID == notificationID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("mark %q read: %w", notificationID, ErrNotificationNotFound)
	}
	if err := s.store.MarkNotificationRead(notificationID); err != nil {
		return err
	}
	s.notifications = board.MarkRead(s.notifications, notificationID)
	return nil
}

// MarkAllRead marks the current user's notifications read.
func (s *Session) MarkAllRead() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.MarkAllNotificationsRead(s.userID); err != nil {
		return err
	}
	s.notifications = board.MarkAllRead(s.notifications, s.userID)
	return nil
}

// UpdateProfile validates f and applies it to the current user.
func (s *Session) UpdateProfile(f forms.ProfileForm) (model.User, error) {
	if errs := f.Validate(); errs != nil {
		return model.User{}, errs
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, u := range s.users {
		if u.ID == s.userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.User{}, fmt.Errorf("update profile of %q: %w", s.userID, ErrUserNotFound)
	}

	u := f.ApplyTo(s.users[idx])
	if err := s.store.SaveUser(u); err != nil {
		return model.User{}, err
	}
	users := append([]model.User(nil), s.users...)
	users[idx] = u
	s.users = users
	return u, nil
}
