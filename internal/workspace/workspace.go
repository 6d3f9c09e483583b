// Package workspace keeps one user's view of the data in memory and routes
// every change through the board aggregator and then the store.
//
// A mutation computes the next collection, persists the entities that
// changed, and only then swaps the collection in. A failed write leaves the
// session as it was.
package workspace

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Store is the persistence the session writes through to.
type Store interface {
	ListUsers() ([]model.User, error)
	ListProjects() ([]model.Project, error)
	ListTasks() ([]model.Task, error)
	ListNotifications(userID string) ([]model.Notification, error)
	SaveUser(model.User) error
	SaveProject(model.Project) error
	DeleteProject(id string) error
	SaveTask(model.Task) error
	UpdateTaskStatus(id string, status model.Status, at time.Time) error
	DeleteTask(id string) error
	SaveNotification(model.Notification) error
	MarkNotificationRead(id string) error
	MarkAllNotificationsRead(userID string) (int64, error)
}

var _ Store = (*store.Store)(nil)

// Snapshot is a copy of the session's collections.
type Snapshot struct {
	Users         []model.User
	Projects      []model.Project
	Tasks         []model.Task
	Notifications []model.Notification
}

type Session struct {
	mu sync.RWMutex

	store      Store
	userID     string
	now        func() time.Time
	classifier board.Classifier

	users         []model.User
	projects      []model.Project
	tasks         []model.Task
	notifications []model.Notification
}

type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithClassifier(c board.Classifier) Option {
	return func(s *Session) { s.classifier = c }
}

// Open loads every collection from st for userID.
func Open(st Store, userID string, opts ...Option) (*Session, error) {
	s := &Session{
		store:      st,
		userID:     userID,
		now:        time.Now,
		classifier: board.Classifier{MissingDue: board.MissingDueEpoch},
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collections with what the store holds.
func (s *Session) Reload() error {
	users, err := s.store.ListUsers()
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	tasks, err := s.store.ListTasks()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	notifs, err := s.store.ListNotifications("")
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.projects, s.tasks, s.notifications = users, projects, tasks, notifs
	return nil
}

func (s *Session) UserID() string { return s.userID }

func (s *Session) Now() time.Time { return s.now() }

func (s *Session) Classifier() board.Classifier { return s.classifier }

// CurrentUser returns the configured user. ok is false when the id is not in
// the user directory.
func (s *Session) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.ResolveUser(s.userID, s.users)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Users:         append([]model.User(nil), s.users...),
		Projects:      make([]model.Project, len(s.projects)),
		Tasks:         make([]model.Task, len(s.tasks)),
		Notifications: append([]model.Notification(nil), s.notifications...),
	}
	for i, p := range s.projects {
		snap.Projects[i] = p.Clone()
	}
	for i, t := range s.tasks {
		snap.Tasks[i] = t.Clone()
	}
	return snap
}

// Dashboard classifies the tasks for userID, or the current user when empty.
func (s *Session) Dashboard(userID string) board.Counts {
	if userID == "" {
		userID = s.userID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classifier.Classify(s.tasks, userID, s.now())
}

func (s *Session) Upcoming() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.UpcomingFor(s.tasks, s.userID, s.now())
}

func (s *Session) Tasks(f board.Filter) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.FilterTasks(s.tasks, f)
}

func (s *Session) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.FindTask(s.tasks, id)
}

func (s *Session) Project(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.ResolveProject(id, s.projects)
}

// Board buckets the tasks of one project, narrowed by f.
func (s *Session) Board(projectID string, f board.Filter) board.Buckets {
	f.ProjectID = projectID
	return board.BucketByStatus(s.Tasks(f))
}

// Notifications returns the current user's feed, newest first.
func (s *Session) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return board.NotificationsFor(s.notifications, s.userID)
}
