package store

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/sadopc/minima/internal/model"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)
	if err := s.Seed(now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s := newTestStore(t)
	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
	empty, err := s.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("fresh store should be empty: %v %v", empty, err)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/minima.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUser(model.User{ID: "user-1", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: migrations must be idempotent and data must survive.
	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, err := s2.GetUser("user-1"); err != nil {
		t.Fatalf("user lost after reopen: %v", err)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	if v := s.GetSettingOr(SettingLastView, ""); v != "dashboard" {
		t.Errorf("last_view = %q", v)
	}
	if v := s.GetSettingOr("missing", "fallback"); v != "fallback" {
		t.Errorf("missing key should use default, got %q", v)
	}
	if _, err := s.GetSetting("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.SetSetting(SettingTaskLayout, "kanban"); err != nil {
		t.Fatal(err)
	}
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, st := range all {
		if st.Key == SettingTaskLayout && st.Value == "kanban" {
			found = true
		}
	}
	if !found {
		t.Fatalf("updated setting missing from %v", all)
	}
}

// ============================================================
// Seed
// ============================================================

func TestSeed(t *testing.T) {
	s := seededStore(t)

	users, err := s.ListUsers()
	if err != nil || len(users) != 2 {
		t.Fatalf("users: %v %v", users, err)
	}
	projects, err := s.ListProjects()
	if err != nil || len(projects) != 3 {
		t.Fatalf("projects: %d %v", len(projects), err)
	}
	if projects[0].ID != "project-3" {
		t.Errorf("projects should be newest first, got %s", projects[0].ID)
	}
	tasks, err := s.ListTasks()
	if err != nil || len(tasks) != 6 {
		t.Fatalf("tasks: %d %v", len(tasks), err)
	}
	if tasks[len(tasks)-1].ID != "task-6" {
		t.Errorf("oldest task should be last, got %s", tasks[len(tasks)-1].ID)
	}

	empty, _ := s.IsEmpty()
	if empty {
		t.Fatal("seeded store reported empty")
	}
}

// ============================================================
// Projects
// ============================================================

func TestProjectRoundTrip(t *testing.T) {
	s := newTestStore(t)
	start := now.AddDate(0, 0, -1)
	p := model.Project{
		ID: "project-1", Name: "UI", Description: "d", Color: model.Palette[0].Value,
		OwnerID: "user-1", MemberIDs: []string{"user-2", "user-1"},
		StartDate: &start, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.SaveProject(p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProject("project-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.MemberIDs, []string{"user-2", "user-1"}) {
		t.Errorf("member order lost: %v", got.MemberIDs)
	}
	if got.Progress != nil {
		t.Errorf("progress should stay unset, got %v", *got.Progress)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) || got.EndDate != nil {
		t.Errorf("dates not preserved: %v %v", got.StartDate, got.EndDate)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("createdAt = %v", got.CreatedAt)
	}

	pct := 40
	p.Name = "UI v2"
	p.MemberIDs = []string{"user-1"}
	p.Progress = &pct
	if err := s.SaveProject(p); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetProject("project-1")
	if got.Name != "UI v2" || len(got.MemberIDs) != 1 || got.Progress == nil || *got.Progress != 40 {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetProject("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteProject("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	s := seededStore(t)
	if err := s.DeleteProject("project-1"); err != nil {
		t.Fatal(err)
	}
	tasks, err := s.ListTasks()
	if err != nil {
		t.Fatal(err)
	}
	for _, tk := range tasks {
		if tk.ProjectID == "project-1" {
			t.Fatalf("task %s survived project deletion", tk.ID)
		}
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks left, got %d", len(tasks))
	}

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM task_assignees WHERE task_id = 'task-4'`).Scan(&n)
	if n != 0 {
		t.Fatalf("assignees of deleted task remain: %d", n)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestTaskRoundTrip(t *testing.T) {
	s := seededStore(t)
	due := now.AddDate(0, 0, 2)
	task := model.Task{
		ID: "task-99", ProjectID: "project-3", Name: "Launch post",
		AssigneeIDs: []string{"user-2", "user-1"}, DueDate: &due,
		Priority: model.PriorityLow, Status: model.StatusPaused,
		Tags: []string{"marketing", "blog"}, CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute),
	}
	if err := s.SaveTask(task); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTask("task-99")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.AssigneeIDs, task.AssigneeIDs) || !reflect.DeepEqual(got.Tags, task.Tags) {
		t.Errorf("lists not preserved: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date = %v", got.DueDate)
	}
	if got.Status != model.StatusPaused || got.Priority != model.PriorityLow {
		t.Errorf("enums = %s/%s", got.Status, got.Priority)
	}

	tasks, _ := s.ListTasks()
	if tasks[0].ID != "task-99" {
		t.Errorf("newest task should be first, got %s", tasks[0].ID)
	}
}

func TestTaskWithoutDueOrTags(t *testing.T) {
	s := seededStore(t)
	task := model.Task{ID: "task-bare", ProjectID: "project-1", Name: "Bare",
		Priority: model.PriorityMedium, Status: model.StatusTodo, CreatedAt: now, UpdatedAt: now}
	if err := s.SaveTask(task); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTask("task-bare")
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate != nil || got.Tags != nil || got.AssigneeIDs != nil {
		t.Fatalf("expected empty optional fields, got %+v", got)
	}
}

func TestSaveTaskUnknownProject(t *testing.T) {
	s := seededStore(t)
	task := model.Task{ID: "task-x", ProjectID: "project-404", Name: "Orphan",
		Priority: model.PriorityMedium, Status: model.StatusTodo, CreatedAt: now, UpdatedAt: now}
	if err := s.SaveTask(task); err == nil {
		t.Fatal("expected foreign key violation")
	}
	if _, err := s.GetTask("task-x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed save should not leave a row: %v", err)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	s := seededStore(t)
	later := now.Add(time.Hour)
	if err := s.UpdateTaskStatus("task-2", model.StatusDone, later); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetTask("task-2")
	if got.Status != model.StatusDone || !got.UpdatedAt.Equal(later) {
		t.Fatalf("status not updated: %+v", got)
	}
	if err := s.UpdateTaskStatus("nope", model.StatusDone, later); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := seededStore(t)
	if err := s.DeleteTask("task-3"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTask("task-3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

// ============================================================
// Notifications and users
// ============================================================

func TestNotifications(t *testing.T) {
	s := seededStore(t)

	mine, err := s.ListNotifications("user-1")
	if err != nil || len(mine) != 2 {
		t.Fatalf("user-1 notifications: %v %v", mine, err)
	}
	if mine[0].ID != "notif-1" {
		t.Errorf("newest first expected, got %s", mine[0].ID)
	}
	all, _ := s.ListNotifications("")
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications overall, got %d", len(all))
	}

	if err := s.MarkNotificationRead("notif-2"); err != nil {
		t.Fatal(err)
	}
	n, err := s.MarkAllNotificationsRead("user-1")
	if err != nil || n != 1 {
		t.Fatalf("mark all read changed %d (%v), want 1", n, err)
	}
	mine, _ = s.ListNotifications("user-1")
	for _, nt := range mine {
		if !nt.IsRead {
			t.Errorf("%s still unread", nt.ID)
		}
	}
	if err := s.MarkNotificationRead("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveUserUpdates(t *testing.T) {
	s := seededStore(t)
	u, err := s.GetUser("user-1")
	if err != nil {
		t.Fatal(err)
	}
	u.DisplayName = "Alice"
	if err := s.SaveUser(u); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetUser("user-1")
	if got.DisplayName != "Alice" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}
	if _, err := s.GetUser("user-9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
