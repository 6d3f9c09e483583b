package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T) (*workspace.Session, *store.Store) {
	t.Helper()
	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Seed(now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := workspace.Open(st, "user-1", workspace.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s, st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedBrowser returns a project browser with its first refresh applied.
func loadedBrowser(t *testing.T, s *workspace.Session, st *store.Store, projectID string) taskBrowser {
	t.Helper()
	b := newTaskBrowser(s, st, projectID, false)
	b.setSize(120, 40)
	b, _ = b.update(b.refresh()())
	return b
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ============================================================
// Views and navigation
// ============================================================

func TestViewNamesMatchConfig(t *testing.T) {
	if len(viewNames) != len(config.Views) {
		t.Fatalf("%d tab names for %d views", len(viewNames), len(config.Views))
	}
	for i := range config.Views {
		v, ok := viewFromKey(config.Views[i])
		if !ok || v != viewState(i) {
			t.Errorf("viewFromKey(%q) = %d, %v", config.Views[i], v, ok)
		}
		if v.key() != config.Views[i] {
			t.Errorf("key() = %q", v.key())
		}
	}
	if _, ok := viewFromKey("reports"); ok {
		t.Error("unknown view should not resolve")
	}
}

func TestNewAppStartView(t *testing.T) {
	s, st := newTestSession(t)

	cfg := config.Default()
	if a := NewApp(s, st, cfg); a.activeView != viewDashboard {
		t.Errorf("default start view = %d", a.activeView)
	}

	cfg.StartView = "notifications"
	if a := NewApp(s, st, cfg); a.activeView != viewNotifications {
		t.Errorf("configured start view = %d", a.activeView)
	}

	cfg.StartView = config.LastView
	if a := NewApp(s, st, cfg); a.activeView != viewDashboard {
		t.Errorf("last view without a remembered tab = %d", a.activeView)
	}
	if err := st.SetSetting(store.SettingLastView, "mytasks"); err != nil {
		t.Fatal(err)
	}
	if a := NewApp(s, st, cfg); a.activeView != viewMyTasks {
		t.Errorf("remembered start view = %d", a.activeView)
	}
}

func TestAppLoadingBeforeResize(t *testing.T) {
	s, st := newTestSession(t)
	a := NewApp(s, st, config.Default())
	if got := a.View(); got != "Loading..." {
		t.Fatalf("View() = %q", got)
	}
}

func TestAppHeaderAndFooter(t *testing.T) {
	s, st := newTestSession(t)
	a := NewApp(s, st, config.Default())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	a = m.(App)

	header := a.renderHeader()
	for _, want := range []string{"minima", "Dashboard", "Projects", "My Tasks", "Notifications (2)", "Settings"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q:\n%s", want, header)
		}
	}

	m, _ = a.Update(statusMsg{text: "Task deleted"})
	a = m.(App)
	footer := a.renderFooter()
	if !strings.Contains(footer, "Task deleted") || !strings.Contains(footer, "Alice Wonderland") {
		t.Errorf("footer = %q", footer)
	}
}

func TestAppHeaderUnreadCount(t *testing.T) {
	s, st := newTestSession(t)
	a := NewApp(s, st, config.Default())
	m, _ := a.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	a = m.(App)

	if err := s.MarkRead("notif-1"); err != nil {
		t.Fatal(err)
	}
	if header := a.renderHeader(); !strings.Contains(header, "Notifications (1)") {
		t.Errorf("header after one read:\n%s", header)
	}
	if err := s.MarkAllRead(); err != nil {
		t.Fatal(err)
	}
	if header := a.renderHeader(); strings.Contains(header, "Notifications (") {
		t.Errorf("header should drop the count when all are read:\n%s", header)
	}
}

func TestAppTabSwitchRemembersView(t *testing.T) {
	s, st := newTestSession(t)
	a := NewApp(s, st, config.Default())

	m, _ := a.Update(runes("2"))
	a = m.(App)
	if a.activeView != viewProjects {
		t.Fatalf("active view = %d, want projects", a.activeView)
	}
	if got := st.GetSettingOr(store.SettingLastView, ""); got != "projects" {
		t.Errorf("last_view = %q", got)
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(App)
	if a.activeView != viewMyTasks {
		t.Errorf("tab moved to %d, want my tasks", a.activeView)
	}

	a.activeView = viewSettings
	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(App).activeView != viewDashboard {
		t.Error("tab should wrap to the dashboard")
	}
}

func TestAppExport(t *testing.T) {
	s, st := newTestSession(t)
	a := NewApp(s, st, config.Default())
	a.exportDir = t.TempDir()

	m, _ := a.Update(runes("x"))
	a = m.(App)
	if !a.exportPicking {
		t.Fatal("x should open the export picker")
	}

	msg := a.doExport(1)()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("export returned %#v", msg)
	}
	want := filepath.Join(a.exportDir, "minima-export-2026-03-10.json")
	if done.path != want {
		t.Errorf("path = %q, want %q", done.path, want)
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Setup database schema") {
		t.Error("export is missing seeded tasks")
	}

	m, _ = a.Update(done)
	a = m.(App)
	if a.exportPicking || !strings.Contains(a.status, "Exported to") {
		t.Errorf("after export: picking=%v status=%q", a.exportPicking, a.status)
	}
}

// ============================================================
// Task browser
// ============================================================

func TestBrowserLoadsProjectTasks(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")
	if len(b.tasks) != 4 {
		t.Fatalf("project-1 has %d tasks, want 4", len(b.tasks))
	}
	if n := len(b.buckets.Column(model.StatusTodo)); n != 2 {
		t.Errorf("todo column has %d tasks, want 2", n)
	}

	// Data for another scope is ignored.
	other := newTaskBrowser(s, st, "project-2", false)
	b, _ = b.update(other.refresh()())
	if len(b.tasks) != 4 {
		t.Error("browser took data for another project")
	}
}

func TestBrowserLayoutTogglePersists(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")
	if b.layout != layoutList {
		t.Fatalf("default layout = %q", b.layout)
	}

	b, _ = b.update(runes("v"))
	if b.layout != layoutKanban {
		t.Fatalf("layout after v = %q", b.layout)
	}
	if got := st.GetSettingOr(store.SettingTaskLayout, ""); got != "kanban" {
		t.Errorf("task_layout = %q", got)
	}

	fresh := newTaskBrowser(s, st, "project-2", false)
	if fresh.layout != layoutKanban {
		t.Error("new browsers should open in the remembered layout")
	}
}

func TestBrowserFilterCycles(t *testing.T) {
	if got := cycle(statusCycle, board.All); got != "todo" {
		t.Errorf("cycle from all = %q", got)
	}
	if got := cycle(statusCycle, "paused"); got != board.All {
		t.Errorf("cycle should wrap, got %q", got)
	}
	if got := cycle(priorityCycle, "bogus"); got != board.All {
		t.Errorf("unknown value should reset, got %q", got)
	}

	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")
	b, cmd := b.update(runes("f"))
	if b.filter.Status != "todo" {
		t.Fatalf("status filter = %q", b.filter.Status)
	}
	b, _ = b.update(cmd())
	if len(b.tasks) != 2 {
		t.Errorf("todo filter shows %d tasks, want 2", len(b.tasks))
	}

	b, cmd = b.update(runes("c"))
	b, _ = b.update(cmd())
	if b.filter.Status != board.All || len(b.tasks) != 4 {
		t.Errorf("clear left filter %+v with %d tasks", b.filter, len(b.tasks))
	}
}

func TestBrowserMoveNext(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")
	b.cursor = indexOf(b.tasks, "task-2")
	if b.cursor < 0 {
		t.Fatal("task-2 not listed")
	}

	b, _ = b.update(runes(">"))
	got, _ := s.Task("task-2")
	if got.Status != model.StatusInProgress {
		t.Fatalf("status = %q, want inprogress", got.Status)
	}
	if i := indexOf(b.tasks, "task-2"); i < 0 || b.tasks[i].Status != model.StatusInProgress {
		t.Error("browser rows not refreshed after the move")
	}

	stored, err := st.ListTasks()
	if err != nil {
		t.Fatal(err)
	}
	if stored[indexOf(stored, "task-2")].Status != model.StatusInProgress {
		t.Error("move was not persisted")
	}
}

func TestBrowserMoveAtEdgeIsNoop(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")
	b.cursor = indexOf(b.tasks, "task-2")

	_, cmd := b.update(runes("<"))
	if cmd != nil {
		t.Error("moving the first column left should do nothing")
	}
	got, _ := s.Task("task-2")
	if got.Status != model.StatusTodo {
		t.Errorf("status = %q", got.Status)
	}
}

func TestBrowserSubmitAndDelete(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")

	tf := forms.TaskForm{Name: "Write docs", Priority: "low", Status: "todo"}
	b.taskForm = &tf
	b, _ = b.submitTaskForm()
	if len(b.tasks) != 5 {
		t.Fatalf("project has %d tasks after create, want 5", len(b.tasks))
	}
	var created model.Task
	for _, x := range b.tasks {
		if x.Name == "Write docs" {
			created = x
		}
	}
	if created.Name != "Write docs" || created.ProjectID != "project-1" || created.Priority != model.PriorityLow {
		t.Errorf("created task = %+v", created)
	}

	b, _ = b.deleteTask("task-2")
	if indexOf(b.tasks, "task-2") >= 0 {
		t.Error("task-2 still listed after delete")
	}
	if _, ok := s.Task("task-2"); ok {
		t.Error("task-2 still in the session")
	}
}

func TestBrowserSubmitInvalid(t *testing.T) {
	s, st := newTestSession(t)
	b := loadedBrowser(t, s, st, "project-1")

	tf := forms.TaskForm{Name: "", Priority: "urgent", Status: "todo"}
	b.taskForm = &tf
	b, cmd := b.submitTaskForm()
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("invalid form should report an error, got %#v", msg)
	}
	if len(b.tasks) != 4 {
		t.Error("invalid form created a task")
	}
}

func TestMyTasksScope(t *testing.T) {
	s, st := newTestSession(t)
	m := newMyTasksModel(s, st)
	m, _ = m.update(m.refresh()())
	for _, x := range m.browser.tasks {
		if !x.HasAssignee("user-1") {
			t.Errorf("%s is not assigned to user-1", x.ID)
		}
	}
	if len(m.browser.tasks) != 4 {
		t.Errorf("my tasks lists %d, want 4", len(m.browser.tasks))
	}
}

// ============================================================
// Projects, notifications and dashboard
// ============================================================

func TestProjectsOpenAndLeave(t *testing.T) {
	s, st := newTestSession(t)
	p := newProjectsModel(s, st)
	p.setSize(120, 40)
	p, _ = p.update(p.refresh()())
	if len(p.projects) != 3 {
		t.Fatalf("%d projects, want 3", len(p.projects))
	}
	for i, proj := range p.projects {
		if proj.ID == "project-1" {
			p.cursor = i
		}
	}

	p, cmd := p.update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.browser == nil {
		t.Fatal("enter should open the project")
	}
	p, _ = p.update(cmd())
	if len(p.browser.tasks) == 0 {
		t.Error("opened project has no tasks loaded")
	}

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.browser != nil {
		t.Error("esc should return to the project list")
	}
}

func TestProjectsDeleteCascades(t *testing.T) {
	s, st := newTestSession(t)
	p := newProjectsModel(s, st)
	p, _ = p.update(p.refresh()())

	p, _ = p.deleteProject("project-2")
	if _, ok := s.Project("project-2"); ok {
		t.Fatal("project-2 still exists")
	}
	if len(s.Tasks(board.Filter{ProjectID: "project-2"})) != 0 {
		t.Error("project-2 tasks were not removed")
	}
}

func TestNotificationsMarkAll(t *testing.T) {
	s, st := newTestSession(t)
	n := newNotificationsModel(s, st)
	n, _ = n.update(n.refresh()())
	if got := board.UnreadCount(n.all); got != 2 {
		t.Fatalf("unread = %d, want 2", got)
	}

	n, _ = n.update(runes("a"))
	if got := board.UnreadCount(s.Notifications()); got != 0 {
		t.Errorf("unread after mark all = %d", got)
	}
	if got := board.UnreadCount(n.all); got != 0 {
		t.Errorf("view still shows %d unread", got)
	}
}

func TestNotificationsFilterPersists(t *testing.T) {
	s, st := newTestSession(t)
	n := newNotificationsModel(s, st)
	n, _ = n.update(n.refresh()())
	total := len(n.shown)

	n, _ = n.update(runes("f"))
	if n.filter != notifFilterUnread {
		t.Fatalf("filter = %q", n.filter)
	}
	if len(n.shown) != 2 || total < len(n.shown) {
		t.Errorf("unread filter shows %d of %d", len(n.shown), total)
	}
	if got := st.GetSettingOr(store.SettingNotificationsFilter, ""); got != notifFilterUnread {
		t.Errorf("notifications_filter = %q", got)
	}
	if newNotificationsModel(s, st).filter != notifFilterUnread {
		t.Error("filter should be restored on a new model")
	}
}

func TestDashboardLoadData(t *testing.T) {
	s, _ := newTestSession(t)
	d := newDashboardModel(s)
	d.setSize(120, 40)

	msg, ok := d.loadData()().(dashboardDataMsg)
	if !ok {
		t.Fatal("loadData should return dashboardDataMsg")
	}
	want := board.Counts{Upcoming: 3, Completed: 1, Overdue: 0, TotalActive: 5}
	if msg.counts != want {
		t.Errorf("counts = %+v, want %+v", msg.counts, want)
	}
	if msg.userName != "Alice Wonderland" {
		t.Errorf("user = %q", msg.userName)
	}

	d, _ = d.update(msg)
	out := d.view()
	if !strings.Contains(out, "Alice") {
		t.Error("dashboard should greet the user")
	}
}

// ============================================================
// Helpers, keys and styles
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"héllo", 3, "hé…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatDue(t *testing.T) {
	if got := formatDue(nil); got != "no due date" {
		t.Errorf("nil due = %q", got)
	}
	d := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	if got := formatDue(&d); got != "Mar 13" {
		t.Errorf("due = %q", got)
	}
}

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Error("short help is empty")
	}
	for i, group := range keys.FullHelp() {
		if len(group) == 0 {
			t.Errorf("full help group %d is empty", i)
		}
	}
}

func TestStylesRender(t *testing.T) {
	for _, s := range model.Statuses {
		if statusBadge(s) == "" {
			t.Errorf("empty badge for %q", s)
		}
	}
	for _, p := range model.Priorities {
		if !strings.Contains(priorityBadge(p), p.Label()) {
			t.Errorf("badge for %q missing label", p)
		}
	}
	if !strings.Contains(colorDot("Teal"), "●") {
		t.Error("color dot not rendered")
	}
	cur, _ := cursorPrefix(true)
	if cur != "> " {
		t.Errorf("cursor = %q", cur)
	}
}
