package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/workspace"
)

// testDir points the data directory at a temp dir and returns it.
func testDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MINIMA_DATA_DIR", dir)
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(dir, "config.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// ============================================================
// Listing
// ============================================================

func TestTasksCommand(t *testing.T) {
	dir := testDir(t)

	out := mustRun(t, dir, "tasks")
	for _, name := range []string{"Create wireframes for dashboard", "Setup database schema", "Design landing page"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %q in:\n%s", name, out)
		}
	}

	out = mustRun(t, dir, "tasks", "--mine", "--status", "todo")
	if !strings.Contains(out, "Select color palette") || !strings.Contains(out, "User testing for prototype") {
		t.Errorf("missing my todo tasks:\n%s", out)
	}
	if strings.Contains(out, "Setup database schema") {
		t.Errorf("task of another user listed:\n%s", out)
	}

	out = mustRun(t, dir, "tasks", "--search", "nothing-matches-this")
	if !strings.Contains(out, "No tasks match.") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, dir, "tasks", "--status", "blocked"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestDashboardCommand(t *testing.T) {
	dir := testDir(t)
	out := mustRun(t, dir, "dashboard")
	for _, want := range []string{"Upcoming:      3", "Completed:     1", "Overdue:       0", "Next up:", "Select color palette"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	out = mustRun(t, dir, "dashboard", "--user", "user-2")
	if !strings.Contains(out, "Completed:     0") {
		t.Errorf("--user ignored:\n%s", out)
	}
}

func TestBoardCommand(t *testing.T) {
	dir := testDir(t)
	out := mustRun(t, dir, "board", "--project", "project-2")
	for _, want := range []string{"Backend Development", "To Do (1)", "In Progress (1)", "Done (0)", "Paused (0)", "Setup database schema"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	_, err := run(t, dir, "board", "--project", "project-404")
	if !errors.Is(err, workspace.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

// ============================================================
// Mutations
// ============================================================

func TestMoveCommandPersists(t *testing.T) {
	dir := testDir(t)

	out := mustRun(t, dir, "move", "task-3", "done")
	if !strings.Contains(out, "is now Done") {
		t.Errorf("unexpected output:\n%s", out)
	}
	out = mustRun(t, dir, "tasks", "--status", "done")
	if !strings.Contains(out, "Setup database schema") {
		t.Errorf("status change not persisted:\n%s", out)
	}

	if _, err := run(t, dir, "move", "task-404", "done"); !errors.Is(err, workspace.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := run(t, dir, "move", "task-3", "finished"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestNotificationsCommand(t *testing.T) {
	dir := testDir(t)

	out := mustRun(t, dir, "notifications")
	if !strings.Contains(out, "2 unread") || !strings.Contains(out, "notif-1") {
		t.Errorf("unexpected feed:\n%s", out)
	}
	if strings.Contains(out, "notif-3") {
		t.Errorf("another user's notification listed:\n%s", out)
	}

	mustRun(t, dir, "notifications", "--read", "notif-2")
	out = mustRun(t, dir, "notifications")
	if !strings.Contains(out, "1 unread") {
		t.Errorf("mark read not persisted:\n%s", out)
	}

	mustRun(t, dir, "notifications", "--mark-all")
	out = mustRun(t, dir, "notifications")
	if !strings.Contains(out, "0 unread") {
		t.Errorf("mark all not persisted:\n%s", out)
	}
}

func TestEmptyWorkspaceWithoutSeed(t *testing.T) {
	dir := testDir(t)
	t.Setenv("MINIMA_SEED_DEMO", "false")

	out := mustRun(t, dir, "tasks")
	if !strings.Contains(out, "No tasks match.") {
		t.Errorf("expected empty workspace:\n%s", out)
	}
}

// ============================================================
// Export
// ============================================================

func TestExportCommand(t *testing.T) {
	dir := testDir(t)
	path := filepath.Join(dir, "tasks.json")

	mustRun(t, dir, "export", "--format", "json", "--out", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Count != 6 {
		t.Fatalf("count = %d, want 6", doc.Count)
	}

	out := mustRun(t, dir, "export", "--mine")
	if !strings.HasPrefix(out, "ID,Project,Name") {
		t.Errorf("expected CSV on stdout, got:\n%s", out)
	}
	if strings.Contains(out, "Setup database schema") {
		t.Errorf("--mine exported another user's task:\n%s", out)
	}

	if _, err := run(t, dir, "export", "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// ============================================================
// Config
// ============================================================

func TestConfigInitAndShow(t *testing.T) {
	dir := testDir(t)

	out := mustRun(t, dir, "config", "init")
	if !strings.Contains(out, "Wrote") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := run(t, dir, "config", "init"); err == nil {
		t.Fatal("second init should refuse to overwrite")
	}

	out = mustRun(t, dir, "config", "show", "--user", "user-2")
	if !strings.Contains(out, "current_user: user-2") {
		t.Errorf("override missing:\n%s", out)
	}
}

// ============================================================
// Instance lock
// ============================================================

func TestExclusiveRuntimeLock(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	first, err := openRuntime(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := openRuntime(cfg, true); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("expected errAlreadyRunning, got %v", err)
	}

	shared, err := openRuntime(cfg, false)
	if err != nil {
		t.Fatalf("non-exclusive open should ignore the lock: %v", err)
	}
	shared.Close()

	first.Close()
	again, err := openRuntime(cfg, true)
	if err != nil {
		t.Fatalf("lock should be free after close: %v", err)
	}
	again.Close()
}

func TestWritingCommandsRespectLock(t *testing.T) {
	dir := testDir(t)
	cfg := config.Default()
	cfg.DataDir = dir

	held, err := openRuntime(cfg, true)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, dir, "move", "task-1", "done"); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("move while locked: expected errAlreadyRunning, got %v", err)
	}
	if _, err := run(t, dir, "notifications", "--mark-all"); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("mark-all while locked: expected errAlreadyRunning, got %v", err)
	}
	if _, err := run(t, dir, "notifications", "--read", "notif-1"); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("read while locked: expected errAlreadyRunning, got %v", err)
	}
	// Reads still work next to a running instance.
	mustRun(t, dir, "tasks")
	mustRun(t, dir, "notifications")

	// The held session's next write must not undo anything.
	task, _ := held.session.Task("task-1")
	f := forms.TaskFormFrom(task)
	f.Name = "Renamed in the UI"
	if _, err := held.session.SaveTask(f, "task-1", ""); err != nil {
		t.Fatal(err)
	}
	held.Close()

	out := mustRun(t, dir, "move", "task-1", "done")
	if !strings.Contains(out, "Renamed in the UI") || !strings.Contains(out, "Done") {
		t.Errorf("move after release = %q", out)
	}
}
