package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

type layout string

const (
	layoutList   layout = "list"
	layoutKanban layout = "kanban"
)

// Filter cycles for the f and p keys.
var (
	statusCycle   = []string{board.All, "todo", "inprogress", "done", "paused"}
	priorityCycle = []string{board.All, "low", "medium", "high"}
)

func cycle(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// taskBrowser lists tasks as a list or kanban board with search, filters
// and task forms. It backs both a project's page and My Tasks.
type taskBrowser struct {
	session  *workspace.Session
	settings Settings
	width    int
	height   int

	// scope is "mine" or "project:<id>" and tags data messages.
	scope     string
	projectID string
	mine      bool

	layout    layout
	filter    board.Filter
	search    textinput.Model
	searching bool

	tasks    []model.Task
	buckets  board.Buckets
	users    []model.User
	projects []model.Project

	cursor int // list row
	col    int // kanban column
	row    int // kanban row within col

	formActive  bool
	form        *huh.Form
	formKind    string // "task" or "delete"
	taskForm    *forms.TaskForm
	formProject *string
	confirm     *bool
	editingID   string
}

func newTaskBrowser(s *workspace.Session, settings Settings, projectID string, mine bool) taskBrowser {
	ti := textinput.New()
	ti.Placeholder = "search name or description"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	scope := "mine"
	if !mine {
		scope = "project:" + projectID
	}
	lay := layout(settings.GetSettingOr(store.SettingTaskLayout, string(layoutList)))
	if lay != layoutKanban {
		lay = layoutList
	}
	confirm := false
	proj := projectID
	return taskBrowser{
		session:     s,
		settings:    settings,
		scope:       scope,
		projectID:   projectID,
		mine:        mine,
		layout:      lay,
		filter:      board.Filter{Status: board.All, Priority: board.All},
		search:      ti,
		confirm:     &confirm,
		formProject: &proj,
	}
}

func (b *taskBrowser) setSize(w, h int) {
	b.width = w
	b.height = h
}

// capturing reports whether keys should bypass the global bindings.
func (b taskBrowser) capturing() bool {
	return b.formActive || b.searching
}

type browserDataMsg struct {
	scope    string
	tasks    []model.Task
	users    []model.User
	projects []model.Project
}

func (b taskBrowser) currentFilter() board.Filter {
	f := b.filter
	if b.mine {
		f.AssigneeID = b.session.UserID()
	} else {
		f.ProjectID = b.projectID
	}
	return f
}

func (b taskBrowser) refresh() tea.Cmd {
	f := b.currentFilter()
	scope := b.scope
	return func() tea.Msg {
		snap := b.session.Snapshot()
		return browserDataMsg{
			scope:    scope,
			tasks:    board.FilterTasks(snap.Tasks, f),
			users:    snap.Users,
			projects: snap.Projects,
		}
	}
}

func (b taskBrowser) update(msg tea.Msg) (taskBrowser, tea.Cmd) {
	if b.formActive && b.form != nil {
		return b.updateForm(msg)
	}
	if b.searching {
		return b.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case browserDataMsg:
		if msg.scope != b.scope {
			return b, nil
		}
		b.setTasks(msg.tasks)
		b.users = msg.users
		b.projects = msg.projects
		return b, nil

	case tea.KeyMsg:
		return b.updateKeys(msg)
	}
	return b, nil
}

func (b *taskBrowser) setTasks(tasks []model.Task) {
	b.tasks = tasks
	b.buckets = board.BucketByStatus(tasks)
	b.cursor = min(b.cursor, max(0, len(b.tasks)-1))
	b.row = min(b.row, max(0, len(b.buckets[b.col])-1))
}

func (b taskBrowser) updateKeys(msg tea.KeyMsg) (taskBrowser, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if b.layout == layoutKanban {
			if b.row > 0 {
				b.row--
			}
		} else if b.cursor > 0 {
			b.cursor--
		}
	case key.Matches(msg, keys.Down):
		if b.layout == layoutKanban {
			if b.row < len(b.buckets[b.col])-1 {
				b.row++
			}
		} else if b.cursor < len(b.tasks)-1 {
			b.cursor++
		}
	case key.Matches(msg, keys.Left):
		if b.layout == layoutKanban && b.col > 0 {
			b.col--
			b.row = min(b.row, max(0, len(b.buckets[b.col])-1))
		}
	case key.Matches(msg, keys.Right):
		if b.layout == layoutKanban && b.col < len(b.buckets)-1 {
			b.col++
			b.row = min(b.row, max(0, len(b.buckets[b.col])-1))
		}
	case key.Matches(msg, keys.Layout):
		return b.toggleLayout()
	case key.Matches(msg, keys.Search):
		b.searching = true
		return b, b.search.Focus()
	case key.Matches(msg, keys.FilterStatus):
		b.filter.Status = cycle(statusCycle, b.filter.Status)
		return b, b.refresh()
	case key.Matches(msg, keys.FilterPriority):
		b.filter.Priority = cycle(priorityCycle, b.filter.Priority)
		return b, b.refresh()
	case key.Matches(msg, keys.ClearFilters):
		b.filter = board.Filter{Status: board.All, Priority: board.All}
		b.search.SetValue("")
		return b, b.refresh()
	case key.Matches(msg, keys.New):
		return b.showTaskForm(nil)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		if t, ok := b.selected(); ok {
			return b.showTaskForm(&t)
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := b.selected(); ok {
			return b.showDeleteConfirm(t)
		}
	case key.Matches(msg, keys.CycleStatus):
		if t, ok := b.selected(); ok {
			return b.moveTask(t, board.NextStatus(t.Status))
		}
	case key.Matches(msg, keys.MovePrev):
		if t, ok := b.selected(); ok {
			return b.moveTask(t, board.ShiftStatus(t.Status, -1))
		}
	case key.Matches(msg, keys.MoveNext):
		if t, ok := b.selected(); ok {
			return b.moveTask(t, board.ShiftStatus(t.Status, 1))
		}
	}
	return b, nil
}

func (b taskBrowser) selected() (model.Task, bool) {
	if b.layout == layoutKanban {
		col := b.buckets[b.col]
		if b.row < len(col) {
			return col[b.row], true
		}
		return model.Task{}, false
	}
	if b.cursor < len(b.tasks) {
		return b.tasks[b.cursor], true
	}
	return model.Task{}, false
}

func (b taskBrowser) toggleLayout() (taskBrowser, tea.Cmd) {
	if b.layout == layoutList {
		b.layout = layoutKanban
		// Keep the selection on the same task.
		if b.cursor < len(b.tasks) {
			b.col = max(0, b.tasks[b.cursor].Status.Index())
			b.row = 0
			for i, t := range b.buckets[b.col] {
				if t.ID == b.tasks[b.cursor].ID {
					b.row = i
				}
			}
		}
	} else {
		b.layout = layoutList
	}
	if err := b.settings.SetSetting(store.SettingTaskLayout, string(b.layout)); err != nil {
		return b, errorCmd(err)
	}
	return b, nil
}

// moveTask changes a task's status and keeps the kanban cursor on it.
func (b taskBrowser) moveTask(t model.Task, status model.Status) (taskBrowser, tea.Cmd) {
	if status == t.Status {
		return b, nil
	}
	if _, err := b.session.ChangeStatus(t.ID, status); err != nil {
		return b, errorCmd(err)
	}
	if b.layout == layoutKanban {
		b.col = status.Index()
		b.row = 0
	}
	b.setTasks(b.session.Tasks(b.currentFilter()))
	if b.layout == layoutKanban {
		for i, bt := range b.buckets[b.col] {
			if bt.ID == t.ID {
				b.row = i
			}
		}
	}
	return b, statusCmd(fmt.Sprintf("%q moved to %s", t.Name, status.Label()))
}

func (b taskBrowser) updateSearch(msg tea.Msg) (taskBrowser, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			b.searching = false
			b.search.Blur()
			b.search.SetValue("")
			b.filter.Search = ""
			return b, b.refresh()
		case "enter":
			b.searching = false
			b.search.Blur()
			return b, nil
		}
	}
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	if b.search.Value() != b.filter.Search {
		b.filter.Search = b.search.Value()
		b.setTasks(b.session.Tasks(b.currentFilter()))
	}
	return b, cmd
}

// --- Forms ---

func (b taskBrowser) showTaskForm(existing *model.Task) (taskBrowser, tea.Cmd) {
	now := b.session.Now()
	var tf forms.TaskForm
	if existing != nil {
		tf = forms.TaskFormFrom(*existing)
		b.editingID = existing.ID
		*b.formProject = existing.ProjectID
	} else {
		tf = forms.NewTaskForm(now)
		if b.mine {
			tf.AssigneeIDs = []string{b.session.UserID()}
		}
		b.editingID = ""
		*b.formProject = b.projectID
	}
	if *b.formProject == "" && len(b.projects) > 0 {
		*b.formProject = b.projects[0].ID
	}
	b.taskForm = &tf
	b.formKind = "task"

	fields := []huh.Field{
		huh.NewInput().Title("Task name").Value(&b.taskForm.Name).
			CharLimit(forms.TaskNameMax).Validate(forms.TaskNameCheck),
		huh.NewText().Title("Description").Value(&b.taskForm.Description).
			CharLimit(forms.TaskDescriptionMax).Validate(forms.TaskDescriptionCheck),
	}
	if b.mine {
		projectOptions := make([]huh.Option[string], len(b.projects))
		for i, p := range b.projects {
			projectOptions[i] = huh.NewOption(p.Name, p.ID)
		}
		fields = append(fields,
			huh.NewSelect[string]().Title("Project").Options(projectOptions...).Value(b.formProject))
	}

	userOptions := make([]huh.Option[string], len(b.users))
	for i, u := range b.users {
		userOptions[i] = huh.NewOption(u.Name(), u.ID)
	}
	priorityOptions := make([]huh.Option[string], len(model.Priorities))
	for i, p := range model.Priorities {
		priorityOptions[i] = huh.NewOption(p.Label(), string(p))
	}
	statusOptions := make([]huh.Option[string], len(model.Statuses))
	for i, s := range model.Statuses {
		statusOptions[i] = huh.NewOption(s.Label(), string(s))
	}

	b.form = huh.NewForm(
		huh.NewGroup(fields...),
		huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Assignees").Options(userOptions...).Value(&b.taskForm.AssigneeIDs),
			huh.NewInput().Title("Due date").Placeholder(forms.DateLayout).
				Value(&b.taskForm.DueDate).Validate(b.taskForm.DueCheck()),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions...).Value(&b.taskForm.Priority),
			huh.NewSelect[string]().Title("Status").Options(statusOptions...).Value(&b.taskForm.Status),
			huh.NewInput().Title("Tags (comma-separated)").Value(&b.taskForm.Tags),
		),
	).WithShowHelp(true).WithShowErrors(true).WithWidth(max(b.width-8, 40))

	b.formActive = true
	return b, b.form.Init()
}

func (b taskBrowser) showDeleteConfirm(t model.Task) (taskBrowser, tea.Cmd) {
	*b.confirm = false
	b.editingID = t.ID
	b.formKind = "delete"
	b.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", t.Name)).
				Description("This cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(b.confirm),
		),
	).WithShowHelp(true)
	b.formActive = true
	return b, b.form.Init()
}

func (b taskBrowser) updateForm(msg tea.Msg) (taskBrowser, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			b.closeForm()
			return b, nil
		}
	}

	form, cmd := b.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		b.form = f
	}

	switch b.form.State {
	case huh.StateAborted:
		b.closeForm()
		return b, nil
	case huh.StateCompleted:
		kind := b.formKind
		b.closeForm()
		if kind == "delete" {
			if !*b.confirm {
				return b, nil
			}
			return b.deleteTask(b.editingID)
		}
		return b.submitTaskForm()
	}
	return b, cmd
}

func (b *taskBrowser) closeForm() {
	b.formActive = false
	b.form = nil
}

// submitTaskForm saves the form contents as a new or edited task.
func (b taskBrowser) submitTaskForm() (taskBrowser, tea.Cmd) {
	t, err := b.session.SaveTask(*b.taskForm, b.editingID, *b.formProject)
	if err != nil {
		return b, errorCmd(err)
	}
	verb := "Created"
	if b.editingID != "" {
		verb = "Updated"
	}
	b.setTasks(b.session.Tasks(b.currentFilter()))
	return b, statusCmd(fmt.Sprintf("%s %q", verb, t.Name))
}

func (b taskBrowser) deleteTask(id string) (taskBrowser, tea.Cmd) {
	if err := b.session.DeleteTask(id); err != nil {
		return b, errorCmd(err)
	}
	b.setTasks(b.session.Tasks(b.currentFilter()))
	return b, statusCmd("Task deleted")
}

// --- View ---

func (b taskBrowser) view(title string) string {
	w := b.width - 4
	if b.formActive && b.form != nil {
		heading := "New Task"
		switch {
		case b.formKind == "delete":
			heading = "Delete Task"
		case b.editingID != "":
			heading = "Edit Task"
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(heading), "", b.form.View(),
		))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", mutedStyle.Render(fmt.Sprintf("%d tasks", len(b.tasks))), "  ", b.renderFilters(),
	)
	rows := []string{header}
	if b.searching || b.filter.Search != "" {
		rows = append(rows, b.search.View())
	}
	rows = append(rows, "")

	if b.layout == layoutKanban {
		rows = append(rows, b.renderKanban(w))
	} else {
		rows = append(rows, b.renderList(w))
	}

	hint := "  n: new  e: edit  d: delete  s: status  </>: move  v: kanban  /: search  f/p: filter  c: clear"
	if b.layout == layoutKanban {
		hint = "  ←/→: column  n: new  e: edit  d: delete  </>: move  v: list  /: search  f/p: filter"
	}
	if !b.mine {
		hint += "  esc: back"
	}
	rows = append(rows, "", mutedStyle.Render(hint))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (b taskBrowser) renderFilters() string {
	var parts []string
	if b.filter.Status != board.All {
		parts = append(parts, "status: "+model.Status(b.filter.Status).Label())
	}
	if b.filter.Priority != board.All {
		parts = append(parts, "priority: "+model.Priority(b.filter.Priority).Label())
	}
	if len(parts) == 0 {
		return ""
	}
	return highlightStyle.Render("[" + strings.Join(parts, ", ") + "]")
}

func (b taskBrowser) renderList(w int) string {
	if len(b.tasks) == 0 {
		if b.filter.Active() || b.filter.Search != "" {
			return mutedStyle.Render("No tasks match. Press c to clear filters.")
		}
		return mutedStyle.Render("No tasks. Press n to add one.")
	}

	nameWidth := max(w-60, 16)
	var rows []string
	for i, t := range b.tasks {
		cursor, style := cursorPrefix(i == b.cursor)
		line := style.Render(fmt.Sprintf("%s%-*s", cursor, nameWidth, truncate(t.Name, nameWidth)))
		line += "  " + lipgloss.NewStyle().Width(12).Render(statusBadge(t.Status))
		line += lipgloss.NewStyle().Width(8).Render(priorityBadge(t.Priority))
		line += lipgloss.NewStyle().Width(14).Render(mutedStyle.Render(formatDue(t.DueDate)))
		if b.mine {
			line += mutedStyle.Render(truncate(board.ProjectName(t.ProjectID, b.projects), 20))
		} else {
			line += mutedStyle.Render(truncate(strings.Join(board.AssigneeNames(t.AssigneeIDs, b.users), ", "), 24))
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (b taskBrowser) renderKanban(w int) string {
	colWidth := max(w/len(model.Statuses)-4, 12)
	cols := make([]string, len(model.Statuses))
	for i, st := range model.Statuses {
		bucket := b.buckets[i]
		lines := []string{
			lipgloss.NewStyle().Bold(true).Foreground(statusColors[st]).
				Render(fmt.Sprintf("%s (%d)", st.Label(), len(bucket))),
			"",
		}
		if len(bucket) == 0 {
			lines = append(lines, mutedStyle.Render("empty"))
		}
		for j, t := range bucket {
			cursor, style := cursorPrefix(i == b.col && j == b.row)
			lines = append(lines,
				style.Render(cursor+truncate(t.Name, colWidth-2)),
				"  "+priorityBadge(t.Priority)+" "+mutedStyle.Render(formatDue(t.DueDate)),
			)
		}
		colStyle := columnStyle
		if i == b.col {
			colStyle = activeColumnStyle
		}
		cols[i] = colStyle.Width(colWidth).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
