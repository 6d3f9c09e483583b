package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/workspace"
)

type projectsModel struct {
	session  *workspace.Session
	settings Settings
	width    int
	height   int

	projects []model.Project
	tasks    []model.Task
	cursor   int
	bar      progress.Model

	// browser is set while a project is open.
	browser     *taskBrowser
	openProject model.Project

	formActive  bool
	form        *huh.Form
	formKind    string // "project" or "delete"
	projectForm *forms.ProjectForm
	confirm     *bool
	editingID   string
}

func newProjectsModel(s *workspace.Session, settings Settings) projectsModel {
	confirm := false
	return projectsModel{
		session:  s,
		settings: settings,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		confirm:  &confirm,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
	if p.browser != nil {
		p.browser.setSize(w, h)
	}
}

// capturing reports whether keys should bypass the global bindings.
func (p projectsModel) capturing() bool {
	if p.formActive {
		return true
	}
	return p.browser != nil && p.browser.capturing()
}

type projectsDataMsg struct {
	projects []model.Project
	tasks    []model.Task
}

func (p projectsModel) refresh() tea.Cmd {
	cmds := []tea.Cmd{func() tea.Msg {
		snap := p.session.Snapshot()
		return projectsDataMsg{projects: snap.Projects, tasks: snap.Tasks}
	}}
	if p.browser != nil {
		cmds = append(cmds, p.browser.refresh())
	}
	return tea.Batch(cmds...)
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		p.tasks = msg.tasks
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil
	}

	if p.browser != nil {
		if msg, ok := msg.(tea.KeyMsg); ok && !p.browser.capturing() && key.Matches(msg, keys.Back) {
			p.browser = nil
			return p, p.refresh()
		}
		b, cmd := p.browser.update(msg)
		p.browser = &b
		return p, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			return p.openSelected()
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			return p.showProjectForm(&proj)
		}
	case key.Matches(msg, keys.Delete):
		if len(p.projects) > 0 {
			return p.showDeleteConfirm(p.projects[p.cursor])
		}
	}
	return p, nil
}

func (p projectsModel) openSelected() (projectsModel, tea.Cmd) {
	proj := p.projects[p.cursor]
	b := newTaskBrowser(p.session, p.settings, proj.ID, false)
	b.setSize(p.width, p.height)
	p.browser = &b
	p.openProject = proj
	return p, b.refresh()
}

func (p projectsModel) showProjectForm(existing *model.Project) (projectsModel, tea.Cmd) {
	var pf forms.ProjectForm
	if existing != nil {
		pf = forms.ProjectFormFrom(*existing)
		p.editingID = existing.ID
	} else {
		pf = forms.NewProjectForm()
		p.editingID = ""
	}
	p.projectForm = &pf
	p.formKind = "project"

	colorOptions := make([]huh.Option[string], len(model.Palette))
	for i, c := range model.Palette {
		colorOptions[i] = huh.NewOption(colorDot(c.Value)+" "+c.Name, c.Value)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project name").Value(&p.projectForm.Name).
				CharLimit(forms.ProjectNameMax).Validate(forms.ProjectNameCheck),
			huh.NewText().Title("Description").Value(&p.projectForm.Description).
				CharLimit(forms.ProjectDescriptionMax).Validate(forms.ProjectDescriptionCheck),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).
				Value(&p.projectForm.Color).Validate(forms.ProjectColorCheck),
		),
	).WithShowHelp(true).WithShowErrors(true).WithWidth(max(p.width-8, 40))

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showDeleteConfirm(proj model.Project) (projectsModel, tea.Cmd) {
	*p.confirm = false
	p.editingID = proj.ID
	p.formKind = "delete"

	n := board.ProjectStats(p.tasks, proj.ID).Total
	desc := "The project has no tasks."
	if n > 0 {
		desc = fmt.Sprintf("Its %d task(s) will be deleted too. This cannot be undone.", n)
	}
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", proj.Name)).
				Description(desc).
				Affirmative("Delete").
				Negative("Cancel").
				Value(p.confirm),
		),
	).WithShowHelp(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	case huh.StateCompleted:
		p.formActive = false
		p.form = nil
		if p.formKind == "delete" {
			if !*p.confirm {
				return p, nil
			}
			return p.deleteProject(p.editingID)
		}
		return p.submitProjectForm()
	}
	return p, cmd
}

func (p projectsModel) submitProjectForm() (projectsModel, tea.Cmd) {
	proj, err := p.session.SaveProject(*p.projectForm, p.editingID)
	if err != nil {
		return p, errorCmd(err)
	}
	verb := "Created"
	if p.editingID != "" {
		verb = "Updated"
	}
	return p, tea.Batch(p.refresh(), statusCmd(fmt.Sprintf("%s project %q", verb, proj.Name)))
}

func (p projectsModel) deleteProject(id string) (projectsModel, tea.Cmd) {
	removed, err := p.session.DeleteProject(id)
	if err != nil {
		return p, errorCmd(err)
	}
	return p, tea.Batch(p.refresh(), statusCmd(fmt.Sprintf("Project deleted with %d task(s)", removed)))
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := "New Project"
		switch {
		case p.formKind == "delete":
			title = "Delete Project"
		case p.editingID != "":
			title = "Edit Project"
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.browser != nil {
		title := titleStyle.Render(colorDot(p.openProject.Color) + " " + p.openProject.Name)
		return p.browser.view(title)
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	nameWidth := max(w-60, 20)
	header := mutedStyle.Render(fmt.Sprintf("    %-*s %-8s %-22s %s", nameWidth, "Name", "Tasks", "Progress", "Owner"))
	rows = append(rows, header)

	users := p.session.Snapshot().Users
	for i, proj := range p.projects {
		cursor, style := cursorPrefix(i == p.cursor)
		stats := board.ProjectStats(p.tasks, proj.ID)
		pct := board.Progress(proj, p.tasks)
		owner, _ := board.ResolveUser(proj.OwnerID, users)

		row := style.Render(cursor) + colorDot(proj.Color) + " " +
			style.Render(fmt.Sprintf("%-*s", nameWidth, truncate(proj.Name, nameWidth))) +
			fmt.Sprintf(" %-8s ", fmt.Sprintf("%d/%d", stats.Done, stats.Total)) +
			p.bar.ViewAs(float64(pct)/100) + fmt.Sprintf(" %3d%%  ", pct) +
			mutedStyle.Render(owner.Name())
		rows = append(rows, row)

		if i == p.cursor && proj.Description != "" {
			rows = append(rows, subtitleStyle.Render("      "+truncate(proj.Description, w-8)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  enter: open"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
