package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/minima/internal/workspace"
)

// myTasksModel is the task browser narrowed to the current user's tasks
// across every project.
type myTasksModel struct {
	browser taskBrowser
}

func newMyTasksModel(s *workspace.Session, settings Settings) myTasksModel {
	return myTasksModel{browser: newTaskBrowser(s, settings, "", true)}
}

func (m *myTasksModel) setSize(w, h int) { m.browser.setSize(w, h) }

func (m myTasksModel) capturing() bool { return m.browser.capturing() }

func (m myTasksModel) refresh() tea.Cmd { return m.browser.refresh() }

func (m myTasksModel) update(msg tea.Msg) (myTasksModel, tea.Cmd) {
	var cmd tea.Cmd
	m.browser, cmd = m.browser.update(msg)
	return m, cmd
}

func (m myTasksModel) view() string {
	return m.browser.view(titleStyle.Render("My Tasks"))
}
