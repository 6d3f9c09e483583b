package tui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/export"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

// App is the root Bubble Tea model.
type App struct {
	session  *workspace.Session
	settings Settings
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	// exportDir is where the picker writes files. Empty means the home dir.
	exportDir string

	dashboard     dashboardModel
	projects      projectsModel
	myTasks       myTasksModel
	notifications notificationsModel
	settingsView  settingsModel

	help   help.Model
	status string
}

// NewApp builds the UI over a loaded session. cfg.StartView picks the first
// tab; "last" reopens the tab remembered in settings.
func NewApp(s *workspace.Session, settings Settings, cfg *config.Config) App {
	h := help.New()
	h.ShowAll = false

	start := viewDashboard
	if cfg != nil {
		name := cfg.StartView
		if name == config.LastView {
			name = settings.GetSettingOr(store.SettingLastView, "dashboard")
		}
		if v, ok := viewFromKey(name); ok {
			start = v
		}
	}

	return App{
		session:       s,
		settings:      settings,
		activeView:    start,
		dashboard:     newDashboardModel(s),
		projects:      newProjectsModel(s, settings),
		myTasks:       newMyTasksModel(s, settings),
		notifications: newNotificationsModel(s, settings),
		settingsView:  newSettingsModel(s, settings, cfg),
		help:          h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.loadData(),
		a.refreshCurrentView(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.myTasks.setSize(a.width, contentHeight)
		a.notifications.setSize(a.width, contentHeight)
		a.settingsView.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms and the search box take every key.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewMyTasks)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewNotifications)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			log.Print(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchTo activates a tab, reloads it and remembers it for "last".
func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.status = ""
	if err := a.settings.SetSetting(store.SettingLastView, v.key()); err != nil {
		log.Printf("remember view: %v", err)
	}
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewMyTasks:
		a.myTasks, cmd = a.myTasks.update(msg)
	case viewNotifications:
		a.notifications, cmd = a.notifications.update(msg)
	case viewSettings:
		a.settingsView, cmd = a.settingsView.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.capturing()
	case viewMyTasks:
		return a.myTasks.capturing()
	case viewSettings:
		return a.settingsView.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewMyTasks:
		return a.myTasks.refresh()
	case viewNotifications:
		return a.notifications.refresh()
	case viewSettings:
		return a.settingsView.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewMyTasks:
		content = a.myTasks.view()
	case viewNotifications:
		content = a.notifications.view()
	case viewSettings:
		content = a.settingsView.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == viewNotifications {
			if n := board.UnreadCount(a.session.Notifications()); n > 0 {
				name = fmt.Sprintf("%s (%d)", name, n)
			}
		}
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("minima")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	user := a.session.UserID()
	if u, ok := a.session.CurrentUser(); ok {
		user = u.Name()
	}
	right := status + highlightStyle.Render(" "+user)

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Tasks"), ""}
	for i, f := range exportFormats {
		cursor, style := cursorPrefix(i == a.exportCursor)
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes every task to minima-export-<date>.csv or .json.
func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		snap := a.session.Snapshot()
		d := export.Data{Tasks: snap.Tasks, Projects: snap.Projects, Users: snap.Users}

		dir := a.exportDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}
		dateStr := a.session.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("minima-export-%s.csv", dateStr))
			if err := export.ToCSV(d, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("minima-export-%s.json", dateStr))
			if err := export.ToJSON(d, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}
