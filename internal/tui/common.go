package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewMyTasks
	viewNotifications
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "My Tasks", "Notifications", "Settings"}

// viewFromKey maps a config view name to its tab.
func viewFromKey(k string) (viewState, bool) {
	for i, name := range config.Views {
		if name == k {
			return viewState(i), true
		}
	}
	return viewDashboard, false
}

func (v viewState) key() string { return config.Views[v] }

// Settings is the key/value store for values edited inside the app.
type Settings interface {
	GetSettingOr(key, def string) string
	SetSetting(key, value string) error
	GetAllSettings() ([]store.Setting, error)
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}

// --- Helpers ---

func formatDue(d *time.Time) string {
	if d == nil {
		return "no due date"
	}
	return d.Format("Jan 02")
}

// truncate shortens s to n cells, ending in an ellipsis when cut.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func colorDot(projectColor string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(model.HexFor(projectColor))).Render("●")
}

func priorityBadge(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return errorStyle.Render(p.Label())
	case model.PriorityMedium:
		return warningStyle.Render(p.Label())
	}
	return mutedStyle.Render(p.Label())
}

func statusBadge(s model.Status) string {
	return lipgloss.NewStyle().Foreground(statusColors[s]).Render(s.Label())
}

func cursorPrefix(selected bool) (string, lipgloss.Style) {
	if selected {
		return "> ", selectedItemStyle
	}
	return "  ", normalItemStyle
}
