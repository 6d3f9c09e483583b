package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/workspace"
)

// upcomingLimit caps the upcoming list on the dashboard.
const upcomingLimit = 5

type dashboardModel struct {
	session *workspace.Session
	width   int
	height  int

	userName     string
	counts       board.Counts
	statusCounts [4]int
	upcoming     []model.Task
	projects     []model.Project

	chart barchart.Model
}

func newDashboardModel(s *workspace.Session) dashboardModel {
	return dashboardModel{
		session: s,
		chart:   barchart.New(40, 8),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

type dashboardDataMsg struct {
	userName     string
	counts       board.Counts
	statusCounts [4]int
	upcoming     []model.Task
	projects     []model.Project
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		snap := d.session.Snapshot()
		name := d.session.UserID()
		if u, ok := d.session.CurrentUser(); ok {
			name = u.Name()
		}
		mine := board.FilterTasks(snap.Tasks, board.Filter{AssigneeID: d.session.UserID()})
		return dashboardDataMsg{
			userName:     name,
			counts:       d.session.Dashboard(""),
			statusCounts: board.StatusCounts(mine),
			upcoming:     d.session.Upcoming(),
			projects:     snap.Projects,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.userName = msg.userName
		d.counts = msg.counts
		d.statusCounts = msg.statusCounts
		d.upcoming = msg.upcoming
		d.projects = msg.projects
		d.buildChart()
		return d, nil
	}
	return d, nil
}

// buildChart draws one bar per status for the current user's tasks.
func (d *dashboardModel) buildChart() {
	chartWidth := d.width/2 - 8
	if chartWidth < 24 {
		chartWidth = 24
	}
	chartHeight := 8
	if d.height > 30 {
		chartHeight = 12
	}

	d.chart = barchart.New(chartWidth, chartHeight)
	if d.statusCounts == [4]int{} {
		return
	}

	bars := make([]barchart.BarData, len(model.Statuses))
	for i, st := range model.Statuses {
		bars[i] = barchart.BarData{
			Label: st.Label(),
			Values: []barchart.BarValue{{
				Name:  st.Label(),
				Value: float64(d.statusCounts[i]),
				Style: lipgloss.NewStyle().Foreground(statusColors[st]),
			}},
		}
	}
	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	greeting := titleStyle.Render("Welcome back, "+d.userName) + "  " +
		mutedStyle.Render(d.session.Now().Format("Monday, Jan 02"))

	cards := d.renderCards(w)

	half := w/2 - 1
	chartPanel := d.renderChartPanel(half)
	upcomingPanel := d.renderUpcomingPanel(w - half - 2)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, chartPanel, "  ", upcomingPanel)

	return lipgloss.JoinVertical(lipgloss.Left, greeting, "", cards, bottom)
}

func (d dashboardModel) renderCards(w int) string {
	stats := []struct {
		label string
		value int
		style lipgloss.Style
	}{
		{"Upcoming", d.counts.Upcoming, highlightStyle},
		{"Completed", d.counts.Completed, successStyle},
		{"Overdue", d.counts.Overdue, errorStyle},
		{"Total active", d.counts.TotalActive, cardValueStyle},
	}

	cardWidth := w/len(stats) - 2
	if cardWidth < 12 {
		cardWidth = 12
	}
	cards := make([]string, len(stats))
	for i, s := range stats {
		body := lipgloss.JoinVertical(lipgloss.Center,
			s.style.Bold(true).Render(fmt.Sprintf("%d", s.value)),
			mutedStyle.Render(s.label),
		)
		cards[i] = cardStyle.Width(cardWidth).Render(body)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (d dashboardModel) renderChartPanel(w int) string {
	title := titleStyle.Render("Tasks overview")
	var legend []string
	for i, st := range model.Statuses {
		dot := lipgloss.NewStyle().Foreground(statusColors[st]).Render("■")
		legend = append(legend, fmt.Sprintf("%s %s %d", dot, st.Label(), d.statusCounts[i]))
	}
	chart := d.chart.View()
	if d.statusCounts == [4]int{} {
		chart = mutedStyle.Render("No tasks assigned to you yet.")
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		title, "", chart, "", strings.Join(legend, "  "),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderUpcomingPanel(w int) string {
	title := titleStyle.Render("Upcoming")
	if len(d.upcoming) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Nothing due. Enjoy the quiet."),
		))
	}

	rows := []string{title, ""}
	nameWidth := max(w-28, 10)
	for i, t := range d.upcoming {
		if i == upcomingLimit {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  and %d more", len(d.upcoming)-upcomingLimit)))
			break
		}
		p, _ := board.ResolveProject(t.ProjectID, d.projects)
		rows = append(rows, fmt.Sprintf("  %s %-*s %s  %s",
			colorDot(p.Color),
			nameWidth, truncate(t.Name, nameWidth),
			highlightStyle.Render(formatDue(t.DueDate)),
			priorityBadge(t.Priority),
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
