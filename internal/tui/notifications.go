package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

const (
	notifFilterAll    = "all"
	notifFilterUnread = "unread"
)

type notificationsModel struct {
	session  *workspace.Session
	settings Settings
	width    int
	height   int

	all    []model.Notification
	shown  []model.Notification
	filter string
	cursor int
}

func newNotificationsModel(s *workspace.Session, settings Settings) notificationsModel {
	filter := settings.GetSettingOr(store.SettingNotificationsFilter, notifFilterAll)
	if filter != notifFilterUnread {
		filter = notifFilterAll
	}
	return notificationsModel{session: s, settings: settings, filter: filter}
}

func (n *notificationsModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

type notificationsDataMsg struct {
	notifications []model.Notification
}

func (n notificationsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return notificationsDataMsg{notifications: n.session.Notifications()}
	}
}

func (n *notificationsModel) setNotifications(all []model.Notification) {
	n.all = all
	n.shown = all
	if n.filter == notifFilterUnread {
		n.shown = nil
		for _, x := range all {
			if !x.IsRead {
				n.shown = append(n.shown, x)
			}
		}
	}
	n.cursor = min(n.cursor, max(0, len(n.shown)-1))
}

func (n notificationsModel) update(msg tea.Msg) (notificationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsDataMsg:
		n.setNotifications(msg.notifications)
		return n, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.shown)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if n.cursor < len(n.shown) && !n.shown[n.cursor].IsRead {
				if err := n.session.MarkRead(n.shown[n.cursor].ID); err != nil {
					return n, errorCmd(err)
				}
				n.setNotifications(n.session.Notifications())
			}
		case key.Matches(msg, keys.MarkAll):
			if board.UnreadCount(n.all) == 0 {
				return n, nil
			}
			if err := n.session.MarkAllRead(); err != nil {
				return n, errorCmd(err)
			}
			n.setNotifications(n.session.Notifications())
			return n, statusCmd("All notifications marked read")
		case key.Matches(msg, keys.FilterStatus):
			if n.filter == notifFilterAll {
				n.filter = notifFilterUnread
			} else {
				n.filter = notifFilterAll
			}
			n.setNotifications(n.all)
			if err := n.settings.SetSetting(store.SettingNotificationsFilter, n.filter); err != nil {
				return n, errorCmd(err)
			}
		}
	}
	return n, nil
}

func (n notificationsModel) view() string {
	w := n.width - 4
	unread := board.UnreadCount(n.all)
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Notifications"), "  ",
		highlightStyle.Render(fmt.Sprintf("%d unread", unread)), "  ",
		mutedStyle.Render("showing "+n.filter),
	)

	rows := []string{header, ""}
	if len(n.shown) == 0 {
		rows = append(rows, mutedStyle.Render("You're all caught up."))
	}
	for i, x := range n.shown {
		cursor, style := cursorPrefix(i == n.cursor)
		marker := " "
		msgStyle := mutedStyle
		if !x.IsRead {
			marker = highlightStyle.Render("●")
			msgStyle = unreadStyle
		}
		if i == n.cursor {
			msgStyle = style
		}
		rows = append(rows, fmt.Sprintf("%s%s %s  %s",
			style.Render(cursor), marker,
			mutedStyle.Render(x.CreatedAt.Format("Jan 02 15:04")),
			msgStyle.Render(truncate(x.Message, max(w-24, 20))),
		))
	}

	rows = append(rows, "", mutedStyle.Render("  enter: mark read  a: mark all read  f: all/unread"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
