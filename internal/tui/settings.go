package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

type settingsModel struct {
	session  *workspace.Session
	settings Settings
	cfg      *config.Config
	width    int
	height   int

	user        model.User
	known       bool
	stored      []store.Setting
	formActive  bool
	form        *huh.Form
	profileForm *forms.ProfileForm
}

func newSettingsModel(s *workspace.Session, settings Settings, cfg *config.Config) settingsModel {
	return settingsModel{session: s, settings: settings, cfg: cfg}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	user     model.User
	known    bool
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		u, ok := s.session.CurrentUser()
		stored, _ := s.settings.GetAllSettings()
		return settingsDataMsg{user: u, known: ok, settings: stored}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.user = msg.user
		s.known = msg.known
		s.stored = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			if !s.known {
				return s, errorCmd(fmt.Errorf("user %q: %w", s.session.UserID(), workspace.ErrUserNotFound))
			}
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	pf := forms.ProfileFormFrom(s.user)
	s.profileForm = &pf

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Display name").Value(&s.profileForm.DisplayName).Validate(forms.DisplayNameCheck),
			huh.NewInput().Title("Email").Value(&s.profileForm.Email).Validate(forms.EmailCheck),
			huh.NewInput().Title("Avatar URL").Placeholder("https://").
				Value(&s.profileForm.AvatarURL).Validate(forms.AvatarURLCheck),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true).WithWidth(max(s.width-8, 40))

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s.saveProfile()
	}
	return s, cmd
}

func (s settingsModel) saveProfile() (settingsModel, tea.Cmd) {
	u, err := s.session.UpdateProfile(*s.profileForm)
	if err != nil {
		return s, errorCmd(err)
	}
	s.user = u
	return s, tea.Batch(s.refresh(), statusCmd("Profile saved"))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	label := lipgloss.NewStyle().Width(18)
	line := func(k, v string) string {
		return "  " + label.Render(k) + " " + highlightStyle.Render(v)
	}

	rows := []string{titleStyle.Render("Profile"), ""}
	if s.known {
		rows = append(rows,
			line("Display name", s.user.DisplayName),
			line("Email", s.user.Email),
			line("Avatar URL", s.user.AvatarURL),
		)
	} else {
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Unknown user %q. Set current_user in the config.", s.session.UserID())))
	}

	rows = append(rows, "", titleStyle.Render("Configuration"), "")
	if s.cfg != nil {
		rows = append(rows,
			line("Current user", s.cfg.CurrentUser),
			line("Database", s.cfg.Database()),
			line("Missing due", s.cfg.MissingDue),
			line("Start view", s.cfg.StartView),
			line("API address", s.cfg.Server.Addr),
		)
	}

	if len(s.stored) > 0 {
		rows = append(rows, "", titleStyle.Render("Remembered"), "")
		for _, st := range s.stored {
			rows = append(rows, line(st.Key, st.Value))
		}
	}

	rows = append(rows, "", mutedStyle.Render("  enter: edit profile"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
