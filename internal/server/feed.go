package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/workspace"
)

// dashboard answers the four counts for ?user=, or the current user.
func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Dashboard(r.URL.Query().Get("user")))
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifs := s.session.Notifications()
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifs,
		"unread":        board.UnreadCount(notifs),
	})
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	if err := s.session.MarkRead(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.session.MarkAllRead(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := s.session.CurrentUser()
	if !ok {
		s.writeError(w, workspace.ErrUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := s.session.CurrentUser()
	if !ok {
		s.writeError(w, workspace.ErrUserNotFound)
		return
	}
	f := forms.ProfileFormFrom(u)
	if !readReq(w, r, &f) {
		return
	}
	u, err := s.session.UpdateProfile(f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
