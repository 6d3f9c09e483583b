package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/forms"
	"github.com/sadopc/minima/internal/model"
	"github.com/sadopc/minima/internal/workspace"
)

type projectView struct {
	model.Project
	Progress  int `json:"progress"`
	TaskCount int `json:"taskCount"`
	DoneCount int `json:"doneCount"`
}

func viewProject(p model.Project, tasks []model.Task) projectView {
	st := board.ProjectStats(tasks, p.ID)
	return projectView{Project: p, Progress: board.Progress(p, tasks), TaskCount: st.Total, DoneCount: st.Done}
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	out := make([]projectView, len(snap.Projects))
	for i, p := range snap.Projects {
		out[i] = viewProject(p, snap.Tasks)
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	f := forms.NewProjectForm()
	if !readReq(w, r, &f) {
		return
	}
	p, err := s.session.SaveProject(f, "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewProject(p, nil))
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, ok := s.session.Project(id)
	if !ok {
		s.writeError(w, fmt.Errorf("project %q: %w", id, workspace.ErrProjectNotFound))
		return
	}
	f := forms.ProjectFormFrom(existing)
	if !readReq(w, r, &f) {
		return
	}
	p, err := s.session.SaveProject(f, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewProject(p, s.session.Snapshot().Tasks))
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	removed, err := s.session.DeleteProject(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deletedTasks": removed})
}

type column struct {
	Status model.Status `json:"status"`
	Label  string       `json:"label"`
	Tasks  []taskView   `json:"tasks"`
}

// projectBoard answers the kanban columns of one project. The task list
// query parameters narrow it further.
func (s *Server) projectBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, ok := s.session.Project(id)
	if !ok {
		s.writeError(w, fmt.Errorf("project %q: %w", id, workspace.ErrProjectNotFound))
		return
	}

	buckets := s.session.Board(id, s.filterFromQuery(r))
	snap := s.session.Snapshot()
	cols := make([]column, len(model.Statuses))
	for i, st := range model.Statuses {
		cols[i] = column{Status: st, Label: st.Label(), Tasks: viewTasks(buckets[i], snap)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project": viewProject(p, snap.Tasks),
		"columns": cols,
	})
}
