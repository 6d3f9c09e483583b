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

// taskView is a task with its project name and assignees resolved.
type taskView struct {
	model.Task
	ProjectName string       `json:"projectName"`
	Assignees   []model.User `json:"assignees"`
}

func viewTasks(tasks []model.Task, snap workspace.Snapshot) []taskView {
	out := make([]taskView, len(tasks))
	for i, t := range tasks {
		out[i] = taskView{
			Task:        t,
			ProjectName: board.ProjectName(t.ProjectID, snap.Projects),
			Assignees:   board.ResolveAssignees(t.AssigneeIDs, snap.Users),
		}
	}
	return out
}

// filterFromQuery reads search, status, priority, assignee and project.
// assignee=me stands for the current user.
func (s *Server) filterFromQuery(r *http.Request) board.Filter {
	q := r.URL.Query()
	f := board.Filter{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssigneeID: q.Get("assignee"),
		ProjectID:  q.Get("project"),
	}
	if f.AssigneeID == "me" {
		f.AssigneeID = s.session.UserID()
	}
	return f
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.session.Tasks(s.filterFromQuery(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": viewTasks(tasks, s.session.Snapshot()),
		"count": len(tasks),
	})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	t, ok := s.session.Task(id)
	if !ok {
		s.writeError(w, fmt.Errorf("task %q: %w", id, workspace.ErrTaskNotFound))
		return
	}
	writeJSON(w, http.StatusOK, viewTasks([]model.Task{t}, s.session.Snapshot())[0])
}

type createTaskReq struct {
	ProjectID string `json:"projectId"`
	forms.TaskForm
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	req := createTaskReq{TaskForm: forms.NewTaskForm(s.session.Now())}
	if !readReq(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: map[string]string{"projectId": "is required"}})
		return
	}
	t, err := s.session.SaveTask(req.TaskForm, "", req.ProjectID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// updateTask applies the body over the task's current values, so omitted
// fields keep what they had.
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	existing, ok := s.session.Task(id)
	if !ok {
		s.writeError(w, fmt.Errorf("task %q: %w", id, workspace.ErrTaskNotFound))
		return
	}
	req := createTaskReq{TaskForm: forms.TaskFormFrom(existing)}
	if !readReq(w, r, &req) {
		return
	}
	t, err := s.session.SaveTask(req.TaskForm, id, req.ProjectID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) changeStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Status string `json:"status"`
	}
	if !readReq(w, r, &req) {
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: map[string]string{"status": err.Error()}})
		return
	}
	t, err := s.session.ChangeStatus(id, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteTask(mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
