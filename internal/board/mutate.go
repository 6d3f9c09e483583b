package board

import (
	"time"

	"github.com/sadopc/minima/internal/model"
)

// ChangeStatus returns tasks with the matching task moved to status and its
// UpdatedAt set to now. Other tasks pass through unchanged.
func ChangeStatus(tasks []model.Task, taskID string, status model.Status, now time.Time) []model.Task {
	out := cloneTasks(tasks)
	for i := range out {
		if out[i].ID == taskID {
			out[i].Status = status
			out[i].UpdatedAt = now
			break
		}
	}
	return out
}

// UpsertTask replaces the task with the same id, or prepends t when the id
// is new.
func UpsertTask(tasks []model.Task, t model.Task) []model.Task {
	for i := range tasks {
		if tasks[i].ID == t.ID {
			out := cloneTasks(tasks)
			out[i] = t.Clone()
			return out
		}
	}
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, t.Clone())
	return append(out, cloneTasks(tasks)...)
}

func DeleteTask(tasks []model.Task, taskID string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != taskID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// FindTask returns a copy of the task with the given id.
func FindTask(tasks []model.Task, taskID string) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == taskID {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

// UpsertProject replaces the project with the same id, or prepends p.
func UpsertProject(projects []model.Project, p model.Project) []model.Project {
	for i := range projects {
		if projects[i].ID == p.ID {
			out := cloneProjects(projects)
			out[i] = p.Clone()
			return out
		}
	}
	out := make([]model.Project, 0, len(projects)+1)
	out = append(out, p.Clone())
	return append(out, cloneProjects(projects)...)
}

// DeleteProject removes the project and every task that belongs to it.
func DeleteProject(projects []model.Project, tasks []model.Task, projectID string) ([]model.Project, []model.Task) {
	outProjects := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != projectID {
			outProjects = append(outProjects, p.Clone())
		}
	}
	outTasks := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != projectID {
			outTasks = append(outTasks, t.Clone())
		}
	}
	return outProjects, outTasks
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func cloneProjects(projects []model.Project) []model.Project {
	out := make([]model.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
