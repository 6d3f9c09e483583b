// Package board holds the pure task and project aggregation used by every
// view: filtering, dashboard classification, kanban bucketing and the
// copy-on-write mutations that produce new collections.
//
// Nothing here mutates its inputs or fails. Unknown ids are no-ops.
package board

import (
	"strings"

	"github.com/sadopc/minima/internal/model"
)

// All is the sentinel that disables the status or priority constraint.
const All = "all"

type Filter struct {
	Search     string
	Status     string // All, "" or a model.Status value
	Priority   string // All, "" or a model.Priority value
	AssigneeID string // empty means any assignee
	ProjectID  string // empty means any project
}

// Active reports whether the filter narrows anything beyond the identity.
func (f Filter) Active() bool {
	return f.Search != "" || !isAll(f.Status) || !isAll(f.Priority) || f.AssigneeID != "" || f.ProjectID != ""
}

// FilterTasks returns the tasks matching f in their original order.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	term := strings.ToLower(f.Search)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesSearch(t, term) {
			continue
		}
		if !isAll(f.Status) && string(t.Status) != f.Status {
			continue
		}
		if !isAll(f.Priority) && string(t.Priority) != f.Priority {
			continue
		}
		if f.AssigneeID != "" && !t.HasAssignee(f.AssigneeID) {
			continue
		}
		if f.ProjectID != "" && t.ProjectID != f.ProjectID {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// TasksForProject is FilterTasks restricted to one project.
func TasksForProject(tasks []model.Task, projectID string) []model.Task {
	return FilterTasks(tasks, Filter{ProjectID: projectID})
}

func matchesSearch(t model.Task, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Name), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

func isAll(v string) bool {
	return v == "" || v == All
}
