package forms

import (
	"strings"
	"time"

	"github.com/sadopc/minima/internal/model"
)

const (
	TaskNameMax        = 150
	TaskDescriptionMax = 1000
)

// TaskForm is the editable shape of a task. DueDate uses DateLayout and Tags
// is a comma-separated list.
type TaskForm struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AssigneeIDs []string `json:"assigneeIds"`
	DueDate     string   `json:"dueDate"`
	Priority    string   `json:"priority"`
	Status      string   `json:"status"`
	Tags        string   `json:"tags"`

	// MinDue is the earliest accepted due date. Zero means unbounded.
	MinDue time.Time `json:"-"`
}

// NewTaskForm returns a blank form with the defaults of a fresh task. Due
// dates before yesterday are rejected.
func NewTaskForm(now time.Time) TaskForm {
	return TaskForm{
		Priority: string(model.PriorityMedium),
		Status:   string(model.StatusTodo),
		MinDue:   now.AddDate(0, 0, -1),
	}
}

// TaskFormFrom pre-fills a form for editing t. Existing due dates are kept
// even when already past.
func TaskFormFrom(t model.Task) TaskForm {
	f := TaskForm{
		Name:        t.Name,
		Description: t.Description,
		AssigneeIDs: append([]string(nil), t.AssigneeIDs...),
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Tags:        strings.Join(t.Tags, ", "),
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.Format(DateLayout)
	}
	return f
}

func statusValues() []string {
	out := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		out[i] = string(s)
	}
	return out
}

func priorityValues() []string {
	out := make([]string, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i] = string(p)
	}
	return out
}

// Field checks shared with the TUI inputs.
var (
	TaskNameCheck        = All(Required("Task name is required."), MaxLen(TaskNameMax))
	TaskDescriptionCheck = MaxLen(TaskDescriptionMax)
)

func (f TaskForm) DueCheck() func(string) error {
	return Optional(Date(f.MinDue))
}

func (f TaskForm) Rules() []Rule {
	return []Rule{
		{Field: "name", Value: f.Name, Check: TaskNameCheck},
		{Field: "description", Value: f.Description, Check: TaskDescriptionCheck},
		{Field: "dueDate", Value: f.DueDate, Check: f.DueCheck()},
		{Field: "priority", Value: f.Priority, Check: OneOf(priorityValues()...)},
		{Field: "status", Value: f.Status, Check: OneOf(statusValues()...)},
	}
}

func (f TaskForm) Validate() *Errors {
	return check(f.Rules())
}

// ToTask builds the task the form describes. For a new task (existing nil)
// the id is derived from now; an edit keeps id and creation time. An empty
// projectID keeps the existing task's project.
func (f TaskForm) ToTask(existing *model.Task, projectID string, now time.Time) model.Task {
	var t model.Task
	if existing != nil {
		t = existing.Clone()
	} else {
		t = model.Task{ID: model.NewID("task", now), CreatedAt: now}
	}
	if projectID != "" {
		t.ProjectID = projectID
	}
	t.Name = strings.TrimSpace(f.Name)
	t.Description = f.Description
	t.AssigneeIDs = uniqueIDs(f.AssigneeIDs)
	t.Priority = model.Priority(f.Priority)
	t.Status = model.Status(f.Status)
	t.Tags = SplitTags(f.Tags)
	t.DueDate = nil
	if f.DueDate != "" {
		if d, err := time.ParseInLocation(DateLayout, f.DueDate, now.Location()); err == nil {
			t.DueDate = &d
		}
	}
	t.UpdatedAt = now
	return t
}

// uniqueIDs trims ids and drops blanks and repeats, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	var out []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
