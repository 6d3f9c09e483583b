package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/minima/internal/model"
)

// Counts are the dashboard figures. They are computed independently and
// overlap; they are not a partition of the task set.
type Counts struct {
	Upcoming    int `json:"upcomingCount"`
	Completed   int `json:"completedCount"`
	Overdue     int `json:"overdueCount"`
	TotalActive int `json:"totalActiveCount"`
}

// MissingDuePolicy decides how a task without a due date is classified.
type MissingDuePolicy string

const (
	// MissingDueEpoch treats a missing due date as the Unix epoch, so an
	// assigned, unfinished task without one is always overdue.
	MissingDueEpoch MissingDuePolicy = "epoch"
	// MissingDueIgnore leaves such tasks out of both upcoming and overdue.
	MissingDueIgnore MissingDuePolicy = "ignore"
)

func ParseMissingDuePolicy(v string) (MissingDuePolicy, error) {
	switch p := MissingDuePolicy(v); p {
	case MissingDueEpoch, MissingDueIgnore:
		return p, nil
	case "":
		return MissingDueEpoch, nil
	}
	return "", fmt.Errorf("unknown missing due date policy %q", v)
}

type Classifier struct {
	MissingDue MissingDuePolicy
}

// ClassifyForDashboard uses the epoch policy.
func ClassifyForDashboard(tasks []model.Task, userID string, now time.Time) Counts {
	return Classifier{MissingDue: MissingDueEpoch}.Classify(tasks, userID, now)
}

func (c Classifier) Classify(tasks []model.Task, userID string, now time.Time) Counts {
	var n Counts
	for _, t := range tasks {
		if t.Status != model.StatusDone {
			n.TotalActive++
		}
		if !t.HasAssignee(userID) {
			continue
		}
		if t.Status == model.StatusDone {
			n.Completed++
			continue
		}

		var due time.Time
		switch {
		case t.DueDate != nil:
			due = *t.DueDate
		case c.MissingDue == MissingDueIgnore:
			continue
		default:
			due = time.Unix(0, 0)
		}

		if due.After(now) {
			n.Upcoming++
		} else if due.Before(now) {
			n.Overdue++
		}
	}
	return n
}

// UpcomingFor lists the user's unfinished tasks due after now, soonest first.
func UpcomingFor(tasks []model.Task, userID string, now time.Time) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Status == model.StatusDone || !t.HasAssignee(userID) || t.DueDate == nil {
			continue
		}
		if t.DueDate.After(now) {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// IsOverdue reports whether a single task would count as overdue for now
// under the given policy, ignoring assignment.
func (c Classifier) IsOverdue(t model.Task, now time.Time) bool {
	if t.Status == model.StatusDone {
		return false
	}
	if t.DueDate == nil {
		return c.MissingDue != MissingDueIgnore
	}
	return t.DueDate.Before(now)
}
