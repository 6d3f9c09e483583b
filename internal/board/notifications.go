package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/minima/internal/model"
)

// NotificationsFor returns the user's notifications, newest first.
func NotificationsFor(notifs []model.Notification, userID string) []model.Notification {
	var out []model.Notification
	for _, n := range notifs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func UnreadCount(notifs []model.Notification) int {
	n := 0
	for _, nt := range notifs {
		if !nt.IsRead {
			n++
		}
	}
	return n
}

func MarkRead(notifs []model.Notification, id string) []model.Notification {
	out := make([]model.Notification, len(notifs))
	copy(out, notifs)
	for i := range out {
		if out[i].ID == id {
			out[i].IsRead = true
			break
		}
	}
	return out
}

// MarkAllRead marks every notification addressed to userID as read.
func MarkAllRead(notifs []model.Notification, userID string) []model.Notification {
	out := make([]model.Notification, len(notifs))
	copy(out, notifs)
	for i := range out {
		if out[i].UserID == userID {
			out[i].IsRead = true
		}
	}
	return out
}

// AppendNotifications prepends fresh notifications, newest-first like tasks.
func AppendNotifications(notifs []model.Notification, fresh ...model.Notification) []model.Notification {
	out := make([]model.Notification, 0, len(notifs)+len(fresh))
	out = append(out, fresh...)
	return append(out, notifs...)
}

// TaskLink is the deep link a notification carries for a task.
func TaskLink(t model.Task) string {
	return fmt.Sprintf("/projects/%s?task=%s", t.ProjectID, t.ID)
}

// AssignmentNotices returns one notification per assignee present on after
// but not on before. before is nil for a newly created task.
func AssignmentNotices(before *model.Task, after model.Task, now time.Time) []model.Notification {
	var out []model.Notification
	for i, uid := range after.AssigneeIDs {
		if before != nil && before.HasAssignee(uid) {
			continue
		}
		out = append(out, model.Notification{
			ID:        fmt.Sprintf("%s-%d", model.NewID("notif", now), i),
			UserID:    uid,
			Message:   fmt.Sprintf("You were assigned to %q.", after.Name),
			Link:      TaskLink(after),
			CreatedAt: now,
		})
	}
	return out
}
