// Package reminder decides which tasks warrant a notification at a
// given moment.
//
// Evaluation is stateless: no record is kept of what already fired,
// so a task that still satisfies its window is reported again on the
// next pass. Likewise a daily or weekly task whose due date is
// already in the past keeps firing until it is completed or removed.
package reminder

import (
	"fmt"
	"time"

	"taskmaster/internal/todo"
)

// Notification is an informational event for the presentation layer
// to display; delivery is not this package's concern.
type Notification struct {
	TodoID  string
	Title   string
	Message string
}

// dueLayout is how due dates read inside notification text.
const dueLayout = "Jan 2, 2006 3:04 PM"

// Evaluate reports whether t should fire at now, and the notification
// if so. Completed tasks and tasks with notifications disabled never
// fire.
func Evaluate(now time.Time, t todo.Todo) (Notification, bool) {
	if t.Completed || !t.Notification.Enabled {
		return Notification{}, false
	}

	switch t.Notification.Type {
	case todo.NotifyDaily:
		if t.DueDate.Before(now.Add(24 * time.Hour)) {
			return notification(t, fmt.Sprintf("Daily Reminder: %q is due %s", t.Title, t.DueDate.Format(dueLayout))), true
		}
	case todo.NotifyWeekly:
		if t.DueDate.Before(now.Add(7 * 24 * time.Hour)) {
			return notification(t, fmt.Sprintf("Weekly Reminder: %q is due %s", t.Title, t.DueDate.Format(dueLayout))), true
		}
	case todo.NotifyCustom:
		if t.Notification.CustomTime <= 0 {
			return Notification{}, false
		}
		notifyAt := t.DueDate.Add(-time.Duration(t.Notification.CustomTime) * time.Minute)
		if !now.Before(notifyAt) && now.Before(t.DueDate) {
			return notification(t, fmt.Sprintf("Reminder: %q is due in %d minutes", t.Title, t.Notification.CustomTime)), true
		}
	}
	return Notification{}, false
}

// EvaluateAll runs Evaluate over a snapshot of the collection and
// collects everything that fires.
func EvaluateAll(now time.Time, todos []todo.Todo) []Notification {
	var out []Notification
	for _, t := range todos {
		if n, ok := Evaluate(now, t); ok {
			out = append(out, n)
		}
	}
	return out
}

func notification(t todo.Todo, msg string) Notification {
	return Notification{TodoID: t.ID, Title: t.Title, Message: msg}
}
