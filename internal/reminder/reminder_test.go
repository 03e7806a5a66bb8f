package reminder

import (
	"strings"
	"testing"
	"time"

	"taskmaster/internal/todo"
)

var now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func task(due time.Time, settings todo.NotificationSettings) todo.Todo {
	return todo.Todo{
		ID:           "t1",
		Title:        "Dentist",
		Description:  "checkup",
		DueDate:      due,
		Notification: settings,
	}
}

func TestEvaluateDaily(t *testing.T) {
	daily := todo.NotificationSettings{Enabled: true, Type: todo.NotifyDaily}

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{name: "due in 12 hours", due: now.Add(12 * time.Hour), want: true},
		{name: "due in 36 hours", due: now.Add(36 * time.Hour), want: false},
		{name: "already past due", due: now.Add(-2 * time.Hour), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, fired := Evaluate(now, task(tt.due, daily))
			if fired != tt.want {
				t.Fatalf("fired = %t, want %t", fired, tt.want)
			}
			if fired && !strings.HasPrefix(n.Message, "Daily Reminder:") {
				t.Errorf("message = %q", n.Message)
			}
		})
	}
}

func TestEvaluateSkipsCompletedAndDisabled(t *testing.T) {
	due := now.Add(12 * time.Hour)

	completed := task(due, todo.NotificationSettings{Enabled: true, Type: todo.NotifyDaily})
	completed.Completed = true
	if _, fired := Evaluate(now, completed); fired {
		t.Error("completed task fired")
	}

	disabled := task(due, todo.NotificationSettings{Enabled: false, Type: todo.NotifyDaily})
	if _, fired := Evaluate(now, disabled); fired {
		t.Error("disabled task fired")
	}
}

func TestEvaluateWeekly(t *testing.T) {
	weekly := todo.NotificationSettings{Enabled: true, Type: todo.NotifyWeekly}

	if _, fired := Evaluate(now, task(now.Add(10*24*time.Hour), weekly)); fired {
		t.Error("due in 10 days fired")
	}
	n, fired := Evaluate(now, task(now.Add(3*24*time.Hour), weekly))
	if !fired {
		t.Fatal("due in 3 days did not fire")
	}
	if !strings.HasPrefix(n.Message, "Weekly Reminder:") {
		t.Errorf("message = %q", n.Message)
	}
}

func TestEvaluateCustom(t *testing.T) {
	custom := todo.NotificationSettings{Enabled: true, Type: todo.NotifyCustom, CustomTime: 30}

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{name: "inside window, due in 10 minutes", due: now.Add(10 * time.Minute), want: true},
		{name: "before window, due in 40 minutes", due: now.Add(40 * time.Minute), want: false},
		{name: "window opens exactly now", due: now.Add(30 * time.Minute), want: true},
		{name: "already due", due: now, want: false},
		{name: "past due", due: now.Add(-time.Minute), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, fired := Evaluate(now, task(tt.due, custom))
			if fired != tt.want {
				t.Fatalf("fired = %t, want %t", fired, tt.want)
			}
			if fired && n.Message != `Reminder: "Dentist" is due in 30 minutes` {
				t.Errorf("message = %q", n.Message)
			}
		})
	}
}

func TestEvaluateCustomWithoutCustomTimeNeverFires(t *testing.T) {
	settings := todo.NotificationSettings{Enabled: true, Type: todo.NotifyCustom}
	if _, fired := Evaluate(now, task(now.Add(5*time.Minute), settings)); fired {
		t.Error("custom without customTime fired")
	}
}

func TestEvaluateRefiresEveryPass(t *testing.T) {
	// No notification history is kept: a still-qualifying task fires
	// again on the next evaluation.
	daily := task(now.Add(6*time.Hour), todo.NotificationSettings{Enabled: true, Type: todo.NotifyDaily})
	for i := 0; i < 3; i++ {
		if _, fired := Evaluate(now.Add(time.Duration(i)*time.Minute), daily); !fired {
			t.Fatalf("pass %d did not fire", i)
		}
	}
}

func TestEvaluateAll(t *testing.T) {
	todos := []todo.Todo{
		task(now.Add(12*time.Hour), todo.NotificationSettings{Enabled: true, Type: todo.NotifyDaily}),
		task(now.Add(12*time.Hour), todo.NotificationSettings{Enabled: false, Type: todo.NotifyDaily}),
		task(now.Add(3*24*time.Hour), todo.NotificationSettings{Enabled: true, Type: todo.NotifyWeekly}),
		task(now.Add(10*24*time.Hour), todo.NotificationSettings{Enabled: true, Type: todo.NotifyWeekly}),
	}
	got := EvaluateAll(now, todos)
	if len(got) != 2 {
		t.Fatalf("EvaluateAll fired %d, want 2: %+v", len(got), got)
	}
}

func TestMessageIncludesTitleAndDueDate(t *testing.T) {
	due := time.Date(2026, 9, 1, 18, 30, 0, 0, time.Local)
	n, fired := Evaluate(now, task(due, todo.NotificationSettings{Enabled: true, Type: todo.NotifyDaily}))
	if !fired {
		t.Fatal("did not fire")
	}
	if !strings.Contains(n.Message, `"Dentist"`) {
		t.Errorf("message missing title: %q", n.Message)
	}
	if !strings.Contains(n.Message, due.Format("Jan 2, 2006 3:04 PM")) {
		t.Errorf("message missing formatted due date: %q", n.Message)
	}
}
