// Package todo defines the task record and validates form input.
package todo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when an operation targets an id that is not
// in the collection.
var ErrNotFound = errors.New("todo not found")

// NotificationType selects the reminder window for a task.
type NotificationType string

const (
	NotifyDaily  NotificationType = "daily"
	NotifyWeekly NotificationType = "weekly"
	NotifyCustom NotificationType = "custom"
)

// Valid reports whether t is one of the three known types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyDaily, NotifyWeekly, NotifyCustom:
		return true
	}
	return false
}

// NotificationSettings is the per-task reminder policy. CustomTime is
// minutes before the due date and only meaningful for NotifyCustom;
// zero means unset.
type NotificationSettings struct {
	Enabled    bool             `json:"enabled"`
	Type       NotificationType `json:"type"`
	CustomTime int              `json:"customTime,omitempty"`
}

// Todo is a single task record. ID is assigned at creation and never
// changes.
type Todo struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	DueDate      time.Time            `json:"dueDate"`
	Completed    bool                 `json:"completed"`
	Notification NotificationSettings `json:"notificationSettings"`
}

// Fields is the validated payload for creating or updating a task.
type Fields struct {
	Title        string
	Description  string
	DueDate      time.Time
	Notification NotificationSettings
}

// FormFields carries raw form input before validation.
type FormFields struct {
	Title            string
	Description      string
	DueDate          string
	Notification     bool
	NotificationType string
	CustomTime       string
}

// DueDateLayout is the input format for due dates, date plus time of
// day in the local zone.
const DueDateLayout = "2006-01-02 15:04"

// ValidationError reports a rejected form field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseForm validates raw form input and converts it to Fields.
// Title and description are required, the due date must parse, and
// the custom time must be a positive number of minutes when given.
func ParseForm(f FormFields) (Fields, error) {
	var out Fields

	out.Title = strings.TrimSpace(f.Title)
	if out.Title == "" {
		return out, &ValidationError{Field: "title", Err: errors.New("required")}
	}

	out.Description = strings.TrimSpace(f.Description)
	if out.Description == "" {
		return out, &ValidationError{Field: "description", Err: errors.New("required")}
	}

	due, err := time.ParseInLocation(DueDateLayout, strings.TrimSpace(f.DueDate), time.Local)
	if err != nil {
		return out, &ValidationError{Field: "due date", Err: fmt.Errorf("want %s: %w", DueDateLayout, err)}
	}
	out.DueDate = due

	nt := NotificationType(strings.TrimSpace(f.NotificationType))
	if nt == "" {
		nt = NotifyDaily
	}
	if !nt.Valid() {
		return out, &ValidationError{Field: "notification type", Err: fmt.Errorf("unknown type %q", nt)}
	}

	custom := 0
	if v := strings.TrimSpace(f.CustomTime); v != "" {
		custom, err = strconv.Atoi(v)
		if err != nil {
			return out, &ValidationError{Field: "custom time", Err: err}
		}
		if custom <= 0 {
			return out, &ValidationError{Field: "custom time", Err: errors.New("must be positive minutes")}
		}
	}

	out.Notification = NotificationSettings{
		Enabled:    f.Notification,
		Type:       nt,
		CustomTime: custom,
	}
	return out, nil
}
