package ui

import (
	"testing"
	"time"

	"taskmaster/internal/todo"
)

func TestPruneNotices(t *testing.T) {
	now := time.Now()
	notices := []notice{
		{text: "gone", expiresAt: now.Add(-time.Second)},
		{text: "kept", expiresAt: now.Add(3 * time.Second)},
		{text: "also gone", expiresAt: now},
	}
	kept := pruneNotices(notices, now)
	if len(kept) != 1 || kept[0].text != "kept" {
		t.Errorf("pruneNotices = %+v", kept)
	}
}

func TestFormStateCyclesAllFields(t *testing.T) {
	f := &formState{}
	values := []string{"Title", "Desc", "2026-09-30 11:00", "y", "custom", "30"}
	for i, v := range values {
		f.index = i
		f.setCurrentValue(v)
	}
	f.index = 0
	for i, want := range values {
		f.index = i
		if got := f.currentValue(); got != want {
			t.Errorf("field %d (%s): got %q, want %q", i, f.currentLabel(), got, want)
		}
	}
	if f.title != "Title" || f.custom != "30" {
		t.Errorf("form state = %+v", f)
	}
}

func TestStartFormPrefillsFromRecord(t *testing.T) {
	due := time.Date(2026, 9, 30, 11, 0, 0, 0, time.Local)
	rec := todo.Todo{
		ID:          "abc",
		Title:       "Dentist",
		Description: "checkup",
		DueDate:     due,
		Notification: todo.NotificationSettings{
			Enabled:    true,
			Type:       todo.NotifyCustom,
			CustomTime: 45,
		},
	}
	m := Model{}
	got, _ := m.startForm(&rec)
	form := got.(Model).form
	if form == nil {
		t.Fatal("form not opened")
	}
	if form.editingID != "abc" {
		t.Errorf("editingID = %q", form.editingID)
	}
	if form.title != "Dentist" || form.description != "checkup" {
		t.Errorf("prefill = %+v", form)
	}
	if form.due != due.Format(todo.DueDateLayout) {
		t.Errorf("due prefill = %q", form.due)
	}
	if form.enabled != "y" || form.ntype != "custom" || form.custom != "45" {
		t.Errorf("notification prefill = %+v", form)
	}
}

func TestWrapIndex(t *testing.T) {
	if got := wrapIndex(6, 6); got != 0 {
		t.Errorf("wrapIndex(6, 6) = %d", got)
	}
	if got := wrapIndex(-1, 6); got != 5 {
		t.Errorf("wrapIndex(-1, 6) = %d", got)
	}
}
