package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskmaster/internal/config"
	"taskmaster/internal/reminder"
	"taskmaster/internal/repo"
	"taskmaster/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeSearch
)

// formState is the controlled add/edit form: the selected record's
// values are copied in once, edited field by field through a single
// input, and only written back through the repository on save.
type formState struct {
	editingID   string // empty means the form creates a new task
	title       string
	description string
	due         string
	enabled     string
	ntype       string
	custom      string
	index       int
}

// notice is a transient, auto-dismissing message.
type notice struct {
	text      string
	expiresAt time.Time
}

type reminderTickMsg time.Time

type noticeTickMsg time.Time

type Model struct {
	repo       *repo.Repo
	cfg        config.Config
	logger     *log.Logger
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirmDel bool
	pendingDel *todo.Todo
	form       *formState
	notices    []notice

	reminderEvery time.Duration
	noticeTimeout time.Duration
}

func Run(r *repo.Repo, cfg config.Config, logger *log.Logger) error {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		repo:          r,
		cfg:           cfg,
		logger:        logger,
		status:        "Press 'a' to add, '/' to search, space to toggle, 'd' to delete.",
		input:         ti,
		mode:          modeList,
		reminderEvery: time.Duration(cfg.ReminderIntervalSecs) * time.Second,
		noticeTimeout: time.Duration(cfg.NoticeTimeoutSecs) * time.Second,
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(reminderTick(m.reminderEvery), noticeTick())
}

// Each tick command schedules exactly one successor from Update, so
// there is never more than one pending timer and both die with the
// program.
func reminderTick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

func noticeTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return noticeTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reminderTickMsg:
		m = m.checkReminders(time.Time(msg))
		return m, reminderTick(m.reminderEvery)
	case noticeTickMsg:
		m.notices = pruneNotices(m.notices, time.Time(msg))
		return m, noticeTick()
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateFormMode(msg.String(), msg)
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeSearch {
			return m.updateSearchMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) checkReminders(now time.Time) Model {
	fired := reminder.EvaluateAll(now, m.repo.List())
	for _, n := range fired {
		m.logger.Info("reminder fired", "todo", n.TodoID, "title", n.Title)
		m = m.pushNotice(n.Message)
	}
	return m
}

func (m Model) pushNotice(text string) Model {
	m.notices = append(m.notices, notice{
		text:      text,
		expiresAt: time.Now().Add(m.noticeTimeout),
	})
	return m
}

func pruneNotices(notices []notice, now time.Time) []notice {
	kept := notices[:0]
	for _, n := range notices {
		if now.Before(n.expiresAt) {
			kept = append(kept, n)
		}
	}
	return kept
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	view := m.repo.View()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(view.Items))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(view.Items))
		}
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		if len(view.Items) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		selected := view.Items[clampCursor(m.cursor, len(view.Items))]
		t, err := m.repo.Get(selected.ID)
		if err != nil {
			m = m.reportError("edit failed", err)
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		if len(view.Items) == 0 {
			return m, nil
		}
		t := view.Items[clampCursor(m.cursor, len(view.Items))]
		toggled, err := m.repo.ToggleComplete(t.ID)
		if err != nil {
			m = m.reportError("toggle failed", err)
			return m, nil
		}
		m.logger.Info("toggled todo", "todo", toggled.ID, "completed", toggled.Completed)
		m.status = "Updated " + humanDone(toggled.Completed)
	case m.cfg.Keys.Delete:
		if len(view.Items) == 0 {
			return m, nil
		}
		t := view.Items[clampCursor(m.cursor, len(view.Items))]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Search:
		m.mode = modeSearch
		m.input.Placeholder = "Search tasks..."
		m.input.SetValue(m.repo.Query())
		m.input.Focus()
		m.status = "Search: type to filter, Enter to accept, Esc to clear"
	case m.cfg.Keys.NextPage:
		if m.repo.Page() < view.TotalPages {
			m.repo.SetPage(m.repo.Page() + 1)
			m.cursor = 0
		}
	case m.cfg.Keys.PrevPage:
		if m.repo.Page() > 1 {
			m.repo.SetPage(m.repo.Page() - 1)
			m.cursor = 0
		}
	}
	return m, nil
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.repo.SetQuery("")
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.cursor = 0
		m.status = "Search cleared"
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.input.Blur()
		m.mode = modeList
		m.status = fmt.Sprintf("Filtering on %q", m.repo.Query())
		if m.repo.Query() == "" {
			m.status = "Showing all tasks"
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		// Live filtering: every keystroke re-derives the view and
		// resets the page.
		m.repo.SetQuery(m.input.Value())
		m.cursor = 0
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			m.confirmDel = false
			return m, nil
		}
		removed, err := m.repo.Remove(m.pendingDel.ID)
		switch {
		case err != nil:
			m = m.reportError("delete failed", err)
		case !removed:
			m = m.pushNotice("Task was already gone")
			m.status = "Nothing removed"
		default:
			m.logger.Info("removed todo", "todo", m.pendingDel.ID)
			m = m.pushNotice("Task deleted")
			m.status = "Deleted task"
		}
		m.cursor = clampCursor(m.cursor, len(m.repo.View().Items))
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) startForm(t *todo.Todo) (tea.Model, tea.Cmd) {
	f := &formState{
		enabled: "n",
		ntype:   string(todo.NotifyDaily),
	}
	if t != nil {
		f.editingID = t.ID
		f.title = t.Title
		f.description = t.Description
		f.due = t.DueDate.Format(todo.DueDateLayout)
		f.enabled = boolToYN(t.Notification.Enabled)
		f.ntype = string(t.Notification.Type)
		if t.Notification.CustomTime > 0 {
			f.custom = fmt.Sprintf("%d", t.Notification.CustomTime)
		}
	}
	m.form = f
	m.input.SetValue(f.currentValue())
	m.input.Placeholder = f.currentLabel()
	m.input.Focus()
	m.mode = modeForm
	if f.editingID == "" {
		m.status = "New task: Enter to advance, Esc to cancel, tab to move"
	} else {
		m.status = "Edit task: Enter to advance, Esc to cancel, tab to move"
	}
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "shift+down":
		if m.form == nil {
			return m, nil
		}
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index+1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	case "shift+tab", "shift+up":
		if m.form == nil {
			return m, nil
		}
		m.form.setCurrentValue(m.input.Value())
		m.form.index = wrapIndex(m.form.index-1, len(formFields()))
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		if m.form == nil {
			return m, nil
		}
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		m.form.index++
		m.input.SetValue(m.form.currentValue())
		m.input.Placeholder = m.form.currentLabel()
		m.status = m.formPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	fields, err := todo.ParseForm(todo.FormFields{
		Title:            m.form.title,
		Description:      m.form.description,
		DueDate:          m.form.due,
		Notification:     parseYN(m.form.enabled),
		NotificationType: m.form.ntype,
		CustomTime:       m.form.custom,
	})
	if err != nil {
		// Validation failures keep the form open for correction.
		m.status = fmt.Sprintf("invalid input: %v", err)
		return m, nil
	}

	editingID := m.form.editingID
	m.form = nil
	m.mode = modeList
	m.input.Blur()

	if editingID == "" {
		created, err := m.repo.Add(fields)
		if err != nil {
			m = m.reportError("save failed", err)
			return m, nil
		}
		m.logger.Info("added todo", "todo", created.ID, "title", created.Title)
		m = m.pushNotice("Task added")
		m.status = "Added task"
		m.cursor = clampCursor(m.cursor, len(m.repo.View().Items))
		return m, nil
	}

	updated, err := m.repo.Update(editingID, fields)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			m = m.pushNotice("Task no longer exists")
			m.status = "Update skipped"
			return m, nil
		}
		m = m.reportError("save failed", err)
		return m, nil
	}
	m.logger.Info("updated todo", "todo", updated.ID, "title", updated.Title)
	m = m.pushNotice("Task updated")
	m.status = "Updated task"
	return m, nil
}

// reportError surfaces err as a transient notice. Persistence errors
// are never fatal to the session; the in-memory change already took
// effect.
func (m Model) reportError(what string, err error) Model {
	m.logger.Error(what, "err", err)
	m = m.pushNotice(fmt.Sprintf("%s: %v", what, err))
	m.status = what
	return m
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("TaskMaster")
	b.WriteString("\n\n")

	if m.mode == modeSearch {
		b.WriteString("Search: ")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	} else if q := m.repo.Query(); q != "" {
		b.WriteString(fmt.Sprintf("Filter: %q (press %s to change)\n\n", q, m.cfg.Keys.Search))
	}

	view := m.repo.View()

	if m.form != nil {
		b.WriteString(m.renderForm())
	} else if view.TotalItems == 0 {
		if m.repo.Query() != "" {
			b.WriteString("No tasks match the search.")
		} else {
			b.WriteString("No tasks yet. Press 'a' to add one.")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList(view))
		b.WriteString("\n")
		b.WriteString(renderPageLine(view))
		b.WriteString("\n")
	}

	if len(m.notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString("* " + n.text + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderTaskList(view repo.PageView) string {
	var b strings.Builder
	for i, t := range view.Items {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s %s  (due %s)", cursor, checkbox, t.Title, t.DueDate.Format(todo.DueDateLayout))
		if t.Notification.Enabled {
			line += "  !" + string(t.Notification.Type)
			if t.Notification.Type == todo.NotifyCustom && t.Notification.CustomTime > 0 {
				line += fmt.Sprintf(" (%dm before)", t.Notification.CustomTime)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")

		if m.cursor == i && m.mode == modeList && strings.TrimSpace(t.Description) != "" {
			b.WriteString("      " + t.Description + "\n")
		}
	}
	return b.String()
}

func renderPageLine(view repo.PageView) string {
	if view.TotalPages <= 1 {
		return fmt.Sprintf("%d task(s)", view.TotalItems)
	}
	return fmt.Sprintf("page %d/%d (%d tasks)", view.Number, view.TotalPages, view.TotalItems)
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	fields := formFields()
	values := []string{
		m.form.title,
		m.form.description,
		m.form.due,
		m.form.enabled,
		m.form.ntype,
		m.form.custom,
	}
	var b strings.Builder
	for i, name := range fields {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-28s : %s\n", prefix, name, val))
	}
	b.WriteString("\n")
	b.WriteString("Field: " + m.form.currentLabel())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s search • %s/%s page • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.Search, k.PrevPage, k.NextPage, k.Quit)
}

func formFields() []string {
	return []string{
		"title",
		"description",
		"due date (" + todo.DueDateLayout + ")",
		"notifications (y/n)",
		"notification type (daily/weekly/custom)",
		"minutes before due (custom only)",
	}
}

func (f formState) currentLabel() string {
	return formFields()[f.index]
}

func (f formState) currentValue() string {
	switch f.index {
	case 0:
		return f.title
	case 1:
		return f.description
	case 2:
		return f.due
	case 3:
		return f.enabled
	case 4:
		return f.ntype
	case 5:
		return f.custom
	default:
		return ""
	}
}

func (f *formState) setCurrentValue(v string) {
	switch f.index {
	case 0:
		f.title = v
	case 1:
		f.description = v
	case 2:
		f.due = v
	case 3:
		f.enabled = v
	case 4:
		f.ntype = v
	case 5:
		f.custom = v
	}
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	return fmt.Sprintf("Editing %s (field %d of %d). Enter to advance, Esc to cancel.",
		m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func parseYN(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "y" || v == "yes" || v == "true" || v == "1"
}

func boolToYN(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
