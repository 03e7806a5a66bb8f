// Package repo owns the in-memory todo collection and its view state.
//
// The repository is the only writer of the collection. Every mutation
// re-serializes the full collection to the backing store before it
// returns; when the write fails the in-memory change stands and the
// error is reported, so durability is best effort rather than
// transactional.
package repo

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskmaster/internal/storage"
	"taskmaster/internal/todo"
)

const defaultItemsPerPage = 5

type Repo struct {
	store   *storage.Store
	todos   []todo.Todo
	query   string
	page    int
	perPage int
}

func New(store *storage.Store, itemsPerPage int) *Repo {
	if itemsPerPage <= 0 {
		itemsPerPage = defaultItemsPerPage
	}
	return &Repo{
		store:   store,
		page:    1,
		perPage: itemsPerPage,
	}
}

// Load populates the collection from the store. Called once at
// startup; an empty store yields an empty collection.
func (r *Repo) Load() error {
	todos, err := r.store.Load()
	if err != nil {
		return err
	}
	r.todos = todos
	return nil
}

// Add appends a new record with a fresh id. The record is created
// even when persisting fails; the error reports the failed write.
func (r *Repo) Add(f todo.Fields) (todo.Todo, error) {
	t := todo.Todo{
		ID:           uuid.NewString(),
		Title:        f.Title,
		Description:  f.Description,
		DueDate:      f.DueDate,
		Notification: f.Notification,
	}
	r.todos = append(r.todos, t)
	return t, r.save()
}

// Update replaces the mutable fields of the record with the given id,
// preserving its id and completed state. Edits do not reorder the
// collection.
func (r *Repo) Update(id string, f todo.Fields) (todo.Todo, error) {
	i := r.index(id)
	if i < 0 {
		return todo.Todo{}, todo.ErrNotFound
	}
	t := &r.todos[i]
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.DueDate
	t.Notification = f.Notification
	return *t, r.save()
}

// Remove deletes the record with the given id. Removing an unknown id
// is a no-op reporting false, with nothing written.
func (r *Repo) Remove(id string) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return true, r.save()
}

// ToggleComplete flips the completed flag of the record with the
// given id.
func (r *Repo) ToggleComplete(id string) (todo.Todo, error) {
	i := r.index(id)
	if i < 0 {
		return todo.Todo{}, todo.ErrNotFound
	}
	r.todos[i].Completed = !r.todos[i].Completed
	return r.todos[i], r.save()
}

// Get returns the record with the given id.
func (r *Repo) Get(id string) (todo.Todo, error) {
	i := r.index(id)
	if i < 0 {
		return todo.Todo{}, todo.ErrNotFound
	}
	return r.todos[i], nil
}

// List returns a copy of the collection in insertion order.
func (r *Repo) List() []todo.Todo {
	out := make([]todo.Todo, len(r.todos))
	copy(out, r.todos)
	return out
}

// SetQuery replaces the search query and resets the current page, so
// a narrowed result set never strands the view on a vanished page.
func (r *Repo) SetQuery(q string) {
	r.query = q
	r.page = 1
}

func (r *Repo) Query() string { return r.query }

// SetPage selects the current page. Pages below 1 clamp to 1; pages
// beyond the filtered range are allowed and simply view an empty
// slice.
func (r *Repo) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	r.page = n
}

func (r *Repo) Page() int { return r.page }

func (r *Repo) ItemsPerPage() int { return r.perPage }

// PageView is one page of the filtered collection.
type PageView struct {
	Items      []todo.Todo
	Number     int
	Size       int
	TotalItems int
	TotalPages int
}

// View derives the current page of the filtered collection. The
// filter keeps records whose title or description contains the query,
// case-insensitively; an empty query matches everything.
func (r *Repo) View() PageView {
	filtered := r.filter()

	totalPages := (len(filtered) + r.perPage - 1) / r.perPage

	start := (r.page - 1) * r.perPage
	end := start + r.perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return PageView{
		Items:      filtered[start:end],
		Number:     r.page,
		Size:       r.perPage,
		TotalItems: len(filtered),
		TotalPages: totalPages,
	}
}

func (r *Repo) filter() []todo.Todo {
	if r.query == "" {
		return r.List()
	}
	q := strings.ToLower(r.query)
	var out []todo.Todo
	for _, t := range r.todos {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Repo) index(id string) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repo) save() error {
	if err := r.store.Save(r.todos); err != nil {
		return fmt.Errorf("persist todos: %w", err)
	}
	return nil
}
