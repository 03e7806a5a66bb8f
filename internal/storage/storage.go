// Package storage persists the todo collection as a single JSON blob
// in a sqlite-backed key-value table.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"taskmaster/internal/todo"
)

// todosKey is the slot the whole collection lives under.
const todosKey = "todos"

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// storedTodo is the on-disk shape of a record. Due dates travel as
// RFC3339 strings and are parsed back on load.
type storedTodo struct {
	ID           string                    `json:"id"`
	Title        string                    `json:"title"`
	Description  string                    `json:"description"`
	DueDate      string                    `json:"dueDate"`
	Completed    bool                      `json:"completed"`
	Notification todo.NotificationSettings `json:"notificationSettings"`
}

// Load reads the collection. A missing slot is an empty collection,
// not an error.
func (s *Store) Load() ([]todo.Todo, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, todosKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	var stored []storedTodo
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("parse todos: %w", err)
	}

	out := make([]todo.Todo, 0, len(stored))
	for _, st := range stored {
		due, err := time.Parse(time.RFC3339, st.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parse due date for %q: %w", st.ID, err)
		}
		out = append(out, todo.Todo{
			ID:           st.ID,
			Title:        st.Title,
			Description:  st.Description,
			DueDate:      due,
			Completed:    st.Completed,
			Notification: st.Notification,
		})
	}
	return out, nil
}

// Save replaces the stored collection with todos in full.
func (s *Store) Save(todos []todo.Todo) error {
	stored := make([]storedTodo, 0, len(todos))
	for _, t := range todos {
		stored = append(stored, storedTodo{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			DueDate:      t.DueDate.Format(time.RFC3339),
			Completed:    t.Completed,
			Notification: t.Notification,
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal todos: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		todosKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("write todos: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
