package events

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// RootEnv names the environment variable holding the event log root
// directory. It is read only at the CLI edge, never inside the pipeline.
const RootEnv = "SURVEY_EVENTS_ROOT"

const schema = `
	CREATE TABLE IF NOT EXISTS events (
		event_id       TEXT PRIMARY KEY,
		created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		module         TEXT,
		event_type     TEXT,
		status         TEXT,
		duration_secs  REAL,
		message        TEXT,
		inputs         TEXT,
		outputs        TEXT
	);
`

// SQLiteLog appends events to <root>/events.db.
type SQLiteLog struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the event database under root.
func OpenSQLite(root string) (*SQLiteLog, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create event log root: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(root, "events.db"))
	if err != nil {
		return nil, fmt.Errorf("open event db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// FromEnv returns a SQLite logger rooted at $SURVEY_EVENTS_ROOT, or Nop when
// the variable is unset or the database cannot be opened. The second return
// reports whether a real logger was obtained.
func FromEnv() (Logger, bool) {
	root := os.Getenv(RootEnv)
	if root == "" {
		return Nop{}, false
	}
	l, err := OpenSQLite(root)
	if err != nil {
		return Nop{}, false
	}
	return l, true
}

func (l *SQLiteLog) ProcessStart(module, purpose string, inputs []string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.Exec(`
		INSERT INTO events (event_id, module, event_type, message, inputs)
		VALUES (?, ?, 'process_start', ?, ?)`,
		id, module, purpose, strings.Join(inputs, "\n"),
	)
	if err != nil {
		return "", fmt.Errorf("record process start: %w", err)
	}
	return id, nil
}

func (l *SQLiteLog) ProcessEnd(module, status string, duration time.Duration, outputs []string, notes string) error {
	_, err := l.db.Exec(`
		INSERT INTO events (event_id, module, event_type, status, duration_secs, message, outputs)
		VALUES (?, ?, 'process_end', ?, ?, ?, ?)`,
		uuid.NewString(), module, status, duration.Seconds(), notes, strings.Join(outputs, "\n"),
	)
	if err != nil {
		return fmt.Errorf("record process end: %w", err)
	}
	return nil
}

func (l *SQLiteLog) Note(message string) error {
	_, err := l.db.Exec(`
		INSERT INTO events (event_id, event_type, message)
		VALUES (?, 'user_note', ?)`,
		uuid.NewString(), message,
	)
	if err != nil {
		return fmt.Errorf("record note: %w", err)
	}
	return nil
}

func (l *SQLiteLog) Close() error { return l.db.Close() }
