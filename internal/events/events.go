// Package events is the operational event log the field tools report into.
// Logging is strictly best-effort: every tool works identically when the log
// is unavailable, so callers inject a Logger and fall back to Nop when
// opening the real one fails.
package events

import (
	"time"
)

// Logger records process lifecycle events and free-form notes.
type Logger interface {
	// ProcessStart records the beginning of a tool invocation and returns an
	// event ID that ProcessEnd can correlate with.
	ProcessStart(module, purpose string, inputs []string) (string, error)

	// ProcessEnd records the completion of a tool invocation.
	ProcessEnd(module, status string, duration time.Duration, outputs []string, notes string) error

	// Note records a one-line operator note.
	Note(message string) error

	// Close releases any underlying resources.
	Close() error
}

// Nop discards everything. It is the default collaborator when no event log
// root is configured.
type Nop struct{}

func (Nop) ProcessStart(string, string, []string) (string, error) { return "", nil }

func (Nop) ProcessEnd(string, string, time.Duration, []string, string) error { return nil }

func (Nop) Note(string) error { return nil }

func (Nop) Close() error { return nil }
