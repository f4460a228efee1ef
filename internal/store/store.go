package store

import (
	"time"

	"github.com/joescharf/tt/internal/models"
)

// Store defines the persistence interface for tt. All writes are
// append-only: prior records are never rewritten.
type Store interface {
	// Exists reports whether a record file exists for the slug.
	Exists(slug string) bool

	// History loads the full record stream for one timer.
	History(slug string) (*models.History, error)

	// ListTimers summarizes every record file in the data directory.
	ListTimers() ([]*models.TimerInfo, error)

	// AppendSession durably appends one completed segment.
	AppendSession(s *models.Session) error

	// AppendTransition durably appends one state change to the journal.
	AppendTransition(slug string, at time.Time, state string, elapsed, total time.Duration) error

	// Paths
	Dir() string
	RecordPath(slug string) string
	JournalPath(slug string) string
	LockPath(slug string) string
}
