// Package health inspects the data directory for problems a normal run
// glosses over: malformed record lines, stale locks, orphaned journals.
package health

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joescharf/tt/internal/lockfile"
	"github.com/joescharf/tt/internal/store"
)

// TimerReport is the integrity summary for one timer's files.
type TimerReport struct {
	Title     string
	Slug      string
	Records   int
	Malformed int
	Total     time.Duration
	LastEnd   time.Time

	HasJournal bool
	StaleLock  bool
	LivePID    int // non-zero while a live session holds the lock
}

// Healthy reports whether this timer's files need attention.
func (r *TimerReport) Healthy() bool {
	return r.Malformed == 0 && !r.StaleLock
}

// Report covers the whole data directory.
type Report struct {
	DataDir        string
	Timers         []*TimerReport
	OrphanJournals []string // journals whose record file is gone
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	if len(r.OrphanJournals) > 0 {
		return false
	}
	for _, t := range r.Timers {
		if !t.Healthy() {
			return false
		}
	}
	return true
}

// Checker scans a store's files.
type Checker struct {
	store store.Store
}

// NewChecker returns a Checker over the given store.
func NewChecker(s store.Store) *Checker {
	return &Checker{store: s}
}

// Check loads every timer and inspects its record file, journal, and lock.
func (c *Checker) Check() (*Report, error) {
	report := &Report{DataDir: c.store.Dir()}

	timers, err := c.store.ListTimers()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(timers))
	for _, info := range timers {
		known[info.Slug] = true

		tr := &TimerReport{
			Title:     info.Title,
			Slug:      info.Slug,
			Records:   info.Sessions,
			Malformed: info.Skipped,
			Total:     info.Total,
			LastEnd:   info.LastEnd,
		}

		if _, err := os.Stat(c.store.JournalPath(info.Slug)); err == nil {
			tr.HasJournal = true
		}

		if _, err := os.Stat(c.store.LockPath(info.Slug)); err == nil {
			if pid, held := lockfile.New(c.store.LockPath(info.Slug)).Held(); held {
				tr.LivePID = pid
			} else {
				tr.StaleLock = true
			}
		}

		report.Timers = append(report.Timers, tr)
	}

	orphans, err := c.orphanJournals(known)
	if err != nil {
		return nil, err
	}
	report.OrphanJournals = orphans

	return report, nil
}

// orphanJournals finds journal files with no matching record file. They
// appear when a record file is removed by hand.
func (c *Checker) orphanJournals(known map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(c.store.Dir())
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), store.JournalSuffix) {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), store.JournalSuffix)
		if !known[slug] {
			orphans = append(orphans, filepath.Join(c.store.Dir(), e.Name()))
		}
	}
	return orphans, nil
}
