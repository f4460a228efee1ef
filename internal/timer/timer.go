package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/joescharf/tt/internal/models"
)

// State is the toggle state machine's position.
type State string

const (
	StateRunning State = "RUNNING"
	StatePaused  State = "PAUSED"
)

// Label is the user-facing name for the state: the paused state displays
// and journals as HALTED.
func (s State) Label() string {
	if s == StateRunning {
		return "RUNNING"
	}
	return "HALTED"
}

// Recorder persists timer transitions. store.Store satisfies it.
type Recorder interface {
	AppendSession(s *models.Session) error
	AppendTransition(slug string, at time.Time, state string, elapsed, total time.Duration) error
}

// Config seeds a Timer. Now is replaceable for tests and defaults to
// time.Now.
type Config struct {
	Title      string
	Historical time.Duration
	Recorder   Recorder
	Now        func() time.Time
}

// Timer is the shared mutable state between the input loop and the display
// clock. All fields are guarded by mu: the input loop writes via Toggle and
// Finalize, the clock reads via Snapshot.
type Timer struct {
	mu sync.Mutex

	title        string
	slug         string
	state        State
	segmentStart time.Time
	lastToggle   time.Time
	current      time.Duration
	historical   time.Duration

	rec Recorder
	now func() time.Time
}

// New creates a paused Timer. The caller starts the first segment with one
// Toggle.
func New(cfg Config) *Timer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Timer{
		title:      cfg.Title,
		slug:       models.Slug(cfg.Title),
		state:      StatePaused,
		lastToggle: now(),
		historical: cfg.Historical,
		rec:        cfg.Recorder,
		now:        now,
	}
}

func (t *Timer) Title() string { return t.title }
func (t *Timer) Slug() string  { return t.slug }

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateRunning
}

// Toggle flips the state machine. Pausing finalizes the open segment and
// returns its record; resuming returns nil. Appends happen before the state
// commit, so any state a snapshot can observe is already on disk.
func (t *Timer) Toggle() (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.state == StateRunning {
		return t.pauseLocked(now)
	}
	return nil, t.resumeLocked(now)
}

// Finalize pauses if running and is a no-op when already paused, so the
// shutdown path after a manual pause appends nothing.
func (t *Timer) Finalize() (*models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return nil, nil
	}
	return t.pauseLocked(t.now())
}

func (t *Timer) resumeLocked(now time.Time) error {
	if err := t.rec.AppendTransition(t.slug, now, StateRunning.Label(), t.current, t.historical+t.current); err != nil {
		return fmt.Errorf("record transition: %w", err)
	}
	t.segmentStart = now
	t.lastToggle = now
	t.state = StateRunning
	return nil
}

func (t *Timer) pauseLocked(now time.Time) (*models.Session, error) {
	sess := &models.Session{
		Title: t.title,
		Start: t.segmentStart,
		End:   now,
	}
	if err := t.rec.AppendSession(sess); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	elapsed := t.current + now.Sub(t.lastToggle)
	if err := t.rec.AppendTransition(t.slug, now, StatePaused.Label(), elapsed, t.historical+elapsed); err != nil {
		return nil, fmt.Errorf("record transition: %w", err)
	}

	t.current = elapsed
	t.lastToggle = now
	t.state = StatePaused
	return sess, nil
}

// Snapshot is a point-in-time read of the timer for rendering.
type Snapshot struct {
	Title   string
	State   State
	Elapsed time.Duration
	Total   time.Duration
	Now     time.Time
}

// Snapshot reads the current state. While running, the open segment's live
// delta counts toward elapsed and total.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	elapsed := t.current
	if t.state == StateRunning {
		elapsed += now.Sub(t.lastToggle)
	}
	return Snapshot{
		Title:   t.title,
		State:   t.state,
		Elapsed: elapsed,
		Total:   t.historical + elapsed,
		Now:     now,
	}
}
