package session

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/tt/internal/input"
	"github.com/joescharf/tt/internal/models"
	"github.com/joescharf/tt/internal/output"
	"github.com/joescharf/tt/internal/store"
	"github.com/joescharf/tt/internal/timer"
)

// fakeClock is a manually advanced time source, safe for concurrent reads
// from the display clock goroutine.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 22, 10, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memRecorder captures appends, mutex-guarded so tests can poll while the
// session goroutine runs.
type memRecorder struct {
	mu          sync.Mutex
	sessions    []*models.Session
	transitions []string
	failSession error
}

func (r *memRecorder) AppendSession(s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSession != nil {
		return r.failSession
	}
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *memRecorder) AppendTransition(slug string, at time.Time, state string, elapsed, total time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, state)
	return nil
}

func (r *memRecorder) Sessions() []*models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Session(nil), r.sessions...)
}

func (r *memRecorder) Transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.transitions...)
}

func (r *memRecorder) FailNextSession(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failSession = err
}

type runnerEnv struct {
	runner  *Runner
	clk     *fakeClock
	rec     *memRecorder
	out     *bytes.Buffer
	keyCh   chan input.Key
	sigCh   chan os.Signal
	errCh   chan error
	restore *int
}

func newRunnerEnv(t *testing.T, historical time.Duration) *runnerEnv {
	t.Helper()

	out := &bytes.Buffer{}
	clk := newFakeClock()
	rec := &memRecorder{}
	restore := 0

	env := &runnerEnv{
		runner: &Runner{
			ui: &output.UI{Out: out, ErrOut: out},
			timer: timer.New(timer.Config{
				Title:      "Test",
				Historical: historical,
				Recorder:   rec,
				Now:        clk.Now,
			}),
			interval: 5 * time.Millisecond,
			width:    func() int { return 0 },
		},
		clk:     clk,
		rec:     rec,
		out:     out,
		keyCh:   make(chan input.Key, 4),
		sigCh:   make(chan os.Signal, 1),
		errCh:   make(chan error, 1),
		restore: &restore,
	}
	return env
}

// start launches execute in the background and blocks until the synthetic
// auto-start toggle has landed.
func (e *runnerEnv) start(t *testing.T) {
	t.Helper()
	go func() {
		e.errCh <- e.runner.execute(e.keyCh, e.sigCh, func() error {
			*e.restore++
			return nil
		})
	}()
	require.Eventually(t, func() bool { return len(e.rec.Transitions()) >= 1 },
		2*time.Second, time.Millisecond, "auto-start toggle did not land")
}

func (e *runnerEnv) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-e.errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("session did not shut down")
		return nil
	}
}

func TestExecute_QuitWhileRunningFinalizesOnce(t *testing.T) {
	env := newRunnerEnv(t, 0)
	env.start(t)

	env.clk.Advance(10 * time.Second)
	env.keyCh <- input.KeyQuit

	require.NoError(t, env.wait(t))

	sessions := env.rec.Sessions()
	require.Len(t, sessions, 1, "quit while running appends exactly one record")
	assert.Equal(t, 10*time.Second, sessions[0].End.Sub(sessions[0].Start))
	assert.Equal(t, []string{"RUNNING", "HALTED"}, env.rec.Transitions())
	assert.Equal(t, 1, *env.restore, "terminal must be restored")
	assert.Contains(t, env.out.String(), "Stopped")
	assert.Contains(t, env.out.String(), "00:00:10")
}

func TestExecute_SignalTakesQuitPath(t *testing.T) {
	env := newRunnerEnv(t, 600*time.Second)
	env.start(t)

	env.clk.Advance(5 * time.Second)
	env.sigCh <- syscall.SIGTERM

	require.NoError(t, env.wait(t))

	sessions := env.rec.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 5*time.Second, sessions[0].End.Sub(sessions[0].Start))
	assert.Contains(t, env.out.String(), "00:10:05", "summary shows the grand total")
}

func TestExecute_QuitAfterManualPauseAppendsNothingMore(t *testing.T) {
	env := newRunnerEnv(t, 0)
	env.start(t)

	env.clk.Advance(5 * time.Second)
	env.keyCh <- input.KeyToggle
	require.Eventually(t, func() bool { return len(env.rec.Sessions()) == 1 },
		2*time.Second, time.Millisecond)

	env.keyCh <- input.KeyQuit
	require.NoError(t, env.wait(t))

	assert.Len(t, env.rec.Sessions(), 1, "finalize after manual pause is a no-op")
	assert.Contains(t, env.out.String(), "00:00:05")
}

func TestExecute_AppendFailureIsFatal(t *testing.T) {
	env := newRunnerEnv(t, 0)
	env.start(t)

	env.rec.FailNextSession(errors.New("disk full"))
	env.clk.Advance(time.Second)
	env.keyCh <- input.KeyToggle

	err := env.wait(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, *env.restore, "terminal must be restored on the fatal path too")
	assert.NotContains(t, env.out.String(), "Stopped")
}

func TestExecute_RendersStatusLine(t *testing.T) {
	env := newRunnerEnv(t, 0)
	env.start(t)

	time.Sleep(50 * time.Millisecond) // several 5ms ticks
	env.keyCh <- input.KeyQuit
	require.NoError(t, env.wait(t))

	assert.Contains(t, env.out.String(), "RUNNING")
	assert.Contains(t, env.out.String(), "\r")
}

func TestPrintOpening_NewTimer(t *testing.T) {
	env := newRunnerEnv(t, 0)

	env.runner.printOpening(nil)

	out := env.out.String()
	assert.Contains(t, out, "Timer: Test")
	assert.Contains(t, out, "State")
	assert.Contains(t, out, "Total Elapsed")
	assert.NotContains(t, out, "Past sessions")
}

func TestPrintOpening_ResumeShowsPastSessions(t *testing.T) {
	env := newRunnerEnv(t, 0)

	start := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)
	h := &models.History{
		Title: "Test",
		Slug:  "test",
		Sessions: []*models.Session{
			{Title: "Test", Start: start, End: start.Add(600 * time.Second)},
			{Title: "Test", Start: start.Add(time.Hour), End: start.Add(time.Hour + 900*time.Second)},
		},
		Skipped: 1,
	}
	env.runner.printOpening(h)

	out := env.out.String()
	assert.Contains(t, out, "Past sessions:")
	assert.Contains(t, out, "2026-08-21")
	assert.Contains(t, out, "00:10:00")
	assert.Contains(t, out, "Loaded 2 session(s), total 00:25:00")
	assert.Contains(t, out, "Skipped 1 malformed history line(s)")
}

func TestRun_RefusesNonTerminal(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	f, err := os.CreateTemp(dir, "not-a-tty")
	require.NoError(t, err)
	defer f.Close()

	out := &bytes.Buffer{}
	err = Run(Options{
		UI:    &output.UI{Out: out, ErrOut: out},
		Store: s,
		Title: "Test",
		In:    f,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")

	_, statErr := os.Stat(s.LockPath("test"))
	assert.True(t, os.IsNotExist(statErr), "lock must be released on the error path")
}

func TestRun_RefusesHeldLock(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	// A live lock: our own PID.
	require.NoError(t, os.WriteFile(s.LockPath("test"),
		[]byte(strconv.Itoa(os.Getpid())+"\n"), 0o644))

	f, err := os.CreateTemp(dir, "not-a-tty")
	require.NoError(t, err)
	defer f.Close()

	out := &bytes.Buffer{}
	err = Run(Options{
		UI:    &output.UI{Out: out, ErrOut: out},
		Store: s,
		Title: "Test",
		In:    f,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already being tracked")
}
