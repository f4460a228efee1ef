// Package session runs one live timing session: the foreground key loop,
// the background display clock, and the shutdown path they share.
package session

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/input"
	"github.com/joescharf/tt/internal/lockfile"
	"github.com/joescharf/tt/internal/models"
	"github.com/joescharf/tt/internal/output"
	"github.com/joescharf/tt/internal/store"
	"github.com/joescharf/tt/internal/timer"
)

// Options configures one session run.
type Options struct {
	UI       *output.UI
	Store    store.Store
	Title    string
	History  *models.History // nil for a brand-new timer
	Interval time.Duration
	In       *os.File // terminal input, normally os.Stdin
}

// Run executes a full session: lock, banner, past sessions, auto-start,
// live loop, graceful shutdown. A normal quit returns nil; only fatal
// errors come back.
func Run(opts Options) error {
	slug := models.Slug(opts.Title)

	lock := lockfile.New(opts.Store.LockPath(slug))
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("timer %q: %w", opts.Title, err)
	}
	defer func() { _ = lock.Release() }()

	var historical time.Duration
	if opts.History != nil {
		historical = opts.History.Total()
	}

	r := &Runner{
		ui: opts.UI,
		timer: timer.New(timer.Config{
			Title:      opts.Title,
			Historical: historical,
			Recorder:   opts.Store,
		}),
		interval: opts.Interval,
		width:    func() int { return input.Width(opts.In) },
	}

	r.printOpening(opts.History)

	keys := input.NewReader(opts.In)
	if err := keys.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return r.execute(keys.Keys(), sigCh, keys.Close)
}

// Runner owns the live part of a session. Terminal writes from the tick
// callback and from the key loop are serialized through mu so the status
// line and toggle line breaks never interleave.
type Runner struct {
	ui       *output.UI
	timer    *timer.Timer
	interval time.Duration
	width    func() int

	mu sync.Mutex
}

// printOpening clears the screen, prints the banner, the past sessions
// table when resuming, and the status column header. Runs in cooked mode.
func (r *Runner) printOpening(h *models.History) {
	fmt.Fprint(r.ui.Out, display.Clear())
	fmt.Fprintln(r.ui.Out, display.Banner(r.timer.Title()))
	fmt.Fprintln(r.ui.Out)

	if h != nil {
		if h.Skipped > 0 {
			r.ui.Warning("Skipped %d malformed history line(s) for %q", h.Skipped, h.Title)
		}
		if len(h.Sessions) > 0 {
			r.printPastSessions(h)
		}
	}

	// No trailing newline: the first status line follows after the
	// auto-start toggle's line break.
	fmt.Fprint(r.ui.Out, display.StatusHeader())
}

func (r *Runner) printPastSessions(h *models.History) {
	r.ui.Note("Past sessions:")
	table := r.ui.Table([]string{"Start Date", "Start Time", "End Date", "End Time", "Elapsed"})
	for _, s := range h.Sessions {
		table.Append([]string{
			s.Start.Format("2006-01-02"),
			s.Start.Format("15:04:05"),
			s.End.Format("2006-01-02"),
			s.End.Format("15:04:05"),
			display.Duration(s.Duration()),
		})
	}
	_ = table.Render()
	r.ui.Note("Loaded %d session(s), total %s", len(h.Sessions), display.Duration(h.Total()))
	fmt.Fprintln(r.ui.Out)
}

// execute drives the session once the terminal is raw: the synthetic
// auto-start toggle, the clock, the key/signal loop, and shutdown. restore
// puts the terminal back into cooked mode and must run before the summary.
func (r *Runner) execute(keys <-chan input.Key, sig <-chan os.Signal, restore func() error) error {
	r.newline()
	if _, err := r.timer.Toggle(); err != nil {
		_ = restore()
		return err
	}

	clock := timer.NewClock(r.interval, r.redraw)
	clock.Start()

	loopErr := r.loop(keys, sig)

	clock.Stop()

	var finalErr error
	if loopErr == nil {
		_, finalErr = r.timer.Finalize()
	}
	_ = restore()
	fmt.Fprintln(r.ui.Out)

	if loopErr != nil {
		return loopErr
	}
	if finalErr != nil {
		return finalErr
	}

	snap := r.timer.Snapshot()
	r.ui.Success("Stopped %q: %s this sitting, %s total",
		r.timer.Title(), display.Duration(snap.Elapsed), display.Duration(snap.Total))
	return nil
}

// loop dispatches keypresses until quit. This is the only caller of
// Toggle while the session is live; the boundary toggles in execute run on
// the same goroutine, before and after.
func (r *Runner) loop(keys <-chan input.Key, sig <-chan os.Signal) error {
	for {
		select {
		case k := <-keys:
			switch k {
			case input.KeyToggle:
				if _, err := r.timer.Toggle(); err != nil {
					return err
				}
				r.newline()
			case input.KeyQuit:
				return nil
			}
		case <-sig:
			return nil
		}
	}
}

// redraw is the clock's tick callback: snapshot, render, rewrite in place.
func (r *Runner) redraw(time.Time) {
	snap := r.timer.Snapshot()
	line := display.StatusLine(display.Status{
		Running: snap.State == timer.StateRunning,
		Elapsed: snap.Elapsed,
		Total:   snap.Total,
		Now:     snap.Now,
	}, r.width())

	r.mu.Lock()
	fmt.Fprint(r.ui.Out, "\r"+line)
	r.mu.Unlock()
}

// newline freezes the currently displayed line. Raw mode needs the explicit
// carriage return.
func (r *Runner) newline() {
	r.mu.Lock()
	fmt.Fprint(r.ui.Out, "\r\n")
	r.mu.Unlock()
}
