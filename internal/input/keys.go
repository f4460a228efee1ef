// Package input owns both keyboard surfaces: raw single-keypress reads for
// a live session and cooked line prompts around it.
package input

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Key is a dispatched action from the raw keyboard loop.
type Key int

const (
	KeyNone Key = iota
	KeyToggle
	KeyQuit
)

// mapKey translates one raw byte. Raw mode delivers Ctrl+C and Ctrl+D as
// bytes rather than signals, so they take the quit path.
func mapKey(b byte) Key {
	switch b {
	case ' ':
		return KeyToggle
	case 'q':
		return KeyQuit
	case 0x03, 0x04:
		return KeyQuit
	default:
		return KeyNone
	}
}

// Reader owns the terminal's raw mode and feeds keypresses to a channel.
type Reader struct {
	f     *os.File
	ch    chan Key
	state *term.State
}

// NewReader wraps a terminal file, normally os.Stdin.
func NewReader(f *os.File) *Reader {
	return &Reader{f: f, ch: make(chan Key, 8)}
}

// Start switches the terminal to raw mode and launches the read goroutine.
// The goroutine exits on quit or read error; one blocked on a final read is
// abandoned to process exit, since stdin reads are not interruptible.
func (r *Reader) Start() error {
	fd := int(r.f.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("not a terminal: a live timer needs an interactive terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	r.state = state

	go func() {
		var buf [1]byte
		for {
			n, err := r.f.Read(buf[:])
			if err != nil {
				r.ch <- KeyQuit
				return
			}
			if n == 0 {
				continue
			}
			k := mapKey(buf[0])
			if k == KeyNone {
				continue
			}
			r.ch <- k
			if k == KeyQuit {
				return
			}
		}
	}()
	return nil
}

// Keys is the dispatched keypress stream.
func (r *Reader) Keys() <-chan Key { return r.ch }

// Close restores the terminal state saved by Start.
func (r *Reader) Close() error {
	if r.state == nil {
		return nil
	}
	err := term.Restore(int(r.f.Fd()), r.state)
	r.state = nil
	return err
}

// Width reports the terminal width, falling back to 80 columns.
func Width(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
