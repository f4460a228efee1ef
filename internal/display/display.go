// Package display renders timer state into terminal strings. Functions here
// are pure: values in, styled text out, no shared state.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Status is the snapshot a render consumes.
type Status struct {
	Running bool
	Elapsed time.Duration
	Total   time.Duration
	Now     time.Time
}

var (
	blue   = color.New(color.FgHiBlue).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

const (
	labelRunning = "RUNNING"
	labelHalted  = "HALTED"

	// Columns are separated by eight spaces and padded to the widest header.
	colSep = "        "
)

var statusHeaders = []string{"State", "Elapsed", "Total Elapsed", "Current Time"}

func colWidth() int {
	w := 0
	for _, h := range statusHeaders {
		if len(h) > w {
			w = len(h)
		}
	}
	return w
}

// Duration formats a duration as HH:MM:SS, hours uncapped.
func Duration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// Clear returns the escape sequence that clears the screen and homes the
// cursor, as the session start does before printing the banner.
func Clear() string {
	return "\x1b[2J\x1b[H"
}

// Banner returns the two-line session header: the title over a rule of
// matching length.
func Banner(title string) string {
	line := "Timer: " + title
	return blue(line + "\n" + strings.Repeat("=", len(line)))
}

// StatusHeader returns the yellow column headers and dashed rule for the
// live status line. No trailing newline: the first status line follows on
// the next row.
func StatusHeader() string {
	width := colWidth()
	cells := make([]string, len(statusHeaders))
	dashes := make([]string, len(statusHeaders))
	for i, h := range statusHeaders {
		cells[i] = pad(h, width)
		dashes[i] = pad(strings.Repeat("-", len(h)), width)
	}
	return yellow(strings.Join(cells, colSep) + "\n" + strings.Join(dashes, colSep))
}

// StatusLine renders one in-place status row: colored state, elapsed, grand
// total, and wall clock, padded out to the terminal width so a shorter
// rewrite fully covers the previous one.
func StatusLine(st Status, width int) string {
	cw := colWidth()

	label := labelHalted
	paint := red
	if st.Running {
		label = labelRunning
		paint = green
	}

	cells := []string{
		paint(label) + padding(label, cw),
		pad(Duration(st.Elapsed), cw),
		pad(Duration(st.Total), cw),
		pad(st.Now.Format("15:04:05"), cw),
	}
	line := strings.Join(cells, colSep)

	visible := len(colSep)*(len(cells)-1) + visibleWidth(label, cw) +
		visibleWidth(Duration(st.Elapsed), cw) +
		visibleWidth(Duration(st.Total), cw) +
		visibleWidth(st.Now.Format("15:04:05"), cw)
	if width > visible {
		line += strings.Repeat(" ", width-visible)
	}
	return line
}

func pad(s string, width int) string {
	return s + padding(s, width)
}

func padding(s string, width int) string {
	if len(s) >= width {
		return ""
	}
	return strings.Repeat(" ", width-len(s))
}

func visibleWidth(s string, min int) int {
	if len(s) > min {
		return len(s)
	}
	return min
}
