package models

import (
	"sort"
	"strings"
	"time"
)

// Session represents one completed timing segment: a contiguous run between
// a resume and the next pause.
type Session struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Duration returns the elapsed time of the segment.
func (s *Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Slug derives the filename key for a timer title: lowercased, spaces
// replaced with underscores.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "_")
}

// History is the loaded record stream for one timer title.
type History struct {
	Title    string
	Slug     string
	Sessions []*Session
	Skipped  int // malformed lines dropped during load
}

// Total returns the sum of all session durations.
func (h *History) Total() time.Duration {
	var total time.Duration
	for _, s := range h.Sessions {
		total += s.Duration()
	}
	return total
}

// DayTotal is the accumulated time for one calendar day.
type DayTotal struct {
	Date  string // 2006-01-02
	Total time.Duration
}

// PerDay groups session durations by the session's start date, ascending.
func (h *History) PerDay() []DayTotal {
	byDay := make(map[string]time.Duration)
	for _, s := range h.Sessions {
		byDay[s.Start.Format("2006-01-02")] += s.Duration()
	}

	days := make([]DayTotal, 0, len(byDay))
	for date, total := range byDay {
		days = append(days, DayTotal{Date: date, Total: total})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// TimerInfo summarizes one timer's record file for listings.
type TimerInfo struct {
	Title    string
	Slug     string
	Sessions int
	Total    time.Duration
	LastEnd  time.Time
	Skipped  int
}
