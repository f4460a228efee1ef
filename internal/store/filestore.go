package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/tt/internal/display"
	"github.com/joescharf/tt/internal/models"
)

// File suffixes inside the data directory, one trio per timer slug.
const (
	RecordSuffix  = ".jsonl"
	JournalSuffix = ".log"
	LockSuffix    = ".pid"
)

// FileStore implements Store over a directory holding one JSONL record
// stream and one plain-text transition journal per timer title.
type FileStore struct {
	dir string
}

// NewFileStore opens the data directory, creating it if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) RecordPath(slug string) string {
	return filepath.Join(s.dir, slug+RecordSuffix)
}

func (s *FileStore) JournalPath(slug string) string {
	return filepath.Join(s.dir, slug+JournalSuffix)
}

func (s *FileStore) LockPath(slug string) string {
	return filepath.Join(s.dir, slug+LockSuffix)
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

func (s *FileStore) Exists(slug string) bool {
	_, err := os.Stat(s.RecordPath(slug))
	return err == nil
}

// AppendSession durably appends one record. An empty ID is assigned here;
// timestamps are truncated to whole seconds before encoding.
func (s *FileStore) AppendSession(sess *models.Session) error {
	if sess.ID == "" {
		sess.ID = newULID()
	}
	sess.Start = sess.Start.Truncate(time.Second)
	sess.End = sess.End.Truncate(time.Second)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.appendLine(s.RecordPath(models.Slug(sess.Title)), string(data))
}

// AppendTransition appends one journal line recording a state change.
func (s *FileStore) AppendTransition(slug string, at time.Time, state string, elapsed, total time.Duration) error {
	line := fmt.Sprintf("%d: %s elapsed=%s total=%s",
		at.Unix(), state, display.Duration(elapsed), display.Duration(total))
	return s.appendLine(s.JournalPath(slug), line)
}

// appendLine opens for append, writes one line, and syncs before closing.
// A crash can duplicate a line on retry but never lose an acknowledged one.
func (s *FileStore) appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("append %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// History reads the record stream for slug. Malformed lines are skipped and
// counted rather than failing the load; the title comes from the first valid
// record, falling back to the slug.
func (s *FileStore) History(slug string) (*models.History, error) {
	f, err := os.Open(s.RecordPath(slug))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	h := &models.History{Slug: slug}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var sess models.Session
		if err := json.Unmarshal([]byte(line), &sess); err != nil {
			h.Skipped++
			continue
		}
		if sess.Start.IsZero() || sess.End.IsZero() || sess.End.Before(sess.Start) {
			h.Skipped++
			continue
		}
		if h.Title == "" {
			h.Title = sess.Title
		}
		h.Sessions = append(h.Sessions, &sess)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if h.Title == "" {
		h.Title = slug
	}
	return h, nil
}

// ListTimers scans the data directory for record files.
func (s *FileStore) ListTimers() ([]*models.TimerInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory: %w", err)
	}

	var infos []*models.TimerInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), RecordSuffix) {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), RecordSuffix)
		h, err := s.History(slug)
		if err != nil {
			return nil, err
		}

		info := &models.TimerInfo{
			Title:    h.Title,
			Slug:     slug,
			Sessions: len(h.Sessions),
			Total:    h.Total(),
			Skipped:  h.Skipped,
		}
		for _, sess := range h.Sessions {
			if sess.End.After(info.LastEnd) {
				info.LastEnd = sess.End
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Slug < infos[j].Slug })
	return infos, nil
}
