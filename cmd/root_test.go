package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/tt/internal/models"
)

// captureUI redirects ui output to a buffer. Call after testEnv.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	ui.Out = buf
	ui.ErrOut = buf
	return buf
}

// seedTimer appends completed sessions for title, one per duration given.
func seedTimer(t *testing.T, title string, durations ...time.Duration) {
	t.Helper()
	s, err := getStore()
	require.NoError(t, err)

	start := time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local)
	for _, d := range durations {
		require.NoError(t, s.AppendSession(&models.Session{
			Title: title,
			Start: start,
			End:   start.Add(d),
		}))
		start = start.Add(d + time.Hour)
	}
}

func TestRootRun_FlagsAreMutuallyExclusive(t *testing.T) {
	testEnv(t)

	newTimer = true
	loadTimer = true
	defer func() { newTimer = false; loadTimer = false }()

	err := rootRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestGetStore_ReusesInstance(t *testing.T) {
	testEnv(t)

	first, err := getStore()
	require.NoError(t, err)
	second, err := getStore()
	require.NoError(t, err)

	assert.Same(t, first, second)
}
