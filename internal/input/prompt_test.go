package input

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/tt/internal/output"
)

func newTestPrompter(in string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	ui := &output.UI{Out: out, ErrOut: out}
	return NewPrompter(strings.NewReader(in), ui), out
}

func TestLaunchChoice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Choice
	}{
		{"explicit yes", "y\n", ChoiceNew},
		{"uppercase yes", "Y\n", ChoiceNew},
		{"empty defaults to new", "\n", ChoiceNew},
		{"load", "n\n", ChoiceLoad},
		{"quit", "q\n", ChoiceQuit},
		{"eof quits", "", ChoiceQuit},
		{"garbage then load", "banana\nn\n", ChoiceLoad},
		{"unterminated final line", "q", ChoiceQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrompter(tt.in)
			got, err := p.LaunchChoice()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLaunchChoice_HelpThenAnswer(t *testing.T) {
	p, out := newTestPrompter("h\ny\n")

	got, err := p.LaunchChoice()
	require.NoError(t, err)
	assert.Equal(t, ChoiceNew, got)
	assert.Contains(t, out.String(), "Show this help")
}

func TestLaunchChoice_InvalidInputWarns(t *testing.T) {
	p, out := newTestPrompter("x\nq\n")

	got, err := p.LaunchChoice()
	require.NoError(t, err)
	assert.Equal(t, ChoiceQuit, got)
	assert.Contains(t, out.String(), "Invalid input")
}

func TestTitle_Accepts(t *testing.T) {
	p, out := newTestPrompter("My Project\n")

	title, err := p.Title(nil)
	require.NoError(t, err)
	assert.Equal(t, "My Project", title)
	assert.Contains(t, out.String(), "Using timer name: My Project")
}

func TestTitle_RepromptsOnEmpty(t *testing.T) {
	p, out := newTestPrompter("\n  \nWork\n")

	title, err := p.Title(nil)
	require.NoError(t, err)
	assert.Equal(t, "Work", title)
	assert.Contains(t, out.String(), "needs a name")
}

func TestTitle_RepromptsOnPathSeparator(t *testing.T) {
	p, out := newTestPrompter("a/b\nWork\n")

	title, err := p.Title(nil)
	require.NoError(t, err)
	assert.Equal(t, "Work", title)
	assert.Contains(t, out.String(), "path separators")
}

func TestTitle_RepromptsOnCollision(t *testing.T) {
	taken := func(slug string) bool { return slug == "work" }
	p, out := newTestPrompter("Work\nOther Work\n")

	title, err := p.Title(taken)
	require.NoError(t, err)
	assert.Equal(t, "Other Work", title)
	assert.Contains(t, out.String(), "already exists")
}

func TestTitle_EOF(t *testing.T) {
	p, _ := newTestPrompter("")

	_, err := p.Title(nil)
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	p, out := newTestPrompter("2\n")

	idx, err := p.Pick([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "1: alpha")
	assert.Contains(t, out.String(), "3: gamma")
}

func TestPick_RepromptsUntilValid(t *testing.T) {
	p, out := newTestPrompter("abc\n0\n9\n1\n")

	idx, err := p.Pick([]string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 3, strings.Count(out.String(), "Not a valid choice"))
}

func TestPick_EOF(t *testing.T) {
	p, _ := newTestPrompter("nope\n")

	_, err := p.Pick([]string{"alpha"})
	assert.Error(t, err)
}

