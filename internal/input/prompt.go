package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joescharf/tt/internal/models"
	"github.com/joescharf/tt/internal/output"
)

// Choice is the launch prompt's outcome.
type Choice int

const (
	ChoiceNew Choice = iota
	ChoiceLoad
	ChoiceQuit
)

// Prompter asks line-based questions in cooked mode, before a session
// switches the terminal to raw mode.
type Prompter struct {
	in *bufio.Reader
	ui *output.UI
}

// NewPrompter reads answers from in and prints prompts through ui.
func NewPrompter(in io.Reader, ui *output.UI) *Prompter {
	return &Prompter{in: bufio.NewReader(in), ui: ui}
}

// line prints the prompt and reads one trimmed answer. An unterminated
// final line still counts; EOF with no input is returned to the caller.
func (p *Prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.ui.Out, prompt)
	text, err := p.in.ReadString('\n')
	trimmed := strings.TrimSpace(text)
	if err != nil && trimmed == "" {
		return "", err
	}
	return trimmed, nil
}

const launchHelp = "Options:\n" +
	"\ty\tLaunch a new timer\n" +
	"\tn\tLoad an existing timer\n" +
	"\tq\tQuit\n" +
	"\th\tShow this help"

// LaunchChoice asks whether to start fresh or resume. Empty input means a
// new timer; EOF quits.
func (p *Prompter) LaunchChoice() (Choice, error) {
	for {
		answer, err := p.line("Launch new timer? [Y/n/q/h] ")
		if errors.Is(err, io.EOF) {
			return ChoiceQuit, nil
		}
		if err != nil {
			return ChoiceQuit, err
		}

		switch strings.ToLower(answer) {
		case "", "y":
			return ChoiceNew, nil
		case "n":
			return ChoiceLoad, nil
		case "q":
			return ChoiceQuit, nil
		case "h":
			p.ui.Note(launchHelp)
		default:
			p.ui.Note("Invalid input, please try again. Type 'h' for help.")
		}
	}
}

// Title asks for a new timer name until it gets a usable one: non-empty,
// free of path separators, and not colliding with an existing timer's slug.
func (p *Prompter) Title(taken func(slug string) bool) (string, error) {
	for {
		title, err := p.line("Enter timer name: ")
		if err != nil {
			return "", err
		}

		switch {
		case title == "":
			p.ui.Note("A timer needs a name, please try again.")
		case strings.ContainsAny(title, `/\`):
			p.ui.Note("Timer names cannot contain path separators.")
		case taken != nil && taken(models.Slug(title)):
			p.ui.Note("A timer named %q already exists. Load it with 'tt -l'.", title)
		default:
			p.ui.Note("Using timer name: %s", title)
			return title, nil
		}
	}
}

// Pick shows a numbered list and asks until a valid 1-based selection comes
// in. Returns the zero-based index.
func (p *Prompter) Pick(labels []string) (int, error) {
	for i, label := range labels {
		p.ui.Note("%d: %s", i+1, label)
	}

	for {
		answer, err := p.line("Please choose a timer from the list above using the number in front of the line. ")
		if err != nil {
			return 0, err
		}

		idx, convErr := strconv.Atoi(answer)
		if convErr != nil || idx < 1 || idx > len(labels) {
			p.ui.Note("Not a valid choice, please try again.")
			continue
		}
		return idx - 1, nil
	}
}
