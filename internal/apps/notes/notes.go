// Package notes pages through a fixed list of short notes.
package notes

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pocketdeck/pocketdeck"
)

// Default is shown when no notes file is configured.
var Default = []string{
	"Hello!",
	"You got this!",
	"Drink some water :)",
	"Take a short walk today",
	"Be proud of how far you've come",
	"One thing at a time",
	"Call someone you love",
	"Deep breath in, deep breath out",
}

var ErrNoNotes = errors.New("no notes")

// Read returns the non-blank lines of r, trimmed.
func Read(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoNotes
	}
	return out, nil
}

// ReadFile is Read on the named file.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	notes, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return notes, nil
}

type Notes struct {
	env   pocketdeck.Env
	notes []string
	// index is kept between visits
	index int
}

// New shows notes, or Default if there are none.
func New(env pocketdeck.Env, notes []string) *Notes {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if len(notes) == 0 {
		notes = Default
	}
	return &Notes{env: env, notes: notes}
}

func (n *Notes) Name() string { return "Notes" }

// Index returns the note on screen.
func (n *Notes) Index() int { return n.index }

func (n *Notes) Run(ctx context.Context) error {
	shown := -1
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if shown != n.index {
			n.env.Display.RenderCentered(n.notes[n.index])
			shown = n.index
		}

		switch n.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonUp:
			n.index = (n.index - 1 + len(n.notes)) % len(n.notes)
		case pocketdeck.MenuButtonDown:
			n.index = (n.index + 1) % len(n.notes)
		}
		n.env.Clock.Sleep(pocketdeck.PollInterval)
	}
}
