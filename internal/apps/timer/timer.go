// Package timer is a countdown timer with a few preset durations.
package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketdeck/pocketdeck"
)

// Presets are the selectable durations, shortest first.
var Presets = []time.Duration{time.Minute, 5 * time.Minute, 10 * time.Minute, 30 * time.Minute}

const (
	DefaultDuration = 5 * time.Minute
	pollTime        = 100 * time.Millisecond
)

type Timer struct {
	env pocketdeck.Env

	// duration is kept between visits
	duration time.Duration

	running   bool
	remaining time.Duration
	deadline  time.Time
}

func New(env pocketdeck.Env) *Timer {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	return &Timer{env: env, duration: DefaultDuration}
}

func (t *Timer) Name() string { return "Timer" }

// Duration returns the selected preset.
func (t *Timer) Duration() time.Duration { return t.duration }

func (t *Timer) Run(ctx context.Context) error {
	t.stop()
	last := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := t.env.Clock.Now()

		switch t.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonSelect:
			t.toggle(now)
		case pocketdeck.MenuButtonUp:
			t.cycle(1)
		case pocketdeck.MenuButtonDown:
			t.cycle(-1)
		}

		if text := t.text(now); text != last {
			t.env.Display.RenderCentered(text)
			last = text
		}
		t.env.Clock.Sleep(pollTime)
	}
}

// Remaining returns the time left as of now.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if !t.running {
		return t.remaining
	}
	return max(t.deadline.Sub(now), 0)
}

func (t *Timer) stop() {
	t.running = false
	t.remaining = t.duration
}

func (t *Timer) toggle(now time.Time) {
	switch {
	case t.running && t.Remaining(now) == 0:
		t.stop()
	case t.running:
		t.remaining = t.Remaining(now)
		t.running = false
		t.env.Log.Debugf("timer: paused with %v left", t.remaining)
	default:
		if t.remaining <= 0 {
			t.remaining = t.duration
		}
		t.deadline = now.Add(t.remaining)
		t.running = true
		t.env.Log.Debugf("timer: running for %v", t.remaining)
	}
}

// cycle moves to the next (dir > 0) or previous preset, wrapping around. It only works while the timer is stopped.
func (t *Timer) cycle(dir int) {
	if t.running {
		return
	}
	if dir > 0 {
		next := Presets[0]
		for _, d := range Presets {
			if d > t.duration {
				next = d
				break
			}
		}
		t.duration = next
	} else {
		prev := Presets[len(Presets)-1]
		for i := len(Presets) - 1; i >= 0; i-- {
			if Presets[i] < t.duration {
				prev = Presets[i]
				break
			}
		}
		t.duration = prev
	}
	t.stop()
}

func (t *Timer) text(now time.Time) string {
	left := t.Remaining(now)
	if t.running && left == 0 {
		return "TIME'S UP!\nPress back"
	}
	status := "||"
	if t.running {
		status = ">"
	}
	secs := int(left / time.Second)
	return fmt.Sprintf("%s %02d:%02d\nSet: %dmin", status, secs/60, secs%60, int(t.duration/time.Minute))
}
