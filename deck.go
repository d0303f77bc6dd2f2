package pocketdeck

import (
	"context"
	"errors"
	"time"
)

const (
	// SplashTimeout is how long the boot screen waits for a button before moving on to the menu.
	SplashTimeout = 10 * time.Second
	splashRefresh = time.Second
	startingHold  = 500 * time.Millisecond
)

type Blinker interface {
	Low()
	High()
}

// Deck is the composition root: it owns the root menu and the boot screen.
type Deck struct {
	env    Env
	status Blinker
	root   *Menu

	state deckState
	init  bool
	start time.Time
}

// New returns a Deck whose root menu lists apps in the given order. status may be nil.
func New(env Env, status Blinker, apps ...App) (*Deck, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, ErrEmptyMenu
	}
	env = env.withDefaults()

	return &Deck{
		env:    env,
		status: status,
		root:   NewMenu("pocketdeck", env, apps...),
		start:  env.Clock.Now(),
	}, nil
}

// Menu returns the root menu.
func (d *Deck) Menu() *Menu { return d.root }

// Init shows the boot screen: the current day, date and time, refreshed every second until any button is pressed
// or SplashTimeout elapses.
func (d *Deck) Init(ctx context.Context) error {
	if d.init {
		return errors.New("already initialized")
	}
	d.env.Log.Info("starting init")
	d.blink()
	d.changeState(deckStateBoot)

	deadline := d.env.Clock.Now().Add(SplashTimeout)
	var last time.Time
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := d.env.Clock.Now()
		if !now.Before(deadline) {
			break
		}
		if last.IsZero() || now.Sub(last) >= splashRefresh {
			d.env.Display.RenderCentered(splashText(now))
			last = now
		}
		if d.env.Input.PressedButton() != MenuButtonNone {
			break
		}
		d.env.Clock.Sleep(PollInterval)
	}

	d.env.Pause("Starting...", startingHold)
	d.blink()
	d.init = true
	d.env.Log.Infof("init complete in %s", d.env.Clock.Now().Sub(d.start).Round(100*time.Millisecond))
	return nil
}

func splashText(now time.Time) string {
	return now.Format("Monday") + "\n" + now.Format("Jan 02, 2006") + "\n" + now.Format("03:04:05 PM")
}

// Run does not return until ctx is done. It hands control to the root menu; the menu itself contains any app
// failure, so the only error returned is the context's.
func (d *Deck) Run(ctx context.Context) error {
	if !d.init {
		return errors.New("not initialized")
	}
	d.changeState(deckStateMenu)
	err := d.root.Run(ctx)
	if err != nil && ctx.Err() == nil {
		// only an empty menu gets here, and New refuses those
		d.changeState(deckStateError)
		d.env.Display.RenderCentered("Menu error\n" + err.Error())
		return err
	}
	d.env.Display.Clear()
	d.statusOff()
	return err
}

func (d *Deck) changeState(s deckState) {
	d.env.Log.Debugf("deck: %s -> %s", d.state, s)
	d.state = s
}

func (d *Deck) blink() {
	d.statusOn()
	d.env.Clock.Sleep(100 * time.Millisecond)
	d.statusOff()
	d.env.Clock.Sleep(100 * time.Millisecond)
}

func (d *Deck) statusOn() {
	if d.status != nil {
		d.status.High()
	}
}

func (d *Deck) statusOff() {
	if d.status != nil {
		d.status.Low()
	}
}
