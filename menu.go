package pocketdeck

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorHold is how long an app failure stays on screen unless a button is pressed.
const ErrorHold = 5 * time.Second

var (
	ErrEmptyMenu = errors.New("menu has no apps")
	ErrAppPanic  = errors.New("app panicked")
)

// Menu shows one app name at a time and hands the display and input to the selected app until it returns.
// A Menu is itself an App, so submenus nest inside a parent's app list.
type Menu struct {
	Title string
	Apps  []App

	env    Env
	nested bool

	selected int
	active   App
	dirty    bool
}

// NewMenu returns a top-level menu. Its Run only returns when ctx is done; back is ignored.
func NewMenu(title string, env Env, apps ...App) *Menu {
	return &Menu{
		Title: title,
		Apps:  apps,
		env:   env.withDefaults(),
		dirty: true,
	}
}

// NewSubmenu returns a menu whose Run returns to its caller when back is pressed.
func NewSubmenu(title string, env Env, apps ...App) *Menu {
	m := NewMenu(title, env, apps...)
	m.nested = true
	return m
}

func (m *Menu) Name() string { return m.Title }

// Selected returns the index of the highlighted app.
func (m *Menu) Selected() int { return m.selected }

// Active returns the app currently running, or nil while the menu itself owns the display.
func (m *Menu) Active() App { return m.active }

func (m *Menu) Run(ctx context.Context) error {
	if len(m.Apps) == 0 {
		return ErrEmptyMenu
	}
	m.dirty = true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.active != nil {
			m.launch(ctx, m.active)
			m.active = nil
			m.dirty = true
			continue
		}

		m.render()
		if m.handle(m.env.Input.PressedButton()) {
			return nil
		}
		if m.active == nil {
			m.env.Clock.Sleep(PollInterval)
		}
	}
}

// handle applies one button press to the menu state. It reports whether the menu should return to its parent.
func (m *Menu) handle(b MenuButton) bool {
	n := len(m.Apps)
	switch b {
	case MenuButtonUp:
		m.selected = (m.selected - 1 + n) % n
		m.dirty = true
	case MenuButtonDown:
		m.selected = (m.selected + 1) % n
		m.dirty = true
	case MenuButtonSelect:
		m.active = m.Apps[m.selected]
	case MenuButtonBack:
		return m.nested
	}
	return false
}

func (m *Menu) render() {
	if !m.dirty {
		return
	}
	m.env.Display.RenderCentered(m.Apps[m.selected].Name())
	m.dirty = false
}

// launch runs app and turns any failure into an on-screen message, so that a broken app never takes the menu down
// with it.
func (m *Menu) launch(ctx context.Context, app App) {
	m.env.Log.Debugf("menu %q: starting %q", m.Title, app.Name())
	err := runApp(ctx, app)
	if err == nil || ctx.Err() != nil {
		m.env.Log.Debugf("menu %q: %q returned", m.Title, app.Name())
		return
	}
	m.env.Log.Errorf("menu %q: %q failed: %v", m.Title, app.Name(), err)
	m.env.Hold(ctx, app.Name()+" error\n"+err.Error(), ErrorHold)
}

func runApp(ctx context.Context, app App) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAppPanic, r)
		}
	}()
	return app.Run(ctx)
}
