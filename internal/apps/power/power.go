// Package power turns the device off or restarts it, after asking first.
package power

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketdeck/pocketdeck"
	"github.com/pocketdeck/pocketdeck/internal/sysexec"
)

const (
	pollTime = 100 * time.Millisecond
	// DoneHold is how long the goodbye message stays up before control returns to the menu.
	DoneHold = 2 * time.Second
)

var (
	DefaultShutdownCommand = sysexec.MustParse("sudo shutdown -h now")
	DefaultRebootCommand   = sysexec.MustParse("sudo reboot")
)

// Commander carries out power actions.
type Commander interface {
	Shutdown(ctx context.Context) error
	Reboot(ctx context.Context) error
}

// SystemCommander runs the configured commands.
type SystemCommander struct {
	Runner          sysexec.Runner
	ShutdownCommand sysexec.Command
	RebootCommand   sysexec.Command
}

func NewSystemCommander(r sysexec.Runner) *SystemCommander {
	if r == nil {
		r = sysexec.Exec{}
	}
	return &SystemCommander{Runner: r, ShutdownCommand: DefaultShutdownCommand, RebootCommand: DefaultRebootCommand}
}

func (c *SystemCommander) Shutdown(ctx context.Context) error {
	_, err := c.ShutdownCommand.Run(ctx, c.Runner)
	return err
}

func (c *SystemCommander) Reboot(ctx context.Context) error {
	_, err := c.RebootCommand.Run(ctx, c.Runner)
	return err
}

// LogCommander only logs. The simulators use it.
type LogCommander struct {
	Log pocketdeck.Logger
}

func (c LogCommander) Shutdown(context.Context) error {
	c.Log.Info("power: shutdown requested")
	return nil
}

func (c LogCommander) Reboot(context.Context) error {
	c.Log.Info("power: reboot requested")
	return nil
}

// Confirm is a menu entry that asks before doing something drastic.
type Confirm struct {
	env    pocketdeck.Env
	name   string
	prompt string
	done   string
	action func(ctx context.Context) error
}

func newConfirm(env pocketdeck.Env, name, prompt, done string, action func(context.Context) error) *Confirm {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	return &Confirm{env: env, name: name, prompt: prompt, done: done, action: action}
}

func Shutdown(env pocketdeck.Env, c Commander) *Confirm {
	return newConfirm(env, "Shut down", "Shut down?\nSELECT=yes BACK=no", "Shutting down...", c.Shutdown)
}

func Reboot(env pocketdeck.Env, c Commander) *Confirm {
	return newConfirm(env, "Reboot", "Reboot?\nSELECT=yes BACK=no", "Rebooting...", c.Reboot)
}

func (c *Confirm) Name() string { return c.name }

func (c *Confirm) Run(ctx context.Context) error {
	c.env.Display.RenderCentered(c.prompt)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch c.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonSelect:
			c.env.Log.Infof("power: %s confirmed", c.name)
			c.env.Display.RenderCentered(c.done)
			if err := c.action(ctx); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			c.env.Clock.Sleep(DoneHold)
			return nil
		}
		c.env.Clock.Sleep(pollTime)
	}
}
