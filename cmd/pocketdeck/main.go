// Command pocketdeck runs the deck on a Raspberry Pi, or in a desktop window or terminal for development.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"tinygo.org/x/drivers"

	"github.com/pocketdeck/pocketdeck"
	"github.com/pocketdeck/pocketdeck/internal/apps/music"
	"github.com/pocketdeck/pocketdeck/internal/apps/notes"
	"github.com/pocketdeck/pocketdeck/internal/apps/power"
	"github.com/pocketdeck/pocketdeck/internal/apps/timer"
	"github.com/pocketdeck/pocketdeck/internal/apps/weather"
	"github.com/pocketdeck/pocketdeck/internal/apps/wifi"
	"github.com/pocketdeck/pocketdeck/internal/games/runner"
	"github.com/pocketdeck/pocketdeck/internal/games/snake"
	"github.com/pocketdeck/pocketdeck/internal/hw"
	"github.com/pocketdeck/pocketdeck/internal/input"
	"github.com/pocketdeck/pocketdeck/internal/orient"
	"github.com/pocketdeck/pocketdeck/internal/sim"
	"github.com/pocketdeck/pocketdeck/internal/sysexec"
	"github.com/pocketdeck/pocketdeck/internal/textview"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pocketdeck:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	logOut := io.Writer(os.Stderr)
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	case cfg.Mode == modeTerminal:
		// the terminal is the display
		logOut = io.Discard
	}
	log := pocketdeck.NewLogger(logOut, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case modeWindow:
		w := sim.NewWindow(int16(cfg.Width), int16(cfg.Height), cfg.Scale)
		return runSim(ctx, cfg, log, w.FB, w.Keys, w)
	case modeTerminal:
		t, err := sim.NewTerminal(int16(cfg.Width), int16(cfg.Height))
		if err != nil {
			return err
		}
		return runSim(ctx, cfg, log, t.FB, t.Keys, t)
	default:
		return runHardware(ctx, cfg, log)
	}
}

func runHardware(ctx context.Context, cfg config, log pocketdeck.Logger) error {
	board, err := hw.Open(hw.Config{
		I2CBus: cfg.I2CBus,
		Width:  cfg.Width,
		Height: cfg.Height,
		LED:    cfg.LED,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Warnf("close hardware: %v", err)
		}
	}()

	// a nil *LED must not become a non-nil Blinker
	var status pocketdeck.Blinker
	if board.LED != nil {
		status = board.LED
	}
	sys := sysexec.Exec{}
	commander := &power.SystemCommander{Runner: sys, ShutdownCommand: cfg.Shutdown, RebootCommand: cfg.Reboot}
	return runDeck(ctx, cfg, log, board.Display, board.Buttons, status, commander, wifi.NewSystemLink(sys))
}

type frontend interface {
	Run(ctx context.Context) error
}

// runSim keeps the frontend on the calling goroutine, which window toolkits insist on, and runs the deck beside
// it. Whichever stops first stops the other.
func runSim(ctx context.Context, cfg config, log pocketdeck.Logger, fb *sim.Framebuffer, keys *sim.Keys, front frontend) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		defer cancel()
		errc <- runDeck(ctx, cfg, log, fb, keys, nil, power.LogCommander{Log: log}, wifi.NewSystemLink(nil))
	}()

	ferr := front.Run(ctx)
	cancel()
	return errors.Join(ferr, <-errc)
}

func runDeck(ctx context.Context, cfg config, log pocketdeck.Logger, disp drivers.Displayer, buttons input.Source,
	status pocketdeck.Blinker, commander power.Commander, link wifi.Link) error {
	if cfg.Flip {
		disp = orient.Flip180(disp)
	}
	view, err := textview.New(disp, log)
	if err != nil {
		return err
	}
	clock := pocketdeck.SystemClock{}
	env := pocketdeck.Env{
		Display: view,
		Input:   input.New(buttons, clock, 0),
		Clock:   clock,
		Log:     log,
	}

	deck, err := pocketdeck.New(env, status, buildApps(ctx, env, cfg, commander, link)...)
	if err != nil {
		return err
	}
	if err := deck.Init(ctx); err != nil {
		return ignoreCanceled(err)
	}
	return ignoreCanceled(deck.Run(ctx))
}

func buildApps(ctx context.Context, env pocketdeck.Env, cfg config, commander power.Commander, link wifi.Link) []pocketdeck.App {
	list := notes.Default
	if cfg.NotesFile != "" {
		var err error
		if list, err = notes.ReadFile(cfg.NotesFile); err != nil {
			env.Log.Warnf("notes: %v; using the built-in list", err)
			list = notes.Default
		}
	}

	owm := weather.NewOpenWeatherMap(cfg.WeatherKey)
	rng := rand.New(rand.NewSource(env.Clock.Now().UnixNano()))

	return []pocketdeck.App{
		weather.New(env, owm, cfg.WeatherCity),
		notes.New(env, list),
		music.New(env, music.NewSpotify(ctx, cfg.Spotify)),
		timer.New(env),
		pocketdeck.NewSubmenu("Games", env,
			runner.New(env, rand.New(rand.NewSource(rng.Int63()))),
			snake.New(env, rand.New(rand.NewSource(rng.Int63()))),
		),
		wifi.New(env, wifi.FileStore{Path: cfg.WPAConfig}, link, cfg.Networks),
		pocketdeck.NewSubmenu("Power", env,
			power.Shutdown(env, commander),
			power.Reboot(env, commander),
		),
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
