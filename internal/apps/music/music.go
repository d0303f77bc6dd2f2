// Package music is a remote control for whatever Spotify is playing on the account.
package music

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pocketdeck/pocketdeck"
)

const (
	// PlaybackPoll is how often the playback state is fetched while the app is open.
	PlaybackPoll = time.Second
	messageHold  = 2 * time.Second
	pollTime     = 100 * time.Millisecond
)

var ErrNoDevice = errors.New("no active device")

type Track struct {
	Name   string
	Artist string
}

type Playback struct {
	Playing bool
	// Track is nil when something other than a track is playing.
	Track *Track
}

type Device struct {
	ID     string
	Name   string
	Active bool
}

// Player is the remote end. Playback returns nil with no error when nothing is playing anywhere.
type Player interface {
	Playback(ctx context.Context) (*Playback, error)
	Play(ctx context.Context) error
	PlayOn(ctx context.Context, deviceID string) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Devices(ctx context.Context) ([]Device, error)
}

type Music struct {
	env    pocketdeck.Env
	player Player

	playback *Playback
	lastPoll time.Time

	message      string
	messageUntil time.Time
}

func New(env pocketdeck.Env, player Player) *Music {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	return &Music{env: env, player: player}
}

func (m *Music) Name() string { return "Spotify" }

func (m *Music) Run(ctx context.Context) error {
	m.playback = nil
	m.lastPoll = time.Time{}
	m.message = ""
	last := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := m.env.Clock.Now()
		if m.lastPoll.IsZero() || now.Sub(m.lastPoll) >= PlaybackPoll {
			m.refresh(ctx)
			m.lastPoll = now
		}

		text := m.text()
		if m.message != "" && now.Before(m.messageUntil) {
			text = m.message
		}
		if text != last {
			m.env.Display.RenderCentered(text)
			last = text
		}

		switch m.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonSelect:
			m.toggle(ctx)
		case pocketdeck.MenuButtonUp:
			if err := m.player.Next(ctx); err != nil {
				m.env.Log.Warnf("spotify: next: %v", err)
			}
			m.lastPoll = time.Time{}
		case pocketdeck.MenuButtonDown:
			if err := m.player.Previous(ctx); err != nil {
				m.env.Log.Warnf("spotify: previous: %v", err)
			}
			m.lastPoll = time.Time{}
		}
		m.env.Clock.Sleep(pollTime)
	}
}

func (m *Music) refresh(ctx context.Context) {
	pb, err := m.player.Playback(ctx)
	if err != nil {
		m.env.Log.Warnf("spotify: playback: %v", err)
		if errors.Is(err, ErrNotConfigured) {
			m.show("Spotify not\nconfigured")
		}
		m.playback = nil
		return
	}
	m.playback = pb
}

func (m *Music) text() string {
	if m.playback == nil || m.playback.Track == nil {
		return "No active playback"
	}
	status := "PAUSE"
	if m.playback.Playing {
		status = "PLAY"
	}
	return Clean(fmt.Sprintf("%s\n%s\nby %s", status, m.playback.Track.Name, m.playback.Track.Artist))
}

func (m *Music) show(msg string) {
	m.message = msg
	m.messageUntil = m.env.Clock.Now().Add(messageHold)
}

func (m *Music) playing() bool {
	return m.playback != nil && m.playback.Playing
}

func (m *Music) setPlaying(p bool) {
	if m.playback != nil {
		m.playback.Playing = p
	}
}

func (m *Music) toggle(ctx context.Context) {
	if m.playing() {
		if err := m.player.Pause(ctx); err != nil {
			m.fail("pause", err)
			return
		}
		m.setPlaying(false)
		return
	}

	err := m.player.Play(ctx)
	if err == nil {
		m.setPlaying(true)
		return
	}
	m.env.Log.Infof("spotify: resume failed, looking for a device: %v", err)

	if err = m.playOnDevice(ctx); err != nil {
		m.fail("play", err)
		return
	}
	m.setPlaying(true)
}

// playOnDevice starts playback on the active device, or failing that the first one listed.
func (m *Music) playOnDevice(ctx context.Context) error {
	devices, err := m.player.Devices(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return ErrNoDevice
	}
	target := devices[0]
	for _, d := range devices {
		if d.Active {
			target = d
			break
		}
	}
	m.env.Log.Infof("spotify: trying device %s", target.Name)
	return m.player.PlayOn(ctx, target.ID)
}

func (m *Music) fail(op string, err error) {
	m.env.Log.Warnf("spotify: %s: %v", op, err)
	switch {
	case errors.Is(err, ErrNoDevice):
		m.show("Open Spotify app\nand play something")
	case errors.Is(err, ErrNotConfigured):
		m.show("Spotify not\nconfigured")
	default:
		m.show("Playback error\nTry again")
	}
}
