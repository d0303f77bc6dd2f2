// Package wifi manages saved wireless networks: add pending ones, delete saved ones, and reconnect.
package wifi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pocketdeck/pocketdeck"
)

const (
	pollTime = 100 * time.Millisecond

	StatusHold  = 3 * time.Second
	ResultHold  = 2 * time.Second
	ConnectWait = 5 * time.Second
	ConnectHold = 3 * time.Second
)

type mode int

const (
	modeMain mode = iota
	modeAdd
	modeDelete
	modeSaved
)

var mainOptions = []string{"Add Networks", "Delete Networks", "View Saved", "Current Status"}

// Manager is the Wi-Fi app.
type Manager struct {
	env   pocketdeck.Env
	store Store
	link  Link

	// pending networks that can still be added; kept between visits
	pending []Network

	mode    mode
	sel     int
	saved   []string
	current string
}

// New creates the app. pending are the networks offered under "Add Networks".
func New(env pocketdeck.Env, store Store, link Link, pending []Network) *Manager {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	return &Manager{env: env, store: store, link: link, pending: append([]Network(nil), pending...)}
}

func (m *Manager) Name() string { return "Wi-Fi" }

// Pending returns the networks that have not been added yet.
func (m *Manager) Pending() []Network { return m.pending }

func (m *Manager) Run(ctx context.Context) error {
	m.mode, m.sel = modeMain, 0
	m.reload()
	m.refresh(ctx)

	last := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch m.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			if m.mode == modeMain {
				return nil
			}
			m.mode, m.sel = modeMain, 0
		case pocketdeck.MenuButtonUp:
			m.sel--
		case pocketdeck.MenuButtonDown:
			m.sel++
		case pocketdeck.MenuButtonSelect:
			m.selectItem(ctx)
			// a result screen was shown over the mode
			last = ""
		}

		if text := m.text(); text != last {
			m.env.Display.RenderCentered(text)
			last = text
		}
		m.env.Clock.Sleep(pollTime)
	}
}

// index maps the free-running selection onto n items.
func index(sel, n int) int {
	return ((sel % n) + n) % n
}

func (m *Manager) reload() {
	saved, err := m.store.Saved()
	if err != nil {
		m.env.Log.Warnf("wifi: load saved networks: %v", err)
		saved = nil
	}
	m.saved = saved
}

func (m *Manager) refresh(ctx context.Context) {
	cur, err := m.link.Current(ctx)
	if err != nil {
		m.env.Log.Debugf("wifi: current network: %v", err)
		cur = ""
	}
	m.current = cur
}

func (m *Manager) currentName() string {
	if m.current == "" {
		return "None"
	}
	return m.current
}

func (m *Manager) text() string {
	switch m.mode {
	case modeAdd:
		if len(m.pending) == 0 {
			return "No new networks\nto add"
		}
		return fmt.Sprintf("Add Network\n%s\nSelect to add", m.pending[index(m.sel, len(m.pending))].SSID)
	case modeDelete:
		if len(m.saved) == 0 {
			return "No saved networks\nto delete"
		}
		return fmt.Sprintf("Delete Network\n%s\nSelect to delete", m.saved[index(m.sel, len(m.saved))])
	case modeSaved:
		if len(m.saved) == 0 {
			return "No saved\nnetworks found"
		}
		ssid := m.saved[index(m.sel, len(m.saved))]
		status := "SAVED"
		if ssid == m.current {
			status = "CONNECTED"
		}
		return status + "\n" + ssid
	default:
		return fmt.Sprintf("WiFi Manager\n%s\nNow: %s", mainOptions[index(m.sel, len(mainOptions))], m.currentName())
	}
}

func (m *Manager) selectItem(ctx context.Context) {
	switch m.mode {
	case modeMain:
		switch i := index(m.sel, len(mainOptions)); i {
		case 3:
			m.refresh(ctx)
			m.env.Pause(fmt.Sprintf("WiFi Status\nConnected: %s\nSaved: %d networks", m.currentName(), len(m.saved)), StatusHold)
		default:
			m.mode = mode(i + 1)
			m.sel = 0
		}
	case modeAdd:
		if len(m.pending) > 0 {
			m.add(index(m.sel, len(m.pending)))
		}
	case modeDelete:
		if len(m.saved) > 0 {
			m.remove(m.saved[index(m.sel, len(m.saved))])
		}
	case modeSaved:
		if len(m.saved) > 0 {
			m.connect(ctx, m.saved[index(m.sel, len(m.saved))])
		}
	}
}

func (m *Manager) add(i int) {
	n := m.pending[i]
	m.env.Display.RenderCentered(fmt.Sprintf("Adding\n%s...", n.SSID))
	err := m.store.Add(n)
	if err == nil || errors.Is(err, ErrExists) {
		m.pending = append(m.pending[:i:i], m.pending[i+1:]...)
		m.reload()
	}
	if err != nil {
		m.env.Log.Warnf("wifi: %v", err)
		m.env.Pause(fmt.Sprintf("Error adding\n%s", n.SSID), ResultHold)
		return
	}
	m.env.Log.Infof("wifi: added %s", n.SSID)
	m.env.Pause(fmt.Sprintf("Added!\n%s", n.SSID), ResultHold)
}

func (m *Manager) remove(ssid string) {
	m.env.Display.RenderCentered(fmt.Sprintf("Deleting\n%s...", ssid))
	if err := m.store.Remove(ssid); err != nil {
		m.env.Log.Warnf("wifi: %v", err)
		m.env.Pause(fmt.Sprintf("Error deleting\n%s", ssid), ResultHold)
		return
	}
	m.env.Log.Infof("wifi: deleted %s", ssid)
	m.reload()
	if m.sel >= len(m.saved) {
		m.sel = max(len(m.saved)-1, 0)
	}
	m.env.Pause(fmt.Sprintf("Deleted!\n%s", ssid), ResultHold)
}

func (m *Manager) connect(ctx context.Context, ssid string) {
	m.env.Display.RenderCentered(fmt.Sprintf("Connecting to\n%s...", ssid))
	if err := m.link.Reconnect(ctx); err != nil {
		m.env.Log.Warnf("wifi: reconnect: %v", err)
		m.env.Pause(fmt.Sprintf("Error connecting\n%s", ssid), ConnectHold)
		return
	}
	m.env.Clock.Sleep(ConnectWait)
	m.refresh(ctx)
	if m.current == ssid {
		m.env.Pause(fmt.Sprintf("Connected!\n%s", ssid), ConnectHold)
	} else {
		m.env.Pause(fmt.Sprintf("Connection failed\nTrying: %s", ssid), ConnectHold)
	}
}
