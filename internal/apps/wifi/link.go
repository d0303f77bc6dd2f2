package wifi

import (
	"context"
	"strings"

	"github.com/pocketdeck/pocketdeck/internal/sysexec"
)

// Link is the live wireless connection.
type Link interface {
	// Current returns the connected SSID, or "" when not connected.
	Current(ctx context.Context) (string, error)
	// Reconnect restarts networking so the highest priority saved network is joined.
	Reconnect(ctx context.Context) error
}

var (
	DefaultCurrentCommand   = sysexec.MustParse("iwgetid -r")
	DefaultReconnectCommand = sysexec.MustParse("sudo systemctl restart dhcpcd")
)

// SystemLink drives the link with command line tools.
type SystemLink struct {
	Runner           sysexec.Runner
	CurrentCommand   sysexec.Command
	ReconnectCommand sysexec.Command
}

func NewSystemLink(r sysexec.Runner) *SystemLink {
	if r == nil {
		r = sysexec.Exec{}
	}
	return &SystemLink{
		Runner:           r,
		CurrentCommand:   DefaultCurrentCommand,
		ReconnectCommand: DefaultReconnectCommand,
	}
}

// Current treats a failing iwgetid as not connected: it exits non-zero whenever there is no association.
func (l *SystemLink) Current(ctx context.Context) (string, error) {
	out, err := l.CurrentCommand.Run(ctx, l.Runner)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

func (l *SystemLink) Reconnect(ctx context.Context) error {
	_, err := l.ReconnectCommand.Run(ctx, l.Runner)
	return err
}
