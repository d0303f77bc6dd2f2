package wifi

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultConfigPath is where Raspberry Pi OS keeps saved networks.
const DefaultConfigPath = "/etc/wpa_supplicant/wpa_supplicant.conf"

var (
	ErrExists   = errors.New("network already saved")
	ErrNotFound = errors.New("network not saved")
	ErrBadEntry = errors.New("network entry must be ssid:psk")
)

var ssidPattern = regexp.MustCompile(`ssid="([^"]+)"`)

// Network is a network that can be written to the config.
type Network struct {
	SSID string
	PSK  string
}

// Store holds saved networks.
type Store interface {
	Saved() ([]string, error)
	Add(n Network) error
	Remove(ssid string) error
}

// ParseNetworks reads a list like "home:secret,office:hunter22". Empty entries are skipped.
func ParseNetworks(s string) ([]Network, error) {
	var out []Network
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ssid, psk, ok := strings.Cut(entry, ":")
		if !ok || ssid == "" {
			return nil, fmt.Errorf("%q: %w", entry, ErrBadEntry)
		}
		out = append(out, Network{SSID: ssid, PSK: psk})
	}
	return out, nil
}

// ParseSSIDs returns every ssid in conf, in file order, without duplicates.
func ParseSSIDs(conf string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range ssidPattern.FindAllStringSubmatch(conf, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func hasSSID(conf, ssid string) bool {
	return strings.Contains(conf, `ssid="`+ssid+`"`)
}

// AddBlock appends a network block for n to conf.
func AddBlock(conf string, n Network) (string, error) {
	if hasSSID(conf, n.SSID) {
		return conf, ErrExists
	}
	var b strings.Builder
	b.WriteString(conf)
	if conf != "" && !strings.HasSuffix(conf, "\n") {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nnetwork={\n    ssid=\"%s\"\n    psk=\"%s\"\n    priority=5\n}\n", n.SSID, n.PSK)
	return b.String(), nil
}

// RemoveBlock drops every network block that names ssid. Lines outside network blocks are kept as they are.
func RemoveBlock(conf, ssid string) (string, bool) {
	var (
		out     []string
		block   []string
		inBlock bool
		removed bool
	)
	for _, line := range strings.Split(conf, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case !inBlock && strings.HasPrefix(trimmed, "network={"):
			inBlock = true
			block = []string{line}
		case inBlock && trimmed == "}":
			block = append(block, line)
			inBlock = false
			if hasSSID(strings.Join(block, "\n"), ssid) {
				removed = true
			} else {
				out = append(out, block...)
			}
		case inBlock:
			block = append(block, line)
		default:
			out = append(out, line)
		}
	}
	// unterminated block
	if inBlock {
		out = append(out, block...)
	}
	return strings.Join(out, "\n"), removed
}

// FileStore edits a wpa_supplicant.conf in place.
type FileStore struct {
	Path string
}

func (s FileStore) path() string {
	if s.Path == "" {
		return DefaultConfigPath
	}
	return s.Path
}

func (s FileStore) read() (string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Saved lists the saved SSIDs. A missing file has none.
func (s FileStore) Saved() ([]string, error) {
	conf, err := s.read()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseSSIDs(conf), nil
}

func (s FileStore) Add(n Network) error {
	conf, err := s.read()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	conf, err = AddBlock(conf, n)
	if err != nil {
		return fmt.Errorf("add %s: %w", n.SSID, err)
	}
	return s.write(conf)
}

func (s FileStore) Remove(ssid string) error {
	conf, err := s.read()
	if err != nil {
		return err
	}
	conf, ok := RemoveBlock(conf, ssid)
	if !ok {
		return fmt.Errorf("remove %s: %w", ssid, ErrNotFound)
	}
	return s.write(conf)
}

// write replaces the file through a temporary file in the same directory so a crash never leaves it half written.
func (s FileStore) write(conf string) error {
	path := s.path()
	mode := fs.FileMode(0o600)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".wpa_supplicant-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(conf); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
