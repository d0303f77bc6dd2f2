package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pocketdeck/pocketdeck/internal/apps/wifi"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != modeHardware || cfg.LogLevel != slog.LevelInfo || cfg.Width != 128 || cfg.Height != 32 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Shutdown.String() != "sudo shutdown -h now" || cfg.Reboot.String() != "sudo reboot" {
		t.Fatalf("commands %q %q", cfg.Shutdown, cfg.Reboot)
	}
	if cfg.WPAConfig != wifi.DefaultConfigPath {
		t.Fatalf("WPAConfig = %q", cfg.WPAConfig)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-mode", "term", "-log-level", "debug", "-flip", "-shutdown-cmd", "systemctl poweroff"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != modeTerminal || cfg.LogLevel != slog.LevelDebug || !cfg.Flip {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Shutdown.Name != "systemctl" || len(cfg.Shutdown.Args) != 1 || cfg.Shutdown.Args[0] != "poweroff" {
		t.Fatalf("Shutdown = %#v", cfg.Shutdown)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	for _, args := range [][]string{
		{"-mode", "tv"},
		{"-log-level", "loud"},
		{"-width", "0"},
		{"-reboot-cmd", ""},
		{"-no-such-flag"},
	} {
		if _, err := parseFlags(args, io.Discard); err == nil {
			t.Errorf("parseFlags(%q) accepted", args)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"WEATHER_API_KEY":       "k",
		"SPOTIFY_CLIENT_ID":     "id",
		"SPOTIFY_REFRESH_TOKEN": "rt",
		"WIFI_NETWORKS":         "cafe:latte1234,lab:pw",
	}
	var cfg config
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.WeatherKey != "k" || cfg.WeatherCity != defaultCity {
		t.Fatalf("weather %q %q", cfg.WeatherKey, cfg.WeatherCity)
	}
	if cfg.Spotify.ClientID != "id" || cfg.Spotify.RefreshToken != "rt" || cfg.Spotify.ClientSecret != "" {
		t.Fatalf("spotify %+v", cfg.Spotify)
	}
	if len(cfg.Networks) != 2 || cfg.Networks[1] != (wifi.Network{SSID: "lab", PSK: "pw"}) {
		t.Fatalf("networks %+v", cfg.Networks)
	}

	env["WIFI_NETWORKS"] = "broken"
	if err := cfg.applyEnv(func(k string) string { return env[k] }); err == nil {
		t.Fatal("bad WIFI_NETWORKS accepted")
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("POCKETDECK_TEST_CITY=Oslo\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POCKETDECK_TEST_CITY", "")
	os.Unsetenv("POCKETDECK_TEST_CITY")
	if err := loadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("POCKETDECK_TEST_CITY"); got != "Oslo" {
		t.Fatalf("POCKETDECK_TEST_CITY = %q", got)
	}

	t.Setenv("POCKETDECK_TEST_CITY", "Bergen")
	if err := loadEnvFile(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("POCKETDECK_TEST_CITY"); got != "Bergen" {
		t.Fatalf("existing variable overridden: %q", got)
	}
}
