package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pocketdeck/pocketdeck/internal/apps/music"
	"github.com/pocketdeck/pocketdeck/internal/apps/power"
	"github.com/pocketdeck/pocketdeck/internal/apps/wifi"
	"github.com/pocketdeck/pocketdeck/internal/sysexec"
)

const (
	modeHardware = "hw"
	modeWindow   = "window"
	modeTerminal = "term"

	defaultCity = "New York"
)

type config struct {
	Mode     string
	LogLevel slog.Level
	LogFile  string
	EnvFile  string

	// display
	Width, Height int
	Flip          bool
	Scale         int
	I2CBus        string
	LED           string

	NotesFile string
	WPAConfig string
	Shutdown  sysexec.Command
	Reboot    sysexec.Command

	WeatherKey  string
	WeatherCity string
	Spotify     music.SpotifyConfig
	Networks    []wifi.Network
}

// parseFlags reads the command line. Settings that hold secrets come from the environment instead, see applyEnv.
func parseFlags(args []string, out io.Writer) (config, error) {
	var (
		cfg      config
		level    string
		shutdown string
		reboot   string
	)
	flags := flag.NewFlagSet("pocketdeck", flag.ContinueOnError)
	flags.SetOutput(out)
	flags.StringVar(&cfg.Mode, "mode", modeHardware, "where to run: hw (Raspberry Pi), window (desktop) or term (terminal)")
	flags.StringVar(&level, "log-level", "info", "debug, info, warn or error")
	flags.StringVar(&cfg.LogFile, "log-file", "", "write logs here instead of stderr")
	flags.StringVar(&cfg.EnvFile, "env", ".env", "dotenv file with API keys; a missing file is ignored")
	flags.IntVar(&cfg.Width, "width", 128, "display width in pixels")
	flags.IntVar(&cfg.Height, "height", 32, "display height in pixels")
	flags.BoolVar(&cfg.Flip, "flip", false, "rotate the display 180 degrees")
	flags.IntVar(&cfg.Scale, "scale", 4, "window mode pixel scale")
	flags.StringVar(&cfg.I2CBus, "i2c", "", "i2c bus for the display; empty picks the first")
	flags.StringVar(&cfg.LED, "led", "", "status LED pin, e.g. GPIO24")
	flags.StringVar(&cfg.NotesFile, "notes", "", "text file with one note per line")
	flags.StringVar(&cfg.WPAConfig, "wpa-config", wifi.DefaultConfigPath, "wpa_supplicant.conf to manage")
	flags.StringVar(&shutdown, "shutdown-cmd", power.DefaultShutdownCommand.String(), "command run by Shut down")
	flags.StringVar(&reboot, "reboot-cmd", power.DefaultRebootCommand.String(), "command run by Reboot")
	if err := flags.Parse(args); err != nil {
		return config{}, err
	}

	switch cfg.Mode {
	case modeHardware, modeWindow, modeTerminal:
	default:
		return config{}, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return config{}, fmt.Errorf("log level: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return config{}, fmt.Errorf("bad display size %dx%d", cfg.Width, cfg.Height)
	}

	var err error
	if cfg.Shutdown, err = sysexec.Parse(shutdown); err != nil {
		return config{}, fmt.Errorf("shutdown-cmd: %w", err)
	}
	if cfg.Reboot, err = sysexec.Parse(reboot); err != nil {
		return config{}, fmt.Errorf("reboot-cmd: %w", err)
	}
	return cfg, nil
}

// loadEnvFile adds the dotenv file to the process environment. Variables that are already set win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *config) applyEnv(getenv func(string) string) error {
	c.WeatherKey = getenv("WEATHER_API_KEY")
	c.WeatherCity = getenv("WEATHER_CITY")
	if c.WeatherCity == "" {
		c.WeatherCity = defaultCity
	}
	c.Spotify = music.SpotifyConfig{
		ClientID:     getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret: getenv("SPOTIFY_CLIENT_SECRET"),
		RefreshToken: getenv("SPOTIFY_REFRESH_TOKEN"),
	}
	nets, err := wifi.ParseNetworks(getenv("WIFI_NETWORKS"))
	if err != nil {
		return fmt.Errorf("WIFI_NETWORKS: %w", err)
	}
	c.Networks = nets
	return nil
}

func loadConfig(args []string) (config, error) {
	cfg, err := parseFlags(args, os.Stderr)
	if err != nil {
		return config{}, err
	}
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return config{}, fmt.Errorf("env file %s: %w", cfg.EnvFile, err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return config{}, err
	}
	return cfg, nil
}
