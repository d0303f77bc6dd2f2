// Package weather shows the current conditions for one city.
package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pocketdeck/pocketdeck"
)

const (
	// RefreshInterval is how often the report is fetched while the app is open.
	RefreshInterval = 10 * time.Minute
	MaxRetries      = 3
	RetryDelay      = 2 * time.Second

	visibleLines = 2
	pollTime     = 100 * time.Millisecond
)

// Report is a snapshot of the current conditions. Temperatures are Fahrenheit and wind is miles per hour.
type Report struct {
	City      string
	Temp      float64
	FeelsLike float64
	Condition string
	Humidity  int
	Wind      float64
}

// Source fetches reports. Implementations classify failures with the errors in this package.
type Source interface {
	Current(ctx context.Context, city string) (Report, error)
}

// Lines formats r one fact per line.
func Lines(r Report) []string {
	return []string{
		r.City,
		fmt.Sprintf("Temperature: %.0fF", r.Temp),
		fmt.Sprintf("Feels like: %.0fF", r.FeelsLike),
		"Condition: " + cases.Title(language.English).String(r.Condition),
		fmt.Sprintf("Humidity: %d%%", r.Humidity),
		fmt.Sprintf("Wind: %.1f mph", r.Wind),
	}
}

// describe turns a fetch error into screen lines. retry is set for errors that are worth another attempt.
func describe(err error, city string) (lines []string, retry bool) {
	var se *StatusError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return []string{"No API key", "set in .env"}, false
	case errors.Is(err, ErrUnauthorized):
		return []string{"Invalid API key"}, false
	case errors.Is(err, ErrCityNotFound):
		return []string{fmt.Sprintf("City '%s'", city), "not found"}, false
	case errors.As(err, &se):
		return []string{"Weather error", fmt.Sprintf("Code: %d", se.Code)}, false
	case errors.Is(err, ErrTimeout):
		return []string{"Connection", "timeout"}, false
	case errors.Is(err, ErrOffline):
		return []string{"No internet", "connection"}, false
	}
	msg := []rune(err.Error())
	if len(msg) > 20 {
		msg = msg[:20]
	}
	return []string{"Weather error:", string(msg)}, true
}

type Weather struct {
	env  pocketdeck.Env
	src  Source
	city string

	// the report and its age are kept between visits
	lines       []string
	lastAttempt time.Time

	scroll int
}

func New(env pocketdeck.Env, src Source, city string) *Weather {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	return &Weather{env: env, src: src, city: city}
}

func (w *Weather) Name() string { return "Weather" }

// Lines returns the lines currently held, report or error.
func (w *Weather) Lines() []string { return w.lines }

func (w *Weather) Run(ctx context.Context) error {
	w.scroll = 0
	last := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.lastAttempt.IsZero() || w.env.Clock.Now().Sub(w.lastAttempt) >= RefreshInterval {
			w.fetch(ctx)
			last = ""
		}

		if text := w.text(); text != last {
			w.env.Display.RenderCentered(text)
			last = text
		}

		switch w.env.Input.PressedButton() {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonSelect:
			w.lines = []string{"Refreshing..."}
			w.scroll = 0
			w.env.Display.RenderCentered("Refreshing...")
			w.fetch(ctx)
			last = ""
		case pocketdeck.MenuButtonUp:
			if w.scroll > 0 {
				w.scroll--
			}
		case pocketdeck.MenuButtonDown:
			if w.scroll < len(w.lines)-visibleLines {
				w.scroll++
			}
		}
		w.env.Clock.Sleep(pollTime)
	}
}

func (w *Weather) fetch(ctx context.Context) {
	for attempt := 1; ; attempt++ {
		w.lastAttempt = w.env.Clock.Now()
		r, err := w.src.Current(ctx, w.city)
		if err == nil {
			w.lines = Lines(r)
			w.scroll = 0
			w.env.Log.Debugf("weather: updated %s", w.city)
			return
		}
		if ctx.Err() != nil {
			return
		}

		lines, retry := describe(err, w.city)
		if retry && attempt <= MaxRetries {
			w.env.Log.Warnf("weather: attempt %d: %v", attempt, err)
			w.env.Display.RenderCentered(fmt.Sprintf("Retrying...\n(%d/%d)", attempt, MaxRetries))
			w.env.Clock.Sleep(RetryDelay)
			continue
		}
		w.env.Log.Errorf("weather: %v", err)
		w.lines = lines
		w.scroll = 0
		return
	}
}

func (w *Weather) text() string {
	if len(w.lines) == 0 {
		return "No weather data"
	}
	end := min(w.scroll+visibleLines, len(w.lines))
	text := strings.Join(w.lines[w.scroll:end], "\n")
	if w.scroll > 0 {
		text = "^ " + text
	}
	if w.scroll < len(w.lines)-visibleLines {
		text += " v"
	}
	return text
}
