package snake

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/pocketdeck/pocketdeck"
	"github.com/pocketdeck/pocketdeck/internal/games/geom"
	"github.com/pocketdeck/pocketdeck/internal/sprite"
)

const (
	// CellSize is the side of one grid cell in pixels.
	CellSize = 4
	// PollTime is how often input is read. Movement happens on its own schedule.
	PollTime = 10 * time.Millisecond
	// ExitWindow is how close together two backs must be to leave a game in progress.
	ExitWindow = 500 * time.Millisecond
	// food blinks at about 3Hz
	blinkPeriod = time.Second / 3
)

var directions = map[pocketdeck.MenuButton]geom.Cell{
	pocketdeck.MenuButtonUp:    geom.Up,
	pocketdeck.MenuButtonDown:  geom.Down,
	pocketdeck.MenuButtonLeft:  geom.Left,
	pocketdeck.MenuButtonRight: geom.Right,
}

// frame is everything that decides what is on screen. Nothing is redrawn while it stays the same.
type frame struct {
	moves int
	food  bool
	over  bool
}

type Game struct {
	env pocketdeck.Env
	rng *rand.Rand

	state *State
	shown frame
	drawn bool
}

// New creates the game. rng places food; nil seeds one from the clock.
func New(env pocketdeck.Env, rng *rand.Rand) *Game {
	if env.Clock == nil {
		env.Clock = pocketdeck.SystemClock{}
	}
	if env.Log == nil {
		env.Log = pocketdeck.NopLogger{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(env.Clock.Now().UnixNano()))
	}
	return &Game{env: env, rng: rng}
}

func (g *Game) Name() string { return "Snake" }

// State returns the current game, or nil before the first Run.
func (g *Game) State() *State { return g.state }

func (g *Game) reset() {
	w, h := g.env.Display.Canvas().Size()
	g.state = NewState(geom.Grid{W: int(w) / CellSize, H: int(h) / CellSize}, g.rng)
	g.drawn = false
}

func (g *Game) Run(ctx context.Context) error {
	g.reset()
	lastMove := g.env.Clock.Now()
	var lastBack time.Time

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := g.env.Clock.Now()
		b := g.env.Input.PressedButton()

		switch {
		case b == pocketdeck.MenuButtonBack:
			if g.state.GameOver {
				return nil
			}
			if !lastBack.IsZero() && now.Sub(lastBack) < ExitWindow {
				return nil
			}
			lastBack = now
		case b == pocketdeck.MenuButtonSelect && g.state.GameOver:
			g.env.Log.Debug("snake: restart")
			g.reset()
			lastMove, lastBack = now, time.Time{}
		case b == pocketdeck.MenuButtonSelect:
			// turbo
			g.step()
			lastMove = now
		default:
			if d, ok := directions[b]; ok {
				g.state.Turn(d)
			}
		}

		if !g.state.GameOver && now.Sub(lastMove) >= g.state.Speed {
			g.step()
			lastMove = now
		}

		g.draw(now)
		g.env.Clock.Sleep(PollTime)
	}
}

func (g *Game) step() {
	g.state.Step()
	if g.state.GameOver {
		if g.state.Won {
			g.env.Log.Infof("snake: board full, score %d", g.state.Score)
		} else {
			g.env.Log.Infof("snake: game over, score %d", g.state.Score)
		}
	}
}

func (g *Game) draw(now time.Time) {
	s := g.state
	f := frame{
		moves: s.Moves,
		food:  now.UnixMilli()/blinkPeriod.Milliseconds()%2 == 0,
		over:  s.GameOver,
	}
	if f.over {
		f.food = false
	}
	if g.drawn && f == g.shown {
		return
	}
	g.shown, g.drawn = f, true

	if s.GameOver {
		g.env.Display.RenderCentered(fmt.Sprintf("Game Over!\nScore: %d\nPress SELECT", s.Score))
		return
	}

	c := g.env.Display.Canvas()
	sprite.Fill(c, sprite.Off)
	for _, seg := range s.Segments {
		sprite.FillRect(c, int16(seg.X*CellSize), int16(seg.Y*CellSize), CellSize, CellSize, sprite.On)
	}
	if f.food {
		sprite.FillRect(c, int16(s.Food.X*CellSize), int16(s.Food.Y*CellSize), CellSize, CellSize, sprite.On)
	}
	sprite.Text(c, 1, 0, strconv.Itoa(s.Score))

	if err := c.Display(); err != nil {
		g.env.Log.Debugf("snake: display: %v", err)
	}
}
