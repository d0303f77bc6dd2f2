package runner

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"strconv"
	"time"

	"github.com/pocketdeck/pocketdeck"
	"github.com/pocketdeck/pocketdeck/internal/media"
	"github.com/pocketdeck/pocketdeck/internal/sprite"
)

// FrameTime is the nominal length of one simulation frame.
const FrameTime = 50 * time.Millisecond

type sprites struct {
	run    sprite.Cycle
	idle   sprite.Cycle
	cactus sprite.Cycle
	bird   sprite.Cycle
}

func loadSprites() sprites {
	return sprites{
		run: sprite.Cycle{Every: 3, Frames: []image.Image{
			media.MustLoad(media.TypeActor, "run0"),
			media.MustLoad(media.TypeActor, "run1"),
		}},
		idle:   sprite.Cycle{Frames: []image.Image{media.MustLoad(media.TypeActor, "idle")}},
		cactus: sprite.Cycle{Frames: []image.Image{media.MustLoad(media.TypeObstacle, "cactus")}},
		bird: sprite.Cycle{Every: 4, Frames: []image.Image{
			media.MustLoad(media.TypeObstacle, "bird0"),
			media.MustLoad(media.TypeObstacle, "bird1"),
		}},
	}
}

// Game is the runner as a menu app.
type Game struct {
	env     pocketdeck.Env
	rng     *rand.Rand
	sprites sprites

	state     *State
	hi        int
	shownOver bool
}

// New creates the game. rng drives obstacle spawning; nil seeds one from the clock.
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
	return &Game{env: env, rng: rng, sprites: loadSprites()}
}

func (g *Game) Name() string { return "Dino Runner" }

// State returns the current session, or nil before the first Run.
func (g *Game) State() *State { return g.state }

// HighScore is the best score since the game was created.
func (g *Game) HighScore() int { return g.hi }

func (g *Game) reset() {
	w, h := g.env.Display.Canvas().Size()
	g.state = NewState(int(w), int(h), g.rng)
	g.shownOver = false
}

func (g *Game) Run(ctx context.Context) error {
	g.reset()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch b := g.env.Input.PressedButton(); b {
		case pocketdeck.MenuButtonBack:
			return nil
		case pocketdeck.MenuButtonSelect:
			if g.state.GameOver {
				g.env.Log.Debug("runner: restart")
				g.reset()
			} else {
				g.state.Jump()
			}
		case pocketdeck.MenuButtonDown:
			g.state.Dive()
		}

		wasOver := g.state.GameOver
		g.state.Step()
		if !wasOver && g.state.GameOver {
			g.env.Log.Infof("runner: game over, score %d", g.state.Score)
		}
		if g.state.Score > g.hi {
			g.hi = g.state.Score
		}

		g.draw()
		g.env.Clock.Sleep(FrameTime)
	}
}

func (g *Game) draw() {
	s := g.state
	if s.GameOver {
		if !g.shownOver {
			g.env.Display.RenderCentered(fmt.Sprintf("Game Over!\nScore: %d\nPress SELECT", s.Score))
			g.shownOver = true
		}
		return
	}

	c := g.env.Display.Canvas()
	w, _ := c.Size()
	sprite.Fill(c, sprite.Off)
	sprite.HLine(c, int16(s.GroundTop()), sprite.On)

	actor := g.sprites.idle
	if s.OnGround {
		actor = g.sprites.run
	}
	sprite.DrawImage(c, actorX, int16(s.ActorY), actor.At(s.Frame), false)

	for _, o := range s.Obstacles {
		cyc := g.sprites.cactus
		if o.Kind == KindBird {
			cyc = g.sprites.bird
		}
		sprite.DrawImage(c, int16(o.X), int16(o.Y), cyc.At(s.Frame), false)
	}

	score := "HI " + strconv.Itoa(s.Score)
	sprite.Text(c, w-sprite.TextWidth(score)-2, 0, score)

	if err := c.Display(); err != nil {
		g.env.Log.Debugf("runner: display: %v", err)
	}
}
