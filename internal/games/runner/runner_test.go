package runner

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/pocketdeck/pocketdeck"
	"github.com/pocketdeck/pocketdeck/internal/decktest"
	"github.com/pocketdeck/pocketdeck/internal/games/geom"
)

func newState() *State {
	return NewState(128, 32, rand.New(rand.NewSource(1)))
}

func TestJumpReturnsToGround(t *testing.T) {
	s := newState()
	ground := s.GroundLevel()
	if ground != 18 {
		t.Fatalf("GroundLevel = %v, want 18", ground)
	}
	if !s.Jump() {
		t.Fatal("Jump from the ground was refused")
	}
	if s.Jump() {
		t.Fatal("Jump in the air was accepted")
	}

	highest := ground
	for i := 0; i < 30 && !s.OnGround; i++ {
		s.Step()
		highest = min(highest, s.ActorY)
	}
	if !s.OnGround || s.ActorY != ground || s.Velocity != 0 {
		t.Fatalf("actor did not land: y=%v v=%v onGround=%v", s.ActorY, s.Velocity, s.OnGround)
	}
	if highest >= ground-10 {
		t.Fatalf("jump peaked at %v, expected well above %v", highest, ground)
	}
}

func TestDiveOnlyWhenAirborne(t *testing.T) {
	s := newState()
	s.Dive()
	if s.Velocity != 0 {
		t.Fatalf("Dive on the ground changed velocity to %v", s.Velocity)
	}
	s.Jump()
	s.Dive()
	if s.Velocity != JumpImpulse+FastFall {
		t.Fatalf("Velocity = %v, want %v", s.Velocity, JumpImpulse+FastFall)
	}
}

func TestIdleWithoutObstacles(t *testing.T) {
	s := newState()
	for i := 0; i < startSpawnInterval-1; i++ {
		s.Step()
	}
	if len(s.Obstacles) != 0 {
		t.Fatalf("%d obstacles spawned early", len(s.Obstacles))
	}
	if s.Score != 0 || s.GameOver || s.ActorY != s.GroundLevel() {
		t.Fatalf("state changed without obstacles: %+v", s)
	}
}

func TestObstacleRemovedPastLeftEdge(t *testing.T) {
	s := newState()
	s.SpawnTimer = 1000
	s.Obstacles = []Obstacle{{Rect: cactusAt(s, 1)}}

	s.Step()
	s.Step()
	if len(s.Obstacles) != 1 || s.Obstacles[0].Right() != 0 {
		t.Fatalf("obstacle with right edge at 0 should remain: %+v", s.Obstacles)
	}
	if s.Score != 0 {
		t.Fatalf("Score = %d before removal", s.Score)
	}
	s.Step()
	if len(s.Obstacles) != 0 {
		t.Fatalf("obstacle not removed: %+v", s.Obstacles)
	}
	if s.Score != 1 {
		t.Fatalf("Score = %d, want 1", s.Score)
	}
}

func TestCollisionEndsGame(t *testing.T) {
	s := newState()
	s.SpawnTimer = 1000
	s.Obstacles = []Obstacle{{Rect: cactusAt(s, 22)}}

	s.Step()
	if !s.GameOver {
		t.Fatal("overlap did not end the game")
	}
	frame, x := s.Frame, s.Obstacles[0].X
	s.Step()
	if s.Frame != frame || s.Obstacles[0].X != x {
		t.Fatal("Step advanced after game over")
	}
	if s.Jump() {
		t.Fatal("Jump accepted after game over")
	}
}

func TestJumpClearsCactus(t *testing.T) {
	s := newState()
	s.SpawnTimer = 1000
	s.Obstacles = []Obstacle{{Rect: cactusAt(s, 30)}}
	s.Jump()
	for i := 0; i < 20; i++ {
		s.Step()
	}
	if s.GameOver {
		t.Fatalf("jumped into the cactus at frame %d, y=%v", s.Frame, s.ActorY)
	}
}

func TestSpawn(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := NewState(128, 32, rand.New(rand.NewSource(seed)))
		s.SpawnTimer = 1
		s.Step()
		if len(s.Obstacles) != 1 {
			t.Fatalf("seed %d: %d obstacles", seed, len(s.Obstacles))
		}
		o := s.Obstacles[0]
		if o.X != 128-startSpeed || o.W != obstacleW || o.H != obstacleH {
			t.Fatalf("seed %d: obstacle %+v", seed, o)
		}
		switch o.Kind {
		case KindCactus:
			if o.Y != 18 {
				t.Fatalf("seed %d: cactus y = %v", seed, o.Y)
			}
		case KindBird:
			if o.Y < 10 || o.Y > 18 {
				t.Fatalf("seed %d: bird y = %v", seed, o.Y)
			}
		}
		if s.SpawnTimer != startSpawnInterval {
			t.Fatalf("seed %d: SpawnTimer = %d", seed, s.SpawnTimer)
		}
	}
}

func TestDifficultyRamp(t *testing.T) {
	s := newState()
	s.SpawnTimer = 1000
	s.Frame = rampEvery - 1
	s.Step()
	if s.Speed != startSpeed+speedStep || s.SpawnInterval != startSpawnInterval-spawnIntervalStep {
		t.Fatalf("after ramp: speed %v interval %d", s.Speed, s.SpawnInterval)
	}

	s.Speed, s.SpawnInterval = maxSpeed, minSpawnInterval
	s.Frame = 2*rampEvery - 1
	s.Step()
	if s.Speed != maxSpeed || s.SpawnInterval != minSpawnInterval {
		t.Fatalf("ramp exceeded its limits: speed %v interval %d", s.Speed, s.SpawnInterval)
	}
}

func TestGameBackExits(t *testing.T) {
	env, disp, in, _ := decktest.Env()
	in.PressAfter(time.Second, pocketdeck.MenuButtonBack)

	g := New(env, rand.New(rand.NewSource(1)))
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}
	fb := disp.Framebuffer()
	if fb.Displays == 0 {
		t.Fatal("nothing was drawn")
	}
	if !fb.Lit(0, 26) || !fb.Lit(127, 26) {
		t.Fatal("ground line not drawn")
	}
	if g.State().GameOver {
		t.Fatal("game ended within a second")
	}
}

func TestGameOverAndRestart(t *testing.T) {
	env, disp, in, _ := decktest.Env()
	in.PressAfter(time.Minute, pocketdeck.MenuButtonSelect).
		PressAfter(time.Minute+time.Second, pocketdeck.MenuButtonBack)

	g := New(env, rand.New(rand.NewSource(1)))
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run = %v", err)
	}

	var over string
	for _, text := range disp.Texts {
		if strings.HasPrefix(text, "Game Over!") {
			over = text
		}
	}
	if over == "" {
		t.Fatalf("no game over screen in %q", disp.Texts)
	}
	if !strings.HasSuffix(over, "\nPress SELECT") {
		t.Fatalf("game over text = %q", over)
	}

	s := g.State()
	if s.GameOver || s.Score != 0 || len(s.Obstacles) != 0 {
		t.Fatalf("select did not restart: %+v", s)
	}
}

func TestGameHonorsCancellation(t *testing.T) {
	env, _, _, clock := decktest.Env()
	ctx, cancel := context.WithCancel(context.Background())
	clock.OnSleep = func(now time.Time) {
		if now.Sub(time.Unix(0, 0)) >= time.Second {
			cancel()
		}
	}
	if err := New(env, nil).Run(ctx); err != context.Canceled {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
}

func cactusAt(s *State, x float64) geom.Rect {
	return geom.Rect{X: x, Y: float64(s.GroundTop() - obstacleH), W: obstacleW, H: obstacleH}
}
