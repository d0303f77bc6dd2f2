// Package runner is a side-scrolling obstacle runner: jump over cacti, duck under birds, and score one point for
// every obstacle that makes it off the left edge.
package runner

import (
	"math/rand"

	"github.com/pocketdeck/pocketdeck/internal/games/geom"
)

const (
	groundHeight = 6
	actorX       = 15
	actorW       = 6
	actorH       = 8
	obstacleW    = 3
	obstacleH    = 8

	// birds fly with their top somewhere in this band above the ground
	birdHighest = 16
	birdLowest  = 8

	startSpeed = 2.0
	speedStep  = 0.5
	maxSpeed   = 6.0

	JumpImpulse = -6.0
	Gravity     = 0.8
	FastFall    = 2.0

	startSpawnInterval = 60
	spawnIntervalStep  = 2
	minSpawnInterval   = 30

	// rampEvery is 15 seconds at the nominal frame rate.
	rampEvery = 300
)

type Kind uint8

const (
	KindCactus Kind = iota
	KindBird
)

func (k Kind) String() string {
	switch k {
	case KindCactus:
		return "cactus"
	case KindBird:
		return "bird"
	default:
		return "INVALID"
	}
}

type Obstacle struct {
	geom.Rect
	Kind Kind
}

// State is a single play session. The zero value is not usable; use NewState.
type State struct {
	Width, Height int

	ActorY   float64
	Velocity float64
	OnGround bool

	Obstacles []Obstacle
	Score     int
	GameOver  bool

	Speed         float64
	Frame         int
	SpawnTimer    int
	SpawnInterval int

	rng *rand.Rand
}

// NewState returns a fresh session on a width x height playfield with the actor standing on the ground.
func NewState(width, height int, rng *rand.Rand) *State {
	s := &State{
		Width:         width,
		Height:        height,
		OnGround:      true,
		Speed:         startSpeed,
		SpawnTimer:    startSpawnInterval,
		SpawnInterval: startSpawnInterval,
		rng:           rng,
	}
	s.ActorY = s.GroundLevel()
	return s
}

// GroundTop is the y coordinate of the ground line.
func (s *State) GroundTop() int { return s.Height - groundHeight }

// GroundLevel is the actor's y coordinate while standing.
func (s *State) GroundLevel() float64 { return float64(s.GroundTop() - actorH) }

// Actor returns the actor's bounding box.
func (s *State) Actor() geom.Rect {
	return geom.Rect{X: actorX, Y: s.ActorY, W: actorW, H: actorH}
}

// Jump launches the actor if it is standing and reports whether it did.
func (s *State) Jump() bool {
	if s.GameOver || !s.OnGround {
		return false
	}
	s.Velocity = JumpImpulse
	s.OnGround = false
	return true
}

// Dive speeds up the fall of an airborne actor.
func (s *State) Dive() {
	if s.GameOver || s.OnGround {
		return
	}
	s.Velocity += FastFall
}

// Step advances the simulation by one frame. It does nothing once the game is over.
func (s *State) Step() {
	if s.GameOver {
		return
	}
	s.Frame++

	if !s.OnGround {
		s.Velocity += Gravity
		s.ActorY += s.Velocity
		if ground := s.GroundLevel(); s.ActorY >= ground {
			s.ActorY = ground
			s.Velocity = 0
			s.OnGround = true
		}
	}

	s.SpawnTimer--
	if s.SpawnTimer <= 0 {
		s.spawn()
		s.SpawnTimer = s.SpawnInterval
	}

	kept := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		o.X -= s.Speed
		if o.Right() < 0 {
			s.Score++
			continue
		}
		kept = append(kept, o)
	}
	s.Obstacles = kept

	actor := s.Actor()
	for _, o := range s.Obstacles {
		if actor.Overlaps(o.Rect) {
			s.GameOver = true
			return
		}
	}

	if s.Frame%rampEvery == 0 {
		s.Speed = min(s.Speed+speedStep, maxSpeed)
		s.SpawnInterval = max(s.SpawnInterval-spawnIntervalStep, minSpawnInterval)
	}
}

func (s *State) spawn() {
	o := Obstacle{
		Rect: geom.Rect{X: float64(s.Width), W: obstacleW, H: obstacleH},
		Kind: Kind(s.rng.Intn(2)),
	}
	switch o.Kind {
	case KindBird:
		top := s.GroundTop() - birdHighest
		o.Y = float64(top + s.rng.Intn(birdHighest-birdLowest+1))
	default:
		o.Y = float64(s.GroundTop() - obstacleH)
	}
	s.Obstacles = append(s.Obstacles, o)
}
