// Package snake is the classic grid snake: eat food to grow and speed up, and avoid the walls and yourself.
package snake

import (
	"math/rand"
	"time"

	"github.com/pocketdeck/pocketdeck/internal/games/geom"
)

const (
	StartSpeed = 300 * time.Millisecond
	MinSpeed   = 100 * time.Millisecond
	SpeedStep  = 10 * time.Millisecond
)

// State is one game of snake. Segments[0] is the head.
type State struct {
	Grid     geom.Grid
	Segments []geom.Cell
	Dir      geom.Cell
	Food     geom.Cell
	Score    int
	Speed    time.Duration
	GameOver bool
	// Won is set when the snake fills the board and there is nowhere left to put food.
	Won bool
	// Moves counts completed steps.
	Moves int

	queued  geom.Cell
	pending bool
	rng     *rand.Rand
}

// NewState starts a one-segment snake in the middle of grid, heading right.
func NewState(grid geom.Grid, rng *rand.Rand) *State {
	s := &State{
		Grid:     grid,
		Segments: []geom.Cell{grid.Center()},
		Dir:      geom.Right,
		Speed:    StartSpeed,
		rng:      rng,
	}
	if !s.placeFood() {
		s.GameOver = true
		s.Won = true
	}
	return s
}

// Head returns the head cell.
func (s *State) Head() geom.Cell { return s.Segments[0] }

// Heading is the direction the next step will take: the queued direction if there is one, otherwise the current
// one.
func (s *State) Heading() geom.Cell {
	if s.pending {
		return s.queued
	}
	return s.Dir
}

// Turn queues d for the next step. A turn straight back onto the snake is refused, as is any turn once the game
// is over. Later turns replace earlier ones that have not been applied yet.
func (s *State) Turn(d geom.Cell) bool {
	if s.GameOver || d == s.Heading().Reverse() {
		return false
	}
	s.queued = d
	s.pending = true
	return true
}

// Step applies the queued turn and moves the snake one cell.
func (s *State) Step() {
	if s.GameOver {
		return
	}
	if s.pending {
		s.Dir = s.queued
		s.pending = false
	}

	head := s.Head().Add(s.Dir)
	if !s.Grid.Contains(head) || s.occupied(head) {
		s.GameOver = true
		return
	}
	s.Moves++

	s.Segments = append(s.Segments, geom.Cell{})
	copy(s.Segments[1:], s.Segments)
	s.Segments[0] = head

	if head != s.Food {
		s.Segments = s.Segments[:len(s.Segments)-1]
		return
	}
	s.Score++
	s.Speed = max(s.Speed-SpeedStep, MinSpeed)
	if !s.placeFood() {
		s.GameOver = true
		s.Won = true
	}
}

// occupied reports whether c is any segment, including the tail that is about to move away.
func (s *State) occupied(c geom.Cell) bool {
	for _, seg := range s.Segments {
		if seg == c {
			return true
		}
	}
	return false
}

func (s *State) placeFood() bool {
	if len(s.Segments) >= s.Grid.Cells() {
		return false
	}
	for {
		c := geom.Cell{X: s.rng.Intn(s.Grid.W), Y: s.rng.Intn(s.Grid.H)}
		if !s.occupied(c) {
			s.Food = c
			return true
		}
	}
}
