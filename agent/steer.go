// Package agent holds rules.Controller implementations: directions set from
// outside (keyboard, network), a channel-backed remote agent, a greedy food
// seeker, and a fixed script.
package agent

import (
	"sync"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

// Steer is a controller whose next direction is set from another goroutine,
// typically a keyboard handler or a websocket reader. With no direction set
// it steers Right.
//
// Steer embeds sync.Mutex, so the pipeline holds the lock for every hook and
// skips the agent for that hook while a writer holds it.
type Steer struct {
	sync.Mutex
	dir game.Direction
	set bool
}

// NewSteer returns a Steer with no direction set.
func NewSteer() *Steer {
	return &Steer{}
}

// Set records the direction to request on the next move.
func (s *Steer) Set(d game.Direction) {
	s.Lock()
	s.dir, s.set = d, true
	s.Unlock()
}

// Clear forgets the requested direction.
func (s *Steer) Clear() {
	s.Lock()
	s.dir, s.set = game.Right, false
	s.Unlock()
}

// Direction returns the requested direction and whether one is set.
func (s *Steer) Direction() (game.Direction, bool) {
	s.Lock()
	defer s.Unlock()
	return s.dir, s.set
}

// WillMove expects the caller to hold the lock, which the pipeline does.
func (s *Steer) WillMove(*rules.SnakeInfo, *rules.WorldView) game.Direction {
	if !s.set {
		return game.Right
	}
	return s.dir
}
