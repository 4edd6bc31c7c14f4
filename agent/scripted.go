package agent

import (
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

// Scripted replays a fixed list of directions, one per move. Once the script
// runs out the snake keeps its committed direction.
type Scripted struct {
	moves []game.Direction
	next  int
}

func NewScripted(moves ...game.Direction) *Scripted {
	return &Scripted{moves: moves}
}

// Remaining is the number of scripted moves not yet played.
func (s *Scripted) Remaining() int {
	return len(s.moves) - s.next
}

func (s *Scripted) WillMove(info *rules.SnakeInfo, _ *rules.WorldView) game.Direction {
	if s.next >= len(s.moves) {
		return fallback(info)
	}
	d := s.moves[s.next]
	s.next++
	return d
}
