package agent

import (
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

// Safe reports whether moving in d keeps the snake clear of everything but
// food on the next tick, judged from the current index. A reversal into the
// snake's own neck is never safe.
func Safe(view *rules.WorldView, info *rules.SnakeInfo, d game.Direction) bool {
	if cur, ok := info.Direction(); ok && info.HasTail() && d == cur.Reverse() {
		return false
	}
	next := info.NextHead(d)
	if int(next.X) >= view.Width() || int(next.Y) >= view.Height() {
		return false
	}
	for _, l := range view.Occurrences(next) {
		if l.Kind != rules.EatLayer {
			return false
		}
	}
	return true
}

// Greedy heads for the nearest food along any safe direction.
type Greedy struct{}

func (Greedy) WillMove(info *rules.SnakeInfo, view *rules.WorldView) game.Direction {
	food := view.Food()
	best, bestDist := game.Direction(0), -1
	for _, d := range game.Directions {
		if !Safe(view, info, d) {
			continue
		}
		next := info.NextHead(d)
		dist := 0
		for i, f := range food {
			if m := next.Manhattan(f); i == 0 || m < dist {
				dist = m
			}
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if bestDist >= 0 {
		return best
	}
	return fallback(info)
}
