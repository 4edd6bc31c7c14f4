package inference

import (
	"log/slog"

	"github.com/brensch/snakeworld/agent"
	"github.com/brensch/snakeworld/convert"
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

// Predictor scores the four directions, in game.Directions order, for one
// encoded window. OnnxClient and OnnxPool implement it.
type Predictor interface {
	Predict(input []float32) ([]float32, error)
}

// Controller steers a snake with a policy network. Among the safe directions
// it takes the highest score. When the network fails it falls back to the
// greedy agent.
type Controller struct {
	model Predictor
	log   *slog.Logger
}

func NewController(model Predictor, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{model: model, log: logger}
}

func (c *Controller) WillMove(info *rules.SnakeInfo, view *rules.WorldView) game.Direction {
	input := convert.ViewToFloat32(view, info.ID())
	policy, err := c.model.Predict(*input)
	convert.PutFloatBuffer(input)
	if err != nil || len(policy) < PolicySize {
		c.log.Warn("policy unavailable, moving greedily", "agent", info.ID(), "error", err)
		return agent.Greedy{}.WillMove(info, view)
	}
	return Best(policy, func(d game.Direction) bool { return agent.Safe(view, info, d) }, info)
}

// Best picks the highest scoring direction that ok accepts. Ties go to the
// earlier direction. With nothing acceptable it keeps the committed
// direction, or Right.
func Best(policy []float32, ok func(game.Direction) bool, info *rules.SnakeInfo) game.Direction {
	best, found := game.Right, false
	for i, d := range game.Directions {
		if i >= len(policy) || !ok(d) {
			continue
		}
		if !found || policy[i] > policy[best] {
			best, found = d, true
		}
	}
	if found {
		return best
	}
	if d, committed := info.Direction(); committed {
		return d
	}
	return game.Right
}
