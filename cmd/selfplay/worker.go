package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"

	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/session"
	"github.com/brensch/snakeworld/store"
)

var (
	totalMoves    atomic.Int64
	startedGames  atomic.Int64
	finishedGames atomic.Int64
)

// GameUpdate is sent to the dashboard after every finished game.
type GameUpdate struct {
	WorkerID int
	Summary  store.GameSummary
	Err      error
}

// Winner is the last snake standing, or -1.
func (u GameUpdate) Winner() int {
	if len(u.Summary.Survivors) == 1 {
		return u.Summary.Survivors[0]
	}
	return -1
}

// selfplayController plays headless games back to back without pacing.
type selfplayController struct {
	id       int
	settings config.Settings
	agents   int
	newAgent func(id int) rules.Controller
	maxTicks int
	maxGames int64
	rng      *rand.Rand
	rec      *store.Recorder
	log      *slog.Logger
	updates  chan<- GameUpdate
}

func (c *selfplayController) Action() session.Action {
	if c.maxGames > 0 && startedGames.Add(1) > c.maxGames {
		return session.Exit
	}
	return session.Start
}

func (c *selfplayController) Start(context.Context) (rules.Config, error) {
	ctls := make([]rules.Controller, c.agents)
	for i := range ctls {
		ctls[i] = c.newAgent(i)
	}
	cfg := c.settings.WorldConfig(ctls)
	cfg.Rand = rand.New(rand.NewSource(c.rng.Int63()))
	if _, err := c.rec.Begin(); err != nil {
		c.log.Warn("game not recorded", "worker", c.id, "error", err)
	} else {
		cfg.OnEvent = c.rec.ObserveEvent
	}
	return cfg, nil
}

// WillTick ends a game when at most one snake is left (none, for a solo
// game) or the tick limit is reached.
func (c *selfplayController) WillTick(prev *rules.WorldView) session.TickType {
	switch {
	case prev == nil:
		return session.Initial
	case prev.Alive() == 0,
		c.agents > 1 && prev.Alive() == 1,
		c.maxTicks > 0 && prev.Tick() >= c.maxTicks:
		return session.Break
	default:
		return session.Common
	}
}

func (c *selfplayController) DidTick(view *rules.WorldView) {
	totalMoves.Add(int64(view.Alive()))
	c.rec.RecordTick(view)
}

func (c *selfplayController) End(err error) {
	finishedGames.Add(1)
	u := GameUpdate{WorkerID: c.id, Err: err}
	if c.rec.GameID() != "" {
		sum, ferr := c.rec.Finish()
		u.Summary = sum
		if u.Err == nil {
			u.Err = ferr
		}
	}
	if u.Err != nil {
		c.log.Warn("game failed", "worker", c.id, "error", u.Err)
	}
	// Avoid blocking shutdown if the UI stops consuming.
	select {
	case c.updates <- u:
	default:
	}
}

// runWorker plays games until ctx is done or the game budget is spent.
func runWorker(ctx context.Context, ctl *selfplayController) error {
	err := session.New(ctl, ctl.log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
