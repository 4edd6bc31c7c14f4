package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snakeworld/agent"
	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/session"
)

// statusLines is how many terminal rows the board leaves for the status bar.
const statusLines = 2

type frameMsg rules.Frame

type endMsg struct{ err error }

// termSize is the latest terminal size, published by the UI goroutine.
type termSize struct {
	mu    sync.Mutex
	w, h  int
	ready chan struct{}
	once  sync.Once
}

func newTermSize() *termSize {
	return &termSize{ready: make(chan struct{})}
}

func (s *termSize) set(w, h int) {
	s.mu.Lock()
	s.w, s.h = w, h
	s.mu.Unlock()
	s.once.Do(func() { close(s.ready) })
}

func (s *termSize) wait(ctx context.Context) (int, int, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h, nil
}

// terminalController runs a single two-player session sized to the terminal.
type terminalController struct {
	settings config.Settings
	fit      bool
	size     *termSize
	steers   [2]*agent.Steer
	send     func(tea.Msg)

	ctx    context.Context
	pacer  *session.Pacer
	played bool
}

func newTerminalController(settings config.Settings, fit bool, size *termSize, send func(tea.Msg)) *terminalController {
	return &terminalController{
		settings: settings,
		fit:      fit,
		size:     size,
		steers:   [2]*agent.Steer{agent.NewSteer(), agent.NewSteer()},
		send:     send,
		ctx:      context.Background(),
		pacer:    session.NewPacer(settings.TickDelay),
	}
}

// Action plays one session and then exits. Both snakes are pointed Right
// again before every answer.
func (c *terminalController) Action() session.Action {
	for _, s := range c.steers {
		s.Set(game.Right)
	}
	if c.played {
		return session.Exit
	}
	c.played = true
	return session.Start
}

func (c *terminalController) Start(ctx context.Context) (rules.Config, error) {
	c.ctx = ctx
	c.pacer.Reset()
	settings := c.settings
	if c.fit {
		w, h, err := c.size.wait(ctx)
		if err != nil {
			return rules.Config{}, err
		}
		settings.World = config.World{
			Width:  min(w, rules.MaxWorldSize),
			Height: min(h-statusLines, rules.MaxWorldSize),
		}
	}
	return settings.WorldConfig([]rules.Controller{c.steers[0], c.steers[1]}), nil
}

func (c *terminalController) WillTick(prev *rules.WorldView) session.TickType {
	if err := c.pacer.Wait(c.ctx); err != nil {
		return session.Break
	}
	switch {
	case prev == nil:
		return session.Initial
	case prev.Alive() == 0:
		return session.Break
	default:
		return session.Common
	}
}

func (c *terminalController) DidTick(view *rules.WorldView) {
	c.send(frameMsg(view.Frame()))
}

func (c *terminalController) End(err error) {
	c.send(endMsg{err: err})
}

// steer maps a key to a snake and direction: WASD for the first snake, the
// arrow keys for the second.
func (c *terminalController) steer(key string) bool {
	var (
		s *agent.Steer
		d game.Direction
	)
	switch key {
	case "w":
		s, d = c.steers[0], game.Up
	case "a":
		s, d = c.steers[0], game.Left
	case "s":
		s, d = c.steers[0], game.Down
	case "d":
		s, d = c.steers[0], game.Right
	case "up":
		s, d = c.steers[1], game.Up
	case "left":
		s, d = c.steers[1], game.Left
	case "down":
		s, d = c.steers[1], game.Down
	case "right":
		s, d = c.steers[1], game.Right
	default:
		return false
	}
	s.Set(d)
	return true
}
