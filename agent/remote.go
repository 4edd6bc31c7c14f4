package agent

import (
	"log/slog"
	"sync"
	"time"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
)

// MoveRequest asks a remote agent for its next direction. Frame is a detached
// copy of the world, so the agent may keep it after replying.
type MoveRequest struct {
	Agent int
	Frame rules.Frame
	reply chan game.Direction
}

// Reply answers the request. Only the first reply counts; later ones and
// replies after the pipeline gave up are dropped.
func (r MoveRequest) Reply(d game.Direction) {
	select {
	case r.reply <- d:
	default:
	}
}

// Notice is a lifecycle event delivered to a remote agent.
type Notice struct {
	Kind  rules.EventKind
	Agent int
	Good  bool
	Frame rules.Frame
}

// RemoteOptions configures a Remote.
type RemoteOptions struct {
	// Timeout bounds how long WillMove waits for a reply. Zero waits until the
	// agent replies or the Remote is closed.
	Timeout time.Duration
	// NoticeBuffer is the capacity of the notice channel. Notices that do not
	// fit are dropped.
	NoticeBuffer int
	Logger       *slog.Logger
}

// Remote proxies an agent that lives on another goroutine. The pipeline sends
// a MoveRequest and blocks for the reply; the agent reads Requests and answers
// each one. Lifecycle events go out on Notices without blocking the tick.
//
// When no reply arrives (timeout or Close) the snake keeps its committed
// direction, or goes Right if it has none.
type Remote struct {
	requests chan MoveRequest
	notices  chan Notice
	done     chan struct{}
	once     sync.Once
	timeout  time.Duration
	log      *slog.Logger
}

func NewRemote(opts RemoteOptions) *Remote {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.NoticeBuffer <= 0 {
		opts.NoticeBuffer = 64
	}
	return &Remote{
		requests: make(chan MoveRequest),
		notices:  make(chan Notice, opts.NoticeBuffer),
		done:     make(chan struct{}),
		timeout:  opts.Timeout,
		log:      log,
	}
}

func (r *Remote) Requests() <-chan MoveRequest { return r.requests }
func (r *Remote) Notices() <-chan Notice       { return r.notices }

// Close releases any pending and future WillMove calls. It is safe to call
// more than once.
func (r *Remote) Close() {
	r.once.Do(func() { close(r.done) })
}

func fallback(info *rules.SnakeInfo) game.Direction {
	if d, ok := info.Direction(); ok {
		return d
	}
	return game.Right
}

func (r *Remote) WillMove(info *rules.SnakeInfo, view *rules.WorldView) game.Direction {
	req := MoveRequest{Agent: info.ID(), Frame: view.Frame(), reply: make(chan game.Direction, 1)}

	var timeout <-chan time.Time
	if r.timeout > 0 {
		t := time.NewTimer(r.timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case r.requests <- req:
	case <-r.done:
		return fallback(info)
	case <-timeout:
		r.log.Warn("remote agent did not take move request", "agent", info.ID(), "tick", req.Frame.Tick)
		return fallback(info)
	}

	select {
	case d := <-req.reply:
		return d
	case <-r.done:
		return fallback(info)
	case <-timeout:
		r.log.Warn("remote agent did not reply", "agent", info.ID(), "tick", req.Frame.Tick)
		return fallback(info)
	}
}

func (r *Remote) Observe(ev rules.Event) {
	n := Notice{Kind: ev.Kind, Agent: ev.Agent, Good: ev.Good, Frame: ev.View.Frame()}
	select {
	case r.notices <- n:
	default:
		r.log.Debug("dropping notice", "agent", ev.Agent, "kind", ev.Kind)
	}
}
