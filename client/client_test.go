package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/server"
	"github.com/brensch/snakeworld/wire"
)

func TestClient_PlaysASession(t *testing.T) {
	settings := config.DefaultSettings()
	settings.World = config.World{Width: 16, Height: 10}
	settings.TailSize = 1
	settings.TickDelay = 5 * time.Millisecond

	srv, err := server.New(settings, server.Options{})
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunGames(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	cfg := DefaultConfig()
	cfg.URL = "ws" + strings.TrimPrefix(ts.URL, "http") + "/snake"
	cfg.ReadTimeout = 5 * time.Second
	c, err := Dial(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Steer(game.Down, true); err != nil {
		t.Fatalf("Steer: %v", err)
	}
	for {
		p, err := c.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if p.Reset {
			break
		}
		if w, h := Bounds(p.Cells); w != 16 || h != 10 {
			t.Fatalf("bounds=%dx%d", w, h)
		}
		if c.Stats().Frames > 100 {
			t.Fatalf("session never ended")
		}
	}
	st := c.Stats()
	if st.Frames < 2 || st.Resets != 1 || st.Sent != 1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestBounds(t *testing.T) {
	cells := []wire.Cell{{X: 0, Y: 0}, {X: 11, Y: 0}, {X: 0, Y: 7}, {X: 20, Y: 30, Kind: wire.KindEat}}
	if w, h := Bounds(cells); w != 12 || h != 8 {
		t.Fatalf("bounds=%dx%d", w, h)
	}
}
