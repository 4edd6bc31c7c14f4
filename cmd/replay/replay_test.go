package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/store"
)

func frame(tick int, head game.Point) rules.Frame {
	return rules.Frame{
		Tick: tick, Width: 10, Height: 10,
		Snakes: []rules.FrameSnake{{ID: 0, Body: []game.Point{head}, Direction: game.Right, HasDirection: tick > 1}},
	}
}

func TestSelectGame_FiltersAndOrders(t *testing.T) {
	rows := []store.FrameRow{
		store.RowFromFrame("a", "test", frame(2, game.Pt(4, 4))),
		store.RowFromFrame("b", "test", frame(1, game.Pt(2, 2))),
		store.RowFromFrame("a", "test", frame(1, game.Pt(3, 4))),
	}
	got := selectGame(rows, "")
	if len(got) != 2 || got[0].Tick != 1 || got[1].Tick != 2 || got[0].GameID != "a" {
		t.Fatalf("rows=%+v", got)
	}
	if got := selectGame(rows, "b"); len(got) != 1 {
		t.Fatalf("rows=%+v", got)
	}
	if got := selectGame(rows, "zzz"); len(got) != 0 {
		t.Fatalf("rows=%+v", got)
	}
}

func TestReplay_PrintsBoards(t *testing.T) {
	rows := []store.FrameRow{
		store.RowFromFrame("a", "test", frame(1, game.Pt(3, 4))),
		store.RowFromFrame("a", "test", frame(2, game.Pt(4, 4))),
	}
	var buf bytes.Buffer
	if err := replay(context.Background(), &buf, rows, 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	out := buf.String()
	t.Logf("\n%s", out)
	if strings.Count(out, "=== Tick") != 2 || !strings.Contains(out, "heading none") || !strings.Contains(out, "heading right") {
		t.Fatalf("unexpected output")
	}
	if !strings.Contains(out, "#   O    #") {
		t.Fatalf("head missing from tick 2 board")
	}
}
