package main

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/store"
)

type fixed game.Direction

func (f fixed) WillMove(*rules.SnakeInfo, *rules.WorldView) game.Direction {
	return game.Direction(f)
}

// recordGame plays two snakes Right into the far border.
func recordGame(t *testing.T, dir string) store.GameSummary {
	t.Helper()
	rec := store.NewRecorder(store.RecorderOptions{Dir: dir, Source: "test"})
	if _, err := rec.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	w, err := rules.New(rules.Config{
		Width: 14, Height: 10, Food: 1, TailSize: 2,
		Controllers: []rules.Controller{fixed(game.Right), fixed(game.Right)},
		OnEvent:     rec.ObserveEvent,
		Rand:        rand.New(rand.NewSource(5)),
	})
	if err != nil {
		t.Fatalf("rules.New: %v", err)
	}
	v := w.Tick(true)
	rec.RecordTick(v)
	for v.Alive() > 0 {
		v = w.Tick(false)
		rec.RecordTick(v)
	}
	sum, err := rec.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return sum
}

func TestQueries_RecordedGames(t *testing.T) {
	dir := t.TempDir()
	a := recordGame(t, dir)
	recordGame(t, dir)

	db, err := openFrames([]string{dir})
	if err != nil {
		t.Fatalf("openFrames: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	totals, err := queryTotals(ctx, db)
	if err != nil {
		t.Fatalf("queryTotals: %v", err)
	}
	if totals.Games != 2 || totals.Frames != 2*a.Rows || totals.Longest < 3 {
		t.Fatalf("totals=%+v summary=%+v", totals, a)
	}

	games, err := queryGames(ctx, db, 10)
	if err != nil {
		t.Fatalf("queryGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games=%+v", games)
	}
	for _, g := range games {
		if g.Source != "test" || g.Agents != 2 || g.Survivors != 0 || g.Width != 14 || g.Ticks != a.Ticks {
			t.Fatalf("game=%+v", g)
		}
	}

	deaths, err := queryEvents(ctx, db, []string{dir}, 10)
	if err != nil {
		t.Fatalf("queryEvents: %v", err)
	}
	if len(deaths) != 2 || deaths[0].Deaths != 2 {
		t.Fatalf("deaths=%+v", deaths)
	}
}

func TestOpenFrames_SkipsStagedBatches(t *testing.T) {
	// t.TempDir lives under the system temp dir, which must not count as a
	// staging directory itself.
	dir := t.TempDir()
	sum := recordGame(t, dir)

	rows, err := store.ReadFramesParquet(sum.FramesPath)
	if err != nil {
		t.Fatalf("ReadFramesParquet: %v", err)
	}
	for i := range rows {
		rows[i].GameID = "staged"
	}
	if err := store.WriteFramesParquet(filepath.Join(dir, "tmp", "batch_staged.parquet"), rows); err != nil {
		t.Fatalf("WriteFramesParquet: %v", err)
	}

	db, err := openFrames([]string{dir})
	if err != nil {
		t.Fatalf("openFrames: %v", err)
	}
	defer db.Close()
	totals, err := queryTotals(context.Background(), db)
	if err != nil {
		t.Fatalf("queryTotals: %v", err)
	}
	if totals.Games != 1 || totals.Frames != sum.Rows {
		t.Fatalf("totals=%+v want only game %s", totals, sum.GameID)
	}
}

func TestOpenFrames_NoRoots(t *testing.T) {
	if _, err := openFrames([]string{" "}); err == nil {
		t.Fatalf("opened without roots")
	}
}
