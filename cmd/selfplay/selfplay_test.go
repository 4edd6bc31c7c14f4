package main

import (
	"context"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/brensch/snakeworld/agent"
	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/session"
	"github.com/brensch/snakeworld/store"
)

func TestRunWorker_PlaysBudgetAndArchives(t *testing.T) {
	startedGames.Store(0)
	finishedGames.Store(0)

	dir := t.TempDir()
	sink := store.NewRotatingBatch(dir, 10, nil)
	settings := config.DefaultSettings()
	settings.World = config.World{Width: 20, Height: 16}

	updates := make(chan GameUpdate, 4)
	ctl := &selfplayController{
		settings: settings,
		agents:   3,
		newAgent: func(int) rules.Controller { return agent.Greedy{} },
		maxTicks: 200,
		maxGames: 2,
		rng:      rand.New(rand.NewSource(9)),
		rec:      store.NewRecorder(store.RecorderOptions{Dir: dir, Source: "selfplay", Batch: sink}),
		log:      testLogger(t),
		updates:  updates,
	}

	if err := runWorker(context.Background(), ctl); err != nil {
		t.Fatalf("runWorker: %v", err)
	}
	if finishedGames.Load() != 2 {
		t.Fatalf("finished=%d", finishedGames.Load())
	}
	close(updates)
	rows := 0
	for u := range updates {
		if u.Err != nil {
			t.Fatalf("game failed: %v", u.Err)
		}
		if u.Summary.Ticks > 200 || (len(u.Summary.Survivors) > 1 && u.Summary.Ticks != 200) {
			t.Fatalf("game ended early: %+v", u.Summary)
		}
		t.Logf("%s", describe(u))
		rows += u.Summary.Rows
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "batch_*.parquet"))
	if len(files) != 1 {
		t.Fatalf("batch files=%v", files)
	}
	got, err := store.ReadFramesParquet(files[0])
	if err != nil || len(got) != rows {
		t.Fatalf("read %d rows want %d err=%v", len(got), rows, err)
	}
	events, _ := filepath.Glob(filepath.Join(dir, "events", "*.jsonl.zst"))
	if len(events) != 2 {
		t.Fatalf("event logs=%v", events)
	}
}

func TestSelfplayController_WillTickEndsOnLastSnake(t *testing.T) {
	w, err := rules.New(rules.Config{
		Width: 20, Height: 12, Food: 1,
		Controllers: []rules.Controller{agent.Greedy{}, nil},
	})
	if err != nil {
		t.Fatalf("rules.New: %v", err)
	}
	ctl := &selfplayController{agents: 2}
	if tt := ctl.WillTick(nil); tt != session.Initial {
		t.Fatalf("first tick type=%d", tt)
	}
	v := w.Tick(true)
	if ctl.WillTick(v) == session.Break {
		t.Fatalf("broke with two snakes alive")
	}
	ctl.maxTicks = 1
	if ctl.WillTick(v) != session.Break {
		t.Fatalf("tick limit ignored")
	}
}

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(b []byte) (int, error) {
	w.t.Logf("%s", b)
	return len(b), nil
}
