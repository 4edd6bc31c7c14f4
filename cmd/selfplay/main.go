// Command selfplay plays headless AI games on a pool of workers and archives
// every tick to parquet batches for training and analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/snakeworld/agent"
	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/inference"
	"github.com/brensch/snakeworld/logging"
	"github.com/brensch/snakeworld/rules"
	"github.com/brensch/snakeworld/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("SNAKE_CONFIG"), "Optional YAML settings file")
	outDir := flag.String("out-dir", "data/selfplay", "Output directory for parquet batches and event logs")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of self-play workers")
	agents := flag.Int("agents", 4, "Snakes per game")
	agentKind := flag.String("agent", "greedy", "Agent type: greedy or policy")
	modelPath := flag.String("model", "models/snake_policy.onnx", "ONNX policy model used by -agent=policy")
	gamesPerFlush := flag.Int("games-per-flush", 50, "Number of games per parquet batch file")
	maxGames := flag.Int64("max-games", 0, "If > 0, stop after this many games across all workers")
	maxTicks := flag.Int("max-ticks", 2000, "End a game after this many ticks (0 = no limit)")
	events := flag.Bool("events", false, "Also write a zstd event log per game")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for food placement")
	tui := flag.Bool("tui", false, "Show the live dashboard instead of periodic log lines")
	onnxSessions := flag.Int("onnx-sessions", 1, "Number of ONNX Runtime sessions to run in parallel")
	onnxBatchSize := flag.Int("onnx-batch-size", inference.DefaultBatchSize, "ONNX inference batch size")
	onnxBatchTimeout := flag.Duration("onnx-batch-timeout", inference.DefaultBatchTimeout, "Max time to wait for filling an ONNX batch")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = s
	}
	settings.ApplyEnv()
	if err := settings.Check(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	if *agents > settings.PlayerCap() {
		log.Fatalf("%d agents do not fit a world %d high (max %d)", *agents, settings.World.Height, settings.PlayerCap())
	}

	// Keep the terminal for the dashboard.
	var logOut io.Writer = os.Stderr
	if *tui {
		f, err := os.OpenFile("selfplay.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(settings.Log.Format, settings.Log.Level, logOut)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	newAgent, stats, closeAgents := buildAgents(*agentKind, *modelPath, inference.OnnxClientConfig{
		BatchSize:    *onnxBatchSize,
		BatchTimeout: *onnxBatchTimeout,
		Logger:       logger,
	}, *onnxSessions, logger)
	defer closeAgents()

	sink := store.NewRotatingBatch(*outDir, *gamesPerFlush, func(f store.Flush) {
		logger.Info("parquet flush ok", "path", f.Path, "games", f.Games, "rows", f.Rows)
	})

	updates := make(chan GameUpdate, *workers)
	g, gctx := errgroup.WithContext(ctx)
	root := rand.New(rand.NewSource(*seed))
	logger.Info("starting self-play", "workers", *workers, "agents", *agents, "agent", *agentKind, "seed", *seed)
	for i := 0; i < *workers; i++ {
		ctl := &selfplayController{
			id:       i,
			settings: settings,
			agents:   *agents,
			newAgent: newAgent,
			maxTicks: *maxTicks,
			maxGames: *maxGames,
			rng:      rand.New(rand.NewSource(root.Int63())),
			rec: store.NewRecorder(store.RecorderOptions{
				Dir:      *outDir,
				Source:   "selfplay",
				Batch:    sink,
				NoEvents: !*events,
				Logger:   logger.With("worker", i),
			}),
			log:     logger,
			updates: updates,
		}
		g.Go(func() error { return runWorker(gctx, ctl) })
	}

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
		cancel()
	}()

	if *tui {
		p := tea.NewProgram(initialModel(updates, stats), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logger.Error("dashboard failed", "error", err)
		}
		cancel()
	} else {
		logProgress(ctx, logger, updates, stats)
	}

	if err := <-workersDone; err != nil {
		logger.Error("worker failed", "error", err)
	}
	if err := sink.Close(); err != nil {
		log.Fatalf("Parquet final flush failed: %v", err)
	}
	logger.Info("shutdown complete", "games", finishedGames.Load(), "moves", totalMoves.Load())
}

// buildAgents returns the agent factory, an optional inference stats source,
// and a cleanup func.
func buildAgents(kind, modelPath string, cfg inference.OnnxClientConfig, sessions int, logger *slog.Logger) (func(int) rules.Controller, func() (inference.RuntimeStats, bool), func()) {
	switch kind {
	case "greedy":
		return func(int) rules.Controller { return agent.Greedy{} }, nil, func() {}
	case "policy":
		if _, err := os.Stat(modelPath); err != nil {
			log.Fatalf("Model file not found: %s", modelPath)
		}
		pool, err := inference.NewOnnxClientPool(modelPath, sessions, cfg)
		if err != nil {
			log.Fatalf("Failed to create ONNX client pool: %v", err)
		}
		ctl := inference.NewController(pool, logger)
		return func(int) rules.Controller { return ctl },
			func() (inference.RuntimeStats, bool) { return pool.Stats(), true },
			func() { _ = pool.Close() }
	}
	log.Fatalf("unknown agent type %q", kind)
	return nil, nil, nil
}

func logProgress(ctx context.Context, logger *slog.Logger, updates <-chan GameUpdate, stats func() (inference.RuntimeStats, bool)) {
	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-updates:
			logger.Debug(describe(u))
		case <-ticker.C:
			secs := time.Since(startTime).Seconds()
			args := []any{
				"games", finishedGames.Load(),
				"moves_per_sec", fmt.Sprintf("%.2f", float64(totalMoves.Load())/secs),
			}
			if stats != nil {
				if st, ok := stats(); ok {
					args = append(args, "batch_avg", st.AvgBatchSize, "queue", st.QueueLen, "run_ms", st.AvgRunMs)
				}
			}
			logger.Info("stats", args...)
		}
	}
}
