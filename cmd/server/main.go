// Command server runs the websocket lobby: every connection to /snake joins
// the next session, steers a snake with direction packets and receives each
// tick as a frame packet.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/logging"
	"github.com/brensch/snakeworld/server"
	"github.com/brensch/snakeworld/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("SNAKE_CONFIG"), "Optional YAML settings file")
	listen := flag.String("listen", "", "Listen address (overrides settings)")
	recordDir := flag.String("record-dir", "", "Record every session under this directory (overrides settings)")
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
	if *listen != "" {
		settings.Server.Listen = *listen
	}
	if *recordDir != "" {
		settings.Record.Dir = *recordDir
	}

	logger, err := logging.New(settings.Log.Format, settings.Log.Level, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	opts := server.Options{Logger: logger}
	if settings.Record.Dir != "" {
		opts.Recorder = store.NewRecorder(store.RecorderOptions{
			Dir:      settings.Record.Dir,
			Source:   "server",
			NoEvents: !settings.Record.Events,
			Logger:   logger,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting lobby",
		"world", [2]int{settings.World.Width, settings.World.Height},
		"food", settings.Food, "cut_tails", settings.CutTails, "max_players", settings.PlayerCap())
	srv, err := server.New(settings, opts)
	if err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	logger.Info("lobby stopped")
}
