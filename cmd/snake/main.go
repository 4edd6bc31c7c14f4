// Command snake is the two-player terminal game. WASD steers the first snake,
// the arrow keys steer the second, and Esc quits. Tails are cut on a bite
// rather than killing the biter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snakeworld/config"
	"github.com/brensch/snakeworld/logging"
	"github.com/brensch/snakeworld/session"
)

func main() {
	configPath := flag.String("config", os.Getenv("SNAKE_CONFIG"), "Optional YAML settings file")
	fit := flag.Bool("fit", true, "Size the world to the terminal instead of the configured world size")
	logPath := flag.String("log-file", "snake.log", "Where to write logs; the terminal belongs to the game")
	flag.Parse()

	settings := config.DefaultSettings()
	settings.CutTails = true
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = s
	}
	settings.ApplyEnv()

	f, err := os.OpenFile(*logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()
	logger, err := logging.New(settings.Log.Format, settings.Log.Level, f)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := newTermSize()
	var p *tea.Program
	ctl := newTerminalController(settings, *fit, size, func(msg tea.Msg) { p.Send(msg) })
	p = tea.NewProgram(model{ctl: ctl, size: size, cancel: cancel}, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan error, 1)
	go func() {
		err := session.New(ctl, logger).Run(ctx)
		p.Quit()
		done <- err
	}()

	final, err := p.Run()
	cancel()
	runErr := <-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Fatalf("Terminal UI failed: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatalf("Game failed: %v", runErr)
	}

	m, _ := final.(model)
	if m.err != nil {
		fmt.Fprintf(os.Stderr, "could not start game: %v\n", m.err)
		os.Exit(1)
	}
	if m.frame != nil {
		fmt.Println(status(m.frame))
	}
}
