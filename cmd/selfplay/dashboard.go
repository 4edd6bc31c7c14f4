package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snakeworld/inference"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	labelStyle = lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("245"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type model struct {
	gamesPlayed int
	failed      int
	rows        int
	moves       int64
	startTime   time.Time
	recentGames []string
	updates     chan GameUpdate
	stats       func() (inference.RuntimeStats, bool)
	runtime     inference.RuntimeStats
	hasRuntime  bool
}

func initialModel(updates chan GameUpdate, stats func() (inference.RuntimeStats, bool)) model {
	return model{
		startTime: time.Now(),
		updates:   updates,
		stats:     stats,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickCmd())
}

func waitForUpdate(updates chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.moves = totalMoves.Load()
		if m.stats != nil {
			m.runtime, m.hasRuntime = m.stats()
		}
		return m, tickCmd()
	case GameUpdate:
		m.gamesPlayed++
		line := describe(msg)
		if msg.Err != nil {
			m.failed++
			line = errStyle.Render(line)
		}
		m.rows += msg.Summary.Rows
		m.recentGames = append([]string{line}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

func describe(u GameUpdate) string {
	if u.Err != nil {
		return fmt.Sprintf("Worker %d: failed: %v", u.WorkerID, u.Err)
	}
	winner := "none"
	if w := u.Winner(); w >= 0 {
		winner = fmt.Sprintf("snake %d", w)
	}
	return fmt.Sprintf("Worker %d: Winner %s, Ticks %d, Rows %d", u.WorkerID, winner, u.Summary.Ticks, u.Summary.Rows)
}

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	movesPerSec := float64(m.moves) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
		movesPerSec = 0
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("snakeworld selfplay") + "\n\n")
	line := func(label, value string) {
		sb.WriteString(labelStyle.Render(label) + value + "\n")
	}
	line("Games Played:", fmt.Sprintf("%d (%d failed)", m.gamesPlayed, m.failed))
	line("Rows Recorded:", fmt.Sprintf("%d", m.rows))
	line("Total Moves:", fmt.Sprintf("%d", m.moves))
	line("Duration:", duration.Round(time.Second).String())
	line("Games/Sec:", fmt.Sprintf("%.2f", gamesPerSec))
	line("Moves/Sec:", fmt.Sprintf("%.2f", movesPerSec))
	if m.hasRuntime {
		line("Inference Batch:", fmt.Sprintf("avg %.1f last %d queue %d run %.2fms",
			m.runtime.AvgBatchSize, m.runtime.LastBatchSize, m.runtime.QueueLen, m.runtime.AvgRunMs))
	}

	sb.WriteString("\nRecent Games:\n")
	for _, g := range m.recentGames {
		sb.WriteString(g + "\n")
	}
	sb.WriteString("\nPress q to quit.\n")
	return sb.String()
}
