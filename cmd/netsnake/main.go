// Command netsnake plays on a lobby server from the terminal. WASD or the
// arrow keys steer, space clears the requested direction, and Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snakeworld/client"
	"github.com/brensch/snakeworld/game"
	"github.com/brensch/snakeworld/wire"
)

var (
	kindStyles = map[wire.Kind]lipgloss.Style{
		wire.KindBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		wire.KindSnake:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		wire.KindEat:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
	kindGlyphs  = map[wire.Kind]string{wire.KindBorder: "#", wire.KindSnake: "o", wire.KindEat: "@"}
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type packetMsg client.Packet

type errMsg struct{ err error }

type model struct {
	c      *client.Client
	cells  []wire.Cell
	resets int
	err    error
}

func (m model) Init() tea.Cmd {
	return next(m.c)
}

func next(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		p, err := c.Next()
		if err != nil {
			return errMsg{err}
		}
		return packetMsg(p)
	}
}

var keyDirections = map[string]game.Direction{
	"w": game.Up, "up": game.Up,
	"a": game.Left, "left": game.Left,
	"s": game.Down, "down": game.Down,
	"d": game.Right, "right": game.Right,
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch {
		case key == "esc" || key == "ctrl+c":
			return m, tea.Quit
		case key == " ":
			m.err = m.c.Steer(game.Right, false)
		default:
			if d, ok := keyDirections[key]; ok {
				m.err = m.c.Steer(d, true)
			}
		}
	case packetMsg:
		if msg.Reset {
			m.resets++
			m.cells = nil
		} else {
			m.cells = msg.Cells
		}
		return m, next(m.c)
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	if m.cells == nil {
		sb.WriteString("waiting for the next session...\n")
	} else {
		sb.WriteString(render(m.cells))
	}
	st := m.c.Stats()
	status := fmt.Sprintf("frames %d  sessions ended %d  esc quits", st.Frames, m.resets)
	if m.err != nil {
		status += "  error: " + m.err.Error()
	}
	sb.WriteString(statusStyle.Render(status))
	return sb.String()
}

// render draws frame cells; the world size comes from the border.
func render(cells []wire.Cell) string {
	w, h := client.Bounds(cells)
	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}
	for _, c := range cells {
		if int(c.X) < w && int(c.Y) < h {
			grid[c.Y][c.X] = kindStyles[c.Kind].Render(kindGlyphs[c.Kind])
		}
	}
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.Join(row, ""))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func main() {
	cfg := client.DefaultConfig()
	flag.StringVar(&cfg.URL, "url", cfg.URL, "Lobby websocket URL")
	flag.DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "Handshake timeout")
	flag.Parse()

	c, err := client.Dial(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to join lobby: %v", err)
	}
	defer c.Close()

	final, err := tea.NewProgram(model{c: c}, tea.WithAltScreen()).Run()
	if err != nil {
		log.Fatalf("Terminal UI failed: %v", err)
	}
	if m, ok := final.(model); ok && m.err != nil && !errors.Is(m.err, client.ErrClosed) {
		fmt.Fprintf(os.Stderr, "disconnected: %v\n", m.err)
		os.Exit(1)
	}
}
