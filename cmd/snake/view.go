package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snakeworld/board"
	"github.com/brensch/snakeworld/rules"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	foodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	snakeStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	ctl    *terminalController
	size   *termSize
	cancel func()

	frame  *rules.Frame
	err    error
	ended  bool
	width  int
	height int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.size.set(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		default:
			m.ctl.steer(msg.String())
		}
	case frameMsg:
		f := rules.Frame(msg)
		m.frame = &f
	case endMsg:
		m.err, m.ended = msg.err, true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.frame == nil {
		return "waiting for the first tick...\n"
	}
	var sb strings.Builder
	sb.WriteString(renderBoard(m.frame))
	sb.WriteString(statusStyle.Render(status(m.frame)))
	return sb.String()
}

func styleFor(c board.Cell) lipgloss.Style {
	switch c.Kind {
	case board.Border:
		return borderStyle
	case board.Food:
		return foodStyle
	case board.Body, board.Head:
		st := snakeStyles[c.Agent%len(snakeStyles)]
		if c.Kind == board.Head {
			st = st.Bold(true)
		}
		return st
	}
	return lipgloss.NewStyle()
}

// renderBoard styles runs of equal cells together to keep escape codes down.
func renderBoard(f *rules.Frame) string {
	var sb strings.Builder
	for _, row := range board.Grid(f) {
		for i := 0; i < len(row); {
			j := i
			var run strings.Builder
			for j < len(row) && row[j] == row[i] {
				run.WriteRune(board.Glyph(row[j]))
				j++
			}
			if row[i].Kind == board.Empty {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(styleFor(row[i]).Render(run.String()))
			}
			i = j
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func status(f *rules.Frame) string {
	parts := []string{fmt.Sprintf("tick %d", f.Tick)}
	for id, keys := range []string{"wasd", "arrows"} {
		if s, ok := f.Snake(id); ok {
			parts = append(parts, fmt.Sprintf("%s: %d", keys, len(s.Body)))
		} else {
			parts = append(parts, keys+": dead")
		}
	}
	parts = append(parts, "esc quits")
	return strings.Join(parts, "  |  ")
}
