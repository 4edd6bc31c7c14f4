// Package board turns a rules.Frame into a character grid for terminals and
// test logs.
package board

import (
	"strings"

	"github.com/brensch/snakeworld/rules"
)

// Kind is what a board cell shows.
type Kind uint8

const (
	Empty Kind = iota
	Border
	Food
	Body
	Head
)

// Cell is one board square. Agent is set for Body and Head.
type Cell struct {
	Kind  Kind
	Agent int
}

// Grid lays a frame out as rows of cells. Snakes are drawn over food, and
// heads over bodies.
func Grid(f *rules.Frame) [][]Cell {
	grid := make([][]Cell, f.Height)
	for y := range grid {
		grid[y] = make([]Cell, f.Width)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == f.Width-1 || y == f.Height-1 {
				grid[y][x].Kind = Border
			}
		}
	}
	put := func(x, y int, c Cell) {
		if x >= 0 && y >= 0 && x < f.Width && y < f.Height {
			grid[y][x] = c
		}
	}
	for _, p := range f.Food {
		put(int(p.X), int(p.Y), Cell{Kind: Food})
	}
	for _, s := range f.Snakes {
		for i := len(s.Body) - 1; i >= 1; i-- {
			put(int(s.Body[i].X), int(s.Body[i].Y), Cell{Kind: Body, Agent: s.ID})
		}
	}
	for _, s := range f.Snakes {
		if len(s.Body) > 0 {
			put(int(s.Body[0].X), int(s.Body[0].Y), Cell{Kind: Head, Agent: s.ID})
		}
	}
	return grid
}

// snakeGlyphs are the characters for agents 0, 1, ... Heads use the upper
// case form where one exists.
const snakeGlyphs = "oxsz+%&$"

// Glyph is the plain character for a cell: '#' border, '@' food, and a
// per-agent letter for snakes.
func Glyph(c Cell) rune {
	switch c.Kind {
	case Border:
		return '#'
	case Food:
		return '@'
	case Body, Head:
		g := rune(snakeGlyphs[c.Agent%len(snakeGlyphs)])
		if c.Kind == Head && g >= 'a' && g <= 'z' {
			g -= 'a' - 'A'
		}
		return g
	}
	return ' '
}

// Text renders a frame with Glyph, one line per row.
func Text(f *rules.Frame) string {
	var sb strings.Builder
	sb.Grow((f.Width + 1) * f.Height)
	for _, row := range Grid(f) {
		for _, c := range row {
			sb.WriteRune(Glyph(c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
