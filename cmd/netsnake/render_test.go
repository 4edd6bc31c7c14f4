package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/brensch/snakeworld/wire"
)

func TestRender_PlacesCells(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	var cells []wire.Cell
	for x := uint8(0); x < 4; x++ {
		cells = append(cells, wire.Cell{X: x, Y: 0}, wire.Cell{X: x, Y: 3})
	}
	for y := uint8(1); y < 3; y++ {
		cells = append(cells, wire.Cell{X: 0, Y: y}, wire.Cell{X: 3, Y: y})
	}
	cells = append(cells, wire.Cell{X: 1, Y: 1, Kind: wire.KindSnake}, wire.Cell{X: 2, Y: 2, Kind: wire.KindEat})

	got := render(cells)
	t.Logf("\n%s", got)
	want := strings.Join([]string{"####", "#o #", "# @#", "####"}, "\n") + "\n"
	if got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
}
