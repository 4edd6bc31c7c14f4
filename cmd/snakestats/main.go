// Command snakestats summarises recorded games with DuckDB: per-game ticks,
// longest snake and survivors from the parquet frames, and deaths from the
// event logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func main() {
	data := flag.String("data", "data", "Comma-separated directories holding recorded games")
	limit := flag.Int("limit", 20, "Number of games to list")
	events := flag.Bool("events", false, "Also summarise the event logs")
	flag.Parse()

	roots := strings.Split(*data, ",")
	db, err := openFrames(roots)
	if err != nil {
		log.Fatalf("Failed to open frames: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	totals, err := queryTotals(ctx, db)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("games %d  frames %d  avg ticks %.1f  longest snake %d\n\n",
		totals.Games, totals.Frames, totals.AvgTicks, totals.Longest)

	games, err := queryGames(ctx, db, *limit)
	if err != nil {
		log.Fatalf("%v", err)
	}
	t := newTable("game", "source", "ticks", "size", "agents", "longest", "survivors")
	for _, g := range games {
		t.Row(g.GameID, g.Source, strconv.Itoa(g.Ticks), fmt.Sprintf("%dx%d", g.Width, g.Height),
			strconv.Itoa(g.Agents), strconv.Itoa(g.Longest), strconv.Itoa(g.Survivors))
	}
	fmt.Println(t.Render())

	if !*events {
		return
	}
	deaths, err := queryEvents(ctx, db, roots, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "event logs: %v\n", err)
		os.Exit(1)
	}
	t = newTable("game", "deaths", "food eaten")
	for _, d := range deaths {
		t.Row(d.GameID, strconv.Itoa(d.Deaths), strconv.Itoa(d.Eaten))
	}
	fmt.Println(t.Render())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
