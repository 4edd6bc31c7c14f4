// Command replay prints a recorded game tick by tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/brensch/snakeworld/board"
	"github.com/brensch/snakeworld/store"
)

func main() {
	file := flag.String("file", "", "Parquet file holding the game (a per-game file or a batch)")
	gameID := flag.String("game", "", "Game to replay; defaults to the first game in the file")
	delay := flag.Duration("delay", 150*time.Millisecond, "Pause between ticks (0 prints them all at once)")
	flag.Parse()

	if *file == "" {
		log.Fatalf("-file is required")
	}
	rows, err := store.ReadFramesParquet(*file)
	if err != nil {
		log.Fatalf("Failed to read game: %v", err)
	}
	rows = selectGame(rows, *gameID)
	if len(rows) == 0 {
		log.Fatalf("No frames for game %q in %s", *gameID, *file)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := replay(ctx, os.Stdout, rows, *delay); err != nil {
		log.Fatalf("%v", err)
	}
}

// selectGame keeps the rows of one game ordered by tick. An empty id picks
// the first game in the file.
func selectGame(rows []store.FrameRow, id string) []store.FrameRow {
	if id == "" && len(rows) > 0 {
		id = rows[0].GameID
	}
	var out []store.FrameRow
	for _, r := range rows {
		if r.GameID == id {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

func replay(ctx context.Context, w io.Writer, rows []store.FrameRow, delay time.Duration) error {
	fmt.Fprintf(w, "game %s (%s) %dx%d cut_tails=%v, %d ticks\n",
		rows[0].GameID, rows[0].Source, rows[0].Width, rows[0].Height, rows[0].CutTails, len(rows))
	for _, r := range rows {
		f := r.Frame()
		fmt.Fprintf(w, "\n=== Tick %d | %d alive ===\n", f.Tick, len(f.Snakes))
		for _, s := range f.Snakes {
			dir := "none"
			if s.HasDirection {
				dir = s.Direction.String()
			}
			fmt.Fprintf(w, "  snake %d: length %d heading %s\n", s.ID, len(s.Body), dir)
		}
		fmt.Fprint(w, board.Text(&f))

		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
