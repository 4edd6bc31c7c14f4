package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// openFrames opens an in-memory DuckDB with a frames view over every parquet
// file under roots. Files still under a tmp/ directory are skipped.
func openFrames(roots []string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	_, _ = db.Exec("PRAGMA threads=4")

	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		globs = append(globs, "'"+escapeSQLString(filepath.Join(root, "**", "*.parquet"))+"'")
	}
	if len(globs) == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("no data roots given")
	}

	sqlText := `CREATE OR REPLACE VIEW frames AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT regexp_matches(filename, '[/\\]tmp[/\\][^/\\]+\.parquet$')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create frames view: %w", err)
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// GameStats is one recorded game.
type GameStats struct {
	GameID    string
	Source    string
	Ticks     int
	Width     int
	Height    int
	Agents    int
	Longest   int
	Survivors int
}

const gamesQuery = `WITH snakes AS (
		SELECT game_id, tick, unnest(snakes) AS s
		FROM frames
	),
	lengths AS (
		SELECT game_id, COUNT(DISTINCT s.agent)::INTEGER AS agents, MAX(len(s.body_x))::INTEGER AS longest
		FROM snakes
		GROUP BY game_id
	),
	games AS (
		SELECT
			game_id,
			MIN(source)::VARCHAR AS source,
			MAX(tick)::INTEGER AS ticks,
			MIN(width)::INTEGER AS width,
			MIN(height)::INTEGER AS height,
			arg_max(len(snakes), tick)::INTEGER AS survivors
		FROM frames
		GROUP BY game_id
	)
	SELECT g.game_id, g.source, g.ticks, g.width, g.height,
		COALESCE(l.agents, 0), COALESCE(l.longest, 0), g.survivors
	FROM games g
	LEFT JOIN lengths l ON g.game_id = l.game_id
	ORDER BY g.ticks DESC, g.game_id
	LIMIT ?`

func queryGames(ctx context.Context, db *sql.DB, limit int) ([]GameStats, error) {
	rows, err := db.QueryContext(ctx, gamesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []GameStats
	for rows.Next() {
		var g GameStats
		if err := rows.Scan(&g.GameID, &g.Source, &g.Ticks, &g.Width, &g.Height, &g.Agents, &g.Longest, &g.Survivors); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Totals summarises everything under the roots.
type Totals struct {
	Games    int
	Frames   int
	AvgTicks float64
	Longest  int
}

func queryTotals(ctx context.Context, db *sql.DB) (Totals, error) {
	var t Totals
	err := db.QueryRowContext(ctx, `SELECT
			COUNT(DISTINCT game_id)::INTEGER,
			COUNT(*)::INTEGER,
			COALESCE((SELECT AVG(m) FROM (SELECT MAX(tick) AS m FROM frames GROUP BY game_id)), 0)::DOUBLE,
			COALESCE((SELECT MAX(len(s.body_x)) FROM (SELECT unnest(snakes) AS s FROM frames)), 0)::INTEGER
		FROM frames`).Scan(&t.Games, &t.Frames, &t.AvgTicks, &t.Longest)
	if err != nil {
		return t, fmt.Errorf("query totals: %w", err)
	}
	return t, nil
}

// DeathCount is how often snakes died in one game, read from event logs.
type DeathCount struct {
	GameID string
	Deaths int
	Eaten  int
}

// queryEvents reads the zstd event logs under roots.
func queryEvents(ctx context.Context, db *sql.DB, roots []string, limit int) ([]DeathCount, error) {
	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		globs = append(globs, "'"+escapeSQLString(filepath.Join(root, "events", "*.jsonl.zst"))+"'")
	}
	q := `SELECT game_id,
			COUNT(*) FILTER (WHERE kind = 'did_die')::INTEGER,
			COUNT(*) FILTER (WHERE kind = 'did_eat' AND good)::INTEGER
		FROM read_json([` + strings.Join(globs, ",") + `], format='newline_delimited', compression='zstd',
			columns={game_id: 'VARCHAR', tick: 'INTEGER', kind: 'VARCHAR', agent: 'INTEGER', good: 'BOOLEAN'})
		GROUP BY game_id
		ORDER BY 2 DESC, game_id
		LIMIT ?`
	rows, err := db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []DeathCount
	for rows.Next() {
		var d DeathCount
		if err := rows.Scan(&d.GameID, &d.Deaths, &d.Eaten); err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
