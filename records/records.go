// Package records stores finished escape-room runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package records

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/nathoo/escapecore/config"
	"github.com/nathoo/escapecore/engine"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02 15:04:05.000"

// Store manages the SQLite database connection for run records.
type Store struct {
	db *sql.DB
}

// Run is one finished play session. Game state itself is never stored.
type Run struct {
	ID        string
	Game      string
	Player    string
	Turns     int
	FinalRoom string
	Escaped   bool
	Duration  time.Duration
	CreatedAt time.Time
}

// FromGame builds the record of a play session that is ending now.
func FromGame(g *engine.Game, player string, started time.Time) Run {
	return Run{
		Game:      g.Defs.Game.Title,
		Player:    player,
		Turns:     g.State.TurnCount,
		FinalRoom: g.State.CurrentRoom(),
		Escaped:   g.Escaped(),
		Duration:  time.Since(started),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("records: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("records: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("records: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("records: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			turns INTEGER NOT NULL,
			final_room TEXT NOT NULL,
			escaped INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game ON runs(game);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(game, escaped, turns, duration_secs);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. Missing ids and timestamps are filled in;
// the stored run is returned.
func (s *Store) SaveRun(run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, game, player, turns, final_room, escaped, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Game, run.Player, run.Turns, run.FinalRoom,
		boolToInt(run.Escaped), int64(run.Duration/time.Second),
		run.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return run, fmt.Errorf("records: cannot save run: %w", err)
	}
	return run, nil
}

// BestRuns returns escaped runs of a game, fewest turns first, then fastest.
func (s *Store) BestRuns(game string, limit int) ([]Run, error) {
	return s.query(
		`SELECT id, game, player, turns, final_room, escaped, duration_secs, created_at
		 FROM runs
		 WHERE game = ? AND escaped = 1
		 ORDER BY turns ASC, duration_secs ASC, created_at ASC
		 LIMIT ?`,
		game, limitOrDefault(limit),
	)
}

// RecentRuns returns the latest runs of a game, escaped or not.
func (s *Store) RecentRuns(game string, limit int) ([]Run, error) {
	return s.query(
		`SELECT id, game, player, turns, final_room, escaped, duration_secs, created_at
		 FROM runs
		 WHERE game = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		game, limitOrDefault(limit),
	)
}

func (s *Store) query(q string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("records: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var escaped int
		var secs int64
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Game, &r.Player, &r.Turns, &r.FinalRoom,
			&escaped, &secs, &createdAt); err != nil {
			return nil, fmt.Errorf("records: cannot scan row: %w", err)
		}
		r.Escaped = escaped != 0
		r.Duration = time.Duration(secs) * time.Second
		if parsed, err := time.Parse(timeLayout, createdAt); err == nil {
			r.CreatedAt = parsed
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: row iteration error: %w", err)
	}
	return runs, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
