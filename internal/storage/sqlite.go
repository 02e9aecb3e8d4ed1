// Package storage provides SQLite-based persistence for effect sessions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session telemetry.
// It is safe for concurrent use; SSH sessions share one store.
type Store struct {
	db *sql.DB
}

// Session is one recorded run of an effect.
type Session struct {
	ID            int64
	EffectID      string
	User          string // SSH user, or "local"
	Duration      time.Duration
	Frames        int
	CometsSpawned int
	Explosions    int
	PeakScale     float64
	CreatedAt     time.Time
}

// EffectSummary aggregates every session of one effect.
type EffectSummary struct {
	EffectID        string
	Sessions        int
	TotalTime       time.Duration
	LongestRun      time.Duration
	TotalFrames     int64
	TotalComets     int64
	TotalExplosions int64
	PeakScale       float64
	LastPlayed      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// One connection: SQLite allows a single writer at a time
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			effect_id TEXT NOT NULL,
			user TEXT NOT NULL DEFAULT 'local',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			comets_spawned INTEGER NOT NULL DEFAULT 0,
			explosions INTEGER NOT NULL DEFAULT 0,
			peak_scale REAL NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_effect_id ON sessions(effect_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
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

// SaveSession records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(sess Session) (int64, error) {
	if sess.EffectID == "" {
		return 0, errors.New("storage: session has no effect id")
	}
	if sess.User == "" {
		sess.User = "local"
	}
	result, err := s.db.Exec(
		`INSERT INTO sessions
		 (effect_id, user, duration_ms, frames, comets_spawned, explosions, peak_scale)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.EffectID, sess.User, sess.Duration.Milliseconds(),
		sess.Frames, sess.CometsSpawned, sess.Explosions, sess.PeakScale,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const sessionColumns = `id, effect_id, user, duration_ms, frames, comets_spawned, explosions, peak_scale, created_at`

// RecentSessions retrieves the most recent sessions across all effects.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
}

// EffectSessions retrieves the most recent sessions of one effect.
func (s *Store) EffectSessions(effectID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE effect_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		effectID, limit,
	)
}

func (s *Store) querySessions(query string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.EffectID, &sess.User, &durationMS,
			&sess.Frames, &sess.CometsSpawned, &sess.Explosions, &sess.PeakScale, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ClearSessions deletes all sessions of the given effect.
func (s *Store) ClearSessions(effectID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE effect_id = ?", effectID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

const summaryColumns = `COUNT(*), COALESCE(SUM(duration_ms), 0), COALESCE(MAX(duration_ms), 0),
	COALESCE(SUM(frames), 0), COALESCE(SUM(comets_spawned), 0), COALESCE(SUM(explosions), 0),
	COALESCE(MAX(peak_scale), 0), MAX(created_at)`

// EffectStats retrieves aggregated statistics for one effect.
// An effect with no sessions yields a zero summary.
func (s *Store) EffectStats(effectID string) (*EffectSummary, error) {
	sum := &EffectSummary{EffectID: effectID}
	row := s.db.QueryRow(`SELECT `+summaryColumns+` FROM sessions WHERE effect_id = ?`, effectID)
	if err := scanSummary(row, sum); err != nil {
		return nil, fmt.Errorf("storage: cannot get effect stats: %w", err)
	}
	return sum, nil
}

// AllEffectStats retrieves statistics for every effect that has been run.
func (s *Store) AllEffectStats() (map[string]*EffectSummary, error) {
	rows, err := s.db.Query(
		`SELECT effect_id, ` + summaryColumns + `
		 FROM sessions
		 GROUP BY effect_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all effect stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*EffectSummary)
	for rows.Next() {
		var effectID string
		sum := &EffectSummary{}
		if err := scanSummary(rows, sum, &effectID); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		sum.EffectID = effectID
		stats[effectID] = sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSummary reads summary columns, preceded by any extra destinations.
func scanSummary(sc scanner, sum *EffectSummary, prefix ...any) error {
	var totalMS, longestMS int64
	var lastPlayed any
	dest := append(prefix, &sum.Sessions, &totalMS, &longestMS,
		&sum.TotalFrames, &sum.TotalComets, &sum.TotalExplosions, &sum.PeakScale, &lastPlayed)
	if err := sc.Scan(dest...); err != nil {
		return err
	}
	sum.TotalTime = time.Duration(totalMS) * time.Millisecond
	sum.LongestRun = time.Duration(longestMS) * time.Millisecond
	sum.LastPlayed = parseTime(lastPlayed)
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
