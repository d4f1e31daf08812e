// Package store persists the usage/pace telemetry in SQLite.
//
// The store is never on the critical path for producing output: when the
// database cannot be opened or written, every operation degrades to a no-op
// or a safe default.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/pkg/filesystem"
	"github.com/paceline/paceline/internal/ports"
)

// DedupWindow is the minimum spacing between persisted snapshots of one kind.
// Evaluated read-then-insert, so it is best-effort under concurrent
// invocations, not a correctness guarantee.
const DedupWindow = 60 * time.Second

// SQLiteStore persists snapshots, daily usage and session records in a
// SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore creates (or opens) the database at path, defaulting to
// ~/.paceline/store/paceline.db. A store that failed to open is still usable:
// its methods are no-ops.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filesystem.StateDir("store", "paceline.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	store := &SQLiteStore{path: path, now: time.Now}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		_ = db.Close()
		store.db = nil
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usage_snapshots (
			ts_ms INTEGER PRIMARY KEY,
			cost REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pace_snapshots (
			ts_ms INTEGER PRIMARY KEY,
			pace REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS daily_usage (
			date TEXT PRIMARY KEY,
			cost REAL NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			updated_at_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			initial_cwd TEXT,
			git_branch TEXT,
			status TEXT,
			is_root_at_start INTEGER NOT NULL,
			first_seen_ms INTEGER NOT NULL,
			last_seen_ms INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Available reports whether the backing database opened successfully.
func (s *SQLiteStore) Available() bool {
	return s.db != nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordUsageSnapshot appends a cumulative-cost sample unless one was
// recorded within the dedup window.
func (s *SQLiteStore) RecordUsageSnapshot(cost float64) error {
	return s.recordSnapshot("usage_snapshots", "cost", cost)
}

// RecordPaceSnapshot appends a pace sample unless one was recorded within the
// dedup window.
func (s *SQLiteStore) RecordPaceSnapshot(pace float64) error {
	return s.recordSnapshot("pace_snapshots", "pace", pace)
}

func (s *SQLiteStore) recordSnapshot(table, column string, value float64) error {
	if s.db == nil {
		return nil
	}
	nowMS := s.now().UnixMilli()
	var latest sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(ts_ms) FROM " + table).Scan(&latest); err != nil {
		return nil
	}
	if latest.Valid && nowMS-latest.Int64 < DedupWindow.Milliseconds() {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO "+table+" (ts_ms, "+column+") VALUES (?, ?)",
		nowMS, value,
	)
	return err
}

// RecordDailyUsage upserts the aggregate row for date. Last writer wins.
func (s *SQLiteStore) RecordDailyUsage(date string, usage domain.UsageResult) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO daily_usage (date, cost, input_tokens, output_tokens, updated_at_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			cost = excluded.cost,
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens,
			updated_at_ms = excluded.updated_at_ms`,
		date, usage.Cost, usage.InputTokens, usage.OutputTokens, s.now().UnixMilli(),
	)
	return err
}

// UsageSnapshots returns samples newer than the window cutoff, ascending.
func (s *SQLiteStore) UsageSnapshots(windowDays int) ([]domain.UsageSnapshot, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT ts_ms, cost FROM usage_snapshots WHERE ts_ms >= ? ORDER BY ts_ms ASC",
		s.cutoffMS(windowDays),
	)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()
	var out []domain.UsageSnapshot
	for rows.Next() {
		var snap domain.UsageSnapshot
		if err := rows.Scan(&snap.TimestampMS, &snap.Cost); err != nil {
			return out, nil
		}
		out = append(out, snap)
	}
	return out, nil
}

// PaceSnapshots returns samples newer than the window cutoff, ascending.
func (s *SQLiteStore) PaceSnapshots(windowDays int) ([]domain.PaceSample, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT ts_ms, pace FROM pace_snapshots WHERE ts_ms >= ? ORDER BY ts_ms ASC",
		s.cutoffMS(windowDays),
	)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()
	var out []domain.PaceSample
	for rows.Next() {
		var sample domain.PaceSample
		if err := rows.Scan(&sample.TimestampMS, &sample.Pace); err != nil {
			return out, nil
		}
		out = append(out, sample)
	}
	return out, nil
}

// DailyUsage returns aggregate rows with date >= cutoff, ascending by date.
func (s *SQLiteStore) DailyUsage(windowDays int) ([]domain.DailyUsageRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	cutoff := domain.DateKey(s.now().AddDate(0, 0, -windowDays))
	rows, err := s.db.Query(
		"SELECT date, cost, input_tokens, output_tokens, updated_at_ms FROM daily_usage WHERE date >= ? ORDER BY date ASC",
		cutoff,
	)
	if err != nil {
		return nil, nil
	}
	defer rows.Close()
	var out []domain.DailyUsageRecord
	for rows.Next() {
		var rec domain.DailyUsageRecord
		var updatedMS int64
		if err := rows.Scan(&rec.Date, &rec.Cost, &rec.InputTokens, &rec.OutputTokens, &updatedMS); err != nil {
			return out, nil
		}
		rec.UpdatedAt = time.UnixMilli(updatedMS)
		out = append(out, rec)
	}
	return out, nil
}

// PruneOlderThan deletes samples older than days and sessions idle beyond it.
func (s *SQLiteStore) PruneOlderThan(days int) error {
	if s.db == nil {
		return nil
	}
	cutoff := s.cutoffMS(days)
	for _, table := range []string{"usage_snapshots", "pace_snapshots"} {
		_, _ = s.db.Exec("DELETE FROM "+table+" WHERE ts_ms < ?", cutoff)
	}
	_, _ = s.db.Exec("DELETE FROM daily_usage WHERE date < ?", domain.DateKey(s.now().AddDate(0, 0, -days)))
	_, err := s.db.Exec("DELETE FROM sessions WHERE last_seen_ms < ?", cutoff)
	return err
}

// SessionRootStatus returns the session's is-root-at-start flag, creating the
// record on first sighting. The flag is immutable once written; last-seen is
// refreshed on every call. Without a database it falls back to a live
// comparison of cwd against the git root.
func (s *SQLiteStore) SessionRootStatus(sessionID, cwd, gitRoot, branch string) (bool, error) {
	liveRoot := gitRoot != "" && cwd == gitRoot
	if s.db == nil || sessionID == "" {
		return liveRoot, nil
	}
	nowMS := s.now().UnixMilli()
	var isRoot int
	err := s.db.QueryRow(
		"SELECT is_root_at_start FROM sessions WHERE session_id = ?", sessionID,
	).Scan(&isRoot)
	switch {
	case err == nil:
		_, _ = s.db.Exec("UPDATE sessions SET last_seen_ms = ? WHERE session_id = ?", nowMS, sessionID)
		return isRoot == 1, nil
	case err == sql.ErrNoRows:
		_, insErr := s.db.Exec(`INSERT OR IGNORE INTO sessions
			(session_id, initial_cwd, git_branch, status, is_root_at_start, first_seen_ms, last_seen_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, cwd, branch, "active", boolToInt(liveRoot), nowMS, nowMS,
		)
		if insErr != nil {
			return liveRoot, nil
		}
		return liveRoot, nil
	default:
		return liveRoot, nil
	}
}

func (s *SQLiteStore) cutoffMS(days int) int64 {
	return s.now().Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.SnapshotStore = (*SQLiteStore)(nil)
