package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/paceline/paceline/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if !s.Available() {
		t.Fatal("expected test store to open")
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordUsageSnapshotDedupWindow(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	if err := s.RecordUsageSnapshot(1.0); err != nil {
		t.Fatalf("record: %v", err)
	}
	// 30s later: inside the dedup window, must be a no-op.
	s.now = func() time.Time { return base.Add(30 * time.Second) }
	if err := s.RecordUsageSnapshot(1.5); err != nil {
		t.Fatalf("record: %v", err)
	}
	// 61s later: outside the window, must insert.
	s.now = func() time.Time { return base.Add(61 * time.Second) }
	if err := s.RecordUsageSnapshot(2.0); err != nil {
		t.Fatalf("record: %v", err)
	}

	snaps, err := s.UsageSnapshots(1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots after dedup, got %d", len(snaps))
	}
	if snaps[0].Cost != 1.0 || snaps[1].Cost != 2.0 {
		t.Fatalf("unexpected snapshot values: %+v", snaps)
	}
	if snaps[0].TimestampMS >= snaps[1].TimestampMS {
		t.Fatalf("snapshots not ascending: %+v", snaps)
	}
}

func TestRecordPaceSnapshotDedupWindow(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	_ = s.RecordPaceSnapshot(0.5)
	s.now = func() time.Time { return base.Add(time.Second) }
	_ = s.RecordPaceSnapshot(0.7)

	samples, _ := s.PaceSnapshots(1)
	if len(samples) != 1 {
		t.Fatalf("expected 1 pace sample within dedup window, got %d", len(samples))
	}
	if samples[0].Pace != 0.5 {
		t.Fatalf("expected first writer to win inside window, got %v", samples[0].Pace)
	}
}

func TestRecordDailyUsageUpsert(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) }

	_ = s.RecordDailyUsage("2026-08-30", domain.UsageResult{Cost: 1.0, InputTokens: 10, OutputTokens: 5})
	_ = s.RecordDailyUsage("2026-08-30", domain.UsageResult{Cost: 12.5, InputTokens: 1000, OutputTokens: 500})

	recs, err := s.DailyUsage(7)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one row per date, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Cost != 12.5 || rec.InputTokens != 1000 || rec.OutputTokens != 500 {
		t.Fatalf("last writer should win: %+v", rec)
	}
}

func TestPruneOlderThan(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base.AddDate(0, 0, -10) }
	_ = s.RecordUsageSnapshot(1.0)
	_ = s.RecordPaceSnapshot(0.2)
	if _, err := s.SessionRootStatus("old-session", "/tmp/x", "/tmp/x", "main"); err != nil {
		t.Fatalf("session: %v", err)
	}

	s.now = func() time.Time { return base }
	_ = s.RecordUsageSnapshot(2.0)
	_ = s.RecordPaceSnapshot(0.4)

	if err := s.PruneOlderThan(7); err != nil {
		t.Fatalf("prune: %v", err)
	}

	snaps, _ := s.UsageSnapshots(30)
	if len(snaps) != 1 || snaps[0].Cost != 2.0 {
		t.Fatalf("expected only the fresh usage snapshot, got %+v", snaps)
	}
	paces, _ := s.PaceSnapshots(30)
	if len(paces) != 1 || paces[0].Pace != 0.4 {
		t.Fatalf("expected only the fresh pace sample, got %+v", paces)
	}

	// The idle session is gone: a new sighting recomputes from live state.
	s.now = func() time.Time { return base }
	isRoot, _ := s.SessionRootStatus("old-session", "/tmp/elsewhere", "/tmp/x", "main")
	if isRoot {
		t.Fatal("expected pruned session to be recreated from live state")
	}
}

func TestSessionRootStatusImmutable(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	isRoot, err := s.SessionRootStatus("sess-1", "/repo", "/repo", "main")
	if err != nil || !isRoot {
		t.Fatalf("expected first sighting at git root to be true, got %v err=%v", isRoot, err)
	}

	// Later sightings from a subdirectory keep the flag fixed at first sight.
	isRoot, err = s.SessionRootStatus("sess-1", "/repo/sub", "/repo", "main")
	if err != nil || !isRoot {
		t.Fatalf("expected cached root flag, got %v err=%v", isRoot, err)
	}
}

func TestUnavailableStoreDegradesToNoop(t *testing.T) {
	// A directory path cannot be opened as a database file.
	s := &SQLiteStore{path: t.TempDir(), now: time.Now}

	if err := s.RecordUsageSnapshot(1.0); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if err := s.RecordDailyUsage("2026-08-30", domain.UsageResult{}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	if err := s.PruneOlderThan(7); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
	snaps, err := s.UsageSnapshots(7)
	if err != nil || snaps != nil {
		t.Fatalf("expected empty read, got %v err=%v", snaps, err)
	}

	// Root status falls back to live recomputation.
	isRoot, err := s.SessionRootStatus("sess", "/repo", "/repo", "main")
	if err != nil || !isRoot {
		t.Fatalf("expected live fallback true, got %v err=%v", isRoot, err)
	}
	isRoot, _ = s.SessionRootStatus("sess", "/repo/sub", "/repo", "main")
	if isRoot {
		t.Fatal("live fallback should compare cwd against git root")
	}
}
