// Package ports defines the interfaces between the application core and the
// infrastructure adapters (storage, caches, subprocess collaborators).
//
// The application depends on these abstractions only; concrete
// implementations live under internal/infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/paceline/paceline/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.paceline/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SnapshotStore persists the cost/pace telemetry and session records. Every
// method is best-effort: when the underlying storage is unavailable the
// implementation degrades to a no-op or a safe default rather than failing
// the invocation.
type SnapshotStore interface {
	// RecordUsageSnapshot and RecordPaceSnapshot append a timestamped sample
	// unless the most recent sample of that kind is younger than the dedup
	// window, in which case they are no-ops.
	RecordUsageSnapshot(cost float64) error
	RecordPaceSnapshot(pace float64) error

	// RecordDailyUsage upserts the aggregate row for date; last writer wins.
	RecordDailyUsage(date string, usage domain.UsageResult) error

	// UsageSnapshots, PaceSnapshots and DailyUsage return rows newer than the
	// window cutoff in ascending timestamp/date order.
	UsageSnapshots(windowDays int) ([]domain.UsageSnapshot, error)
	PaceSnapshots(windowDays int) ([]domain.PaceSample, error)
	DailyUsage(windowDays int) ([]domain.DailyUsageRecord, error)

	// PruneOlderThan deletes samples older than the retention window and
	// sessions idle beyond it.
	PruneOlderThan(days int) error

	// SessionRootStatus returns the immutable is-root-at-start flag for the
	// session, creating the record on first sighting and refreshing last-seen
	// on every call.
	SessionRootStatus(sessionID, cwd, gitRoot, branch string) (bool, error)

	Close() error
}

// UsageCache is the TTL-bounded disk cache wrapping slow provider fetches.
// A Get hit requires the stored date to equal date and the entry age to be
// under ttl.
type UsageCache interface {
	Get(providerID, date string, ttl time.Duration) (domain.UsageResult, bool, error)
	Put(providerID, date string, result domain.UsageResult) error
}

// CostProvider fetches today's accumulated cost and token counts from one
// external accounting source.
type CostProvider interface {
	ID() string
	TTL() time.Duration
	FetchToday(ctx context.Context) (domain.UsageResult, error)
}

// GitInspector shells out to git (and gh) for repository state.
type GitInspector interface {
	Status(ctx context.Context, dir string) (domain.GitStatus, bool)
	Root(ctx context.Context, dir string) string
	OpenPR(ctx context.Context, dir, branch string) string
}

// Logger provides structured logging for the application layer. All output
// goes to stderr; stdout is reserved for the status line.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
