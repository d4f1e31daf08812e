package domain

import "time"

// UsageResult is what a cost-accounting provider reports for one calendar day.
type UsageResult struct {
	Cost         float64 `json:"cost"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
}

// Add returns the elementwise sum of two results. Providers resolve
// independently and are combined by summation.
func (u UsageResult) Add(other UsageResult) UsageResult {
	return UsageResult{
		Cost:         u.Cost + other.Cost,
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
	}
}

// UsageCacheEntry is the on-disk cache record for one provider. It is valid
// only while Date matches the current calendar day and the capture timestamp
// is within the provider's TTL.
type UsageCacheEntry struct {
	Date         string    `json:"date"`
	Cost         float64   `json:"cost"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	Timestamp    time.Time `json:"timestamp"`
}

// Result converts the entry back into the provider result it caches.
func (e UsageCacheEntry) Result() UsageResult {
	return UsageResult{Cost: e.Cost, InputTokens: e.InputTokens, OutputTokens: e.OutputTokens}
}

// UsageSnapshot is one persisted observation of cumulative daily cost.
// Within a calendar day the cost is non-decreasing across the sequence.
type UsageSnapshot struct {
	TimestampMS int64   `json:"ts_ms"`
	Cost        float64 `json:"cost"`
}

// PaceSample is one persisted spend-rate estimate in currency per hour.
type PaceSample struct {
	TimestampMS int64   `json:"ts_ms"`
	Pace        float64 `json:"pace"`
}

// DailyUsageRecord aggregates one calendar day, keyed by date. Upserted at
// most once per render; last writer wins.
type DailyUsageRecord struct {
	Date         string    `json:"date"`
	Cost         float64   `json:"cost"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionRecord tracks one editor session. IsRootAtStart is fixed at the
// first sighting of the session id and never changes afterwards; LastSeen is
// refreshed on every sighting.
type SessionRecord struct {
	SessionID     string    `json:"session_id"`
	InitialCwd    string    `json:"initial_cwd"`
	GitBranch     string    `json:"git_branch"`
	Status        string    `json:"status"`
	IsRootAtStart bool      `json:"is_root_at_start"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
}

// GitStatus is what the git collaborator reports for a working directory.
type GitStatus struct {
	Branch string
	Dirty  bool
	Ahead  int
	Behind int
}

// DateKey formats t as the calendar-date key used by caches and the daily
// usage table.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
