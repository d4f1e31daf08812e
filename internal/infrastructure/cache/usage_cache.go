// Package cache implements the TTL-bounded disk cache that makes repeated
// "today's usage" lookups cheap between provider fetches.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/pkg/filesystem"
	"github.com/paceline/paceline/internal/ports"
)

// FileCache stores one JSON entry per provider under
// ~/.paceline/cache/usage/<providerID>.json.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache returns a cache rooted at dir, defaulting to
// ~/.paceline/cache/usage.
func NewFileCache(dir string) *FileCache {
	if dir == "" {
		dir = filesystem.StateDir("cache", "usage")
	}
	return &FileCache{dir: dir, now: time.Now}
}

// Get returns the cached result for providerID if the stored date matches
// date and the entry is younger than ttl. Anything else is a miss: wrong day,
// expired entry, unreadable file.
func (c *FileCache) Get(providerID, date string, ttl time.Duration) (domain.UsageResult, bool, error) {
	if providerID == "" {
		return domain.UsageResult{}, false, nil
	}
	data, err := os.ReadFile(c.pathFor(providerID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.UsageResult{}, false, nil
		}
		return domain.UsageResult{}, false, err
	}
	var entry domain.UsageCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.UsageResult{}, false, nil
	}
	if entry.Date != date {
		return domain.UsageResult{}, false, nil
	}
	if ttl > 0 && c.now().Sub(entry.Timestamp) >= ttl {
		return domain.UsageResult{}, false, nil
	}
	return entry.Result(), true, nil
}

// Put overwrites the provider's cache file atomically. Zero-valued results
// are cached like any other so a failing provider is not retried on every
// invocation.
func (c *FileCache) Put(providerID, date string, result domain.UsageResult) error {
	if providerID == "" {
		return nil
	}
	entry := domain.UsageCacheEntry{
		Date:         date,
		Cost:         result.Cost,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		Timestamp:    c.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return filesystem.AtomicWriteFile(c.pathFor(providerID), data, 0o644)
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Entries lists cache entries (best-effort), for diagnostics.
func (c *FileCache) Entries() ([]domain.UsageCacheEntry, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []domain.UsageCacheEntry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, f.Name()))
		if err != nil {
			continue
		}
		var entry domain.UsageCacheEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (c *FileCache) pathFor(providerID string) string {
	return filepath.Join(c.dir, providerID+".json")
}

var _ ports.UsageCache = (*FileCache)(nil)
