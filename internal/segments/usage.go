package segments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// Usage shows today's summed provider cost and token counts. Each provider
// resolves through the TTL cache independently; misses fetch concurrently,
// each under its own deadline, and a failed or timed-out fetch contributes a
// zero result that is cached like any other so the provider is not hammered
// on every invocation.
type Usage struct {
	cfg       domain.SegmentConfig
	providers []ports.CostProvider
	cache     ports.UsageCache
	log       ports.Logger
	now       func() time.Time

	mu       sync.Mutex
	result   domain.UsageResult
	resolved bool
}

// NewUsage builds the usage segment for one invocation.
func NewUsage(cfg domain.SegmentConfig, providers []ports.CostProvider, cache ports.UsageCache, log ports.Logger, now func() time.Time) *Usage {
	if now == nil {
		now = time.Now
	}
	return &Usage{cfg: cfg, providers: providers, cache: cache, log: log, now: now}
}

func (u *Usage) Kind() domain.SegmentKind { return domain.SegmentUsage }

// UpdateCache resolves every provider and sums the results.
func (u *Usage) UpdateCache(ctx context.Context) {
	today := domain.DateKey(u.now())
	results := make([]domain.UsageResult, len(u.providers))
	var wg sync.WaitGroup
	for i, p := range u.providers {
		wg.Add(1)
		go func(i int, p ports.CostProvider) {
			defer wg.Done()
			results[i] = u.resolve(ctx, p, today)
		}(i, p)
	}
	wg.Wait()

	var total domain.UsageResult
	for _, r := range results {
		total = total.Add(r)
	}
	u.mu.Lock()
	u.result = total
	u.resolved = true
	u.mu.Unlock()
}

func (u *Usage) resolve(ctx context.Context, p ports.CostProvider, today string) domain.UsageResult {
	if u.cache != nil {
		if cached, ok, err := u.cache.Get(p.ID(), today, p.TTL()); err == nil && ok {
			return cached
		}
	}
	result, err := p.FetchToday(ctx)
	if err != nil {
		if u.log != nil {
			u.log.Warn("provider fetch failed", map[string]interface{}{
				"provider": p.ID(),
				"error":    err.Error(),
			})
		}
		result = domain.UsageResult{}
	}
	if u.cache != nil {
		if err := u.cache.Put(p.ID(), today, result); err != nil && u.log != nil {
			u.log.Warn("usage cache write failed", map[string]interface{}{
				"provider": p.ID(),
				"error":    err.Error(),
			})
		}
	}
	return result
}

// Result returns the summed usage once UpdateCache has run.
func (u *Usage) Result() (domain.UsageResult, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result, u.resolved
}

// Render shows "$<cost> ↑in ↓out"; with no resolved data it shows the zero
// state "$0.00".
func (u *Usage) Render(in domain.StatusInput) domain.Fragment {
	u.mu.Lock()
	result := u.result
	u.mu.Unlock()
	text := fmt.Sprintf("$%.2f", result.Cost)
	if result.InputTokens > 0 || result.OutputTokens > 0 {
		text += fmt.Sprintf(" ↑%s ↓%s",
			humanize.Comma(result.InputTokens),
			humanize.Comma(result.OutputTokens),
		)
	}
	return fragment(u.cfg, text)
}
