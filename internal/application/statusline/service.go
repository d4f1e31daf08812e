// Package statusline drives one status-line invocation end to end.
package statusline

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
	"github.com/paceline/paceline/internal/powerline"
	"github.com/paceline/paceline/internal/segments"
)

// DefaultUpdateTimeout caps any single segment's cache update. Individual
// fetches inside a segment carry tighter deadlines of their own; this is the
// outer bound that keeps the whole invocation finite.
const DefaultUpdateTimeout = 6 * time.Second

// Service orchestrates one invocation: parse input, fan out the slow cache
// updates, persist telemetry, render, compose.
type Service struct {
	Config        domain.Config
	Deps          segments.Deps
	Store         ports.SnapshotStore
	Renderer      *powerline.Renderer
	Logger        ports.Logger
	UpdateTimeout time.Duration

	// Rand gates probabilistic maintenance; defaults to math/rand.
	Rand func() float64
}

// Run produces the composed status line for one stdin payload.
func (s *Service) Run(ctx context.Context, raw []byte) (string, error) {
	if s.Renderer == nil || s.Logger == nil {
		return "", errors.New("statusline.Service dependencies not satisfied")
	}

	in := domain.ParseStatusInput(raw)
	if in.SessionID == "" {
		// Sessions without an id still get a record; the generated id only
		// lives for this invocation so the root flag falls back to live
		// recomputation next time.
		in.SessionID = uuid.NewString()
	}

	segs := segments.Build(s.Config, in, s.Deps)
	s.updateCaches(ctx, segs)
	s.persist(segs)

	fragments := make([]domain.Fragment, 0, len(segs))
	for _, seg := range segs {
		fragments = append(fragments, s.safeRender(seg, in))
	}
	line := s.Renderer.Compose(fragments)

	s.maybePrune()
	return line, nil
}

// updateCaches fans out every CacheUpdater concurrently. Each update owns an
// independent deadline, so one slow fetch never starves the others, and a
// panicking segment is contained at its own boundary.
func (s *Service) updateCaches(ctx context.Context, segs []segments.Segment) {
	timeout := s.UpdateTimeout
	if timeout <= 0 {
		timeout = DefaultUpdateTimeout
	}
	var wg sync.WaitGroup
	for _, seg := range segs {
		updater, ok := seg.(segments.CacheUpdater)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(kind domain.SegmentKind, updater segments.CacheUpdater) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.Logger.Error("segment update panicked", nil, map[string]interface{}{
						"segment": string(kind), "panic": r,
					})
				}
			}()
			uctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			updater.UpdateCache(uctx)
		}(seg.Kind(), updater)
	}
	wg.Wait()
}

// persist writes the freshly resolved usage and pace values into the
// snapshot store. Store failures are already absorbed inside the store.
func (s *Service) persist(segs []segments.Segment) {
	if s.Store == nil {
		return
	}
	now := time.Now
	if s.Deps.Now != nil {
		now = s.Deps.Now
	}
	for _, seg := range segs {
		switch v := seg.(type) {
		case *segments.Usage:
			result, ok := v.Result()
			if !ok {
				continue
			}
			// Cumulative cost never decreases within a calendar day; a lower
			// reading means a failed or timed-out fetch resolved to zero, not
			// real spend, and must not enter the snapshot series where it
			// would fabricate a recovery ramp in the pace estimate.
			if prev, found := s.latestSameDayCost(now()); found && result.Cost < prev {
				continue
			}
			_ = s.Store.RecordUsageSnapshot(result.Cost)
			_ = s.Store.RecordDailyUsage(domain.DateKey(now()), result)
		case *segments.Pace:
			_ = s.Store.RecordPaceSnapshot(v.Value())
		}
	}
}

// latestSameDayCost returns the most recent persisted cumulative cost whose
// timestamp falls on the same calendar day as now, and whether one exists.
func (s *Service) latestSameDayCost(now time.Time) (float64, bool) {
	snaps, err := s.Store.UsageSnapshots(1)
	if err != nil || len(snaps) == 0 {
		return 0, false
	}
	key := domain.DateKey(now)
	for i := len(snaps) - 1; i >= 0; i-- {
		if domain.DateKey(time.UnixMilli(snaps[i].TimestampMS)) == key {
			return snaps[i].Cost, true
		}
	}
	return 0, false
}

func (s *Service) safeRender(seg segments.Segment, in domain.StatusInput) (frag domain.Fragment) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("segment render panicked", nil, map[string]interface{}{
				"segment": string(seg.Kind()), "panic": r,
			})
			frag = domain.Fragment{}
		}
	}()
	return seg.Render(in)
}

// maybePrune runs retention pruning inline with small fixed probability, so
// maintenance needs no separate scheduler.
func (s *Service) maybePrune() {
	if s.Store == nil {
		return
	}
	roll := s.Rand
	if roll == nil {
		roll = rand.Float64
	}
	if roll() >= s.Config.Retention.PruneProbability {
		return
	}
	if err := s.Store.PruneOlderThan(s.Config.Retention.Days); err != nil {
		s.Logger.Warn("prune failed", map[string]interface{}{"error": err.Error()})
	}
}
