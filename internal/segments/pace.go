package segments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/pace"
	"github.com/paceline/paceline/internal/ports"
)

// Pace shows the decay-weighted spend rate. The estimate is recomputed fresh
// on every invocation from the store's usage-snapshot window; the engine
// itself keeps no state.
type Pace struct {
	cfg      domain.SegmentConfig
	store    ports.SnapshotStore
	halfLife time.Duration
	window   int
	now      func() time.Time

	mu    sync.Mutex
	value float64
}

// NewPace builds the pace segment for one invocation.
func NewPace(cfg domain.SegmentConfig, store ports.SnapshotStore, settings domain.PaceSettings, now func() time.Time) *Pace {
	if now == nil {
		now = time.Now
	}
	return &Pace{
		cfg:      cfg,
		store:    store,
		halfLife: time.Duration(settings.HalfLifeMinutes) * time.Minute,
		window:   settings.WindowDays,
		now:      now,
	}
}

func (p *Pace) Kind() domain.SegmentKind { return domain.SegmentPace }

// UpdateCache loads the snapshot window and computes the estimate. With the
// store unavailable the samples come back empty and the pace is 0.
func (p *Pace) UpdateCache(ctx context.Context) {
	if p.store == nil {
		return
	}
	samples, err := p.store.UsageSnapshots(p.window)
	if err != nil {
		return
	}
	value := pace.Estimate(samples, p.halfLife, p.now())
	p.mu.Lock()
	p.value = value
	p.mu.Unlock()
}

// Value returns the computed spend rate for persistence.
func (p *Pace) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Pace) Render(in domain.StatusInput) domain.Fragment {
	return fragment(p.cfg, fmt.Sprintf("$%.2f/h", p.Value()))
}
