package segments

import (
	"fmt"
	"time"

	"github.com/paceline/paceline/internal/domain"
)

// Context shows context-window consumption as a used percentage. It reads
// only the stdin snapshot; no external data.
type Context struct {
	cfg domain.SegmentConfig
}

// NewContext builds the context-window segment.
func NewContext(cfg domain.SegmentConfig) *Context {
	return &Context{cfg: cfg}
}

func (c *Context) Kind() domain.SegmentKind { return domain.SegmentContext }

func (c *Context) Render(in domain.StatusInput) domain.Fragment {
	used := in.ContextWindow.UsedPercentage
	if used == 0 && in.ContextWindow.RemainingPercentage > 0 {
		used = 100 - in.ContextWindow.RemainingPercentage
	}
	return fragment(c.cfg, fmt.Sprintf("ctx %.0f%%", used))
}

// Time shows the local wall clock.
type Time struct {
	cfg domain.SegmentConfig
	now func() time.Time
}

// NewTime builds the clock segment.
func NewTime(cfg domain.SegmentConfig, now func() time.Time) *Time {
	if now == nil {
		now = time.Now
	}
	return &Time{cfg: cfg, now: now}
}

func (t *Time) Kind() domain.SegmentKind { return domain.SegmentTime }

func (t *Time) Render(in domain.StatusInput) domain.Fragment {
	return fragment(t.cfg, t.now().Format("15:04"))
}

// Thoughts rotates through the configured message list by hour of day, so the
// pick is deterministic for a given clock reading.
type Thoughts struct {
	cfg      domain.SegmentConfig
	messages []string
	now      func() time.Time
}

// NewThoughts builds the thoughts segment.
func NewThoughts(cfg domain.SegmentConfig, settings domain.ThoughtsSettings, now func() time.Time) *Thoughts {
	if now == nil {
		now = time.Now
	}
	return &Thoughts{cfg: cfg, messages: settings.Messages, now: now}
}

func (t *Thoughts) Kind() domain.SegmentKind { return domain.SegmentThoughts }

func (t *Thoughts) Render(in domain.StatusInput) domain.Fragment {
	if len(t.messages) == 0 {
		return fragment(t.cfg, "")
	}
	return fragment(t.cfg, t.messages[t.now().Hour()%len(t.messages)])
}
