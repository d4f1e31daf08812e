package segments

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

type fakeProvider struct {
	id     string
	result domain.UsageResult
	err    error
	calls  int32
}

func (p *fakeProvider) ID() string         { return p.id }
func (p *fakeProvider) TTL() time.Duration { return 3 * time.Minute }
func (p *fakeProvider) FetchToday(ctx context.Context) (domain.UsageResult, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.result, p.err
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]domain.UsageResult
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]domain.UsageResult{}}
}

func (c *memCache) Get(providerID, date string, ttl time.Duration) (domain.UsageResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[providerID+"/"+date]
	return r, ok, nil
}

func (c *memCache) Put(providerID, date string, result domain.UsageResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[providerID+"/"+date] = result
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testTime = time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)

func TestUsageRendersZeroStateWithoutUpdate(t *testing.T) {
	u := NewUsage(domain.SegmentConfig{Type: "usage"}, nil, nil, nil, fixedClock(testTime))
	frag := u.Render(domain.StatusInput{})
	if frag.Text != "$0.00" {
		t.Fatalf("expected zero state $0.00, got %q", frag.Text)
	}
}

func TestUsageSumsProviders(t *testing.T) {
	providers := []*fakeProvider{
		{id: "a", result: domain.UsageResult{Cost: 1.5, InputTokens: 100, OutputTokens: 10}},
		{id: "b", result: domain.UsageResult{Cost: 2.5, InputTokens: 900, OutputTokens: 490}},
	}
	u := NewUsage(domain.SegmentConfig{Type: "usage"},
		[]ports.CostProvider{providers[0], providers[1]}, newMemCache(), nil, fixedClock(testTime))
	u.UpdateCache(context.Background())

	result, ok := u.Result()
	if !ok {
		t.Fatal("expected resolved result")
	}
	if result.Cost != 4.0 || result.InputTokens != 1000 || result.OutputTokens != 500 {
		t.Fatalf("unexpected sum: %+v", result)
	}
	frag := u.Render(domain.StatusInput{})
	if frag.Text != "$4.00 ↑1,000 ↓500" {
		t.Fatalf("unexpected render: %q", frag.Text)
	}
}

func TestUsageCacheHitSkipsFetch(t *testing.T) {
	p := &fakeProvider{id: "ccusage", result: domain.UsageResult{Cost: 99}}
	cache := newMemCache()
	_ = cache.Put("ccusage", domain.DateKey(testTime), domain.UsageResult{Cost: 12.5})

	u := NewUsage(domain.SegmentConfig{Type: "usage"}, []ports.CostProvider{p}, cache, nil, fixedClock(testTime))
	u.UpdateCache(context.Background())

	if atomic.LoadInt32(&p.calls) != 0 {
		t.Fatalf("expected cache hit to skip fetch, got %d calls", p.calls)
	}
	result, _ := u.Result()
	if result.Cost != 12.5 {
		t.Fatalf("expected cached cost, got %v", result.Cost)
	}
}

func TestUsageFailedFetchCachesZero(t *testing.T) {
	p := &fakeProvider{id: "ccusage", err: errors.New("boom")}
	cache := newMemCache()

	u := NewUsage(domain.SegmentConfig{Type: "usage"}, []ports.CostProvider{p}, cache, nil, fixedClock(testTime))
	u.UpdateCache(context.Background())

	if frag := u.Render(domain.StatusInput{}); frag.Text != "$0.00" {
		t.Fatalf("expected $0.00 after failed fetch, got %q", frag.Text)
	}
	cached, ok, _ := cache.Get("ccusage", domain.DateKey(testTime), time.Minute)
	if !ok {
		t.Fatal("zero result must be cached to avoid hammering a failing provider")
	}
	if cached != (domain.UsageResult{}) {
		t.Fatalf("expected cached zero, got %+v", cached)
	}

	// Second update hits the cached zero; no new fetch.
	u.UpdateCache(context.Background())
	if atomic.LoadInt32(&p.calls) != 1 {
		t.Fatalf("expected exactly one fetch, got %d", p.calls)
	}
}

func TestDirectoryRender(t *testing.T) {
	in := domain.StatusInput{Workspace: domain.WorkspaceInfo{CurrentDir: "/srv/projects/paceline"}}
	d := NewDirectory(domain.SegmentConfig{Type: "directory"}, nil, nil, in)
	if frag := d.Render(in); frag.Text != "paceline" {
		t.Fatalf("expected basename, got %q", frag.Text)
	}
	d = NewDirectory(domain.SegmentConfig{Type: "directory"}, nil, nil, domain.StatusInput{})
	if frag := d.Render(domain.StatusInput{}); frag.Text != "?" {
		t.Fatalf("expected placeholder for unknown directory, got %q", frag.Text)
	}
}

func TestGitRendersFromInput(t *testing.T) {
	in := domain.StatusInput{
		Workspace: domain.WorkspaceInfo{CurrentDir: "/repo"},
		Git:       domain.GitInfo{Branch: "main", Dirty: true, Ahead: 2, Behind: 1},
	}
	g := NewGit(domain.SegmentConfig{Type: "git"}, nil, in)
	frag := g.Render(in)
	want := " main* ↑2 ↓1"
	if frag.Text != want {
		t.Fatalf("git render:\n got: %q\nwant: %q", frag.Text, want)
	}
}

func TestGitRendersEmptyOutsideRepo(t *testing.T) {
	g := NewGit(domain.SegmentConfig{Type: "git"}, nil, domain.StatusInput{})
	if frag := g.Render(domain.StatusInput{}); frag.Text != "" {
		t.Fatalf("expected empty fragment outside a repo, got %q", frag.Text)
	}
}

func TestContextRender(t *testing.T) {
	c := NewContext(domain.SegmentConfig{Type: "context"})
	in := domain.StatusInput{ContextWindow: domain.ContextWindowInfo{UsedPercentage: 42.4}}
	if frag := c.Render(in); frag.Text != "ctx 42%" {
		t.Fatalf("unexpected context render: %q", frag.Text)
	}
	// Remaining-only input is converted to a used percentage.
	in = domain.StatusInput{ContextWindow: domain.ContextWindowInfo{RemainingPercentage: 75}}
	if frag := c.Render(in); frag.Text != "ctx 25%" {
		t.Fatalf("unexpected context render from remaining: %q", frag.Text)
	}
	if frag := c.Render(domain.StatusInput{}); frag.Text != "ctx 0%" {
		t.Fatalf("unexpected zero state: %q", frag.Text)
	}
}

func TestTimeRender(t *testing.T) {
	seg := NewTime(domain.SegmentConfig{Type: "time"}, fixedClock(testTime))
	if frag := seg.Render(domain.StatusInput{}); frag.Text != "14:30" {
		t.Fatalf("unexpected time render: %q", frag.Text)
	}
}

func TestThoughtsRotateByHour(t *testing.T) {
	settings := domain.ThoughtsSettings{Messages: []string{"a", "b", "c"}}
	seg := NewThoughts(domain.SegmentConfig{Type: "thoughts"}, settings, fixedClock(testTime))
	if frag := seg.Render(domain.StatusInput{}); frag.Text != "c" { // hour 14 % 3 == 2
		t.Fatalf("unexpected thought: %q", frag.Text)
	}
	empty := NewThoughts(domain.SegmentConfig{Type: "thoughts"}, domain.ThoughtsSettings{}, fixedClock(testTime))
	if frag := empty.Render(domain.StatusInput{}); frag.Text != "" {
		t.Fatalf("expected empty fragment with no messages, got %q", frag.Text)
	}
}

func TestBuildSkipsUnknownAndDefaultsColors(t *testing.T) {
	cfg := domain.Config{
		Segments: []domain.SegmentConfig{
			{Type: "time"},
			{Type: "nonsense"},
			{Type: "usage", Foreground: "#ffffff"},
		},
	}
	segs := Build(cfg, domain.StatusInput{}, Deps{Now: fixedClock(testTime)})
	if len(segs) != 2 {
		t.Fatalf("expected unknown kinds to be skipped, got %d segments", len(segs))
	}
	frag := segs[0].Render(domain.StatusInput{})
	if frag.Foreground == "" || frag.Background == "" {
		t.Fatalf("expected default colors to be applied: %+v", frag)
	}
	frag = segs[1].Render(domain.StatusInput{})
	if frag.Foreground != "#ffffff" {
		t.Fatalf("expected configured fg to win, got %+v", frag)
	}
}
