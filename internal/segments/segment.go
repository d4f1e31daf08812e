// Package segments implements the status-line segment variants.
//
// Every segment renders synchronously and side-effect-free from state it
// already holds. Variants that depend on slow external data (providers, the
// snapshot store, git subprocesses) additionally implement CacheUpdater; the
// orchestrator fans those out concurrently before any render happens, which
// keeps composition simple and ordering-independent.
package segments

import (
	"context"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// Segment produces one labeled, colored fragment of the status line.
// Render must never fail: missing or stale state renders the variant's
// well-defined placeholder.
type Segment interface {
	Kind() domain.SegmentKind
	Render(in domain.StatusInput) domain.Fragment
}

// CacheUpdater is implemented by segments whose render state comes from slow
// external sources. UpdateCache is invoked before Render and owns its own
// failure handling; it never panics and never blocks past its deadlines.
type CacheUpdater interface {
	UpdateCache(ctx context.Context)
}

// Deps bundles the collaborators segments draw on.
type Deps struct {
	Store     ports.SnapshotStore
	Cache     ports.UsageCache
	Providers []ports.CostProvider
	Git       ports.GitInspector
	Logger    ports.Logger
	Now       func() time.Time
}

// defaultColors supplies the per-kind color pair used when the segment config
// leaves fg/bg empty.
var defaultColors = map[domain.SegmentKind][2]string{
	domain.SegmentDirectory: {"#1c1c1c", "#8fbcbb"},
	domain.SegmentGit:       {"#1c1c1c", "#a3be8c"},
	domain.SegmentPR:        {"#1c1c1c", "#d08770"},
	domain.SegmentUsage:     {"#e5e9f0", "#5e81ac"},
	domain.SegmentPace:      {"#e5e9f0", "#b48ead"},
	domain.SegmentContext:   {"#1c1c1c", "#ebcb8b"},
	domain.SegmentTime:      {"#e5e9f0", "#4c566a"},
	domain.SegmentThoughts:  {"#e5e9f0", "#3b4252"},
}

// Build resolves the configured segment list into concrete segments for one
// invocation. Unknown segment types are skipped.
func Build(cfg domain.Config, in domain.StatusInput, deps Deps) []Segment {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	var out []Segment
	for _, sc := range cfg.Segments {
		if !domain.ValidSegmentKind(sc.Type) {
			if deps.Logger != nil {
				deps.Logger.Warn("unknown segment type", map[string]interface{}{"type": sc.Type})
			}
			continue
		}
		sc = withDefaultColors(sc)
		switch domain.SegmentKind(sc.Type) {
		case domain.SegmentDirectory:
			out = append(out, NewDirectory(sc, deps.Store, deps.Git, in))
		case domain.SegmentGit:
			out = append(out, NewGit(sc, deps.Git, in))
		case domain.SegmentPR:
			out = append(out, NewPR(sc, deps.Git, in))
		case domain.SegmentUsage:
			out = append(out, NewUsage(sc, deps.Providers, deps.Cache, deps.Logger, deps.Now))
		case domain.SegmentPace:
			out = append(out, NewPace(sc, deps.Store, cfg.Pace, deps.Now))
		case domain.SegmentContext:
			out = append(out, NewContext(sc))
		case domain.SegmentTime:
			out = append(out, NewTime(sc, deps.Now))
		case domain.SegmentThoughts:
			out = append(out, NewThoughts(sc, cfg.Thoughts, deps.Now))
		}
	}
	return out
}

func withDefaultColors(sc domain.SegmentConfig) domain.SegmentConfig {
	colors, ok := defaultColors[domain.SegmentKind(sc.Type)]
	if !ok {
		return sc
	}
	if sc.Foreground == "" {
		sc.Foreground = colors[0]
	}
	if sc.Background == "" {
		sc.Background = colors[1]
	}
	return sc
}

func fragment(sc domain.SegmentConfig, text string) domain.Fragment {
	return domain.Fragment{Text: text, Foreground: sc.Foreground, Background: sc.Background}
}
