// Package domain defines the core entities of paceline: the stdin snapshot,
// configuration, persisted telemetry records, and the fragments segments emit.
// It is independent of infrastructure concerns.
package domain

// SegmentKind enumerates the fixed set of status-line segment variants.
type SegmentKind string

const (
	SegmentDirectory SegmentKind = "directory"
	SegmentGit       SegmentKind = "git"
	SegmentPR        SegmentKind = "pr"
	SegmentUsage     SegmentKind = "usage"
	SegmentPace      SegmentKind = "pace"
	SegmentContext   SegmentKind = "context"
	SegmentTime      SegmentKind = "time"
	SegmentThoughts  SegmentKind = "thoughts"
)

// KnownSegmentKinds lists every valid kind in default render order.
var KnownSegmentKinds = []SegmentKind{
	SegmentDirectory,
	SegmentGit,
	SegmentPR,
	SegmentUsage,
	SegmentPace,
	SegmentContext,
	SegmentTime,
	SegmentThoughts,
}

// ValidSegmentKind reports whether s names a known segment variant.
func ValidSegmentKind(s string) bool {
	for _, k := range KnownSegmentKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// Fragment is one rendered block of the status line: its text and the color
// pair the renderer should apply. An empty Text drops the fragment from the
// composed line.
type Fragment struct {
	Text       string
	Foreground string
	Background string
}
