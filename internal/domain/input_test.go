package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseStatusInput(t *testing.T) {
	raw := []byte(`{
		"session_id": "sess-1",
		"model": {"id": "m-1", "display_name": "Sonnet"},
		"workspace": {"current_dir": "/repo/sub", "project_dir": "/repo"},
		"git": {"branch": "main", "dirty": true, "ahead": 2, "behind": 1},
		"context_window": {"used_percentage": 40.5, "remaining_percentage": 59.5}
	}`)
	got := ParseStatusInput(raw)
	want := StatusInput{
		SessionID: "sess-1",
		Model:     ModelInfo{ID: "m-1", DisplayName: "Sonnet"},
		Workspace: WorkspaceInfo{CurrentDir: "/repo/sub", ProjectDir: "/repo"},
		Git:       GitInfo{Branch: "main", Dirty: true, Ahead: 2, Behind: 1},
		ContextWindow: ContextWindowInfo{
			UsedPercentage:      40.5,
			RemainingPercentage: 59.5,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStatusInputDefaults(t *testing.T) {
	if got := ParseStatusInput(nil); got != (StatusInput{}) {
		t.Fatalf("empty payload should parse to zero value, got %+v", got)
	}
	if got := ParseStatusInput([]byte("{}")); got != (StatusInput{}) {
		t.Fatalf("empty object should parse to zero value, got %+v", got)
	}
	if got := ParseStatusInput([]byte("{{{")); got != (StatusInput{}) {
		t.Fatalf("malformed payload should parse to zero value, got %+v", got)
	}
}
