package provider

import (
	"context"
	"testing"
	"time"

	"github.com/paceline/paceline/internal/domain"
)

func TestParseUsageOutputFlat(t *testing.T) {
	raw := []byte(`{"cost": 12.5, "inputTokens": 1000, "outputTokens": 500}`)
	got, err := ParseUsageOutput(raw, "2026-08-30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Cost != 12.5 || got.InputTokens != 1000 || got.OutputTokens != 500 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseUsageOutputDailyPicksToday(t *testing.T) {
	raw := []byte(`{"daily": [
		{"date": "2026-08-29", "totalCost": 4.0, "inputTokens": 10, "outputTokens": 5},
		{"date": "2026-08-30", "totalCost": 12.5, "inputTokens": 1000, "outputTokens": 500}
	]}`)
	got, err := ParseUsageOutput(raw, "2026-08-30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Cost != 12.5 || got.InputTokens != 1000 || got.OutputTokens != 500 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseUsageOutputDailyWithoutTodayIsZero(t *testing.T) {
	raw := []byte(`{"daily": [{"date": "2026-08-29", "totalCost": 4.0}]}`)
	got, err := ParseUsageOutput(raw, "2026-08-30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != (domain.UsageResult{}) {
		t.Fatalf("expected zero result, got %+v", got)
	}
}

func TestParseUsageOutputMalformed(t *testing.T) {
	if _, err := ParseUsageOutput([]byte("not json"), "2026-08-30"); err == nil {
		t.Fatal("expected error for malformed output")
	}
}

func TestFetchTodayTimeout(t *testing.T) {
	p := NewSubprocess(domain.ProviderConfig{
		ID:      "slow",
		Command: []string{"sleep", "5"},
	})
	p.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := p.FetchToday(context.Background())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch was not bounded by its deadline: %v", elapsed)
	}
}

func TestFetchTodayMissingBinary(t *testing.T) {
	p := NewSubprocess(domain.ProviderConfig{
		ID:             "ghost",
		Command:        []string{"paceline-test-definitely-missing-binary"},
		TimeoutSeconds: 1,
	})
	if _, err := p.FetchToday(context.Background()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestFetchTodayParsesCommandOutput(t *testing.T) {
	p := NewSubprocess(domain.ProviderConfig{
		ID:             "echo",
		Command:        []string{"echo", `{"cost": 1.25, "inputTokens": 3, "outputTokens": 4}`},
		TimeoutSeconds: 5,
	})
	got, err := p.FetchToday(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Cost != 1.25 || got.InputTokens != 3 || got.OutputTokens != 4 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
