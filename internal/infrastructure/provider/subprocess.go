// Package provider invokes external cost-accounting tools as subprocesses.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// Subprocess runs a configured command under a hard deadline and parses its
// JSON output into today's usage. The child's stderr is captured, never
// inherited, so a chatty tool cannot pollute the status line.
type Subprocess struct {
	id      string
	command []string
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewSubprocess builds a provider from its config entry.
func NewSubprocess(cfg domain.ProviderConfig) *Subprocess {
	return &Subprocess{
		id:      cfg.ID,
		command: cfg.Command,
		ttl:     time.Duration(cfg.TTLSeconds) * time.Second,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		now:     time.Now,
	}
}

// ID implements ports.CostProvider.
func (p *Subprocess) ID() string { return p.id }

// TTL implements ports.CostProvider.
func (p *Subprocess) TTL() time.Duration { return p.ttl }

// FetchToday runs the command and extracts today's cost and token counts.
func (p *Subprocess) FetchToday(ctx context.Context) (domain.UsageResult, error) {
	if len(p.command) == 0 {
		return domain.UsageResult{}, exec.ErrNotFound
	}
	cctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(cctx, p.command[0], p.command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return domain.UsageResult{}, err
	}
	return ParseUsageOutput(stdout.Bytes(), domain.DateKey(p.now()))
}

// flatReport is the simplest accepted shape: a single object for today.
type flatReport struct {
	Cost         float64 `json:"cost"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
}

// dailyReport matches ccusage-style output: one entry per calendar day.
type dailyReport struct {
	Daily []struct {
		Date         string  `json:"date"`
		TotalCost    float64 `json:"totalCost"`
		InputTokens  int64   `json:"inputTokens"`
		OutputTokens int64   `json:"outputTokens"`
	} `json:"daily"`
}

// ParseUsageOutput accepts either a flat {cost, inputTokens, outputTokens}
// object or a ccusage-style {daily: [...]} report, picking the row for today.
// A report with no row for today parses to a zero result.
func ParseUsageOutput(raw []byte, today string) (domain.UsageResult, error) {
	var daily dailyReport
	if err := json.Unmarshal(raw, &daily); err == nil && len(daily.Daily) > 0 {
		for _, d := range daily.Daily {
			if d.Date == today {
				return domain.UsageResult{
					Cost:         d.TotalCost,
					InputTokens:  d.InputTokens,
					OutputTokens: d.OutputTokens,
				}, nil
			}
		}
		return domain.UsageResult{}, nil
	}
	var flat flatReport
	if err := json.Unmarshal(raw, &flat); err != nil {
		return domain.UsageResult{}, err
	}
	return domain.UsageResult{
		Cost:         flat.Cost,
		InputTokens:  flat.InputTokens,
		OutputTokens: flat.OutputTokens,
	}, nil
}

var _ ports.CostProvider = (*Subprocess)(nil)
