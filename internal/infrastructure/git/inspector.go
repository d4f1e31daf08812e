// Package git shells out to git and gh for repository state. Calls are
// short-deadline and best-effort: a missing binary or a non-repo directory
// reports zero values.
package git

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// CLIInspector implements ports.GitInspector with git/gh subprocesses.
type CLIInspector struct {
	cmdTimeout time.Duration
}

// NewCLIInspector builds an inspector with the default per-command deadline.
func NewCLIInspector() *CLIInspector {
	return &CLIInspector{cmdTimeout: 2 * time.Second}
}

// Status reports branch and working-tree state for dir. The second return is
// false when dir is not inside a git repository.
func (g *CLIInspector) Status(ctx context.Context, dir string) (domain.GitStatus, bool) {
	branch := strings.TrimSpace(g.run(ctx, dir, "git", "rev-parse", "--abbrev-ref", "HEAD"))
	if branch == "" {
		return domain.GitStatus{}, false
	}
	status := domain.GitStatus{Branch: branch}
	porcelain := g.run(ctx, dir, "git", "status", "--porcelain")
	status.Dirty = strings.TrimSpace(porcelain) != ""
	counts := strings.Fields(g.run(ctx, dir, "git", "rev-list", "--left-right", "--count", "@{upstream}...HEAD"))
	if len(counts) == 2 {
		status.Behind, _ = strconv.Atoi(counts[0])
		status.Ahead, _ = strconv.Atoi(counts[1])
	}
	return status, true
}

// Root returns the repository top-level for dir, or "" outside a repository.
func (g *CLIInspector) Root(ctx context.Context, dir string) string {
	return strings.TrimSpace(g.run(ctx, dir, "git", "rev-parse", "--show-toplevel"))
}

// OpenPR returns the open pull-request number for branch as a display string,
// or "" when gh is unavailable or no PR exists.
func (g *CLIInspector) OpenPR(ctx context.Context, dir, branch string) string {
	if branch == "" {
		return ""
	}
	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}
	out := g.run(ctx, dir, "gh", "pr", "view", branch, "--json", "number")
	var pr struct {
		Number int `json:"number"`
	}
	if err := json.Unmarshal([]byte(out), &pr); err != nil || pr.Number == 0 {
		return ""
	}
	return "#" + strconv.Itoa(pr.Number)
}

func (g *CLIInspector) run(ctx context.Context, dir string, name string, args ...string) string {
	cctx, cancel := context.WithTimeout(ctx, g.cmdTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(out)
}

var _ ports.GitInspector = (*CLIInspector)(nil)
