package segments

import (
	"context"
	"sync"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// PR shows the open pull-request number for the current branch, resolved via
// a gh shell-out. It renders empty (and is dropped) when gh is missing or no
// PR is open.
type PR struct {
	cfg domain.SegmentConfig
	git ports.GitInspector
	in  domain.StatusInput

	mu   sync.Mutex
	text string
}

// NewPR builds the PR segment for one invocation.
func NewPR(cfg domain.SegmentConfig, git ports.GitInspector, in domain.StatusInput) *PR {
	return &PR{cfg: cfg, git: git, in: in}
}

func (p *PR) Kind() domain.SegmentKind { return domain.SegmentPR }

// UpdateCache asks gh for the branch's open PR.
func (p *PR) UpdateCache(ctx context.Context) {
	if p.git == nil || p.in.Workspace.CurrentDir == "" {
		return
	}
	branch := p.in.Git.Branch
	if branch == "" {
		if status, ok := p.git.Status(ctx, p.in.Workspace.CurrentDir); ok {
			branch = status.Branch
		}
	}
	text := p.git.OpenPR(ctx, p.in.Workspace.CurrentDir, branch)
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

func (p *PR) Render(in domain.StatusInput) domain.Fragment {
	p.mu.Lock()
	text := p.text
	p.mu.Unlock()
	return fragment(p.cfg, text)
}
