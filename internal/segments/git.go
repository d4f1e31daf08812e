package segments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/ports"
)

// Git shows branch and working-tree markers. When the caller already reports
// branch state on stdin that is used as-is; otherwise UpdateCache shells out
// to git for it.
type Git struct {
	cfg domain.SegmentConfig
	git ports.GitInspector
	in  domain.StatusInput

	mu     sync.Mutex
	status domain.GitStatus
	inRepo bool
}

// NewGit builds the git segment for one invocation.
func NewGit(cfg domain.SegmentConfig, git ports.GitInspector, in domain.StatusInput) *Git {
	g := &Git{cfg: cfg, git: git, in: in}
	if in.Git.Branch != "" {
		g.status = domain.GitStatus{
			Branch: in.Git.Branch,
			Dirty:  in.Git.Dirty,
			Ahead:  in.Git.Ahead,
			Behind: in.Git.Behind,
		}
		g.inRepo = true
	}
	return g
}

func (g *Git) Kind() domain.SegmentKind { return domain.SegmentGit }

// UpdateCache detects branch state when stdin did not carry it.
func (g *Git) UpdateCache(ctx context.Context) {
	g.mu.Lock()
	known := g.inRepo
	g.mu.Unlock()
	if known || g.git == nil || g.in.Workspace.CurrentDir == "" {
		return
	}
	status, ok := g.git.Status(ctx, g.in.Workspace.CurrentDir)
	if !ok {
		return
	}
	g.mu.Lock()
	g.status = status
	g.inRepo = true
	g.mu.Unlock()
}

// Render shows "branch" with * for a dirty tree and arrow counts for
// ahead/behind. Outside a repository the fragment is empty and is dropped.
func (g *Git) Render(in domain.StatusInput) domain.Fragment {
	g.mu.Lock()
	status, inRepo := g.status, g.inRepo
	g.mu.Unlock()
	if !inRepo {
		return fragment(g.cfg, "")
	}
	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(status.Branch)
	if status.Dirty {
		b.WriteString("*")
	}
	if status.Ahead > 0 {
		fmt.Fprintf(&b, " ↑%d", status.Ahead)
	}
	if status.Behind > 0 {
		fmt.Fprintf(&b, " ↓%d", status.Behind)
	}
	return fragment(g.cfg, b.String())
}
