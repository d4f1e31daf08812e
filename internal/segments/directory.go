package segments

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/pkg/filesystem"
	"github.com/paceline/paceline/internal/ports"
)

// Directory shows the working directory basename, marking sessions that
// started at the git root. The root flag is resolved once per session and
// cached in the snapshot store, so the marker stays stable even after the
// user cds around.
type Directory struct {
	cfg   domain.SegmentConfig
	store ports.SnapshotStore
	git   ports.GitInspector
	in    domain.StatusInput

	mu     sync.Mutex
	isRoot bool
}

// NewDirectory builds the directory segment for one invocation.
func NewDirectory(cfg domain.SegmentConfig, store ports.SnapshotStore, git ports.GitInspector, in domain.StatusInput) *Directory {
	return &Directory{cfg: cfg, store: store, git: git, in: in}
}

func (d *Directory) Kind() domain.SegmentKind { return domain.SegmentDirectory }

// UpdateCache resolves the session's is-root-at-start flag. Store failures
// fall back to a live comparison inside the store itself.
func (d *Directory) UpdateCache(ctx context.Context) {
	cwd := d.in.Workspace.CurrentDir
	if cwd == "" || d.store == nil {
		return
	}
	var root string
	if d.git != nil {
		root = d.git.Root(ctx, cwd)
	}
	isRoot, err := d.store.SessionRootStatus(d.in.SessionID, cwd, root, d.in.Git.Branch)
	if err != nil {
		return
	}
	d.mu.Lock()
	d.isRoot = isRoot
	d.mu.Unlock()
}

// Render shows the home-abbreviated basename, or "?" when the caller did not
// report a directory.
func (d *Directory) Render(in domain.StatusInput) domain.Fragment {
	cwd := in.Workspace.CurrentDir
	if cwd == "" {
		return fragment(d.cfg, "?")
	}
	text := filepath.Base(filesystem.AbbreviateHome(cwd))
	d.mu.Lock()
	isRoot := d.isRoot
	d.mu.Unlock()
	if isRoot {
		text += " ✦"
	}
	return fragment(d.cfg, text)
}
