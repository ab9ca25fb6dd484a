// Package gitblame annotates source lines with their age in days using the
// enclosing git repository. It is an optional collaborator: when the scan
// root is not inside a repository, or a file is untracked, annotations are
// simply absent and no rule is affected.
package gitblame

import (
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Annotator resolves line ages through git blame, caching one blame result
// per file. Safe for concurrent use.
type Annotator struct {
	repo     *git.Repository
	commit   *object.Commit
	repoRoot string
	basePath string
	now      time.Time
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]*git.BlameResult
}

// NewAnnotator opens the repository containing basePath. ok is false when
// there is no usable repository or HEAD commit; callers then run without
// age annotations.
func NewAnnotator(basePath string, logger *slog.Logger) (*Annotator, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, err := git.PlainOpenWithOptions(basePath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		logger.Debug("no git repository, marker ages disabled", "path", basePath, "error", err)
		return nil, false
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, false
	}

	head, err := repo.Head()
	if err != nil {
		logger.Debug("no HEAD, marker ages disabled", "path", basePath, "error", err)
		return nil, false
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, false
	}

	return &Annotator{
		repo:     repo,
		commit:   commit,
		repoRoot: worktree.Filesystem.Root(),
		basePath: basePath,
		now:      time.Now(),
		logger:   logger,
		cache:    make(map[string]*git.BlameResult),
	}, true
}

// AgeDays returns the whole days since the line was last modified according
// to blame at HEAD. ok is false for untracked files, out-of-range lines, or
// any blame failure.
func (a *Annotator) AgeDays(file string, line int) (int, bool) {
	blame := a.blameFor(file)
	if blame == nil {
		return 0, false
	}
	if line < 1 || line > len(blame.Lines) {
		return 0, false
	}

	age := a.now.Sub(blame.Lines[line-1].Date)
	if age < 0 {
		age = 0
	}
	return int(age.Hours() / 24), true
}

func (a *Annotator) blameFor(file string) *git.BlameResult {
	rel, err := filepath.Rel(a.repoRoot, filepath.Join(a.basePath, file))
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	a.mu.Lock()
	defer a.mu.Unlock()

	if cached, ok := a.cache[rel]; ok {
		return cached
	}

	blame, err := git.Blame(a.commit, rel)
	if err != nil {
		a.logger.Debug("blame failed", "file", rel, "error", err)
		blame = nil
	}
	a.cache[rel] = blame // cache failures too, blame is expensive
	return blame
}
