package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotRepository is returned by Open outside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// CommitInfo contains metadata about a commit.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// ShortSHA returns the first seven characters of the commit hash.
func (c *CommitInfo) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// Repository reads changes from a local git worktree.
type Repository struct {
	repo *gogit.Repository
	root string
}

// Open opens the repository containing path. Parent directories are
// searched for the .git directory.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		repo: repo,
		root: worktree.Filesystem.Root(),
	}, nil
}

// Root returns the absolute path of the worktree.
func (r *Repository) Root() string {
	return r.root
}

// Resolve returns the commit named by rev: a branch, tag, hash or an
// expression such as "HEAD~2".
func (r *Repository) Resolve(rev string) (*CommitInfo, error) {
	commit, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	return commitInfo(commit), nil
}

// CurrentCommit returns the HEAD commit.
func (r *Repository) CurrentCommit() (*CommitInfo, error) {
	return r.Resolve("HEAD")
}

// ChangedSince returns the absolute paths of the files that differ from
// rev: committed changes between rev and HEAD, then staged, modified and
// untracked files in the worktree. Paths are sorted and exist on disk.
func (r *Repository) ChangedSince(ctx context.Context, rev string) ([]string, error) {
	from, err := r.commit(rev)
	if err != nil {
		return nil, err
	}
	head, err := r.commit("HEAD")
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})

	if from.Hash != head.Hash {
		committed, err := changedFiles(ctx, from, head)
		if err != nil {
			return nil, err
		}
		for _, name := range committed {
			set[name] = struct{}{}
		}
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}
	for name, fs := range status {
		if fs.Worktree == gogit.Unmodified && fs.Staging == gogit.Unmodified {
			continue
		}
		set[name] = struct{}{}
	}

	files := make([]string, 0, len(set))
	for name := range set {
		path := filepath.Join(r.root, filepath.FromSlash(name))
		// Deleted and renamed-away files have nothing to lint.
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

func (r *Repository) commit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
	}
	return commit, nil
}

// changedFiles returns the slash-separated paths, relative to the
// repository root, of the files added or modified between two commits.
func changedFiles(ctx context.Context, from, to *object.Commit) ([]string, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.DiffContext(ctx, toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	for _, change := range changes {
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		}
	}
	return files, nil
}

func commitInfo(c *object.Commit) *CommitInfo {
	return &CommitInfo{
		SHA:       c.Hash.String(),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
		Message:   strings.TrimSpace(c.Message),
	}
}

// Filter keeps the paths that are in changed, preserving their order.
// Both lists are compared as absolute, cleaned paths.
func Filter(paths, changed []string) []string {
	keep := make(map[string]struct{}, len(changed))
	for _, p := range changed {
		keep[absPath(p)] = struct{}{}
	}

	var out []string
	for _, p := range paths {
		if _, ok := keep[absPath(p)]; ok {
			out = append(out, p)
		}
	}
	return out
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
