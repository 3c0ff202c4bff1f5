package vcs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/r3labs/diff/v2"
)

// testRepo is a git worktree in a temporary directory.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) write(name, content string) string {
	r.t.Helper()
	path := filepath.Join(r.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// commit stages every change, including deletions, and commits.
func (r *testRepo) commit(message string) string {
	r.t.Helper()
	worktree, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("failed to get worktree: %v", err)
	}
	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		r.t.Fatalf("failed to add files: %v", err)
	}
	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}

func (r *testRepo) path(name string) string {
	return filepath.Join(r.dir, filepath.FromSlash(name))
}

func TestOpen(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("src/App.tsx", "a")
	tr.commit("initial commit")

	repo, err := Open(filepath.Join(tr.dir, "src"))
	if err != nil {
		t.Fatalf("Open() from subdirectory error: %v", err)
	}
	if repo.Root() != tr.dir {
		t.Errorf("Root() = %q, want %q", repo.Root(), tr.dir)
	}

	if _, err := Open(t.TempDir()); !errors.Is(err, ErrNotRepository) {
		t.Errorf("Open() outside a repository error = %v, want ErrNotRepository", err)
	}
}

func TestResolve(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("App.tsx", "a")
	first := tr.commit("first commit")
	tr.write("App.tsx", "b")
	second := tr.commit("second commit")

	repo, err := Open(tr.dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	head, err := repo.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit() error: %v", err)
	}
	if head.SHA != second || head.Message != "second commit" || head.Author != "Test User" {
		t.Errorf("CurrentCommit() = %+v", head)
	}
	if head.ShortSHA() != second[:7] {
		t.Errorf("ShortSHA() = %q, want %q", head.ShortSHA(), second[:7])
	}

	parent, err := repo.Resolve("HEAD~1")
	if err != nil {
		t.Fatalf("Resolve(HEAD~1) error: %v", err)
	}
	if parent.SHA != first {
		t.Errorf("Resolve(HEAD~1) = %s, want %s", parent.SHA, first)
	}

	if _, err := repo.Resolve("no-such-branch"); err == nil {
		t.Error("Resolve() of unknown revision should return error")
	}
}

func TestChangedSince(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("src/a.tsx", "a")
	tr.write("src/b.tsx", "b")
	tr.write("src/gone.tsx", "gone")
	base := tr.commit("base")

	tr.write("src/b.tsx", "b2")
	if err := os.Remove(tr.path("src/gone.tsx")); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	tr.commit("edit b, drop gone")

	tr.write("src/c.tsx", "untracked")

	repo, err := Open(tr.dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	tests := []struct {
		name string
		rev  string
		want []string
	}{
		{
			name: "committed and untracked",
			rev:  base,
			want: []string{tr.path("src/b.tsx"), tr.path("src/c.tsx")},
		},
		{
			name: "worktree only",
			rev:  "HEAD",
			want: []string{tr.path("src/c.tsx")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ChangedSince(context.Background(), tt.rev)
			if err != nil {
				t.Fatalf("ChangedSince() error: %v", err)
			}
			changes, err := diff.Diff(tt.want, got)
			if err != nil {
				t.Fatalf("diff failed: %v", err)
			}
			if len(changes) > 0 {
				t.Errorf("ChangedSince(%s) = %v, want %v", tt.rev, got, tt.want)
			}
		})
	}
}

func TestChangedSinceModifiedWorktree(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.tsx", "a")
	tr.write("b.tsx", "b")
	tr.commit("initial commit")
	tr.write("a.tsx", "edited")

	repo, err := Open(tr.dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	got, err := repo.ChangedSince(context.Background(), "HEAD")
	if err != nil {
		t.Fatalf("ChangedSince() error: %v", err)
	}
	if len(got) != 1 || got[0] != tr.path("a.tsx") {
		t.Errorf("ChangedSince(HEAD) = %v, want [a.tsx]", got)
	}
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tsx")
	b := filepath.Join(dir, "b.tsx")
	c := filepath.Join(dir, "sub", "..", "c.tsx")

	tests := []struct {
		name    string
		paths   []string
		changed []string
		want    []string
	}{
		{"intersection keeps order", []string{b, a}, []string{a, b}, []string{b, a}},
		{"nothing changed", []string{a, b}, nil, nil},
		{"unclean path matches", []string{c}, []string{filepath.Join(dir, "c.tsx")}, []string{c}},
		{"changed outside paths", []string{a}, []string{b}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.paths, tt.changed)
			changes, err := diff.Diff(tt.want, got)
			if err != nil {
				t.Fatalf("diff failed: %v", err)
			}
			if len(changes) > 0 {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}
