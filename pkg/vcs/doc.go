// Package vcs finds the source files a git change touched, so that lint
// can check only what changed since a base revision:
//
//	repo, err := vcs.Open(".")
//	changed, err := repo.ChangedSince(ctx, "origin/main")
//	paths = vcs.Filter(paths, changed)
//
// Changes are the files that differ between the base commit and HEAD,
// plus uncommitted and untracked files in the worktree. Deleted files are
// never reported.
package vcs
