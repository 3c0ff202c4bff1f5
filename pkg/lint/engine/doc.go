// Package engine runs the lint rules over a set of files.
//
// Discover expands command-line patterns ("./...", "dir/...", "dir",
// "file.tsx") into a sorted list of files. Engine.Run lints them in parallel
// with a bounded worker pool and returns a Report whose files are sorted by
// path and whose violations are sorted by position, so output does not
// depend on scheduling.
//
// Each file is parsed into its own tree and checked by every enabled rule.
// Violations silenced by touchlint directives are dropped and counted. A
// file that cannot be read or parsed yields a FileResult with Err set; with
// FailFast the first such file stops the run.
package engine
