package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
)

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// Extensions lists the accepted file extensions, including the dot.
	Extensions []string

	// IgnoreDirs lists directory names that are never descended into.
	// Hidden directories are always skipped.
	IgnoreDirs []string
}

// Discover expands patterns into a sorted, de-duplicated list of files.
//
// A pattern ending in "/..." walks the directory recursively, a plain
// directory contributes only its own files, and a file is returned as is,
// whatever its extension. No patterns means "./...".
func Discover(patterns []string, opts DiscoverOptions) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	d := &discoverer{
		exts:   make(map[string]bool, len(opts.Extensions)),
		ignore: make(map[string]bool, len(opts.IgnoreDirs)),
		seen:   make(map[string]bool),
	}
	for _, ext := range opts.Extensions {
		d.exts[strings.ToLower(ext)] = true
	}
	for _, dir := range opts.IgnoreDirs {
		d.ignore[dir] = true
	}

	for _, pattern := range patterns {
		if err := d.expand(pattern); err != nil {
			return nil, err
		}
	}

	sort.Strings(d.files)
	return d.files, nil
}

type discoverer struct {
	exts   map[string]bool
	ignore map[string]bool
	seen   map[string]bool
	files  []string
}

func (d *discoverer) expand(pattern string) error {
	root, recursive := splitPattern(pattern)

	info, err := os.Stat(root)
	if err != nil {
		return &lintErrors.Error{
			Type:     lintErrors.ErrorTypeIO,
			Message:  "no such file or directory",
			Location: ast.Location{File: pattern},
			Err:      err,
		}
	}

	if !info.IsDir() {
		if recursive {
			return &lintErrors.Error{
				Type:     lintErrors.ErrorTypeIO,
				Message:  "pattern with /... must name a directory",
				Location: ast.Location{File: pattern},
			}
		}
		d.add(root)
		return nil
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return lintErrors.Wrap(lintErrors.ErrorTypeIO, "failed to read directory "+root, err)
		}
		for _, e := range entries {
			if !e.IsDir() && d.accepts(e.Name()) {
				d.add(filepath.Join(root, e.Name()))
			}
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			if path != root && d.skipDir(de.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if de.Type().IsRegular() && d.accepts(de.Name()) {
			d.add(path)
		}
		return nil
	})
}

func (d *discoverer) skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || d.ignore[name]
}

func (d *discoverer) accepts(name string) bool {
	return d.exts[strings.ToLower(filepath.Ext(name))]
}

func (d *discoverer) add(path string) {
	path = filepath.Clean(path)
	if d.seen[path] {
		return
	}
	d.seen[path] = true
	d.files = append(d.files, path)
}

// splitPattern strips a trailing "/..." and reports whether it was present.
func splitPattern(pattern string) (string, bool) {
	p := filepath.ToSlash(pattern)
	switch {
	case p == "...":
		return ".", true
	case strings.HasSuffix(p, "/..."):
		root := strings.TrimSuffix(p, "/...")
		if root == "" {
			root = "/"
		}
		return filepath.FromSlash(root), true
	default:
		return pattern, false
	}
}
