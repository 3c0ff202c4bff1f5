package engine

import (
	"path/filepath"
	"testing"

	"github.com/r3labs/diff/v2"
)

func TestDiscover(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"App.tsx":                  "",
		"index.js":                 "",
		"README.md":                "",
		"src/Button.jsx":           "",
		"src/deep/Card.TSX":        "",
		"node_modules/lib/x.js":    "",
		".cache/y.tsx":             "",
		"src/dist/bundle.js":       "",
		"scripts/build.sh":         "",
		"scripts/generated.js.map": "",
	})
	opts := DiscoverOptions{
		Extensions: []string{".tsx", ".jsx", ".js"},
		IgnoreDirs: []string{"node_modules", "dist"},
	}
	join := func(name string) string { return filepath.Join(root, filepath.FromSlash(name)) }

	tests := []struct {
		name     string
		patterns []string
		want     []string
		wantErr  bool
	}{
		{
			name:     "recursive",
			patterns: []string{root + "/..."},
			want:     []string{join("App.tsx"), join("index.js"), join("src/Button.jsx"), join("src/deep/Card.TSX")},
		},
		{
			name:     "single directory",
			patterns: []string{root},
			want:     []string{join("App.tsx"), join("index.js")},
		},
		{
			name:     "explicit file ignores extension filter",
			patterns: []string{join("README.md")},
			want:     []string{join("README.md")},
		},
		{
			name:     "ignored directory named as root",
			patterns: []string{join("node_modules") + "/..."},
			want:     []string{join("node_modules/lib/x.js")},
		},
		{
			name:     "overlapping patterns are deduplicated",
			patterns: []string{join("src") + "/...", join("src/Button.jsx"), join("src") + "/./Button.jsx"},
			want:     []string{join("src/Button.jsx"), join("src/deep/Card.TSX")},
		},
		{
			name:     "missing path",
			patterns: []string{join("missing")},
			wantErr:  true,
		},
		{
			name:     "recursive pattern on a file",
			patterns: []string{join("App.tsx") + "/..."},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Discover(tt.patterns, opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Discover() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			changes, err := diff.Diff(tt.want, got)
			if err != nil {
				t.Fatalf("diff.Diff() error = %v", err)
			}
			if len(changes) > 0 {
				t.Errorf("Discover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		root      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"src/...", "src", true},
		{"/...", string(filepath.Separator), true},
		{"src", "src", false},
		{"a.tsx", "a.tsx", false},
	}
	for _, tt := range tests {
		root, recursive := splitPattern(tt.pattern)
		if root != tt.root || recursive != tt.recursive {
			t.Errorf("splitPattern(%q) = (%q, %v), want (%q, %v)", tt.pattern, root, recursive, tt.root, tt.recursive)
		}
	}
}
