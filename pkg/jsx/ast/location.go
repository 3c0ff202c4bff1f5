package ast

import (
	"fmt"
	"sort"
)

// Location represents the source location of an AST node in the original source file.
// It enables precise violation reporting with file, line, and column information.
type Location struct {
	File   string // Path to the source file
	Line   int    // Line number (1-based)
	Column int    // Byte column (1-based)
	Offset int    // Byte offset (0-based)
}

// String returns a human-readable representation of the location.
// Format: "file:line:column"
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has valid file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Span is embedded in every node and records the half-open source range
// [From, To) the node was built from.
type Span struct {
	From Location
	To   Location
}

// Begin returns the location of the first byte of the node.
func (s Span) Begin() Location {
	return s.From
}

// End returns the location just past the last byte of the node.
func (s Span) End() Location {
	return s.To
}

// LineTable resolves byte offsets of a source file into Locations.
type LineTable struct {
	file   string
	starts []int
	size   int
}

// NewLineTable indexes the line starts of src.
func NewLineTable(file string, src []byte) *LineTable {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineTable{file: file, starts: starts, size: len(src)}
}

// Location returns the Location of offset. Offsets past the end of the
// source are clamped to the end.
func (t *LineTable) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > t.size {
		offset = t.size
	}
	line := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > offset }) - 1
	return Location{
		File:   t.file,
		Line:   line + 1,
		Column: offset - t.starts[line] + 1,
		Offset: offset,
	}
}

// Span returns the Span covering [from, to).
func (t *LineTable) Span(from, to int) Span {
	return Span{From: t.Location(from), To: t.Location(to)}
}
