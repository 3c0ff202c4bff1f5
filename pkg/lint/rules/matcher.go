package rules

import (
	"strings"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

// MatchMode selects how a tag name is compared against the touchable
// prefix.
type MatchMode int

const (
	// CaseSensitive matches tags starting with "Touchable".
	CaseSensitive MatchMode = iota
	// CaseInsensitive matches tags whose lower-cased name starts with
	// "touchable".
	CaseInsensitive
)

const (
	touchablePrefix      = "Touchable"
	touchablePrefixLower = "touchable"
)

// String returns the string representation of the match mode.
func (m MatchMode) String() string {
	switch m {
	case CaseSensitive:
		return "case-sensitive"
	case CaseInsensitive:
		return "case-insensitive"
	default:
		return "unknown"
	}
}

// IsTouchable reports whether tag names a touchable component. Only simple
// identifier tags can match; member (`Foo.Touchable`) and namespaced tags
// never do.
func IsTouchable(tag ast.TagName, mode MatchMode) bool {
	if tag.Kind != ast.TagIdentifier {
		return false
	}
	switch mode {
	case CaseSensitive:
		return strings.HasPrefix(tag.Text, touchablePrefix)
	case CaseInsensitive:
		return strings.HasPrefix(strings.ToLower(tag.Text), touchablePrefixLower)
	default:
		return false
	}
}
