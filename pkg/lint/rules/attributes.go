package rules

import (
	"fmt"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
)

// Attribute names checked by the touchable rules.
const (
	AttrAccessible         = "accessible"
	AttrAccessibilityLabel = "accessibilityLabel"
	AttrAccessibilityRole  = "accessibilityRole"
)

// maxSuggestionDistance bounds the edit distance of a near-miss attribute
// name that is offered as a suggestion.
const maxSuggestionDistance = 3

// FindAttribute returns the first named attribute called name, or nil.
// Names are compared exactly.
func FindAttribute(attrs []ast.AttributeEntry, name string) *ast.Attribute {
	for _, entry := range attrs {
		if attr, ok := entry.(*ast.Attribute); ok && attr.Name == name {
			return attr
		}
	}
	return nil
}

// HasAttribute reports whether attrs declares a named attribute called name.
func HasAttribute(attrs []ast.AttributeEntry, name string) bool {
	return FindAttribute(attrs, name) != nil
}

// HasSpreadAttribute reports whether attrs spreads an inline object literal
// that declares an identifier-keyed property called name. Spreads of any
// other expression, such as a variable, never contribute.
func HasSpreadAttribute(attrs []ast.AttributeEntry, name string) bool {
	for _, entry := range attrs {
		spread, ok := entry.(*ast.SpreadAttribute)
		if !ok {
			continue
		}
		obj, ok := spread.Expression.(*ast.ObjectLiteral)
		if !ok {
			continue
		}
		for _, prop := range obj.Properties {
			if prop.KeyKind == ast.KeyIdentifier && prop.Key == name {
				return true
			}
		}
	}
	return false
}

// nearMiss returns a suggestion when attrs carries a named attribute whose
// name is close to, but not equal to, want.
func nearMiss(attrs []ast.AttributeEntry, want string) string {
	var names []string
	for _, entry := range attrs {
		if attr, ok := entry.(*ast.Attribute); ok && attr.Name != want {
			names = append(names, attr.Name)
		}
	}
	if _, dist := lintErrors.Closest(want, names); dist >= 0 && dist < maxSuggestionDistance {
		return fmt.Sprintf("Did you mean '%s'?", want)
	}
	return ""
}
