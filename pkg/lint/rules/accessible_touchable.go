package rules

import "touchlint-hq/touchlint/pkg/jsx/ast"

// AccessibleTouchableName is the name of the single-attribute rule.
const AccessibleTouchableName = "accessible-touchable"

// MessageMissingAccessibilityLabel is reported by accessible-touchable.
const MessageMissingAccessibilityLabel = "Touchable component misses an accessible / accessibilityLabel attribute."

// AccessibleTouchable flags touchable components (case-sensitive
// `Touchable` prefix) that carry no accessibilityLabel, either declared
// directly or spread from an inline object literal.
type AccessibleTouchable struct{}

// NewAccessibleTouchable creates the accessible-touchable rule.
func NewAccessibleTouchable() *AccessibleTouchable {
	return &AccessibleTouchable{}
}

// Metadata returns the rule's static description.
func (r *AccessibleTouchable) Metadata() Metadata {
	return Metadata{
		Name:               AccessibleTouchableName,
		Description:        "Warn if a touchable component misses an accessibility property.",
		OptionsDescription: "",
		OptionExamples:     []string{"true"},
		RequiresOptions:    false,
		Type:               RuleTypeFunctionality,
		TypeScriptOnly:     false,
	}
}

// Apply returns one violation per touchable element without an
// accessibilityLabel.
func (r *AccessibleTouchable) Apply(file *ast.File) []Violation {
	var violations []Violation
	WalkElements(file, func(n ast.Node, tag ast.TagName, attrs []ast.AttributeEntry) {
		if !IsTouchable(tag, CaseSensitive) {
			return
		}
		if HasAttribute(attrs, AttrAccessibilityLabel) || HasSpreadAttribute(attrs, AttrAccessibilityLabel) {
			return
		}
		violations = append(violations, newViolation(
			AccessibleTouchableName,
			MessageMissingAccessibilityLabel,
			n,
			nearMiss(attrs, AttrAccessibilityLabel),
		))
	})
	return violations
}
