package rules

import "touchlint-hq/touchlint/pkg/jsx/ast"

// A11yTouchablesName is the name of the three-attribute rule.
const A11yTouchablesName = "tsx-a11y-touchables"

// Messages reported by tsx-a11y-touchables.
const (
	MessageMissingAccessible        = "Touchable component misses accessible property."
	MessageMissingLabelOnAccessible = "Touchable and accessible component misses accessibilityLabel property."
	MessageMissingRoleOnAccessible  = "Touchable and accessible component misses accessibilityRole property."
)

// A11yTouchables flags touchable components (case-insensitive `touchable`
// prefix) that fail the accessible / accessibilityLabel /
// accessibilityRole protocol:
//
//  1. `accessible` must be present with an expression container value,
//     otherwise the element is reported once and checking stops.
//  2. `accessible={false}` exempts the element.
//  3. Otherwise `accessibilityLabel` and `accessibilityRole` are each
//     required, so an element may be reported twice.
//
// Only directly declared attributes count; spreads are ignored.
type A11yTouchables struct{}

// NewA11yTouchables creates the tsx-a11y-touchables rule.
func NewA11yTouchables() *A11yTouchables {
	return &A11yTouchables{}
}

// Metadata returns the rule's static description.
func (r *A11yTouchables) Metadata() Metadata {
	return Metadata{
		Name:               A11yTouchablesName,
		Description:        "Warn if a touchable component misses accessible properties.",
		OptionsDescription: "Not configurable.",
		RequiresOptions:    false,
		Type:               RuleTypeFunctionality,
		TypeScriptOnly:     false,
	}
}

// Apply evaluates every touchable element.
func (r *A11yTouchables) Apply(file *ast.File) []Violation {
	var violations []Violation
	WalkElements(file, func(n ast.Node, tag ast.TagName, attrs []ast.AttributeEntry) {
		if !IsTouchable(tag, CaseInsensitive) {
			return
		}
		violations = append(violations, r.check(n, attrs)...)
	})
	return violations
}

func (r *A11yTouchables) check(n ast.Node, attrs []ast.AttributeEntry) []Violation {
	accessible := FindAttribute(attrs, AttrAccessible)
	container, ok := accessibleExpression(accessible)
	if !ok {
		return []Violation{newViolation(A11yTouchablesName, MessageMissingAccessible, n, nearMiss(attrs, AttrAccessible))}
	}

	if lit, ok := container.Expression.(*ast.BooleanLiteral); ok && !lit.Value {
		return nil
	}

	var violations []Violation
	if !HasAttribute(attrs, AttrAccessibilityLabel) {
		violations = append(violations, newViolation(A11yTouchablesName, MessageMissingLabelOnAccessible, n, nearMiss(attrs, AttrAccessibilityLabel)))
	}
	if !HasAttribute(attrs, AttrAccessibilityRole) {
		violations = append(violations, newViolation(A11yTouchablesName, MessageMissingRoleOnAccessible, n, nearMiss(attrs, AttrAccessibilityRole)))
	}
	return violations
}

// accessibleExpression returns the expression container of the accessible
// attribute. Absent attributes, the bare form and string values yield false.
func accessibleExpression(attr *ast.Attribute) (*ast.ExpressionContainer, bool) {
	if attr == nil {
		return nil, false
	}
	container, ok := attr.Initializer.(*ast.ExpressionContainer)
	return container, ok
}
