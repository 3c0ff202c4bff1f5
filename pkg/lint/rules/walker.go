package rules

import "touchlint-hq/touchlint/pkg/jsx/ast"

// WalkElements calls fn for every paired and self-closing element under
// root, in document order, before visiting the element's own descendants.
// Every element is visited exactly once; a violation on one element never
// stops the traversal.
func WalkElements(root ast.Node, fn func(n ast.Node, tag ast.TagName, attrs []ast.AttributeEntry)) {
	for n := range ast.Preorder(root) {
		if tag, attrs, ok := ast.ElementOf(n); ok {
			fn(n, tag, attrs)
		}
	}
}
