// Package ast provides the source tree for JSX and TSX files.
//
// The tree only models markup: a File holds the JSX nodes found in the
// script, in document order. Script code around the markup is not
// represented except where it carries JSX (RawExpr.Nodes) or where its
// shape matters to the lint rules (object literals in spread attributes,
// boolean literals in expression containers).
//
// # Core Types
//
// Element: paired element; tag name and attributes live on its OpeningElement
//
// SelfClosingElement: `<Tag />` element carrying tag name and attributes directly
//
// Attribute, SpreadAttribute: the two variants of AttributeEntry
//
// ExpressionContainer: `{...}` in attribute value or child position
//
// ObjectLiteral, Property: inline object expressions
//
// Location, Span: source positions for reporting
//
// # Traversal
//
// Preorder yields every node in document order:
//
//	for n := range ast.Preorder(file) {
//	    if tag, attrs, ok := ast.ElementOf(n); ok {
//	        fmt.Println(tag.Text, len(attrs))
//	    }
//	}
//
// Inspect is the callback form and allows pruning subtrees.
//
// # Immutability
//
// Trees are built once by the parser and must be treated as read-only.
package ast
