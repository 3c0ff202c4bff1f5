package ast

import "iter"

// Children returns the direct children of n in document order. Attributes
// and their values come before the element children of an element.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *File:
		return t.Children
	case *Element:
		out := make([]Node, 0, len(t.Children)+2)
		if t.Opening != nil {
			out = append(out, t.Opening)
		}
		out = append(out, t.Children...)
		if t.Closing != nil {
			out = append(out, t.Closing)
		}
		return out
	case *OpeningElement:
		return attributeNodes(t.Attributes)
	case *SelfClosingElement:
		return attributeNodes(t.Attributes)
	case *Fragment:
		return t.Children
	case *ExpressionContainer:
		if t.Expression == nil {
			return nil
		}
		return []Node{t.Expression}
	case *Attribute:
		if t.Initializer == nil {
			return nil
		}
		return []Node{t.Initializer}
	case *SpreadAttribute:
		if t.Expression == nil {
			return nil
		}
		return []Node{t.Expression}
	case *ObjectLiteral:
		out := make([]Node, 0, len(t.Properties))
		for _, p := range t.Properties {
			out = append(out, p)
		}
		return out
	case *Property:
		if t.Value == nil {
			return nil
		}
		return []Node{t.Value}
	case *RawExpr:
		return t.Nodes
	default:
		return nil
	}
}

func attributeNodes(attrs []AttributeEntry) []Node {
	out := make([]Node, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	return out
}

// Preorder returns an iterator over root and all of its descendants in
// depth-first pre-order, which is document order. Each call to the
// returned sequence starts a fresh traversal.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		preorder(root, yield)
	}
}

func preorder(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range Children(n) {
		if !preorder(c, yield) {
			return false
		}
	}
	return true
}

// Inspect traverses the tree rooted at root in pre-order. If f returns
// false the children of that node are skipped.
func Inspect(root Node, f func(Node) bool) {
	if root == nil {
		return
	}
	if !f(root) {
		return
	}
	for _, c := range Children(root) {
		Inspect(c, f)
	}
}
