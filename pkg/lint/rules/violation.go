package rules

import (
	"fmt"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

// Violation is a finding of one rule on one element.
type Violation struct {
	// Rule is the name of the rule that produced the violation.
	Rule string

	// Message is the fixed failure message of the rule.
	Message string

	// Node is the offending element. It is nil for violations that were
	// loaded back from storage.
	Node ast.Node

	// Location is where the offending element begins.
	Location ast.Location

	// Suggestion is an optional hint, such as a near-miss attribute name.
	Suggestion string
}

func newViolation(rule, message string, node ast.Node, suggestion string) Violation {
	return Violation{
		Rule:       rule,
		Message:    message,
		Node:       node,
		Location:   node.Begin(),
		Suggestion: suggestion,
	}
}

// String formats the violation as "file:line:col: message (rule)".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Location, v.Message, v.Rule)
}
