package ast

// Kind discriminates the concrete type of a Node.
type Kind int

const (
	KindFile Kind = iota
	KindElement
	KindSelfClosing
	KindOpening
	KindClosing
	KindFragment
	KindText
	KindExpressionContainer
	KindAttribute
	KindSpreadAttribute
	KindIdentifier
	KindBooleanLiteral
	KindStringLiteral
	KindNumericLiteral
	KindObjectLiteral
	KindProperty
	KindRawExpr
)

var kindNames = [...]string{
	KindFile:                "File",
	KindElement:             "Element",
	KindSelfClosing:         "SelfClosingElement",
	KindOpening:             "OpeningElement",
	KindClosing:             "ClosingElement",
	KindFragment:            "Fragment",
	KindText:                "Text",
	KindExpressionContainer: "ExpressionContainer",
	KindAttribute:           "Attribute",
	KindSpreadAttribute:     "SpreadAttribute",
	KindIdentifier:          "Identifier",
	KindBooleanLiteral:      "BooleanLiteral",
	KindStringLiteral:       "StringLiteral",
	KindNumericLiteral:      "NumericLiteral",
	KindObjectLiteral:       "ObjectLiteral",
	KindProperty:            "Property",
	KindRawExpr:             "RawExpr",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Node is implemented by every node of the source tree. The set of
// implementations is closed; switch on Kind or on the concrete type.
type Node interface {
	Kind() Kind
	Begin() Location
	End() Location
	node()
}

// Expr is a Node that may appear in expression position: inside an
// expression container, a spread attribute or an object property value.
type Expr interface {
	Node
	expr()
}

// AttributeEntry is either a named *Attribute or a *SpreadAttribute.
type AttributeEntry interface {
	Node
	attributeEntry()
}

// File is the root of a parsed source file. Children holds the top-level
// JSX nodes in document order; the surrounding script code is not modelled.
type File struct {
	Span
	Path     string
	Source   []byte
	Children []Node
	Comments []*Comment
}

// Comment is a line or block comment found outside JSX text.
type Comment struct {
	Span
	Text  string // comment body without the delimiters
	Block bool
}

// TagKind classifies the syntactic form of a tag name.
type TagKind int

const (
	// TagIdentifier is a simple identifier such as TouchableOpacity.
	TagIdentifier TagKind = iota
	// TagMember is a dotted name such as Animated.View.
	TagMember
	// TagNamespaced is a namespaced name such as svg:rect.
	TagNamespaced
)

// TagName is the name of an element.
type TagName struct {
	Span
	Kind TagKind
	Text string
}

// OpeningElement is the `<Tag attrs>` part of a paired element.
type OpeningElement struct {
	Span
	Tag        TagName
	Attributes []AttributeEntry
}

// ClosingElement is the `</Tag>` part of a paired element.
type ClosingElement struct {
	Span
	Tag TagName
}

// Element is a paired element. Its tag name and attributes live on Opening.
type Element struct {
	Span
	Opening  *OpeningElement
	Children []Node
	Closing  *ClosingElement
}

// SelfClosingElement is a `<Tag attrs />` element.
type SelfClosingElement struct {
	Span
	Tag        TagName
	Attributes []AttributeEntry
}

// Fragment is a `<>...</>` group.
type Fragment struct {
	Span
	Children []Node
}

// Text is literal text between tags.
type Text struct {
	Span
	Value string
}

// ExpressionContainer is a `{...}` child or attribute value. Expression is
// nil for empty and comment-only containers.
type ExpressionContainer struct {
	Span
	Expression Expr
}

// Attribute is a named attribute. Initializer is nil for the bare form
// (`<X disabled />`), otherwise one of *StringLiteral,
// *ExpressionContainer, *Element, *SelfClosingElement or *Fragment.
type Attribute struct {
	Span
	Name        string
	Initializer Node
}

// SpreadAttribute is a `{...expr}` attribute.
type SpreadAttribute struct {
	Span
	Expression Expr
}

// Identifier is a bare identifier expression.
type Identifier struct {
	Span
	Name string
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Span
	Value bool
}

// StringLiteral is a quoted string. Value has the quotes removed; Raw
// keeps them.
type StringLiteral struct {
	Span
	Value string
	Raw   string
}

// NumericLiteral is a number.
type NumericLiteral struct {
	Span
	Raw string
}

// ObjectLiteral is an inline `{ ... }` object expression.
type ObjectLiteral struct {
	Span
	Properties []*Property
}

// KeyKind classifies the key of an object literal property.
type KeyKind int

const (
	// KeyNone is used by spread properties (`...rest`), which have no key.
	KeyNone KeyKind = iota
	KeyIdentifier
	KeyString
	KeyNumeric
	KeyComputed
)

// Property is one member of an ObjectLiteral. Shorthand properties
// (`{ label }`) carry an *Identifier value. Method properties carry their
// parameters and body as a *RawExpr. Spread properties have KeyNone and the
// spread operand as Value.
type Property struct {
	Span
	Key       string
	KeyKind   KeyKind
	Value     Expr
	Shorthand bool
	Method    bool
	Spread    bool
}

// RawExpr is any other expression. Source holds its text; Nodes holds the
// JSX nodes embedded in it, in document order.
type RawExpr struct {
	Span
	Source string
	Nodes  []Node
}

func (*File) Kind() Kind                { return KindFile }
func (*Element) Kind() Kind             { return KindElement }
func (*SelfClosingElement) Kind() Kind  { return KindSelfClosing }
func (*OpeningElement) Kind() Kind      { return KindOpening }
func (*ClosingElement) Kind() Kind      { return KindClosing }
func (*Fragment) Kind() Kind            { return KindFragment }
func (*Text) Kind() Kind                { return KindText }
func (*ExpressionContainer) Kind() Kind { return KindExpressionContainer }
func (*Attribute) Kind() Kind           { return KindAttribute }
func (*SpreadAttribute) Kind() Kind     { return KindSpreadAttribute }
func (*Identifier) Kind() Kind          { return KindIdentifier }
func (*BooleanLiteral) Kind() Kind      { return KindBooleanLiteral }
func (*StringLiteral) Kind() Kind       { return KindStringLiteral }
func (*NumericLiteral) Kind() Kind      { return KindNumericLiteral }
func (*ObjectLiteral) Kind() Kind       { return KindObjectLiteral }
func (*Property) Kind() Kind            { return KindProperty }
func (*RawExpr) Kind() Kind             { return KindRawExpr }

func (*File) node()                {}
func (*Element) node()             {}
func (*SelfClosingElement) node()  {}
func (*OpeningElement) node()      {}
func (*ClosingElement) node()      {}
func (*Fragment) node()            {}
func (*Text) node()                {}
func (*ExpressionContainer) node() {}
func (*Attribute) node()           {}
func (*SpreadAttribute) node()     {}
func (*Identifier) node()          {}
func (*BooleanLiteral) node()      {}
func (*StringLiteral) node()       {}
func (*NumericLiteral) node()      {}
func (*ObjectLiteral) node()       {}
func (*Property) node()            {}
func (*RawExpr) node()             {}

func (*Element) expr()            {}
func (*SelfClosingElement) expr() {}
func (*Fragment) expr()           {}
func (*Identifier) expr()         {}
func (*BooleanLiteral) expr()     {}
func (*StringLiteral) expr()      {}
func (*NumericLiteral) expr()     {}
func (*ObjectLiteral) expr()      {}
func (*RawExpr) expr()            {}

func (*Attribute) attributeEntry()       {}
func (*SpreadAttribute) attributeEntry() {}

// ElementOf returns the tag name and attribute list of a paired or
// self-closing element. For paired elements they come from the opening
// element. ok is false for every other node.
func ElementOf(n Node) (tag TagName, attrs []AttributeEntry, ok bool) {
	switch e := n.(type) {
	case *Element:
		if e.Opening == nil {
			return TagName{}, nil, false
		}
		return e.Opening.Tag, e.Opening.Attributes, true
	case *SelfClosingElement:
		return e.Tag, e.Attributes, true
	default:
		return TagName{}, nil, false
	}
}
