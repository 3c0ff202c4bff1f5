package ast

import (
	"testing"
)

// sampleTree builds:
//
//	<View a={1}><Touchable {...{b: c}} /><Text>hi</Text></View>
func sampleTree() *File {
	touchable := &SelfClosingElement{
		Tag: TagName{Kind: TagIdentifier, Text: "Touchable"},
		Attributes: []AttributeEntry{
			&SpreadAttribute{Expression: &ObjectLiteral{Properties: []*Property{
				{Key: "b", KeyKind: KeyIdentifier, Value: &Identifier{Name: "c"}},
			}}},
		},
	}
	text := &Element{
		Opening:  &OpeningElement{Tag: TagName{Text: "Text"}},
		Children: []Node{&Text{Value: "hi"}},
		Closing:  &ClosingElement{Tag: TagName{Text: "Text"}},
	}
	view := &Element{
		Opening: &OpeningElement{
			Tag: TagName{Text: "View"},
			Attributes: []AttributeEntry{
				&Attribute{Name: "a", Initializer: &ExpressionContainer{Expression: &NumericLiteral{Raw: "1"}}},
			},
		},
		Children: []Node{touchable, text},
		Closing:  &ClosingElement{Tag: TagName{Text: "View"}},
	}
	return &File{Path: "sample.tsx", Children: []Node{view}}
}

func TestPreorder_DocumentOrder(t *testing.T) {
	var kinds []Kind
	for n := range Preorder(sampleTree()) {
		kinds = append(kinds, n.Kind())
	}

	want := []Kind{
		KindFile,
		KindElement, KindOpening, KindAttribute, KindExpressionContainer, KindNumericLiteral,
		KindSelfClosing, KindSpreadAttribute, KindObjectLiteral, KindProperty, KindIdentifier,
		KindElement, KindOpening, KindText, KindClosing,
		KindClosing,
	}

	if len(kinds) != len(want) {
		t.Fatalf("Preorder() visited %d nodes, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("node %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestPreorder_FreshTraversalPerCall(t *testing.T) {
	seq := Preorder(sampleTree())

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}

	first := count()
	second := count()
	if first == 0 || first != second {
		t.Errorf("Preorder() counts = %d, %d, want equal and non-zero", first, second)
	}
}

func TestPreorder_EarlyStop(t *testing.T) {
	n := 0
	for range Preorder(sampleTree()) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("visited %d nodes, want 3", n)
	}
}

func TestInspect_Prune(t *testing.T) {
	var elements []string
	Inspect(sampleTree(), func(n Node) bool {
		tag, _, ok := ElementOf(n)
		if ok {
			elements = append(elements, tag.Text)
			// Do not descend into Touchable.
			return tag.Text != "Touchable"
		}
		return n.Kind() != KindSpreadAttribute
	})

	want := []string{"View", "Touchable", "Text"}
	if len(elements) != len(want) {
		t.Fatalf("elements = %v, want %v", elements, want)
	}
	for i := range want {
		if elements[i] != want[i] {
			t.Errorf("elements[%d] = %q, want %q", i, elements[i], want[i])
		}
	}
}

func TestElementOf(t *testing.T) {
	tree := sampleTree()
	view := tree.Children[0].(*Element)

	tag, attrs, ok := ElementOf(view)
	if !ok || tag.Text != "View" || len(attrs) != 1 {
		t.Errorf("ElementOf(view) = %q, %d attrs, %v", tag.Text, len(attrs), ok)
	}

	if _, _, ok := ElementOf(view.Opening); ok {
		t.Error("ElementOf(opening element) should not report an element")
	}
	if _, _, ok := ElementOf(&Fragment{}); ok {
		t.Error("ElementOf(fragment) should not report an element")
	}
	if _, _, ok := ElementOf(&Element{}); ok {
		t.Error("ElementOf(element without opening) should not report an element")
	}
}

func TestLineTable_Location(t *testing.T) {
	src := []byte("ab\ncd\n\nef")
	table := NewLineTable("f.tsx", src)

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
		{100, 4, 3},
	}

	for _, tt := range tests {
		loc := table.Location(tt.offset)
		if loc.Line != tt.line || loc.Column != tt.column {
			t.Errorf("Location(%d) = %d:%d, want %d:%d", tt.offset, loc.Line, loc.Column, tt.line, tt.column)
		}
	}
}

func TestLocation_String(t *testing.T) {
	if got := (Location{}).String(); got != "<unknown>" {
		t.Errorf("String() = %q, want <unknown>", got)
	}
	loc := Location{File: "a.tsx", Line: 3, Column: 7}
	if got := loc.String(); got != "a.tsx:3:7" {
		t.Errorf("String() = %q, want a.tsx:3:7", got)
	}
	if !loc.IsValid() {
		t.Error("IsValid() = false, want true")
	}
}

func TestKind_String(t *testing.T) {
	if KindSelfClosing.String() != "SelfClosingElement" {
		t.Errorf("KindSelfClosing.String() = %q", KindSelfClosing.String())
	}
	if Kind(99).String() != "Unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}
