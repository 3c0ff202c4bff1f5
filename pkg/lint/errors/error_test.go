package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeSyntax,
		Message:    "unterminated element <View>",
		Location:   ast.Location{File: "a.tsx", Line: 3, Column: 5},
		Suggestion: "close the element",
	}

	got := err.Error()
	for _, want := range []string{"[syntax] unterminated element <View>", "--> a.tsx:3:5", "= suggestion: close the element"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want it to contain %q", got, want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(ErrorTypeIO, "failed to read a.tsx", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !stderrors.Is(err, &Error{Type: ErrorTypeIO}) {
		t.Error("errors.Is(err, io category) = false, want true")
	}
	if stderrors.Is(err, &Error{Type: ErrorTypeSyntax}) {
		t.Error("errors.Is(err, syntax category) = true, want false")
	}

	var target *Error
	if !stderrors.As(fmt.Errorf("wrapped: %w", err), &target) || target.Type != ErrorTypeIO {
		t.Error("errors.As() did not find the *Error")
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.ToError() != nil {
		t.Error("ToError() on empty list should be nil")
	}

	list.AddError(ErrorTypeRule, "unknown rule \"foo\"", ast.Location{})
	if list.Error() != "[rule] unknown rule \"foo\"" {
		t.Errorf("single error list Error() = %q", list.Error())
	}

	list.AddErrorWithSuggestion(ErrorTypeConfig, "bad workers", ast.Location{}, "use a positive number")
	if list.Count() != 2 {
		t.Errorf("Count() = %d, want 2", list.Count())
	}
	if !list.HasErrorType(ErrorTypeConfig) || list.HasErrorType(ErrorTypeIO) {
		t.Error("HasErrorType() returned wrong result")
	}
	if !strings.HasPrefix(list.Error(), "found 2 error(s):") {
		t.Errorf("Error() = %q", list.Error())
	}
	if list.ToError() == nil {
		t.Error("ToError() on non-empty list should not be nil")
	}
}

func TestExtractContext(t *testing.T) {
	src := []byte("line1\nline2\n  <Touchable />\nline4\nline5\n")
	loc := ast.Location{File: "a.tsx", Line: 3, Column: 3}

	got := ExtractContext(src, loc, 1)
	want := "   2 | line2\n" +
		"-> 3 |   <Touchable />\n" +
		"    |   ^\n" +
		"   4 | line4\n"
	if got != want {
		t.Errorf("ExtractContext() =\n%s\nwant\n%s", got, want)
	}

	if ExtractContext(src, ast.Location{Line: 99}, 1) != "" {
		t.Error("ExtractContext() past end of file should be empty")
	}
	if ExtractContext(nil, loc, 1) != "" {
		t.Error("ExtractContext() of empty source should be empty")
	}
}

func TestSuggestName(t *testing.T) {
	valid := []string{"accessible-touchable", "tsx-a11y-touchables"}

	tests := []struct {
		unknown string
		want    string
	}{
		{"acessible-touchable", "Did you mean 'accessible-touchable'?"},
		{"tsx-a11y-touchable", "Did you mean 'tsx-a11y-touchables'?"},
		{"something-else-entirely", "Valid names: accessible-touchable, tsx-a11y-touchables"},
	}

	for _, tt := range tests {
		if got := SuggestName(tt.unknown, valid); got != tt.want {
			t.Errorf("SuggestName(%q) = %q, want %q", tt.unknown, got, tt.want)
		}
	}

	if SuggestName("x", nil) != "" {
		t.Error("SuggestName() with no candidates should be empty")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"accesibilityLabel", "accessibilityLabel", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
