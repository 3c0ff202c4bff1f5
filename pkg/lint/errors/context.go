package errors

import (
	"bytes"
	"fmt"
	"strings"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

// ExtractContext renders the lines of src around location, marking the
// location's line with "->" and its column with a caret.
func ExtractContext(src []byte, location ast.Location, contextLines int) string {
	if location.Line <= 0 || len(src) == 0 {
		return ""
	}

	lines := strings.Split(string(bytes.TrimRight(src, "\n")), "\n")
	errorLine := location.Line - 1
	if errorLine >= len(lines) {
		return ""
	}

	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, strings.TrimRight(lines[i], "\r")))

		if i == errorLine && location.Column > 0 {
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", location.Column-1)))
		}
	}

	return sb.String()
}

// WithSourceContext fills err.Context from src.
func WithSourceContext(err *Error, src []byte, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(src, err.Location, contextLines)
	}
	return err
}
