package cli

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"touchlint-hq/touchlint/pkg/config"
	linterrors "touchlint-hq/touchlint/pkg/lint/errors"
	"touchlint-hq/touchlint/pkg/lint/engine"
)

// OutputFormat represents the output format for lint reports.
type OutputFormat string

const (
	// FormatText is human-readable output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is the report summary as JSON.
	FormatJSON OutputFormat = "json"
	// FormatCheckstyle is Checkstyle XML, understood by most CI systems.
	FormatCheckstyle OutputFormat = "checkstyle"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(name)); f {
	case FormatText, FormatJSON, FormatCheckstyle:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", NewConfigError("output.format", fmt.Sprintf("unknown format %q (must be text, json or checkstyle)", name))
	}
}

// Formatter writes a lint report.
type Formatter interface {
	Format(w io.Writer, report *engine.Report) error
}

// NewFormatter creates the formatter for format, configured from out.
func NewFormatter(format OutputFormat, out *config.OutputConfig) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCheckstyle:
		return &CheckstyleFormatter{}
	default:
		f := &TextFormatter{}
		if out != nil {
			f.ContextLines = out.ContextLines
			f.Color = out.Color
		}
		return f
	}
}

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
)

// TextFormatter prints one line per violation followed by a summary.
type TextFormatter struct {
	// ContextLines is the number of source lines shown around each
	// violation. 0 disables the snippet.
	ContextLines int

	// Color enables ANSI colors.
	Color bool

	// ReadFile loads sources for snippets. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Format writes report as text.
func (f *TextFormatter) Format(w io.Writer, report *engine.Report) error {
	readFile := f.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	var b strings.Builder
	for _, file := range report.Files {
		if file.Err != nil {
			fmt.Fprintf(&b, "%s: %s\n", f.paint(ansiBold, file.Path), f.paint(ansiRed, "error: "+file.Err.Error()))
			continue
		}

		var src []byte
		if f.ContextLines > 0 && len(file.Violations) > 0 {
			// A missing source only drops the snippet.
			src, _ = readFile(file.Path)
		}

		for _, v := range file.Violations {
			fmt.Fprintf(&b, "%s: %s %s\n",
				f.paint(ansiBold, v.Location.String()),
				v.Message,
				f.paint(ansiDim, "("+v.Rule+")"),
			)
			if v.Suggestion != "" {
				fmt.Fprintf(&b, "  %s\n", v.Suggestion)
			}
			if snippet := linterrors.ExtractContext(src, v.Location, f.ContextLines); snippet != "" {
				b.WriteString(snippet)
			}
		}
	}

	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(f.summary(report))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TextFormatter) summary(report *engine.Report) string {
	files := plural(len(report.Files), "file")
	if report.Clean() {
		line := fmt.Sprintf("✓ %s checked, no violations", files)
		if n := report.SuppressedCount(); n > 0 {
			line += fmt.Sprintf(" (%d suppressed)", n)
		}
		return f.paint(ansiGreen, line)
	}

	parts := []string{plural(report.ViolationCount(), "violation")}
	if counts := report.CountByRule(); len(counts) > 0 {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		byRule := make([]string, 0, len(names))
		for _, name := range names {
			byRule = append(byRule, fmt.Sprintf("%s: %d", name, counts[name]))
		}
		parts[0] += " (" + strings.Join(byRule, ", ") + ")"
	}
	if n := report.SuppressedCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d suppressed", n))
	}
	if n := report.ErrorCount(); n > 0 {
		parts = append(parts, plural(n, "file")+" failed")
	}

	return f.paint(ansiRed, "✗ "+strings.Join(parts, ", ")) + fmt.Sprintf(" in %s checked", files)
}

func (f *TextFormatter) paint(code, s string) string {
	if !f.Color {
		return s
	}
	return code + s + ansiReset
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// JSONFormatter writes the report summary as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format writes report as JSON.
func (f *JSONFormatter) Format(w io.Writer, report *engine.Report) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report.Summary())
}

// CheckstyleFormatter writes Checkstyle XML. Files that could not be
// linted carry a single error with the "touchlint.parse" source.
type CheckstyleFormatter struct{}

type checkstyleReport struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr,omitempty"`
	Column   int    `xml:"column,attr,omitempty"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// Format writes report as Checkstyle XML.
func (f *CheckstyleFormatter) Format(w io.Writer, report *engine.Report) error {
	doc := checkstyleReport{Version: "4.3"}
	for _, file := range report.Files {
		cf := checkstyleFile{Name: file.Path}
		if file.Err != nil {
			cf.Errors = append(cf.Errors, checkstyleError{
				Severity: "error",
				Message:  file.Err.Error(),
				Source:   "touchlint.parse",
			})
		}
		for _, v := range file.Violations {
			cf.Errors = append(cf.Errors, checkstyleError{
				Line:     v.Location.Line,
				Column:   v.Location.Column,
				Severity: "error",
				Message:  v.Message,
				Source:   "touchlint." + v.Rule,
			})
		}
		doc.Files = append(doc.Files, cf)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode checkstyle report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
