package directive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
	"touchlint-hq/touchlint/pkg/lint/rules"
)

// Action is what a directive does.
type Action string

const (
	ActionDisableNextLine Action = "disable-next-line"
	ActionDisableLine     Action = "disable-line"
	ActionDisable         Action = "disable"
	ActionEnable          Action = "enable"
)

// Prefixes that introduce a directive comment.
const (
	Prefix       = "touchlint"
	LegacyPrefix = "tslint"
)

// Directive is a parsed suppression comment.
type Directive struct {
	Action Action
	// Rules lists the rules the directive applies to; empty means all.
	Rules []string
	// Span covers the comment holding the directive.
	Span ast.Span
}

// appliesTo reports whether the directive covers rule.
func (d *Directive) appliesTo(rule string) bool {
	if len(d.Rules) == 0 {
		return true
	}
	for _, r := range d.Rules {
		if r == rule {
			return true
		}
	}
	return false
}

// grammar is the participle model of a directive comment body, e.g.
// "touchlint:disable-next-line accessible-touchable" or
// "tslint:disable:tsx-a11y-touchables".
type grammar struct {
	Prefix string   `@("touchlint" | "tslint") ":"`
	Action string   `@("disable-next-line" | "disable-line" | "disable" | "enable")`
	Rules  []string `( ":"? ( @Name ","? )* )`
}

var (
	directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Name", Pattern: `[a-zA-Z@][a-zA-Z0-9_@/-]*`},
		{Name: "Punct", Pattern: `[:,]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	directiveParser = participle.MustBuild[grammar](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// Parse parses the text of a comment. It returns nil and no error when the
// comment is not a directive, and an error when it starts like one but is
// malformed.
func Parse(text string) (*Directive, error) {
	body := strings.TrimSpace(text)
	// Block comments written in the /** ... */ style.
	body = strings.TrimSpace(strings.TrimPrefix(body, "*"))
	if !strings.HasPrefix(body, Prefix+":") && !strings.HasPrefix(body, LegacyPrefix+":") {
		return nil, nil
	}

	g, err := directiveParser.ParseString("", body)
	if err != nil {
		return nil, lintErrors.Wrap(lintErrors.ErrorTypeSyntax, fmt.Sprintf("malformed directive %q", body), err)
	}
	return &Directive{
		Action: Action(g.Action),
		Rules:  g.Rules,
	}, nil
}

// Set holds the directives of one file.
type Set struct {
	directives []*Directive
}

// Collect parses the directives in the comments of file. Malformed
// directives are skipped and reported in the returned error list; the
// returned Set is always usable.
func Collect(file *ast.File) (*Set, error) {
	set := &Set{}
	errs := lintErrors.NewErrorList()

	for _, c := range file.Comments {
		d, err := Parse(c.Text)
		if err != nil {
			if e, ok := err.(*lintErrors.Error); ok {
				e.Location = c.Begin()
				errs.Add(e)
			}
			continue
		}
		if d == nil {
			continue
		}
		d.Span = c.Span
		set.directives = append(set.directives, d)
	}

	sort.SliceStable(set.directives, func(i, j int) bool {
		return set.directives[i].Span.From.Offset < set.directives[j].Span.From.Offset
	})
	return set, errs.ToError()
}

// Len returns the number of directives.
func (s *Set) Len() int {
	return len(s.directives)
}

// Suppressed reports whether v is silenced by a directive.
func (s *Set) Suppressed(v rules.Violation) bool {
	disabled := false
	for _, d := range s.directives {
		if !d.appliesTo(v.Rule) {
			continue
		}
		switch d.Action {
		case ActionDisableNextLine:
			if v.Location.Line == d.Span.From.Line+1 {
				return true
			}
		case ActionDisableLine:
			if v.Location.Line == d.Span.From.Line {
				return true
			}
		case ActionDisable, ActionEnable:
			if d.Span.From.Offset < v.Location.Offset {
				disabled = d.Action == ActionDisable
			}
		}
	}
	return disabled
}

// Filter returns the violations that are not suppressed, keeping their
// order.
func (s *Set) Filter(vs []rules.Violation) []rules.Violation {
	if len(s.directives) == 0 {
		return vs
	}
	out := make([]rules.Violation, 0, len(vs))
	for _, v := range vs {
		if !s.Suppressed(v) {
			out = append(out, v)
		}
	}
	return out
}
