package parser

import (
	"bytes"
	"fmt"
	"strings"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
)

// tokenClass is the coarse class of the previous significant token. It
// decides whether a `<` or `/` starts markup or a regular expression, or
// is an operator.
type tokenClass int

const (
	tokNone tokenClass = iota
	tokPunct
	tokWord
	tokValue
)

type lastToken struct {
	class tokenClass
	text  string
}

// exprKeywords are the keywords after which an expression may start.
var exprKeywords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
	"default":    true,
}

func (t lastToken) allowsExpression() bool {
	switch t.class {
	case tokNone, tokPunct:
		return true
	case tokWord:
		return exprKeywords[t.text]
	default:
		return false
	}
}

// soloKind records the kind of the first token of a scanned range, used to
// classify single-token expressions.
type soloKind int

const (
	soloOther soloKind = iota
	soloWord
	soloString
	soloNumber
	soloNode
)

// codeResult describes a range of script code scanned by scanCode.
type codeResult struct {
	nodes    []ast.Node // JSX found in the range, in document order
	end      int        // offset of the stop byte, or len(src)
	first    int        // start of the first significant token, -1 if none
	last     int        // end of the last significant token
	tokens   int        // number of significant tokens
	solo     soloKind   // kind of the first token
	braceEnd int        // end of the group opened by a leading '{', or -1
}

type scanner struct {
	src      []byte
	path     string
	lines    *ast.LineTable
	strict   bool
	comments map[int]*ast.Comment
}

func newScanner(src []byte, path string, strict bool) *scanner {
	return &scanner{
		src:      src,
		path:     path,
		lines:    ast.NewLineTable(path, src),
		strict:   strict,
		comments: make(map[int]*ast.Comment),
	}
}

func (s *scanner) errorf(pos int, format string, args ...any) error {
	return &lintErrors.Error{
		Type:     lintErrors.ErrorTypeSyntax,
		Message:  fmt.Sprintf(format, args...),
		Location: s.lines.Location(pos),
	}
}

func (s *scanner) at(pos int) byte {
	if pos >= 0 && pos < len(s.src) {
		return s.src[pos]
	}
	return 0
}

func (s *scanner) hasPrefix(pos int, prefix string) bool {
	return pos <= len(s.src) && bytes.HasPrefix(s.src[pos:], []byte(prefix))
}

// scanCode scans script code from pos until the end of the source or until
// a byte of stop appears outside any bracket. It collects the JSX found on
// the way. A non-empty stop that is never reached is a syntax error.
func (s *scanner) scanCode(pos int, stop string) (codeResult, error) {
	res := codeResult{first: -1, braceEnd: -1}
	depth := 0
	prev := lastToken{}
	firstIsBrace := false

	mark := func(start, end int, kind soloKind) {
		if res.first < 0 {
			res.first = start
			res.solo = kind
		}
		res.last = end
		res.tokens++
	}

	for pos < len(s.src) {
		c := s.src[pos]
		switch {
		case isSpace(c):
			pos++
			continue
		case c == '/' && s.at(pos+1) == '/':
			pos = s.lineComment(pos)
			continue
		case c == '/' && s.at(pos+1) == '*':
			pos = s.blockComment(pos)
			continue
		}

		if depth == 0 && strings.IndexByte(stop, c) >= 0 {
			res.end = pos
			return res, nil
		}

		start := pos
		switch {
		case c == '"' || c == '\'':
			pos = s.skipString(pos)
			mark(start, pos, soloString)
			prev = lastToken{class: tokValue}

		case c == '`':
			nodes, end, err := s.skipTemplate(pos)
			if err != nil {
				return res, err
			}
			res.nodes = append(res.nodes, nodes...)
			pos = end
			mark(start, pos, soloOther)
			prev = lastToken{class: tokValue}

		case c == '<' && prev.allowsExpression() && s.startsMarkup(pos):
			node, end, err := s.parseElement(pos)
			if err != nil {
				if s.strict && !s.looksLikeTypeParameters(pos) {
					return res, err
				}
				pos++
				mark(start, pos, soloOther)
				prev = lastToken{class: tokPunct, text: "<"}
				continue
			}
			res.nodes = append(res.nodes, node)
			pos = end
			mark(start, pos, soloNode)
			prev = lastToken{class: tokValue}

		case c == '/' && prev.allowsExpression():
			pos = s.skipRegex(pos)
			mark(start, pos, soloOther)
			prev = lastToken{class: tokValue}

		case isIdentStart(c):
			for pos < len(s.src) && isIdentPart(s.src[pos]) {
				pos++
			}
			mark(start, pos, soloWord)
			prev = lastToken{class: tokWord, text: string(s.src[start:pos])}

		case isDigit(c) || (c == '.' && isDigit(s.at(pos+1))):
			for pos < len(s.src) && (isIdentPart(s.src[pos]) || s.src[pos] == '.') {
				pos++
			}
			mark(start, pos, soloNumber)
			prev = lastToken{class: tokValue}

		case c == '(' || c == '[' || c == '{':
			if res.first < 0 && c == '{' {
				firstIsBrace = true
			}
			depth++
			pos++
			mark(start, pos, soloOther)
			prev = lastToken{class: tokPunct, text: string(c)}

		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				if stop != "" {
					return res, s.errorf(pos, "unexpected %q", c)
				}
			} else {
				depth--
				if depth == 0 && firstIsBrace && res.braceEnd < 0 {
					res.braceEnd = pos + 1
				}
			}
			pos++
			mark(start, pos, soloOther)
			prev = lastToken{class: tokValue}

		default:
			pos++
			mark(start, pos, soloOther)
			prev = lastToken{class: tokPunct, text: string(c)}
		}
	}

	if stop != "" {
		return res, s.errorf(pos, "unexpected end of file, expected %q", stop[len(stop)-1])
	}
	res.end = pos
	return res, nil
}

// startsMarkup reports whether the `<` at pos may open an element or a
// fragment.
func (s *scanner) startsMarkup(pos int) bool {
	next := s.at(pos + 1)
	return isIdentStart(next) || next == '>'
}

// looksLikeTypeParameters reports whether the `<` at pos opens a TypeScript
// type parameter list such as `<T,>` or `<T extends X>`.
func (s *scanner) looksLikeTypeParameters(pos int) bool {
	p := pos + 1
	if !isIdentStart(s.at(p)) {
		return false
	}
	for p < len(s.src) && isIdentPart(s.src[p]) {
		p++
	}
	for isSpace(s.at(p)) {
		p++
	}
	return s.at(p) == ',' || (s.hasPrefix(p, "extends") && !isIdentPart(s.at(p+len("extends"))))
}

// skipTrivia skips whitespace and comments.
func (s *scanner) skipTrivia(pos int) int {
	for pos < len(s.src) {
		c := s.src[pos]
		switch {
		case isSpace(c):
			pos++
		case c == '/' && s.at(pos+1) == '/':
			pos = s.lineComment(pos)
		case c == '/' && s.at(pos+1) == '*':
			pos = s.blockComment(pos)
		default:
			return pos
		}
	}
	return pos
}

func (s *scanner) lineComment(pos int) int {
	end := pos + 2
	for end < len(s.src) && s.src[end] != '\n' {
		end++
	}
	s.addComment(pos, end, string(s.src[pos+2:end]), false)
	return end
}

func (s *scanner) blockComment(pos int) int {
	idx := bytes.Index(s.src[pos+2:], []byte("*/"))
	if idx < 0 {
		s.addComment(pos, len(s.src), string(s.src[pos+2:]), true)
		return len(s.src)
	}
	end := pos + 2 + idx + 2
	s.addComment(pos, end, string(s.src[pos+2:pos+2+idx]), true)
	return end
}

// addComment records a comment once; failed markup attempts may scan the
// same region more than once.
func (s *scanner) addComment(start, end int, text string, block bool) {
	if _, ok := s.comments[start]; ok {
		return
	}
	s.comments[start] = &ast.Comment{
		Span:  s.lines.Span(start, end),
		Text:  text,
		Block: block,
	}
}

// skipString skips a quoted string. An unterminated string ends at the
// line break.
func (s *scanner) skipString(pos int) int {
	quote := s.src[pos]
	i := pos + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(s.src)
}

// skipTemplate skips a template literal and returns the JSX found in its
// substitutions.
func (s *scanner) skipTemplate(pos int) ([]ast.Node, int, error) {
	var nodes []ast.Node
	i := pos + 1
	for i < len(s.src) {
		switch {
		case s.src[i] == '\\':
			i += 2
			continue
		case s.src[i] == '`':
			return nodes, i + 1, nil
		case s.src[i] == '$' && s.at(i+1) == '{':
			res, err := s.scanCode(i+2, "}")
			if err != nil {
				return nil, i, err
			}
			nodes = append(nodes, res.nodes...)
			i = res.end + 1
			continue
		}
		i++
	}
	return nodes, len(s.src), nil
}

// skipRegex skips a regular expression literal including its flags.
func (s *scanner) skipRegex(pos int) int {
	inClass := false
	i := pos + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
			continue
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return i
		case '/':
			if !inClass {
				i++
				for i < len(s.src) && isIdentPart(s.src[i]) {
					i++
				}
				return i
			}
		}
		i++
	}
	return len(s.src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
