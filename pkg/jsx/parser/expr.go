package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

// classify turns a scanned code range into an expression node. Single
// tokens become literals or identifiers, a range that is exactly one
// `{...}` group is parsed as an object literal, and everything else is kept
// as a RawExpr. It returns nil for an empty range.
func (s *scanner) classify(res codeResult) ast.Expr {
	if res.first < 0 {
		return nil
	}
	span := s.lines.Span(res.first, res.last)
	text := string(s.src[res.first:res.last])

	if res.tokens == 1 {
		switch res.solo {
		case soloNode:
			if e, ok := res.nodes[0].(ast.Expr); ok {
				return e
			}
		case soloWord:
			switch text {
			case "true":
				return &ast.BooleanLiteral{Span: span, Value: true}
			case "false":
				return &ast.BooleanLiteral{Span: span, Value: false}
			}
			return &ast.Identifier{Span: span, Name: text}
		case soloString:
			return &ast.StringLiteral{Span: span, Value: unquote(text), Raw: text}
		case soloNumber:
			return &ast.NumericLiteral{Span: span, Raw: text}
		}
	}

	if s.src[res.first] == '{' && res.braceEnd == res.last {
		if obj, err := s.parseObject(res.first, res.last); err == nil {
			return obj
		}
	}

	return &ast.RawExpr{Span: span, Source: text, Nodes: res.nodes}
}

// parseObject parses the object literal spanning [open, end).
func (s *scanner) parseObject(open, end int) (*ast.ObjectLiteral, error) {
	obj := &ast.ObjectLiteral{Span: s.lines.Span(open, end)}
	closing := end - 1

	pos := s.skipTrivia(open + 1)
	for pos < closing {
		prop, p, err := s.parseProperty(pos)
		if err != nil {
			return nil, err
		}
		obj.Properties = append(obj.Properties, prop)

		p = s.skipTrivia(p)
		switch {
		case p == closing:
			return obj, nil
		case s.at(p) == ',':
			pos = s.skipTrivia(p + 1)
		default:
			return nil, s.errorf(p, "expected ',' or '}' in object literal")
		}
	}
	return obj, nil
}

// accessorPrefixes may precede a method key.
var accessorPrefixes = map[string]bool{
	"get":   true,
	"set":   true,
	"async": true,
}

func (s *scanner) parseProperty(start int) (*ast.Property, int, error) {
	if s.hasPrefix(start, "...") {
		res, err := s.scanCode(start+3, ",}")
		if err != nil {
			return nil, start, err
		}
		value := s.classify(res)
		if value == nil {
			return nil, res.end, s.errorf(res.end, "expected expression after '...'")
		}
		return &ast.Property{
			Span:    s.lines.Span(start, res.last),
			KeyKind: ast.KeyNone,
			Value:   value,
			Spread:  true,
		}, res.end, nil
	}

	pos := start
	method := false
	if s.at(pos) == '*' {
		method = true
		pos = s.skipTrivia(pos + 1)
	} else if word, p := s.readWord(pos); accessorPrefixes[word] {
		q := s.skipTrivia(p)
		if s.startsKey(q) {
			method = true
			pos = q
			if s.at(pos) == '*' {
				pos = s.skipTrivia(pos + 1)
			}
		}
	}

	key, kind, pos, err := s.readKey(pos)
	if err != nil {
		return nil, pos, err
	}

	prop := &ast.Property{Key: key, KeyKind: kind}
	p := s.skipTrivia(pos)
	if s.at(p) == '?' {
		p = s.skipTrivia(p + 1)
	}

	switch c := s.at(p); {
	case c == ':' && !method:
		res, err := s.scanCode(p+1, ",}")
		if err != nil {
			return nil, p, err
		}
		value := s.classify(res)
		if value == nil {
			return nil, res.end, s.errorf(res.end, "expected value for property %s", key)
		}
		prop.Value = value
		prop.Span = s.lines.Span(start, res.last)
		return prop, res.end, nil

	case c == '(' || c == '<':
		// Method: parameters and optional return type up to the body.
		head, err := s.scanCode(p, "{")
		if err != nil {
			return nil, p, err
		}
		body, err := s.scanCode(head.end+1, "}")
		if err != nil {
			return nil, head.end, err
		}
		end := body.end + 1
		nodes := append(head.nodes, body.nodes...)
		prop.Method = true
		prop.Value = &ast.RawExpr{
			Span:   s.lines.Span(p, end),
			Source: string(s.src[p:end]),
			Nodes:  nodes,
		}
		prop.Span = s.lines.Span(start, end)
		return prop, end, nil

	case (c == ',' || c == '}') && kind == ast.KeyIdentifier && !method:
		prop.Shorthand = true
		prop.Value = &ast.Identifier{Span: s.lines.Span(start, pos), Name: key}
		prop.Span = s.lines.Span(start, pos)
		return prop, pos, nil

	default:
		return nil, p, s.errorf(p, "unexpected %q after property key %s", c, key)
	}
}

func (s *scanner) readWord(pos int) (string, int) {
	if !isIdentStart(s.at(pos)) {
		return "", pos
	}
	start := pos
	for pos < len(s.src) && isIdentPart(s.src[pos]) {
		pos++
	}
	return string(s.src[start:pos]), pos
}

// startsKey reports whether a property key (or a generator `*`) starts at
// pos.
func (s *scanner) startsKey(pos int) bool {
	c := s.at(pos)
	return isIdentStart(c) || isDigit(c) || c == '"' || c == '\'' || c == '[' || c == '*'
}

func (s *scanner) readKey(pos int) (string, ast.KeyKind, int, error) {
	c := s.at(pos)
	switch {
	case isIdentStart(c):
		word, end := s.readWord(pos)
		return word, ast.KeyIdentifier, end, nil

	case c == '"' || c == '\'':
		end := s.skipString(pos)
		if s.at(end-1) != c || end-pos < 2 {
			return "", ast.KeyNone, end, s.errorf(pos, "unterminated string key")
		}
		return unquote(string(s.src[pos:end])), ast.KeyString, end, nil

	case isDigit(c) || (c == '.' && isDigit(s.at(pos+1))):
		end := pos
		for end < len(s.src) && (isIdentPart(s.src[end]) || s.src[end] == '.') {
			end++
		}
		return string(s.src[pos:end]), ast.KeyNumeric, end, nil

	case c == '[':
		res, err := s.scanCode(pos+1, "]")
		if err != nil {
			return "", ast.KeyNone, pos, err
		}
		key := strings.TrimSpace(string(s.src[pos+1 : res.end]))
		return key, ast.KeyComputed, res.end + 1, nil

	default:
		return "", ast.KeyNone, pos, s.errorf(pos, "expected property key")
	}
}

// unquote strips the quotes of a string literal and resolves the common
// escape sequences. Unknown escapes yield the escaped character.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// Line continuation.
		case 'u':
			if i+4 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			r, size := utf8.DecodeRuneInString(body[i:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String()
}
