package parser

import (
	"bytes"
	"strings"

	"touchlint-hq/touchlint/pkg/jsx/ast"
)

// parseElement parses the element or fragment whose `<` is at start.
func (s *scanner) parseElement(start int) (ast.Expr, int, error) {
	pos := s.skipTrivia(start + 1)
	if s.at(pos) == '>' {
		return s.parseFragment(start, pos+1)
	}

	tag, pos, err := s.parseTagName(pos)
	if err != nil {
		return nil, pos, err
	}

	attrs, pos, selfClosing, err := s.parseAttributes(pos)
	if err != nil {
		return nil, pos, err
	}
	if selfClosing {
		return &ast.SelfClosingElement{
			Span:       s.lines.Span(start, pos),
			Tag:        tag,
			Attributes: attrs,
		}, pos, nil
	}

	opening := &ast.OpeningElement{
		Span:       s.lines.Span(start, pos),
		Tag:        tag,
		Attributes: attrs,
	}

	children, closeStart, p, err := s.parseChildren(pos)
	if err != nil {
		return nil, p, err
	}

	closeTag, p, err := s.parseTagName(s.skipTrivia(p))
	if err != nil {
		return nil, p, err
	}
	if closeTag.Text != tag.Text {
		return nil, closeStart, s.errorf(closeStart, "expected corresponding closing tag for <%s>, found </%s>", tag.Text, closeTag.Text)
	}
	p = s.skipTrivia(p)
	if s.at(p) != '>' {
		return nil, p, s.errorf(p, "expected '>' to end closing tag </%s", tag.Text)
	}
	p++

	return &ast.Element{
		Span:     s.lines.Span(start, p),
		Opening:  opening,
		Children: children,
		Closing: &ast.ClosingElement{
			Span: s.lines.Span(closeStart, p),
			Tag:  closeTag,
		},
	}, p, nil
}

func (s *scanner) parseFragment(start, pos int) (ast.Expr, int, error) {
	children, _, p, err := s.parseChildren(pos)
	if err != nil {
		return nil, p, err
	}
	p = s.skipTrivia(p)
	if s.at(p) != '>' {
		return nil, p, s.errorf(p, "expected '</>' to close fragment")
	}
	p++
	return &ast.Fragment{
		Span:     s.lines.Span(start, p),
		Children: children,
	}, p, nil
}

// parseTagName parses an identifier, member (a.b.c) or namespaced (a:b)
// tag name.
func (s *scanner) parseTagName(pos int) (ast.TagName, int, error) {
	start := pos
	name, pos := s.readJSXName(pos)
	if name == "" {
		return ast.TagName{}, pos, s.errorf(pos, "expected element name")
	}

	kind := ast.TagIdentifier
	text := name
	if s.at(pos) == ':' {
		local, p := s.readJSXName(pos + 1)
		if local == "" {
			return ast.TagName{}, p, s.errorf(p, "expected name after ':'")
		}
		kind = ast.TagNamespaced
		text = name + ":" + local
		pos = p
	} else {
		for s.at(pos) == '.' {
			part, p := s.readJSXName(pos + 1)
			if part == "" {
				return ast.TagName{}, p, s.errorf(p, "expected name after '.'")
			}
			kind = ast.TagMember
			text += "." + part
			pos = p
		}
	}

	return ast.TagName{
		Span: s.lines.Span(start, pos),
		Kind: kind,
		Text: text,
	}, pos, nil
}

// readJSXName reads a JSX identifier, which may contain dashes.
func (s *scanner) readJSXName(pos int) (string, int) {
	if !isIdentStart(s.at(pos)) {
		return "", pos
	}
	start := pos
	for pos < len(s.src) && (isIdentPart(s.src[pos]) || s.src[pos] == '-') {
		pos++
	}
	return string(s.src[start:pos]), pos
}

// parseAttributes parses attributes up to and including the `>` or `/>`
// that ends the tag.
func (s *scanner) parseAttributes(pos int) ([]ast.AttributeEntry, int, bool, error) {
	var attrs []ast.AttributeEntry
	for {
		pos = s.skipTrivia(pos)
		c := s.at(pos)
		switch {
		case pos >= len(s.src):
			return nil, pos, false, s.errorf(pos, "unexpected end of file in tag")

		case c == '/':
			p := s.skipTrivia(pos + 1)
			if s.at(p) != '>' {
				return nil, p, false, s.errorf(p, "expected '>' after '/'")
			}
			return attrs, p + 1, true, nil

		case c == '>':
			return attrs, pos + 1, false, nil

		case c == '{':
			spread, end, err := s.parseSpreadAttribute(pos)
			if err != nil {
				return nil, end, false, err
			}
			attrs = append(attrs, spread)
			pos = end

		case isIdentStart(c):
			attr, end, err := s.parseAttribute(pos)
			if err != nil {
				return nil, end, false, err
			}
			attrs = append(attrs, attr)
			pos = end

		default:
			return nil, pos, false, s.errorf(pos, "unexpected %q in tag", c)
		}
	}
}

func (s *scanner) parseSpreadAttribute(start int) (*ast.SpreadAttribute, int, error) {
	p := s.skipTrivia(start + 1)
	if !s.hasPrefix(p, "...") {
		return nil, p, s.errorf(p, "expected '...' in spread attribute")
	}
	res, err := s.scanCode(p+3, "}")
	if err != nil {
		return nil, p, err
	}
	expr := s.classify(res)
	if expr == nil {
		return nil, res.end, s.errorf(res.end, "expected expression in spread attribute")
	}
	end := res.end + 1
	return &ast.SpreadAttribute{
		Span:       s.lines.Span(start, end),
		Expression: expr,
	}, end, nil
}

func (s *scanner) parseAttribute(start int) (*ast.Attribute, int, error) {
	name, pos := s.readJSXName(start)
	if s.at(pos) == ':' {
		local, p := s.readJSXName(pos + 1)
		if local == "" {
			return nil, p, s.errorf(p, "expected attribute name after ':'")
		}
		name += ":" + local
		pos = p
	}

	attr := &ast.Attribute{Name: name}
	p := s.skipTrivia(pos)
	if s.at(p) != '=' {
		attr.Span = s.lines.Span(start, pos)
		return attr, pos, nil
	}

	p = s.skipTrivia(p + 1)
	switch c := s.at(p); c {
	case '"', '\'':
		idx := bytes.IndexByte(s.src[p+1:], c)
		if idx < 0 {
			return nil, p, s.errorf(p, "unterminated string in attribute %s", name)
		}
		end := p + 1 + idx + 1
		attr.Initializer = &ast.StringLiteral{
			Span:  s.lines.Span(p, end),
			Value: string(s.src[p+1 : end-1]),
			Raw:   string(s.src[p:end]),
		}
		pos = end

	case '{':
		container, end, err := s.parseContainer(p)
		if err != nil {
			return nil, end, err
		}
		attr.Initializer = container
		pos = end

	case '<':
		elem, end, err := s.parseElement(p)
		if err != nil {
			return nil, end, err
		}
		attr.Initializer = elem
		pos = end

	default:
		return nil, p, s.errorf(p, "expected attribute value for %s", name)
	}

	attr.Span = s.lines.Span(start, pos)
	return attr, pos, nil
}

// parseContainer parses the `{...}` whose brace is at start.
func (s *scanner) parseContainer(start int) (*ast.ExpressionContainer, int, error) {
	res, err := s.scanCode(start+1, "}")
	if err != nil {
		return nil, start, err
	}
	end := res.end + 1
	container := &ast.ExpressionContainer{Span: s.lines.Span(start, end)}
	if expr := s.classify(res); expr != nil {
		container.Expression = expr
	}
	return container, end, nil
}

// parseChildren parses element children up to the next closing tag. It
// returns the offset of the closing tag's `<` and the offset just past its
// `/`.
func (s *scanner) parseChildren(pos int) ([]ast.Node, int, int, error) {
	var children []ast.Node
	for {
		if pos >= len(s.src) {
			return nil, pos, pos, s.errorf(pos, "unexpected end of file, expected closing tag")
		}

		switch s.src[pos] {
		case '<':
			p := s.skipTrivia(pos + 1)
			if s.at(p) == '/' {
				return children, pos, p + 1, nil
			}
			child, end, err := s.parseElement(pos)
			if err != nil {
				return nil, pos, end, err
			}
			children = append(children, child)
			pos = end

		case '{':
			container, end, err := s.parseContainer(pos)
			if err != nil {
				return nil, pos, end, err
			}
			children = append(children, container)
			pos = end

		default:
			start := pos
			for pos < len(s.src) && s.src[pos] != '<' && s.src[pos] != '{' {
				pos++
			}
			text := string(s.src[start:pos])
			if strings.TrimSpace(text) != "" {
				children = append(children, &ast.Text{
					Span:  s.lines.Span(start, pos),
					Value: text,
				})
			}
		}
	}
}
