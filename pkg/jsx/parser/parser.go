package parser

import (
	"fmt"
	"os"
	"sort"

	"touchlint-hq/touchlint/pkg/jsx/ast"
	lintErrors "touchlint-hq/touchlint/pkg/lint/errors"
)

// Parser turns JSX, TSX and JavaScript source files into ast.File trees.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
	strictMode  bool  // Report malformed JSX instead of skipping it
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
		strictMode:  false,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithStrictMode makes markup that starts like an element but does not
// parse as one a syntax error. Without strict mode such a `<` is read as
// an operator and scanning continues.
func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.strictMode = strict
	return p
}

// Parse reads and parses the file at path.
func (p *Parser) Parse(path string) (*ast.File, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &lintErrors.Error{
			Type:     lintErrors.ErrorTypeIO,
			Message:  "failed to access file",
			Location: ast.Location{File: path},
			Err:      err,
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &lintErrors.Error{
			Type:     lintErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &lintErrors.Error{
			Type:     lintErrors.ErrorTypeIO,
			Message:  "failed to read file",
			Location: ast.Location{File: path},
			Err:      err,
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses source held in memory. sourcePath is only used for
// locations.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.File, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &lintErrors.Error{
			Type:     lintErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	s := newScanner(data, sourcePath, p.strictMode)
	res, err := s.scanCode(0, "")
	if err != nil {
		if e, ok := err.(*lintErrors.Error); ok {
			lintErrors.WithSourceContext(e, data, 2)
		}
		return nil, err
	}

	file := &ast.File{
		Span:     s.lines.Span(0, len(data)),
		Path:     sourcePath,
		Source:   data,
		Children: res.nodes,
		Comments: s.sortedComments(),
	}
	return file, nil
}

func (s *scanner) sortedComments() []*ast.Comment {
	out := make([]*ast.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].From.Offset < out[j].From.Offset
	})
	return out
}
