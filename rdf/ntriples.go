package rdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NQuadsReader reads N-Triples or N-Quads statements line by line.
type NQuadsReader struct {
	reader *bufio.Reader
	format Format
	base   string
	line   int
	err    error
}

// NewNQuadsReader returns a reader for N-Quads input. N-Triples input is
// accepted as well; every statement then lands in the default graph.
func NewNQuadsReader(r io.Reader) *NQuadsReader {
	return &NQuadsReader{reader: bufio.NewReader(r), format: FormatNQuads}
}

// NewNTriplesReader returns a reader that rejects graph terms.
func NewNTriplesReader(r io.Reader) *NQuadsReader {
	return &NQuadsReader{reader: bufio.NewReader(r), format: FormatNTriples}
}

// SetBase makes the reader resolve relative IRI references against base.
func (d *NQuadsReader) SetBase(base string) { d.base = base }

// Next returns the next statement, or io.EOF at the end of input.
func (d *NQuadsReader) Next() (Quad, error) {
	if d.err != nil {
		return Quad{}, d.err
	}
	for {
		line, err := d.readLine()
		if err != nil {
			d.err = err
			return Quad{}, err
		}
		d.line++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quad, err := parseNTLine(line, d.format, d.base)
		if err != nil {
			d.err = &ParseError{Format: string(d.format), Statement: line, Line: d.line, Err: err}
			return Quad{}, d.err
		}
		return quad, nil
	}
}

// Line returns the number of lines consumed so far.
func (d *NQuadsReader) Line() int { return d.line }

func (d *NQuadsReader) readLine() (string, error) {
	line, err := d.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

// LoadDataset reads N-Triples or N-Quads from r into a new dataset. Blank
// node labels are scoped per graph.
func LoadDataset(ctx context.Context, r io.Reader, format Format) (*Dataset, error) {
	return LoadDatasetWithBase(ctx, r, format, "")
}

// LoadDatasetWithBase is LoadDataset with relative IRIs resolved against
// base. The base is also recorded on the returned dataset.
func LoadDatasetWithBase(ctx context.Context, r io.Reader, format Format, base string) (*Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader *NQuadsReader
	switch format {
	case FormatNQuads:
		reader = NewNQuadsReader(r)
	case FormatNTriples:
		reader = NewNTriplesReader(r)
	default:
		return nil, fmt.Errorf("%w: no reader for %s", ErrUnsupportedFormat, format)
	}
	reader.SetBase(base)
	ds := NewDataset()
	ds.BaseIRI = base
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		if err != nil {
			return nil, err
		}
		ds.Add(q)
	}
}

// LoadGraph reads N-Triples from r into a new default graph.
func LoadGraph(ctx context.Context, r io.Reader) (*Graph, error) {
	ds, err := LoadDataset(ctx, r, FormatNTriples)
	if err != nil {
		return nil, err
	}
	return ds.DefaultGraph(), nil
}

func parseNTLine(line string, format Format, base string) (Quad, error) {
	cursor := &ntCursor{input: line, base: base}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Quad{}, err
	}
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Quad{}, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Quad{}, err
	}

	var graph Term
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if format == FormatNTriples {
			return Quad{}, cursor.errorf("graph term not allowed in N-Triples")
		}
		graph, err = cursor.parseTerm(false)
		if err != nil {
			return Quad{}, err
		}
	}
	if !cursor.consume('.') {
		return Quad{}, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Quad{}, cursor.errorf("unexpected content after '.'")
	}
	return Quad{S: subject, P: predicate, O: object, G: graph}, nil
}

type ntCursor struct {
	input string
	base  string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) {
		switch c.input[c.pos] {
		case ' ', '\t', '\r', '\n':
			c.pos++
		default:
			return
		}
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed here")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected token %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if !c.consume('<') {
		return IRI{}, c.errorf("expected IRI")
	}
	var builder strings.Builder
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		if c.input[c.pos] == '\\' {
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return IRI{}, err
			}
			builder.WriteRune(r)
			continue
		}
		builder.WriteByte(c.input[c.pos])
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	c.pos++
	value := resolveIRI(c.base, builder.String())
	if err := ValidateIRI(value); err != nil {
		return IRI{}, c.errorf("%v", err)
	}
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	// A label may contain '.' but not end with one.
	for c.pos > start && c.input[c.pos-1] == '.' {
		c.pos--
	}
	if start == c.pos {
		return BlankNode{}, c.errorf("blank node id missing")
	}
	return BlankNode{ID: c.input[start:c.pos]}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++
	var builder strings.Builder
	closed := false
	for c.pos < len(c.input) {
		ch := c.input[c.pos]
		if ch == '"' {
			c.pos++
			closed = true
			break
		}
		if ch != '\\' {
			builder.WriteByte(ch)
			c.pos++
			continue
		}
		if c.pos+1 >= len(c.input) {
			return Literal{}, c.errorf("unterminated escape")
		}
		switch next := c.input[c.pos+1]; next {
		case 'u', 'U':
			r, err := c.parseUnicodeEscape()
			if err != nil {
				return Literal{}, err
			}
			builder.WriteRune(r)
			continue
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case 'b':
			builder.WriteByte('\b')
		case 'f':
			builder.WriteByte('\f')
		case '"', '\'', '\\':
			builder.WriteByte(next)
		default:
			return Literal{}, c.errorf("invalid escape \\%c", next)
		}
		c.pos += 2
	}
	if !closed {
		return Literal{}, c.errorf("unterminated literal")
	}
	lexical := builder.String()
	if strings.HasPrefix(c.input[c.pos:], "@") {
		c.pos++
		start := c.pos
		for c.pos < len(c.input) && isLangChar(c.input[c.pos]) {
			c.pos++
		}
		if start == c.pos {
			return Literal{}, c.errorf("empty language tag")
		}
		return Literal{Lexical: lexical, Lang: c.input[start:c.pos]}, nil
	}
	if strings.HasPrefix(c.input[c.pos:], "^^") {
		c.pos += 2
		dt, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		if dt == XSDString {
			dt = IRI{}
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	}
	return Literal{Lexical: lexical}, nil
}

// parseUnicodeEscape decodes \uXXXX or \UXXXXXXXX at the cursor.
func (c *ntCursor) parseUnicodeEscape() (rune, error) {
	if c.pos+1 >= len(c.input) {
		return 0, c.errorf("unterminated escape")
	}
	width := 0
	switch c.input[c.pos+1] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, c.errorf("invalid escape \\%c", c.input[c.pos+1])
	}
	start := c.pos + 2
	if start+width > len(c.input) {
		return 0, c.errorf("truncated unicode escape")
	}
	value, err := strconv.ParseUint(c.input[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(value)) {
		return 0, c.errorf("invalid unicode escape %q", c.input[c.pos:start+width])
	}
	c.pos = start + width
	return rune(value), nil
}

func (c *ntCursor) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("column %d: "+format, append([]interface{}{c.pos + 1}, args...)...)
}

func isLangChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-'
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// NTriplesWriter writes a graph as N-Triples, one statement per line in
// graph order.
type NTriplesWriter struct {
	opts Options
}

// NewNTriplesWriter returns an N-Triples writer.
func NewNTriplesWriter(opts ...Option) *NTriplesWriter {
	return &NTriplesWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g to w.
func (nw *NTriplesWriter) WriteGraph(w io.Writer, g *Graph) error {
	out := newTextWriter(w)
	labels := newBlankLabeler()
	for _, t := range g.Triples() {
		line, err := ntLine(FormatNTriples, t, nil, labels)
		if err != nil {
			return err
		}
		out.str(line)
	}
	return out.flush()
}

// ntLine renders one N-Triples or N-Quads statement, newline included.
func ntLine(format Format, t Triple, graph Term, labels *blankLabeler) (string, error) {
	var b strings.Builder
	for i, term := range []Term{t.S, t.P, t.O, graph} {
		if term == nil {
			continue
		}
		if l, ok := term.(Literal); ok {
			if i != 2 {
				return "", outputErrorf(format, "literal %s outside object position", l)
			}
			if err := checkLiteral(format, l); err != nil {
				return "", err
			}
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(ntTerm(term, labels))
	}
	b.WriteString(" .\n")
	return b.String(), nil
}

// ntTerm renders a term in N-Triples syntax. A nil labeler writes blank
// node ids unchanged.
func ntTerm(term Term, labels *blankLabeler) string {
	if b, ok := term.(BlankNode); ok && labels != nil {
		return "_:" + labels.label(b)
	}
	return renderTerm(term)
}

func renderIRI(iri IRI) string {
	return "<" + escapeIRI(iri.Value) + ">"
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		quoted := `"` + escapeNTriplesString(value.Lexical) + `"`
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" && value.Datatype != XSDString {
			return quoted + "^^" + renderIRI(value.Datatype)
		}
		return quoted
	default:
		return ""
	}
}

// checkLiteral rejects literals that carry both a language tag and a
// datatype other than rdf:langString.
func checkLiteral(format Format, l Literal) error {
	if l.Lang != "" && l.Datatype.Value != "" && l.Datatype != RDFLangString {
		return outputErrorf(format, "literal %q has both language %q and datatype <%s>", l.Lexical, l.Lang, l.Datatype.Value)
	}
	return nil
}
