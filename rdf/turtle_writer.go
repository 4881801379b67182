package rdf

import (
	"bytes"
	"io"
	"strings"
)

// TurtleWriter writes graphs as Turtle, or as Notation3 when created with
// NewN3Writer.
//
// At CompressionHigh, RDF lists are written as "( ... )" and blank nodes
// used once are nested as "[ ... ]". Graphs whose lists are malformed are
// written without that nesting.
type TurtleWriter struct {
	opts   Options
	format Format
}

// NewTurtleWriter returns a Turtle writer.
func NewTurtleWriter(opts ...Option) *TurtleWriter {
	return &TurtleWriter{opts: buildOptions(opts), format: FormatTurtle}
}

// NewN3Writer returns a Notation3 writer. It extends Turtle output with the
// "=" and "=>" keywords.
func NewN3Writer(opts ...Option) *TurtleWriter {
	return &TurtleWriter{opts: buildOptions(opts), format: FormatN3}
}

// WriteGraph writes g to w.
func (tw *TurtleWriter) WriteGraph(w io.Writer, g *Graph) error {
	r := newTurtleRenderer(tw.format, tw.opts, tw.opts.namespaces(g), newBlankLabeler())
	var buf bytes.Buffer
	if declared := r.writeHeader(&buf, tw.opts.baseIRI(g)); declared > 0 && !g.IsEmpty() {
		buf.WriteByte('\n')
	}
	if err := r.writeBody(&buf, g, ""); err != nil {
		return err
	}
	out := newTextWriter(w)
	out.str(buf.String())
	return out.flush()
}

// turtleRenderer holds the state of one Turtle-family rendering. The
// collection set is replaced per graph.
type turtleRenderer struct {
	format Format
	opts   Options
	level  CompressionLevel
	ns     *NamespaceMap
	labels *blankLabeler
	cs     *CollectionSet
}

func newTurtleRenderer(format Format, opts Options, ns *NamespaceMap, labels *blankLabeler) *turtleRenderer {
	return &turtleRenderer{
		format: format,
		opts:   opts,
		level:  opts.compression(),
		ns:     ns,
		labels: labels,
	}
}

// writeHeader writes the base and prefix declarations and returns the
// number of prefixes declared.
func (r *turtleRenderer) writeHeader(buf *bytes.Buffer, base string) int {
	if base != "" {
		buf.WriteString("@base <" + escapeIRI(base) + "> .\n")
	}
	if r.level < CompressionMinimal {
		return 0
	}
	declared := 0
	for _, prefix := range r.ns.Prefixes() {
		if !IsPrefixName(prefix) {
			continue
		}
		ns, _ := r.ns.Lookup(prefix)
		buf.WriteString("@prefix " + prefix + ": <" + escapeIRI(ns) + "> .\n")
		declared++
	}
	return declared
}

// writeBody writes the statements of g, each line prefixed with lead.
func (r *turtleRenderer) writeBody(buf *bytes.Buffer, g *Graph, lead string) error {
	r.cs = r.opts.findCollections(g, CollectionsAll, r.format)

	var flat []Triple
	for _, t := range g.Triples() {
		if !r.cs.IsDone(t) {
			flat = append(flat, t)
		}
	}

	if r.level < CompressionMedium {
		for _, t := range flat {
			line, err := r.statement(t)
			if err != nil {
				return err
			}
			buf.WriteString(lead + line + " .\n")
		}
		return nil
	}

	for i, group := range GroupBySubject(flat) {
		if i > 0 && r.opts.Pretty {
			buf.WriteByte('\n')
		}
		subject, err := r.subject(group.Subject)
		if err != nil {
			return err
		}
		buf.WriteString(lead + subject)
		for j, pg := range group.PredicateGroups() {
			if j > 0 {
				buf.WriteString(" ;\n" + lead + r.opts.Indent + r.opts.Indent)
			} else {
				buf.WriteByte(' ')
			}
			buf.WriteString(r.predicate(pg.Predicate))
			for k, o := range pg.Objects {
				if k > 0 {
					buf.WriteByte(',')
				}
				obj, err := r.object(o)
				if err != nil {
					return err
				}
				buf.WriteString(" " + obj)
			}
		}
		buf.WriteString(" .\n")
	}
	return nil
}

func (r *turtleRenderer) statement(t Triple) (string, error) {
	s, err := r.subject(t.S)
	if err != nil {
		return "", err
	}
	o, err := r.object(t.O)
	if err != nil {
		return "", err
	}
	return s + " " + r.predicate(t.P) + " " + o, nil
}

func (r *turtleRenderer) subject(term Term) (string, error) {
	switch v := term.(type) {
	case IRI:
		return r.iri(v), nil
	case BlankNode:
		if c, ok := r.cs.Lookup(v); ok && c.IsExplicit() && c.Len() == 0 && !c.HasBeenWritten() {
			c.MarkWritten()
			return "[]", nil
		}
		return "_:" + r.labels.label(v), nil
	case Literal:
		return "", outputErrorf(r.format, "literal subject %s", v)
	}
	return "", outputErrorf(r.format, "unsupported term %v", term)
}

func (r *turtleRenderer) predicate(p IRI) string {
	if r.level >= CompressionMedium {
		switch {
		case p == RDFType:
			return "a"
		case r.format == FormatN3 && p == OWLSameAs:
			return "="
		case r.format == FormatN3 && p == LogImplies:
			return "=>"
		}
	}
	return r.iri(p)
}

func (r *turtleRenderer) object(term Term) (string, error) {
	switch v := term.(type) {
	case IRI:
		if v == RDFNil && r.level >= CompressionHigh {
			return "()", nil
		}
		return r.iri(v), nil
	case BlankNode:
		if c, ok := r.cs.Lookup(v); ok && !c.HasBeenWritten() {
			return r.collection(c)
		}
		return "_:" + r.labels.label(v), nil
	case Literal:
		return r.literal(v)
	}
	return "", outputErrorf(r.format, "unsupported term %v", term)
}

// collection renders c as nested syntax and marks it written.
func (r *turtleRenderer) collection(c *OutputCollection) (string, error) {
	c.MarkWritten()
	if !c.IsExplicit() {
		var b strings.Builder
		b.WriteByte('(')
		for t, ok := c.Next(); ok; t, ok = c.Next() {
			item, err := r.object(t.O)
			if err != nil {
				return "", err
			}
			b.WriteString(" " + item)
		}
		b.WriteString(" )")
		return b.String(), nil
	}
	if c.Len() == 0 {
		return "[]", nil
	}
	var ts []Triple
	for t, ok := c.Next(); ok; t, ok = c.Next() {
		ts = append(ts, t)
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, pg := range GroupBySubject(ts)[0].PredicateGroups() {
		if i > 0 {
			b.WriteString(" ;")
		}
		b.WriteString(" " + r.predicate(pg.Predicate))
		for j, o := range pg.Objects {
			if j > 0 {
				b.WriteByte(',')
			}
			obj, err := r.object(o)
			if err != nil {
				return "", err
			}
			b.WriteString(" " + obj)
		}
	}
	b.WriteString(" ]")
	return b.String(), nil
}

func (r *turtleRenderer) iri(v IRI) string {
	if r.level >= CompressionMinimal {
		if qname, ok := r.ns.Reduce(v.Value); ok {
			return qname
		}
	}
	return renderIRI(v)
}

func (r *turtleRenderer) literal(l Literal) (string, error) {
	if err := checkLiteral(r.format, l); err != nil {
		return "", err
	}
	if r.level < CompressionMinimal {
		return renderTerm(l), nil
	}
	if short, ok := literalShorthand(l); ok {
		return short, nil
	}
	var quoted string
	if strings.ContainsAny(l.Lexical, "\n\r") {
		quoted = `"""` + escapeLongString(l.Lexical) + `"""`
	} else {
		quoted = `"` + escapeNTriplesString(l.Lexical) + `"`
	}
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang, nil
	case l.Datatype.Value != "" && l.Datatype != XSDString:
		return quoted + "^^" + r.iri(l.Datatype), nil
	}
	return quoted, nil
}
