package rdf

import (
	"bytes"
	"context"
	"io"
)

// TriXWriter writes graphs and datasets as TriX.
type TriXWriter struct {
	opts Options
}

// NewTriXWriter returns a TriX writer.
func NewTriXWriter(opts ...Option) *TriXWriter {
	return &TriXWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g as a single TriX graph.
func (xw *TriXWriter) WriteGraph(w io.Writer, g *Graph) error {
	return xw.write(xw.opts.Context, w, []*Graph{g})
}

// WriteDataset writes every non-empty graph of ds.
func (xw *TriXWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = xw.opts.Context
	}
	return xw.write(ctx, w, nonEmptyGraphs(ds))
}

func (xw *TriXWriter) write(ctx context.Context, w io.Writer, graphs []*Graph) error {
	out := newTextWriter(w)
	out.str(`<?xml version="1.0" encoding="UTF-8"?>`+"\n", `<TriX xmlns="`+TriXNamespace+`">`+"\n")
	labels := newBlankLabeler()
	render := func(g *Graph, buf *bytes.Buffer) error {
		return xw.renderGraph(g, buf, labels)
	}
	if err := writeGraphs(ctx, graphs, xw.opts.Threads, xw.opts.Logger, render, out); err != nil {
		return err
	}
	out.str("</TriX>\n")
	return out.flush()
}

func (xw *TriXWriter) renderGraph(g *Graph, buf *bytes.Buffer, labels *blankLabeler) error {
	ind := xw.opts.Indent
	buf.WriteString(ind + "<graph>\n")
	switch name := g.Name().(type) {
	case nil:
	case IRI:
		buf.WriteString(ind + ind + "<uri>" + escapeXML(name.Value) + "</uri>\n")
	case BlankNode:
		buf.WriteString(ind + ind + "<id>" + labels.label(name) + "</id>\n")
	default:
		return outputErrorf(FormatTriX, "literal graph name %s", name)
	}
	for _, t := range g.Triples() {
		buf.WriteString(ind + ind + "<triple>\n")
		for _, term := range []Term{t.S, t.P, t.O} {
			elem, err := trixTerm(term, labels)
			if err != nil {
				return err
			}
			buf.WriteString(ind + ind + ind + elem + "\n")
		}
		buf.WriteString(ind + ind + "</triple>\n")
	}
	buf.WriteString(ind + "</graph>\n")
	return nil
}

func trixTerm(term Term, labels *blankLabeler) (string, error) {
	switch v := term.(type) {
	case IRI:
		return "<uri>" + escapeXML(v.Value) + "</uri>", nil
	case BlankNode:
		return "<id>" + labels.label(v) + "</id>", nil
	case Literal:
		if err := checkLiteral(FormatTriX, v); err != nil {
			return "", err
		}
		switch {
		case v.Lang != "":
			return `<plainLiteral xml:lang="` + escapeXML(v.Lang) + `">` + escapeXML(v.Lexical) + "</plainLiteral>", nil
		case v.Datatype.Value != "" && v.Datatype != XSDString:
			return `<typedLiteral datatype="` + escapeXML(v.Datatype.Value) + `">` + escapeXML(v.Lexical) + "</typedLiteral>", nil
		}
		return "<plainLiteral>" + escapeXML(v.Lexical) + "</plainLiteral>", nil
	}
	return "", outputErrorf(FormatTriX, "unsupported term %v", term)
}
