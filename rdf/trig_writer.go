package rdf

import (
	"bytes"
	"context"
	"io"
)

// TriGWriter writes datasets as TriG. Each graph body is rendered like
// Turtle, with collection compression applied per graph.
type TriGWriter struct {
	opts Options
}

// NewTriGWriter returns a TriG writer.
func NewTriGWriter(opts ...Option) *TriGWriter {
	return &TriGWriter{opts: buildOptions(opts)}
}

// WriteDataset writes the graphs of ds to w. The prefix header covers the
// prefixes of every graph.
func (tw *TriGWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = tw.opts.Context
	}
	ns := tw.opts.namespaces(nil)
	ns.Merge(ds.Namespaces)
	graphs := nonEmptyGraphs(ds)
	for _, g := range graphs {
		ns.Merge(g.Namespaces)
	}
	base := tw.opts.BaseIRI
	if base == "" {
		base = ds.BaseIRI
	}
	return tw.write(ctx, w, graphs, ns, base)
}

// WriteGraph writes g as a single graph block.
func (tw *TriGWriter) WriteGraph(w io.Writer, g *Graph) error {
	return tw.write(tw.opts.Context, w, []*Graph{g}, tw.opts.namespaces(g), tw.opts.baseIRI(g))
}

func (tw *TriGWriter) write(ctx context.Context, w io.Writer, graphs []*Graph, ns *NamespaceMap, base string) error {
	out := newTextWriter(w)
	labels := newBlankLabeler()
	var header bytes.Buffer
	newTurtleRenderer(FormatTriG, tw.opts, ns, labels).writeHeader(&header, base)
	out.str(header.String())

	render := func(g *Graph, buf *bytes.Buffer) error {
		// One renderer per graph; labels are shared across graphs.
		r := newTurtleRenderer(FormatTriG, tw.opts, ns, labels)
		if header.Len() > 0 {
			buf.WriteByte('\n')
		}
		switch name := g.Name().(type) {
		case nil:
			buf.WriteString("{\n")
		case IRI:
			buf.WriteString(r.iri(name) + " {\n")
		case BlankNode:
			buf.WriteString("_:" + labels.label(name) + " {\n")
		default:
			return outputErrorf(FormatTriG, "literal graph name %s", name)
		}
		if err := r.writeBody(buf, g, tw.opts.Indent); err != nil {
			return err
		}
		buf.WriteString("}\n")
		return nil
	}
	if err := writeGraphs(ctx, graphs, tw.opts.Threads, tw.opts.Logger, render, out); err != nil {
		return err
	}
	return out.flush()
}
