package rdf

import (
	"bytes"
	"context"
	"io"
)

// NQuadsWriter writes datasets as N-Quads. Graphs are rendered by a pool
// of workers; statements of one graph stay contiguous.
type NQuadsWriter struct {
	opts Options
}

// NewNQuadsWriter returns an N-Quads writer.
func NewNQuadsWriter(opts ...Option) *NQuadsWriter {
	return &NQuadsWriter{opts: buildOptions(opts)}
}

// WriteDataset writes every graph of ds to w.
func (nw *NQuadsWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = nw.opts.Context
	}
	out := newTextWriter(w)
	labels := newBlankLabeler()
	render := func(g *Graph, buf *bytes.Buffer) error {
		return nw.renderGraph(g, buf, labels)
	}
	if err := writeGraphs(ctx, nonEmptyGraphs(ds), nw.opts.Threads, nw.opts.Logger, render, out); err != nil {
		return err
	}
	return out.flush()
}

// WriteGraph writes g alone, tagging statements with its name.
func (nw *NQuadsWriter) WriteGraph(w io.Writer, g *Graph) error {
	out := newTextWriter(w)
	var buf bytes.Buffer
	if err := nw.renderGraph(g, &buf, newBlankLabeler()); err != nil {
		return err
	}
	out.str(buf.String())
	return out.flush()
}

func (nw *NQuadsWriter) renderGraph(g *Graph, buf *bytes.Buffer, labels *blankLabeler) error {
	name := g.Name()
	if _, ok := name.(Literal); ok {
		return outputErrorf(FormatNQuads, "literal graph name %s", name)
	}
	for _, t := range g.Triples() {
		line, err := ntLine(FormatNQuads, t, name, labels)
		if err != nil {
			return err
		}
		buf.WriteString(line)
	}
	return nil
}
