package rdf

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
)

// CSVWriter writes graphs and datasets as comma or tab separated values,
// one statement per row. Dataset output adds a graph column and renders
// graphs concurrently.
//
// CSV cells hold plain values: IRIs unbracketed and literals by their
// lexical form. TSV cells hold terms in N-Triples syntax.
type CSVWriter struct {
	opts   Options
	format Format
}

// NewCSVWriter returns a CSV writer.
func NewCSVWriter(opts ...Option) *CSVWriter {
	return &CSVWriter{opts: buildOptions(opts), format: FormatCSV}
}

// NewTSVWriter returns a TSV writer.
func NewTSVWriter(opts ...Option) *CSVWriter {
	return &CSVWriter{opts: buildOptions(opts), format: FormatTSV}
}

// WriteGraph writes the triples of g.
func (cw *CSVWriter) WriteGraph(w io.Writer, g *Graph) error {
	out := newTextWriter(w)
	labels := newBlankLabeler()
	var buf bytes.Buffer
	if err := cw.writeRow(&buf, []string{"subject", "predicate", "object"}); err != nil {
		return err
	}
	for _, t := range g.Triples() {
		row, err := cw.row(t, labels)
		if err != nil {
			return err
		}
		if err := cw.writeRow(&buf, row); err != nil {
			return err
		}
	}
	out.str(buf.String())
	return out.flush()
}

// WriteDataset writes the quads of ds with a trailing graph column; the
// column is empty for the default graph.
func (cw *CSVWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = cw.opts.Context
	}
	out := newTextWriter(w)
	var header bytes.Buffer
	if err := cw.writeRow(&header, []string{"subject", "predicate", "object", "graph"}); err != nil {
		return err
	}
	out.str(header.String())
	labels := newBlankLabeler()
	render := func(g *Graph, buf *bytes.Buffer) error {
		graph := ""
		if name := g.Name(); name != nil {
			graph = cw.cell(name, labels)
		}
		for _, t := range g.Triples() {
			row, err := cw.row(t, labels)
			if err != nil {
				return err
			}
			if err := cw.writeRow(buf, append(row, graph)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeGraphs(ctx, nonEmptyGraphs(ds), cw.opts.Threads, cw.opts.Logger, render, out); err != nil {
		return err
	}
	return out.flush()
}

func (cw *CSVWriter) row(t Triple, labels *blankLabeler) ([]string, error) {
	if l, ok := t.O.(Literal); ok {
		if err := checkLiteral(cw.format, l); err != nil {
			return nil, err
		}
	}
	return []string{cw.cell(t.S, labels), cw.cell(t.P, labels), cw.cell(t.O, labels)}, nil
}

func (cw *CSVWriter) cell(term Term, labels *blankLabeler) string {
	if cw.format == FormatTSV {
		return ntTerm(term, labels)
	}
	switch v := term.(type) {
	case IRI:
		return v.Value
	case BlankNode:
		return "_:" + labels.label(v)
	case Literal:
		return v.Lexical
	}
	return ""
}

func (cw *CSVWriter) writeRow(buf *bytes.Buffer, row []string) error {
	if cw.format == FormatTSV {
		buf.WriteString(strings.Join(row, "\t"))
		buf.WriteByte('\n')
		return nil
	}
	cr := csv.NewWriter(buf)
	cr.UseCRLF = true
	if err := cr.Write(row); err != nil {
		return err
	}
	cr.Flush()
	return cr.Error()
}
