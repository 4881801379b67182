package rdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/piprate/json-gold/ld"
)

// JSONLDWriter writes graphs and datasets as JSON-LD. The document is
// produced by the JSON-LD "from RDF" algorithm and, when a context is
// available, compacted against it. Without OptJSONLDContext the context is
// built from the namespace prefixes.
type JSONLDWriter struct {
	opts Options
}

// NewJSONLDWriter returns a JSON-LD writer.
func NewJSONLDWriter(opts ...Option) *JSONLDWriter {
	return &JSONLDWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g as a JSON-LD document.
func (jw *JSONLDWriter) WriteGraph(w io.Writer, g *Graph) error {
	return jw.write(jw.opts.Context, w, []*Graph{g}, jw.opts.namespaces(g), jw.opts.baseIRI(g))
}

// WriteDataset writes ds as a JSON-LD document; named graphs become
// @graph entries.
func (jw *JSONLDWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = jw.opts.Context
	}
	ns := jw.opts.namespaces(nil)
	ns.Merge(ds.Namespaces)
	graphs := nonEmptyGraphs(ds)
	for _, g := range graphs {
		ns.Merge(g.Namespaces)
	}
	base := jw.opts.BaseIRI
	if base == "" {
		base = ds.BaseIRI
	}
	return jw.write(ctx, w, graphs, ns, base)
}

func (jw *JSONLDWriter) write(ctx context.Context, w io.Writer, graphs []*Graph, ns *NamespaceMap, base string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dataset, err := toLDDataset(graphs, newBlankLabeler())
	if err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions(base)
	goldOpts.UseNativeTypes = jw.opts.JSONLDNativeTypes
	goldOpts.UseRdfType = false

	var doc interface{}
	doc, err = proc.FromRDF(dataset, goldOpts)
	if err != nil {
		return fmt.Errorf("jsonld: from RDF: %w", err)
	}
	if ldCtx := jw.compactionContext(ns); ldCtx != nil {
		compacted, err := proc.Compact(doc, ldCtx, goldOpts)
		if err != nil {
			return fmt.Errorf("jsonld: compact: %w", err)
		}
		doc = compacted
	}

	out := newTextWriter(w)
	jsonOpts := []json.Options{json.Deterministic(true)}
	if jw.opts.Pretty {
		jsonOpts = append(jsonOpts, jsontext.WithIndent(jw.opts.Indent))
	}
	if err := json.MarshalWrite(out, doc, jsonOpts...); err != nil {
		return err
	}
	out.str("\n")
	return out.flush()
}

// compactionContext returns the context to compact against, or nil to
// keep the expanded form.
func (jw *JSONLDWriter) compactionContext(ns *NamespaceMap) interface{} {
	if jw.opts.JSONLDContext != nil {
		if m, ok := jw.opts.JSONLDContext.(map[string]interface{}); ok {
			if _, wrapped := m["@context"]; wrapped {
				return m
			}
		}
		return map[string]interface{}{"@context": jw.opts.JSONLDContext}
	}
	if jw.opts.compression() < CompressionMinimal || ns.Len() == 0 {
		return nil
	}
	terms := map[string]interface{}{}
	for _, prefix := range ns.Prefixes() {
		if prefix == "" || !IsPrefixName(prefix) {
			continue
		}
		iri, _ := ns.Lookup(prefix)
		terms[prefix] = iri
	}
	if len(terms) == 0 {
		return nil
	}
	return map[string]interface{}{"@context": terms}
}

// toLDDataset converts graphs into the json-gold dataset model.
func toLDDataset(graphs []*Graph, labels *blankLabeler) (*ld.RDFDataset, error) {
	dataset := ld.NewRDFDataset()
	for _, g := range graphs {
		graphName := "@default"
		switch name := g.Name().(type) {
		case nil:
		case IRI:
			graphName = name.Value
		case BlankNode:
			graphName = "_:" + labels.label(name)
		default:
			return nil, outputErrorf(FormatJSONLD, "literal graph name %s", name)
		}
		for _, t := range g.Triples() {
			s, err := toLDNode(t.S, labels, false)
			if err != nil {
				return nil, err
			}
			o, err := toLDNode(t.O, labels, true)
			if err != nil {
				return nil, err
			}
			dataset.Graphs[graphName] = append(dataset.Graphs[graphName], ld.NewQuad(s, ld.NewIRI(t.P.Value), o, graphName))
		}
	}
	return dataset, nil
}

func toLDNode(term Term, labels *blankLabeler, object bool) (ld.Node, error) {
	switch v := term.(type) {
	case IRI:
		return ld.NewIRI(v.Value), nil
	case BlankNode:
		return ld.NewBlankNode("_:" + labels.label(v)), nil
	case Literal:
		if !object {
			return nil, outputErrorf(FormatJSONLD, "literal subject %s", v)
		}
		if err := checkLiteral(FormatJSONLD, v); err != nil {
			return nil, err
		}
		switch {
		case v.Lang != "":
			return ld.NewLiteral(v.Lexical, RDFLangString.Value, v.Lang), nil
		case v.Datatype.Value != "":
			return ld.NewLiteral(v.Lexical, v.Datatype.Value, ""), nil
		}
		return ld.NewLiteral(v.Lexical, XSDString.Value, ""), nil
	}
	return nil, outputErrorf(FormatJSONLD, "unsupported term %v", term)
}
