package rdf

import (
	"bytes"
	"context"
	"io"
	"strconv"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

// GraphMLWriter writes graphs as GraphML: RDF nodes become GraphML nodes
// and statements become labelled directed edges. With
// OptCollapseLiterals, literal objects are attached to their subject node
// as data instead of becoming nodes.
type GraphMLWriter struct {
	opts Options
}

// NewGraphMLWriter returns a GraphML writer.
func NewGraphMLWriter(opts ...Option) *GraphMLWriter {
	return &GraphMLWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g as one GraphML graph.
func (gw *GraphMLWriter) WriteGraph(w io.Writer, g *Graph) error {
	return gw.write(gw.opts.Context, w, []*Graph{g}, gw.opts.namespaces(g))
}

// WriteDataset writes one GraphML graph per non-empty graph of ds.
func (gw *GraphMLWriter) WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error {
	if ctx == nil {
		ctx = gw.opts.Context
	}
	ns := gw.opts.namespaces(nil)
	ns.Merge(ds.Namespaces)
	return gw.write(ctx, w, nonEmptyGraphs(ds), ns)
}

func (gw *GraphMLWriter) write(ctx context.Context, w io.Writer, graphs []*Graph, ns *NamespaceMap) error {
	out := newTextWriter(w)
	ind := gw.opts.Indent
	out.str(`<?xml version="1.0" encoding="UTF-8"?>`+"\n",
		`<graphml xmlns="`+graphMLNamespace+`">`+"\n",
		ind+`<key id="label" for="all" attr.name="label" attr.type="string"/>`+"\n",
		ind+`<key id="kind" for="node" attr.name="kind" attr.type="string"/>`+"\n")
	if gw.opts.CollapseLiterals {
		out.str(ind + `<key id="literal" for="node" attr.name="literal" attr.type="string"/>` + "\n")
	}
	labels := newBlankLabeler()
	var seq int
	for _, g := range graphs {
		if err := ctx.Err(); err != nil {
			return err
		}
		var buf bytes.Buffer
		seq++
		if err := gw.renderGraph(&buf, g, "G"+strconv.Itoa(seq), ns, labels); err != nil {
			return err
		}
		out.str(buf.String())
	}
	out.str("</graphml>\n")
	return out.flush()
}

func (gw *GraphMLWriter) renderGraph(buf *bytes.Buffer, g *Graph, graphID string, ns *NamespaceMap, labels *blankLabeler) error {
	ind := gw.opts.Indent
	buf.WriteString(ind + `<graph id="` + graphID + `" edgedefault="directed">` + "\n")
	if name := g.Name(); name != nil {
		buf.WriteString(ind + ind + `<data key="label">` + escapeXML(displayTerm(name, ns, labels)) + "</data>\n")
	}

	nodes := map[Term]string{}
	var order []Term
	literals := map[Term][]string{}
	nodeID := func(t Term) string {
		if id, ok := nodes[t]; ok {
			return id
		}
		id := graphID + "n" + strconv.Itoa(len(order))
		nodes[t] = id
		order = append(order, t)
		return id
	}
	type edge struct{ source, target, label string }
	var edges []edge
	for _, t := range g.Triples() {
		if l, ok := t.O.(Literal); ok {
			if err := checkLiteral(FormatGraphML, l); err != nil {
				return err
			}
			if gw.opts.CollapseLiterals {
				nodeID(t.S)
				literals[t.S] = append(literals[t.S], displayTerm(t.P, ns, labels)+" "+displayTerm(l, ns, labels))
				continue
			}
		}
		edges = append(edges, edge{source: nodeID(t.S), target: nodeID(t.O), label: displayTerm(t.P, ns, labels)})
	}

	for _, n := range order {
		buf.WriteString(ind + ind + `<node id="` + nodes[n] + `">` + "\n")
		buf.WriteString(ind + ind + ind + `<data key="label">` + escapeXML(displayTerm(n, ns, labels)) + "</data>\n")
		buf.WriteString(ind + ind + ind + `<data key="kind">` + n.Kind().String() + "</data>\n")
		for _, lit := range literals[n] {
			buf.WriteString(ind + ind + ind + `<data key="literal">` + escapeXML(lit) + "</data>\n")
		}
		buf.WriteString(ind + ind + "</node>\n")
	}
	for _, e := range edges {
		buf.WriteString(ind + ind + `<edge source="` + e.source + `" target="` + e.target + `">` +
			`<data key="label">` + escapeXML(e.label) + "</data></edge>\n")
	}
	buf.WriteString(ind + "</graph>\n")
	return nil
}

// displayTerm renders a term for human-facing formats: prefixed names
// where possible, literals quoted with their tag or datatype.
func displayTerm(term Term, ns *NamespaceMap, labels *blankLabeler) string {
	switch v := term.(type) {
	case IRI:
		if qname, ok := ns.Reduce(v.Value); ok {
			return qname
		}
		return v.Value
	case BlankNode:
		return "_:" + labels.label(v)
	case Literal:
		quoted := `"` + v.Lexical + `"`
		switch {
		case v.Lang != "":
			return quoted + "@" + v.Lang
		case v.Datatype.Value != "" && v.Datatype != XSDString:
			return quoted + "^^" + displayTerm(v.Datatype, ns, labels)
		}
		return quoted
	}
	return ""
}
