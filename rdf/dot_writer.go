package rdf

import (
	"io"
	"strconv"
	"strings"
)

// DOTWriter writes a graph in the GraphViz DOT language. Resources are
// ellipses and literals are boxes; with OptCollapseLiterals literals are
// folded into the label of their subject.
type DOTWriter struct {
	opts Options
}

// NewDOTWriter returns a DOT writer.
func NewDOTWriter(opts ...Option) *DOTWriter {
	return &DOTWriter{opts: buildOptions(opts)}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", ``)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// WriteGraph writes g to w.
func (dw *DOTWriter) WriteGraph(w io.Writer, g *Graph) error {
	ns := dw.opts.namespaces(g)
	labels := newBlankLabeler()
	ind := dw.opts.Indent

	ids := map[Term]string{}
	var order []Term
	extra := map[Term][]string{}
	node := func(t Term) string {
		if id, ok := ids[t]; ok {
			return id
		}
		id := "n" + strconv.Itoa(len(order))
		ids[t] = id
		order = append(order, t)
		return id
	}

	var edges strings.Builder
	for _, t := range g.Triples() {
		if l, ok := t.O.(Literal); ok {
			if err := checkLiteral(FormatDOT, l); err != nil {
				return err
			}
			if dw.opts.CollapseLiterals {
				node(t.S)
				extra[t.S] = append(extra[t.S], displayTerm(t.P, ns, labels)+" = "+displayTerm(l, ns, labels))
				continue
			}
		}
		edges.WriteString(ind + node(t.S) + " -> " + node(t.O) + " [label=" + dotQuote(displayTerm(t.P, ns, labels)) + "];\n")
	}

	out := newTextWriter(w)
	name := "G"
	if g.Name() != nil {
		name = displayTerm(g.Name(), ns, labels)
	}
	out.str("digraph " + dotQuote(name) + " {\n")
	out.str(ind + "charset=\"UTF-8\";\n")
	for _, n := range order {
		label := displayTerm(n, ns, labels)
		if lines := extra[n]; len(lines) > 0 {
			label += "\n" + strings.Join(lines, "\n")
		}
		shape := "ellipse"
		switch n.Kind() {
		case TermLiteral:
			shape = "box"
		case TermBlankNode:
			shape = "circle"
		}
		out.str(ind + ids[n] + " [label=" + dotQuote(label) + ", shape=" + shape + "];\n")
	}
	out.str(edges.String())
	out.str("}\n")
	return out.flush()
}
