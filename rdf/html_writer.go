package rdf

import (
	"io"
	"strings"
)

// HTMLWriter writes a graph as an XHTML document annotated with RDFa: one
// table per subject, with a row per statement.
type HTMLWriter struct {
	opts Options
}

// NewHTMLWriter returns an HTML+RDFa writer.
func NewHTMLWriter(opts ...Option) *HTMLWriter {
	return &HTMLWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g to w.
func (hw *HTMLWriter) WriteGraph(w io.Writer, g *Graph) error {
	ns := hw.opts.namespaces(g)
	labels := newBlankLabeler()
	ind := hw.opts.Indent
	out := newTextWriter(w)

	var prefixDecl []string
	for _, prefix := range ns.Prefixes() {
		if prefix == "" || !IsPrefixName(prefix) {
			continue
		}
		iri, _ := ns.Lookup(prefix)
		prefixDecl = append(prefixDecl, prefix+": "+iri)
	}
	out.str("<!DOCTYPE html>\n", `<html xmlns="http://www.w3.org/1999/xhtml"`)
	if len(prefixDecl) > 0 {
		out.str(` prefix="` + escapeXML(strings.Join(prefixDecl, " ")) + `"`)
	}
	out.str(">\n", ind+"<head>\n")
	out.str(ind + ind + `<meta charset="UTF-8"/>` + "\n")
	title := "RDF graph"
	if g.Name() != nil {
		title = displayTerm(g.Name(), ns, labels)
	}
	out.str(ind + ind + "<title>" + escapeXML(title) + "</title>\n")
	if hw.opts.Stylesheet != "" {
		out.str(ind + ind + `<link rel="stylesheet" type="text/css" href="` + escapeXML(hw.opts.Stylesheet) + `"/>` + "\n")
	}
	if base := hw.opts.baseIRI(g); base != "" {
		out.str(ind + ind + `<base href="` + escapeXML(base) + `"/>` + "\n")
	}
	out.str(ind+"</head>\n", ind+"<body>\n")

	for _, group := range GroupBySubject(g.Triples()) {
		about, err := hw.resourceRef(group.Subject, labels)
		if err != nil {
			return err
		}
		out.str(ind + ind + `<div about="` + escapeXML(about) + `">` + "\n")
		out.str(ind + ind + ind + "<h2>" + escapeXML(displayTerm(group.Subject, ns, labels)) + "</h2>\n")
		out.str(ind + ind + ind + `<table class="rdf-statements">` + "\n")
		out.str(ind + ind + ind + ind + "<thead><tr><th>Predicate</th><th>Object</th></tr></thead>\n")
		out.str(ind + ind + ind + ind + "<tbody>\n")
		for _, t := range group.Triples {
			cell, err := hw.objectCell(t, ns, labels)
			if err != nil {
				return err
			}
			out.str(ind + ind + ind + ind + ind + "<tr><td>" + escapeXML(displayTerm(t.P, ns, labels)) + "</td><td>" + cell + "</td></tr>\n")
		}
		out.str(ind + ind + ind + ind + "</tbody>\n")
		out.str(ind + ind + ind + "</table>\n")
		out.str(ind + ind + "</div>\n")
	}
	out.str(ind+"</body>\n", "</html>\n")
	return out.flush()
}

// resourceRef renders a resource for an RDFa about/resource attribute;
// blank nodes use the safe CURIE form.
func (hw *HTMLWriter) resourceRef(term Term, labels *blankLabeler) (string, error) {
	switch v := term.(type) {
	case IRI:
		return v.Value, nil
	case BlankNode:
		return "[_:" + labels.label(v) + "]", nil
	}
	return "", outputErrorf(FormatHTML, "%s cannot be a resource", term)
}

func (hw *HTMLWriter) curie(p IRI, ns *NamespaceMap) string {
	if qname, ok := ns.Reduce(p.Value); ok && !strings.HasPrefix(qname, ":") {
		return qname
	}
	return p.Value
}

func (hw *HTMLWriter) objectCell(t Triple, ns *NamespaceMap, labels *blankLabeler) (string, error) {
	pred := escapeXML(hw.curie(t.P, ns))
	switch v := t.O.(type) {
	case IRI:
		return `<a rel="` + pred + `" href="` + escapeXML(v.Value) + `">` + escapeXML(displayTerm(v, ns, labels)) + "</a>", nil
	case BlankNode:
		ref, _ := hw.resourceRef(v, labels)
		return `<span rel="` + pred + `" resource="` + escapeXML(ref) + `">` + escapeXML(displayTerm(v, ns, labels)) + "</span>", nil
	case Literal:
		if err := checkLiteral(FormatHTML, v); err != nil {
			return "", err
		}
		attrs := ` property="` + pred + `"`
		switch {
		case v.Lang != "":
			attrs += ` xml:lang="` + escapeXML(v.Lang) + `" lang="` + escapeXML(v.Lang) + `"`
		case v.Datatype.Value != "" && v.Datatype != XSDString:
			attrs += ` datatype="` + escapeXML(hw.curie(v.Datatype, ns)) + `"`
		}
		return "<span" + attrs + ">" + escapeXML(v.Lexical) + "</span>", nil
	}
	return "", outputErrorf(FormatHTML, "unsupported object %v", t.O)
}
