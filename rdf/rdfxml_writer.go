package rdf

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"strings"

	"bitbucket.org/creachadair/stringset"
)

// RDFXMLWriter writes graphs as RDF/XML.
//
// From CompressionMedium on, statements are grouped under one node element
// per subject, typed with its first rdf:type when that type has a QName.
// At CompressionHigh, single-use blank nodes become rdf:parseType="Resource"
// property elements and lists of resources become rdf:parseType="Collection".
type RDFXMLWriter struct {
	opts Options
}

// NewRDFXMLWriter returns an RDF/XML writer.
func NewRDFXMLWriter(opts ...Option) *RDFXMLWriter {
	return &RDFXMLWriter{opts: buildOptions(opts)}
}

// WriteGraph writes g to w. A predicate whose IRI cannot be split into an
// XML QName fails the write with an *OutputError.
func (xw *RDFXMLWriter) WriteGraph(w io.Writer, g *Graph) error {
	r := &xmlRenderer{
		opts:   xw.opts,
		level:  xw.opts.compression(),
		labels: newBlankLabeler(),
		byNS:   map[string]string{rdfXMLNS: "rdf"},
		used:   stringset.New("rdf"),
	}
	if err := r.allocatePrefixes(g, xw.opts.namespaces(g)); err != nil {
		return err
	}
	r.cs = xw.opts.findCollections(g, CollectionsAll, FormatRDFXML)
	r.dropInexpressible()

	var buf bytes.Buffer
	r.writeRoot(&buf, xw.opts.baseIRI(g))
	if err := r.writeStatements(&buf, g); err != nil {
		return err
	}
	buf.WriteString("</rdf:RDF>\n")

	out := newTextWriter(w)
	out.str(buf.String())
	return out.flush()
}

type xmlRenderer struct {
	opts   Options
	level  CompressionLevel
	labels *blankLabeler
	cs     *CollectionSet

	// byNS maps namespace IRIs to the XML prefixes declared on the root.
	byNS map[string]string
	used stringset.Set
}

// allocatePrefixes declares a prefix for the namespace of every predicate
// and, when typed nodes are written, of every rdf:type value. Prefixes of
// ns are reused when they are valid XML prefixes; others become ns0, ns1...
func (r *xmlRenderer) allocatePrefixes(g *Graph, ns *NamespaceMap) error {
	needed := map[string]struct{}{}
	for _, t := range g.Triples() {
		nsIRI, _, ok := SplitIRI(t.P.Value)
		if !ok {
			return outputErrorf(FormatRDFXML, "predicate <%s> cannot be written as an XML QName", t.P.Value)
		}
		needed[nsIRI] = struct{}{}
		if t.P != RDFType || r.level < CompressionMedium {
			continue
		}
		if typ, ok := t.O.(IRI); ok {
			if nsIRI, _, ok := SplitIRI(typ.Value); ok {
				needed[nsIRI] = struct{}{}
			}
		}
	}
	namespaces := make([]string, 0, len(needed))
	for nsIRI := range needed {
		if _, ok := r.byNS[nsIRI]; !ok {
			namespaces = append(namespaces, nsIRI)
		}
	}
	sort.Strings(namespaces)

	var pending []string
	for _, nsIRI := range namespaces {
		prefix, ok := ns.PrefixFor(nsIRI)
		if ok && isXMLPrefix(prefix) && !r.used.Contains(prefix) {
			r.declare(nsIRI, prefix)
			continue
		}
		pending = append(pending, nsIRI)
	}
	seq := 0
	for _, nsIRI := range pending {
		prefix := "ns" + strconv.Itoa(seq)
		for r.used.Contains(prefix) {
			seq++
			prefix = "ns" + strconv.Itoa(seq)
		}
		r.declare(nsIRI, prefix)
	}
	return nil
}

func (r *xmlRenderer) declare(nsIRI, prefix string) {
	r.byNS[nsIRI] = prefix
	r.used.Add(prefix)
}

func isXMLPrefix(prefix string) bool {
	return prefix != "" && isQNameLocal(prefix) && !strings.HasPrefix(strings.ToLower(prefix), "xml")
}

// dropInexpressible discards lists that rdf:parseType="Collection" cannot
// hold: lists with literal items and lists nested as items of other lists.
func (r *xmlRenderer) dropInexpressible() {
	for _, key := range r.cs.Keys() {
		c := r.cs.Collections[key]
		if c.IsExplicit() {
			continue
		}
		for _, t := range c.triples {
			if t.O.Kind() == TermLiteral {
				r.cs.Discard(key)
				break
			}
		}
	}
	for _, key := range r.cs.Keys() {
		c, ok := r.cs.Collections[key]
		if !ok || c.IsExplicit() {
			continue
		}
		for _, t := range c.triples {
			if inner, ok := r.cs.Collections[t.O]; ok && !inner.IsExplicit() {
				r.cs.Discard(t.O)
			}
		}
	}
}

func (r *xmlRenderer) qname(iri string) (string, bool) {
	nsIRI, local, ok := SplitIRI(iri)
	if !ok {
		return "", false
	}
	prefix, ok := r.byNS[nsIRI]
	if !ok {
		return "", false
	}
	return prefix + ":" + local, true
}

func (r *xmlRenderer) writeRoot(buf *bytes.Buffer, base string) {
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString("<rdf:RDF")
	prefixes := make([]string, 0, len(r.byNS))
	nsFor := map[string]string{}
	for nsIRI, prefix := range r.byNS {
		prefixes = append(prefixes, prefix)
		nsFor[prefix] = nsIRI
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		buf.WriteString(r.attrSep() + `xmlns:` + prefix + `="` + escapeXML(nsFor[prefix]) + `"`)
	}
	if base != "" {
		buf.WriteString(r.attrSep() + `xml:base="` + escapeXML(base) + `"`)
	}
	buf.WriteString(">\n")
}

func (r *xmlRenderer) attrSep() string {
	if r.opts.Pretty {
		return "\n" + r.opts.Indent + r.opts.Indent
	}
	return " "
}

func (r *xmlRenderer) indent(depth int) string {
	return strings.Repeat(r.opts.Indent, depth)
}

func (r *xmlRenderer) writeStatements(buf *bytes.Buffer, g *Graph) error {
	var flat []Triple
	for _, t := range g.Triples() {
		if !r.cs.IsDone(t) {
			flat = append(flat, t)
		}
	}
	if r.level < CompressionMedium {
		for _, t := range flat {
			if err := r.nodeElement(buf, 1, t.S, []Triple{t}); err != nil {
				return err
			}
		}
		return nil
	}
	for _, group := range GroupBySubject(flat) {
		if err := r.nodeElement(buf, 1, group.Subject, group.Triples); err != nil {
			return err
		}
	}
	return nil
}

// nodeElement writes a node element for subject holding the given
// property triples.
func (r *xmlRenderer) nodeElement(buf *bytes.Buffer, depth int, subject Term, ts []Triple) error {
	element := "rdf:Description"
	if r.level >= CompressionMedium {
		for i, t := range ts {
			typ, ok := t.O.(IRI)
			if t.P != RDFType || !ok || strings.HasPrefix(typ.Value, RDFNamespace) {
				continue
			}
			if name, ok := r.qname(typ.Value); ok {
				element = name
				ts = append(append([]Triple(nil), ts[:i]...), ts[i+1:]...)
				break
			}
		}
	}
	attr, err := r.subjectAttr(subject)
	if err != nil {
		return err
	}
	buf.WriteString(r.indent(depth) + "<" + element + attr)
	if len(ts) == 0 {
		buf.WriteString("/>\n")
		return nil
	}
	buf.WriteString(">\n")
	if err := r.properties(buf, depth+1, ts); err != nil {
		return err
	}
	buf.WriteString(r.indent(depth) + "</" + element + ">\n")
	return nil
}

// subjectAttr returns the identifying attribute of a node element; nil
// subjects are anonymous.
func (r *xmlRenderer) subjectAttr(subject Term) (string, error) {
	switch v := subject.(type) {
	case nil:
		return "", nil
	case IRI:
		return ` rdf:about="` + escapeXML(v.Value) + `"`, nil
	case BlankNode:
		if c, ok := r.cs.Lookup(v); ok && c.IsExplicit() && c.Len() == 0 && !c.HasBeenWritten() {
			c.MarkWritten()
			return "", nil
		}
		return ` rdf:nodeID="` + r.labels.label(v) + `"`, nil
	}
	return "", outputErrorf(FormatRDFXML, "%s cannot be a subject", subject)
}

func (r *xmlRenderer) properties(buf *bytes.Buffer, depth int, ts []Triple) error {
	for _, t := range ts {
		if err := r.property(buf, depth, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *xmlRenderer) property(buf *bytes.Buffer, depth int, t Triple) error {
	name, ok := r.qname(t.P.Value)
	if !ok {
		return outputErrorf(FormatRDFXML, "predicate <%s> cannot be written as an XML QName", t.P.Value)
	}
	ind := r.indent(depth)
	switch o := t.O.(type) {
	case IRI:
		buf.WriteString(ind + "<" + name + ` rdf:resource="` + escapeXML(o.Value) + `"/>` + "\n")
	case Literal:
		if err := checkLiteral(FormatRDFXML, o); err != nil {
			return err
		}
		attr := ""
		switch {
		case o.Lang != "":
			attr = ` xml:lang="` + escapeXML(o.Lang) + `"`
		case o.Datatype.Value != "" && o.Datatype != XSDString:
			attr = ` rdf:datatype="` + escapeXML(o.Datatype.Value) + `"`
		}
		buf.WriteString(ind + "<" + name + attr + ">" + escapeXML(o.Lexical) + "</" + name + ">\n")
	case BlankNode:
		c, ok := r.cs.Lookup(o)
		if !ok || c.HasBeenWritten() {
			buf.WriteString(ind + "<" + name + ` rdf:nodeID="` + r.labels.label(o) + `"/>` + "\n")
			return nil
		}
		c.MarkWritten()
		if !c.IsExplicit() {
			buf.WriteString(ind + "<" + name + ` rdf:parseType="Collection">` + "\n")
			for item, ok := c.Next(); ok; item, ok = c.Next() {
				if err := r.collectionItem(buf, depth+1, item.O); err != nil {
					return err
				}
			}
			buf.WriteString(ind + "</" + name + ">\n")
			return nil
		}
		if c.Len() == 0 {
			buf.WriteString(ind + "<" + name + ` rdf:parseType="Resource"/>` + "\n")
			return nil
		}
		buf.WriteString(ind + "<" + name + ` rdf:parseType="Resource">` + "\n")
		if err := r.properties(buf, depth+1, sortedTriples(c)); err != nil {
			return err
		}
		buf.WriteString(ind + "</" + name + ">\n")
	default:
		return outputErrorf(FormatRDFXML, "unsupported object %v", t.O)
	}
	return nil
}

// collectionItem writes one member of an rdf:parseType="Collection" list.
func (r *xmlRenderer) collectionItem(buf *bytes.Buffer, depth int, item Term) error {
	ind := r.indent(depth)
	switch v := item.(type) {
	case IRI:
		buf.WriteString(ind + `<rdf:Description rdf:about="` + escapeXML(v.Value) + `"/>` + "\n")
		return nil
	case BlankNode:
		c, ok := r.cs.Lookup(v)
		if !ok || c.HasBeenWritten() || !c.IsExplicit() {
			buf.WriteString(ind + `<rdf:Description rdf:nodeID="` + r.labels.label(v) + `"/>` + "\n")
			return nil
		}
		c.MarkWritten()
		return r.nodeElement(buf, depth, nil, sortedTriples(c))
	}
	return outputErrorf(FormatRDFXML, "literal %s inside a collection", item)
}

func sortedTriples(c *OutputCollection) []Triple {
	ts := c.Triples()
	SortTriples(ts)
	return ts
}
