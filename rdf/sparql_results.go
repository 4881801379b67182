package rdf

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"bitbucket.org/creachadair/stringset"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// SPARQLResultsNamespace is the namespace of the SPARQL XML results format.
const SPARQLResultsNamespace = "http://www.w3.org/2005/sparql-results#"

// Result is one solution of a SELECT query: variable name to bound term.
// Unbound variables are absent.
type Result map[string]Term

// ResultSet holds SELECT solutions or an ASK answer.
type ResultSet struct {
	Variables []string
	Rows      []Result
	// Boolean is set for ASK results.
	Boolean *bool
}

// NewResultSet returns an empty SELECT result set over vars.
func NewResultSet(vars ...string) *ResultSet {
	return &ResultSet{Variables: append([]string(nil), vars...)}
}

// NewBooleanResult returns an ASK result set.
func NewBooleanResult(b bool) *ResultSet {
	return &ResultSet{Boolean: &b}
}

// IsBoolean reports whether rs is an ASK result.
func (rs *ResultSet) IsBoolean() bool { return rs.Boolean != nil }

// Add appends a solution. Variables bound by row but missing from
// rs.Variables are appended in sorted order.
func (rs *ResultSet) Add(row Result) {
	known := stringset.New(rs.Variables...)
	extra := stringset.New()
	for name := range row {
		if !known.Contains(name) {
			extra.Add(name)
		}
	}
	rs.Variables = append(rs.Variables, extra.Elements()...)
	rs.Rows = append(rs.Rows, row)
}

// SPARQLResultsWriter writes result sets in one of the SPARQL results
// formats: JSON, XML, CSV, TSV, or an HTML table.
type SPARQLResultsWriter struct {
	opts   Options
	format Format
}

// NewSPARQLResultsWriter returns a results writer for format, which must be
// one of FormatSPARQLJSON, FormatSPARQLXML, FormatSPARQLCSV,
// FormatSPARQLTSV or FormatSPARQLHTML.
func NewSPARQLResultsWriter(format Format, opts ...Option) (*SPARQLResultsWriter, error) {
	switch format {
	case FormatSPARQLJSON, FormatSPARQLXML, FormatSPARQLCSV, FormatSPARQLTSV, FormatSPARQLHTML:
		return &SPARQLResultsWriter{opts: buildOptions(opts), format: format}, nil
	}
	return nil, ErrUnsupportedFormat
}

// WriteResults writes rs to w.
func (sw *SPARQLResultsWriter) WriteResults(w io.Writer, rs *ResultSet) error {
	for _, row := range rs.Rows {
		for _, term := range row {
			if l, ok := term.(Literal); ok {
				if err := checkLiteral(sw.format, l); err != nil {
					return err
				}
			}
		}
	}
	out := newTextWriter(w)
	labels := newBlankLabeler()
	var err error
	switch sw.format {
	case FormatSPARQLJSON:
		err = sw.writeJSON(out, rs, labels)
	case FormatSPARQLXML:
		sw.writeXML(out, rs, labels)
	case FormatSPARQLCSV:
		err = sw.writeCSV(out, rs, labels)
	case FormatSPARQLTSV:
		sw.writeTSV(out, rs, labels)
	case FormatSPARQLHTML:
		sw.writeHTML(out, rs, labels)
	}
	if err != nil {
		return err
	}
	return out.flush()
}

type srjTerm struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

type srjHead struct {
	Vars []string `json:"vars,omitempty"`
}

type srjResults struct {
	Bindings []map[string]srjTerm `json:"bindings"`
}

type srjDocument struct {
	Head    srjHead     `json:"head"`
	Boolean *bool       `json:"boolean,omitempty"`
	Results *srjResults `json:"results,omitempty"`
}

func (sw *SPARQLResultsWriter) writeJSON(out *textWriter, rs *ResultSet, labels *blankLabeler) error {
	doc := srjDocument{Boolean: rs.Boolean}
	if !rs.IsBoolean() {
		doc.Head.Vars = rs.Variables
		doc.Results = &srjResults{Bindings: make([]map[string]srjTerm, 0, len(rs.Rows))}
		for _, row := range rs.Rows {
			binding := map[string]srjTerm{}
			for name, term := range row {
				binding[name] = toSRJTerm(term, labels)
			}
			doc.Results.Bindings = append(doc.Results.Bindings, binding)
		}
	}
	jsonOpts := []json.Options{json.Deterministic(true)}
	if sw.opts.Pretty {
		jsonOpts = append(jsonOpts, jsontext.WithIndent(sw.opts.Indent))
	}
	if err := json.MarshalWrite(out, doc, jsonOpts...); err != nil {
		return err
	}
	out.str("\n")
	return nil
}

func toSRJTerm(term Term, labels *blankLabeler) srjTerm {
	switch v := term.(type) {
	case IRI:
		return srjTerm{Type: "uri", Value: v.Value}
	case BlankNode:
		return srjTerm{Type: "bnode", Value: labels.label(v)}
	case Literal:
		t := srjTerm{Type: "literal", Value: v.Lexical, Lang: v.Lang}
		if v.Lang == "" && v.Datatype.Value != "" && v.Datatype != XSDString {
			t.Datatype = v.Datatype.Value
		}
		return t
	}
	return srjTerm{}
}

func (sw *SPARQLResultsWriter) writeXML(out *textWriter, rs *ResultSet, labels *blankLabeler) {
	ind := sw.opts.Indent
	out.str(`<?xml version="1.0" encoding="UTF-8"?>`+"\n", `<sparql xmlns="`+SPARQLResultsNamespace+`">`+"\n")
	if rs.IsBoolean() {
		out.str(ind+"<head/>\n", ind+"<boolean>"+strconv.FormatBool(*rs.Boolean)+"</boolean>\n", "</sparql>\n")
		return
	}
	out.str(ind + "<head>\n")
	for _, v := range rs.Variables {
		out.str(ind + ind + `<variable name="` + escapeXML(v) + `"/>` + "\n")
	}
	out.str(ind+"</head>\n", ind+"<results>\n")
	for _, row := range rs.Rows {
		out.str(ind + ind + "<result>\n")
		for _, v := range rs.Variables {
			term, ok := row[v]
			if !ok {
				continue
			}
			out.str(ind + ind + ind + `<binding name="` + escapeXML(v) + `">` + srxTerm(term, labels) + "</binding>\n")
		}
		out.str(ind + ind + "</result>\n")
	}
	out.str(ind+"</results>\n", "</sparql>\n")
}

func srxTerm(term Term, labels *blankLabeler) string {
	switch v := term.(type) {
	case IRI:
		return "<uri>" + escapeXML(v.Value) + "</uri>"
	case BlankNode:
		return "<bnode>" + labels.label(v) + "</bnode>"
	case Literal:
		switch {
		case v.Lang != "":
			return `<literal xml:lang="` + escapeXML(v.Lang) + `">` + escapeXML(v.Lexical) + "</literal>"
		case v.Datatype.Value != "" && v.Datatype != XSDString:
			return `<literal datatype="` + escapeXML(v.Datatype.Value) + `">` + escapeXML(v.Lexical) + "</literal>"
		}
		return "<literal>" + escapeXML(v.Lexical) + "</literal>"
	}
	return ""
}

func (sw *SPARQLResultsWriter) writeCSV(out *textWriter, rs *ResultSet, labels *blankLabeler) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true
	if rs.IsBoolean() {
		if err := cw.Write([]string{strconv.FormatBool(*rs.Boolean)}); err != nil {
			return err
		}
	} else {
		if err := cw.Write(rs.Variables); err != nil {
			return err
		}
		for _, row := range rs.Rows {
			record := make([]string, len(rs.Variables))
			for i, v := range rs.Variables {
				switch term := row[v].(type) {
				case IRI:
					record[i] = term.Value
				case BlankNode:
					record[i] = "_:" + labels.label(term)
				case Literal:
					record[i] = term.Lexical
				}
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	out.str(buf.String())
	return nil
}

func (sw *SPARQLResultsWriter) writeTSV(out *textWriter, rs *ResultSet, labels *blankLabeler) {
	if rs.IsBoolean() {
		out.str(strconv.FormatBool(*rs.Boolean) + "\n")
		return
	}
	header := make([]string, len(rs.Variables))
	for i, v := range rs.Variables {
		header[i] = "?" + v
	}
	out.str(strings.Join(header, "\t") + "\n")
	for _, row := range rs.Rows {
		cells := make([]string, len(rs.Variables))
		for i, v := range rs.Variables {
			if term, ok := row[v]; ok {
				cells[i] = ntTerm(term, labels)
			}
		}
		out.str(strings.Join(cells, "\t") + "\n")
	}
}

func (sw *SPARQLResultsWriter) writeHTML(out *textWriter, rs *ResultSet, labels *blankLabeler) {
	ind := sw.opts.Indent
	ns := sw.opts.namespaces(nil)
	out.str("<!DOCTYPE html>\n", `<html xmlns="http://www.w3.org/1999/xhtml">`+"\n", ind+"<head>\n")
	out.str(ind+ind+`<meta charset="UTF-8"/>`+"\n", ind+ind+"<title>SPARQL Query Results</title>\n")
	if sw.opts.Stylesheet != "" {
		out.str(ind + ind + `<link rel="stylesheet" type="text/css" href="` + escapeXML(sw.opts.Stylesheet) + `"/>` + "\n")
	}
	out.str(ind+"</head>\n", ind+"<body>\n")
	if rs.IsBoolean() {
		out.str(ind + ind + `<p class="sparql-boolean">` + strconv.FormatBool(*rs.Boolean) + "</p>\n")
	} else {
		out.str(ind + ind + `<table class="sparql-results">` + "\n")
		out.str(ind + ind + ind + "<thead><tr>")
		for _, v := range rs.Variables {
			out.str("<th>?" + escapeXML(v) + "</th>")
		}
		out.str("</tr></thead>\n", ind+ind+ind+"<tbody>\n")
		for _, row := range rs.Rows {
			out.str(ind + ind + ind + ind + "<tr>")
			for _, v := range rs.Variables {
				cell := ""
				if term, ok := row[v]; ok {
					cell = escapeXML(displayTerm(term, ns, labels))
				}
				out.str("<td>" + cell + "</td>")
			}
			out.str("</tr>\n")
		}
		out.str(ind+ind+ind+"</tbody>\n", ind+ind+"</table>\n")
	}
	out.str(ind+"</body>\n", "</html>\n")
}
