package rdf

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Format identifies an output syntax.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatN3       Format = "n3"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatTriG     Format = "trig"
	FormatTriX     Format = "trix"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatGraphML  Format = "graphml"
	FormatDOT      Format = "dot"
	FormatHTML     Format = "html"

	FormatSPARQLJSON Format = "srj"
	FormatSPARQLXML  Format = "srx"
	FormatSPARQLCSV  Format = "src"
	FormatSPARQLTSV  Format = "srt"
	FormatSPARQLHTML Format = "srh"
)

// GraphWriter serializes a single graph.
type GraphWriter interface {
	WriteGraph(w io.Writer, g *Graph) error
}

// DatasetWriter serializes every graph of a dataset.
type DatasetWriter interface {
	WriteDataset(ctx context.Context, w io.Writer, ds *Dataset) error
}

// ResultsWriter serializes SPARQL query results.
type ResultsWriter interface {
	WriteResults(w io.Writer, rs *ResultSet) error
}

type formatInfo struct {
	aliases      []string
	extension    string
	contentTypes []string
	graph        func(opts []Option) GraphWriter
	dataset      func(opts []Option) DatasetWriter
	results      bool
}

var formats = map[Format]formatInfo{
	FormatTurtle: {
		aliases: []string{"ttl"}, extension: ".ttl",
		contentTypes: []string{"text/turtle", "application/x-turtle"},
		graph:        func(opts []Option) GraphWriter { return NewTurtleWriter(opts...) },
	},
	FormatN3: {
		aliases: []string{"notation3"}, extension: ".n3",
		contentTypes: []string{"text/n3", "text/rdf+n3"},
		graph:        func(opts []Option) GraphWriter { return NewN3Writer(opts...) },
	},
	FormatNTriples: {
		aliases: []string{"nt", "n-triples"}, extension: ".nt",
		contentTypes: []string{"application/n-triples"},
		graph:        func(opts []Option) GraphWriter { return NewNTriplesWriter(opts...) },
	},
	FormatNQuads: {
		aliases: []string{"nq", "n-quads"}, extension: ".nq",
		contentTypes: []string{"application/n-quads"},
		graph:        func(opts []Option) GraphWriter { return NewNQuadsWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewNQuadsWriter(opts...) },
	},
	FormatTriG: {
		extension:    ".trig",
		contentTypes: []string{"application/trig"},
		graph:        func(opts []Option) GraphWriter { return NewTriGWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewTriGWriter(opts...) },
	},
	FormatTriX: {
		extension:    ".trix",
		contentTypes: []string{"application/trix"},
		graph:        func(opts []Option) GraphWriter { return NewTriXWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewTriXWriter(opts...) },
	},
	FormatRDFXML: {
		aliases: []string{"rdf", "xml", "rdf/xml"}, extension: ".rdf",
		contentTypes: []string{"application/rdf+xml"},
		graph:        func(opts []Option) GraphWriter { return NewRDFXMLWriter(opts...) },
	},
	FormatJSONLD: {
		aliases: []string{"json-ld"}, extension: ".jsonld",
		contentTypes: []string{"application/ld+json"},
		graph:        func(opts []Option) GraphWriter { return NewJSONLDWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewJSONLDWriter(opts...) },
	},
	FormatCSV: {
		extension:    ".csv",
		contentTypes: []string{"text/csv"},
		graph:        func(opts []Option) GraphWriter { return NewCSVWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewCSVWriter(opts...) },
	},
	FormatTSV: {
		extension:    ".tsv",
		contentTypes: []string{"text/tab-separated-values"},
		graph:        func(opts []Option) GraphWriter { return NewTSVWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewTSVWriter(opts...) },
	},
	FormatGraphML: {
		extension:    ".graphml",
		contentTypes: []string{"application/graphml+xml"},
		graph:        func(opts []Option) GraphWriter { return NewGraphMLWriter(opts...) },
		dataset:      func(opts []Option) DatasetWriter { return NewGraphMLWriter(opts...) },
	},
	FormatDOT: {
		aliases: []string{"graphviz", "gv"}, extension: ".dot",
		contentTypes: []string{"text/vnd.graphviz"},
		graph:        func(opts []Option) GraphWriter { return NewDOTWriter(opts...) },
	},
	FormatHTML: {
		aliases: []string{"rdfa", "xhtml", "htm"}, extension: ".html",
		contentTypes: []string{"text/html", "application/xhtml+xml"},
		graph:        func(opts []Option) GraphWriter { return NewHTMLWriter(opts...) },
	},
	FormatSPARQLJSON: {
		aliases: []string{"sparql-json"}, extension: ".srj",
		contentTypes: []string{"application/sparql-results+json"},
		results:      true,
	},
	FormatSPARQLXML: {
		aliases: []string{"sparql-xml"}, extension: ".srx",
		contentTypes: []string{"application/sparql-results+xml"},
		results:      true,
	},
	FormatSPARQLCSV: {
		aliases: []string{"sparql-csv"}, extension: ".src",
		contentTypes: []string{"text/csv; sparql-results"},
		results:      true,
	},
	FormatSPARQLTSV: {
		aliases: []string{"sparql-tsv"}, extension: ".srt",
		contentTypes: []string{"text/tab-separated-values; sparql-results"},
		results:      true,
	},
	FormatSPARQLHTML: {
		aliases: []string{"sparql-html"}, extension: ".srh",
		contentTypes: []string{"text/html; sparql-results"},
		results:      true,
	},
}

// Formats returns every supported format, sorted by name.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseFormat normalizes a format name or alias.
func ParseFormat(value string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(value))
	if _, ok := formats[Format(name)]; ok {
		return Format(name), true
	}
	for f, info := range formats {
		for _, alias := range info.aliases {
			if alias == name {
				return f, true
			}
		}
	}
	return "", false
}

// FormatFromPath infers the format from a file name. A trailing ".gz" is
// ignored.
func FormatFromPath(path string) (Format, bool) {
	path = strings.TrimSuffix(strings.ToLower(path), ".gz")
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	for f, info := range formats {
		if info.extension == ext {
			return f, true
		}
	}
	switch ext {
	case ".xml", ".owl":
		return FormatRDFXML, true
	case ".json":
		return FormatJSONLD, true
	case ".htm", ".xhtml":
		return FormatHTML, true
	case ".gv":
		return FormatDOT, true
	}
	return "", false
}

// FormatFromContentType infers the format from a MIME type. Parameters
// are ignored.
func FormatFromContentType(contentType string) (Format, bool) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	for _, f := range Formats() {
		info := formats[f]
		if info.results {
			continue
		}
		for _, ct := range info.contentTypes {
			if ct == mediaType {
				return f, true
			}
		}
	}
	for _, f := range Formats() {
		for _, ct := range formats[f].contentTypes {
			if ct == mediaType {
				return f, true
			}
		}
	}
	return "", false
}

// ContentType returns the preferred MIME type of f.
func (f Format) ContentType() string {
	info, ok := formats[f]
	if !ok || len(info.contentTypes) == 0 {
		return ""
	}
	return info.contentTypes[0]
}

// Extension returns the conventional file extension of f, dot included.
func (f Format) Extension() string {
	return formats[f].extension
}

// IsResultsFormat reports whether f is a SPARQL results format.
func (f Format) IsResultsFormat() bool {
	return formats[f].results
}

// SupportsDatasets reports whether f can hold named graphs.
func (f Format) SupportsDatasets() bool {
	return formats[f].dataset != nil
}

// NewGraphWriter returns the graph writer for format.
func NewGraphWriter(format Format, opts ...Option) (GraphWriter, error) {
	info, ok := formats[format]
	if !ok || info.graph == nil {
		return nil, fmt.Errorf("%w: %q has no graph writer", ErrUnsupportedFormat, format)
	}
	return info.graph(opts), nil
}

// NewDatasetWriter returns the dataset writer for format.
func NewDatasetWriter(format Format, opts ...Option) (DatasetWriter, error) {
	info, ok := formats[format]
	if !ok || info.dataset == nil {
		return nil, fmt.Errorf("%w: %q has no dataset writer", ErrUnsupportedFormat, format)
	}
	return info.dataset(opts), nil
}

// NewResultsWriter returns the SPARQL results writer for format.
func NewResultsWriter(format Format, opts ...Option) (ResultsWriter, error) {
	w, err := NewSPARQLResultsWriter(format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q has no results writer", ErrUnsupportedFormat, format)
	}
	return w, nil
}

// SerializeGraph writes g to w in format.
func SerializeGraph(w io.Writer, format Format, g *Graph, opts ...Option) error {
	gw, err := NewGraphWriter(format, opts...)
	if err != nil {
		return err
	}
	return gw.WriteGraph(w, g)
}

// SerializeDataset writes ds to w in format. Graph-only formats accept a
// dataset whose named graphs are all empty and write its default graph.
func SerializeDataset(ctx context.Context, w io.Writer, format Format, ds *Dataset, opts ...Option) error {
	if dw, err := NewDatasetWriter(format, opts...); err == nil {
		return dw.WriteDataset(ctx, w, ds)
	}
	gw, err := NewGraphWriter(format, opts...)
	if err != nil {
		return err
	}
	if ds.HasNamedGraphs() {
		return outputErrorf(format, "named graphs cannot be written")
	}
	def := *ds.DefaultGraph()
	if def.BaseIRI == "" {
		def.BaseIRI = ds.BaseIRI
	}
	def.Namespaces = ds.namespacesFor(ds.DefaultGraph())
	return gw.WriteGraph(w, &def)
}

// SerializeResults writes rs to w in format.
func SerializeResults(w io.Writer, format Format, rs *ResultSet, opts ...Option) error {
	rw, err := NewResultsWriter(format, opts...)
	if err != nil {
		return err
	}
	return rw.WriteResults(w, rs)
}
