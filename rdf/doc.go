// Package rdf provides an in-memory RDF model and a family of writers that
// serialize graphs, datasets and SPARQL results.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The model is small: IRI, BlankNode and Literal terms, Triple and Quad
// statements, an indexed Graph and a Dataset of named graphs. Terms are
// comparable values and can be used as map keys.
//
// Writers:
//   - Graph syntaxes: Turtle, N3, N-Triples, RDF/XML, HTML+RDFa, DOT.
//   - Dataset syntaxes: N-Quads, TriG, TriX, JSON-LD, CSV, TSV, GraphML.
//   - SPARQL results: JSON, XML, CSV, TSV and an HTML table.
//
// Writers that support abbreviated syntax use FindCollections to locate RDF
// lists that can be written as ( a b c ) and blank nodes that can be nested
// inline as [ p o ]. Detection is controlled by the compression level:
//
//	CompressionNone     one statement per line, full IRIs
//	CompressionMinimal  prefixed names
//	CompressionMedium   subject and predicate grouping, the "a" keyword
//	CompressionHigh     collections and nested blank nodes
//
// Example (writing a graph):
//
//	g := rdf.NewGraph()
//	g.Namespaces.Add("ex", "http://example.org/")
//	g.Assert(rdf.NewTriple(rdf.NewIRI("http://example.org/s"), rdf.NewIRI("http://example.org/p"), rdf.NewLiteral("o")))
//	if err := rdf.SerializeGraph(os.Stdout, rdf.FormatTurtle, g); err != nil {
//	    // handle error
//	}
//
// Dataset writers render graphs concurrently (OptThreads, default 4) and
// write each graph as one contiguous block. OptSingleThreaded keeps the
// dataset order.
//
// For unsupported formats, NewGraphWriter, NewDatasetWriter and
// NewResultsWriter return ErrUnsupportedFormat. Input a syntax cannot
// express is reported as an *OutputError matching ErrUnserializable.
//
// N-Triples and N-Quads input can be read with NewNQuadsReader or
// LoadDataset; other syntaxes are write-only.
package rdf
