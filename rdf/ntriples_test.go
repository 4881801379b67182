package rdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNQuadsReaderTerms(t *testing.T) {
	input := `# comment
<http://example.org/s> <http://example.org/p> "plain" .
<http://example.org/s> <http://example.org/p> "chat"@fr-BE .
<http://example.org/s> <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/s> <http://example.org/p> "x"^^<http://www.w3.org/2001/XMLSchema#string> .
_:b1 <http://example.org/p> "tab\there é \U0001F600 \"q\"" <http://example.org/g> .

<http://example.org/é> <http://example.org/p> _:b1 _:g . # trailing
`
	r := NewNQuadsReader(strings.NewReader(input))
	var got []Quad
	for {
		q, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, q)
	}
	want := []Quad{
		{S: ex("s"), P: ex("p"), O: lit("plain")},
		{S: ex("s"), P: ex("p"), O: NewLangLiteral("chat", "fr-BE")},
		{S: ex("s"), P: ex("p"), O: NewTypedLiteral("1", XSDInteger)},
		{S: ex("s"), P: ex("p"), O: lit("x")},
		{S: BlankNode{ID: "b1"}, P: ex("p"), O: lit("tab\there é 😀 \"q\""), G: ex("g")},
		{S: ex("é"), P: ex("p"), O: BlankNode{ID: "b1"}, G: BlankNode{ID: "g"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("quads mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8, r.Line())
}

func TestNQuadsReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing dot", `<http://example.org/s> <http://example.org/p> "o"`},
		{"literal subject", `"s" <http://example.org/p> "o" .`},
		{"blank predicate", `<http://example.org/s> _:p "o" .`},
		{"unterminated iri", `<http://example.org/s <http://example.org/p> "o" .`},
		{"bad escape", `<http://example.org/s> <http://example.org/p> "\q" .`},
		{"space in iri", `<http://example.org/a b> <http://example.org/p> "o" .`},
		{"trailing content", `<http://example.org/s> <http://example.org/p> "o" . x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewNQuadsReader(strings.NewReader("\n" + tt.input + "\n"))
			_, err := r.Next()
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 2, perr.Line)
			assert.Equal(t, "nquads", perr.Format)
			assert.Equal(t, ErrCodeParseError, Code(err))

			_, again := r.Next()
			assert.Equal(t, err, again)
		})
	}
}

func TestNTriplesReaderRejectsGraphTerm(t *testing.T) {
	r := NewNTriplesReader(strings.NewReader("<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n"))
	_, err := r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph term not allowed")
}

func TestLoadDatasetWithBase(t *testing.T) {
	input := "<s> <http://example.org/p> <#frag> .\n"
	ds, err := LoadDatasetWithBase(context.Background(), strings.NewReader(input), FormatNTriples, "http://example.org/dir/doc")
	require.NoError(t, err)
	assert.Equal(t, "http://example.org/dir/doc", ds.BaseIRI)
	assert.Equal(t, []Triple{NewTriple(NewIRI("http://example.org/dir/s"), ex("p"), NewIRI("http://example.org/dir/doc#frag"))}, ds.DefaultGraph().Triples())

	_, err = LoadDataset(context.Background(), strings.NewReader(input), FormatTurtle)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNTriplesWriter(t *testing.T) {
	g := NewGraph()
	b := g.BlankNode("node")
	g.Assert(
		NewTriple(ex("s"), ex("p"), lit("line\nbreak \"quoted\" \\")),
		NewTriple(b, ex("p"), NewLangLiteral("x", "en")),
		NewTriple(b, ex("p"), NewTypedLiteral("1", XSDInteger)),
		NewTriple(ex("s"), ex("p"), NewIRI("http://example.org/a b")),
	)
	var buf bytes.Buffer
	require.NoError(t, NewNTriplesWriter().WriteGraph(&buf, g))
	want := `<http://example.org/s> <http://example.org/p> "line\nbreak \"quoted\" \\" .
_:node <http://example.org/p> "x"@en .
_:node <http://example.org/p> "1"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://example.org/s> <http://example.org/p> <http://example.org/a\u0020b> .
`
	assert.Equal(t, want, buf.String())
}

func TestNTriplesRoundTrip(t *testing.T) {
	g, _ := listGraph(lit("a"), NewLangLiteral("b", "en"), NewTypedLiteral("3", XSDInteger))
	var buf bytes.Buffer
	require.NoError(t, NewNTriplesWriter().WriteGraph(&buf, g))

	back, err := LoadGraph(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, g.Len(), back.Len())

	var first, second []string
	for _, tr := range g.Triples() {
		first = append(first, tr.String())
	}
	for _, tr := range back.Triples() {
		second = append(second, tr.String())
	}
	assert.Equal(t, first, second)
}

func TestNTriplesWriterRejectsLiteralSubject(t *testing.T) {
	g := NewGraph()
	g.Assert(NewTriple(lit("s"), ex("p"), lit("o")))
	err := NewNTriplesWriter().WriteGraph(io.Discard, g)
	assert.ErrorIs(t, err, ErrUnserializable)
}

func TestNQuadsWriterDataset(t *testing.T) {
	ds := sampleDataset()
	var buf bytes.Buffer
	require.NoError(t, NewNQuadsWriter(OptSingleThreaded()).WriteDataset(context.Background(), &buf, ds))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, `<http://example.org/s> <http://example.org/p> "default" .`, lines[0])
	assert.Equal(t, `<http://example.org/s> <http://example.org/list> _:l <http://example.org/g1> .`, lines[1])
	assert.Equal(t, `<http://example.org/s> <http://example.org/list> _:b0 <http://example.org/g2> .`, lines[4])

	parallel := &bytes.Buffer{}
	require.NoError(t, NewNQuadsWriter(OptThreads(4)).WriteDataset(context.Background(), parallel, ds))
	back, err := LoadDataset(context.Background(), parallel, FormatNQuads)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), back.Len())
	for _, name := range []string{"g1", "g2", "g3"} {
		g, ok := back.Lookup(ex(name))
		require.True(t, ok)
		cs, err := FindCollections(g, CollectionsAll)
		require.NoError(t, err)
		assert.Len(t, cs.Collections, 1, "graph %s keeps its list", name)
	}
}

func TestNQuadsParallelOutputMatchesSerialAsSet(t *testing.T) {
	ds := sampleDataset()
	serial, parallel := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, NewNQuadsWriter(OptSingleThreaded()).WriteDataset(context.Background(), serial, ds))
	require.NoError(t, NewNQuadsWriter(OptThreads(3)).WriteDataset(context.Background(), parallel, ds))

	countLines := func(s string) int { return strings.Count(s, "\n") }
	assert.Equal(t, countLines(serial.String()), countLines(parallel.String()))

	sortedDefault := func(s string) []string {
		var out []string
		for _, line := range strings.Split(s, "\n") {
			if strings.HasSuffix(line, `"default" .`) {
				out = append(out, line)
			}
		}
		sort.Strings(out)
		return out
	}
	assert.Equal(t, sortedDefault(serial.String()), sortedDefault(parallel.String()))
}

func TestNQuadsBlankGraphNameRoundTrip(t *testing.T) {
	input := "_:g <http://example.org/p> _:x _:g .\n"
	ds, err := LoadDataset(context.Background(), strings.NewReader(input), FormatNQuads)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, NewNQuadsWriter().WriteDataset(context.Background(), &buf, ds))
	assert.Equal(t, input, buf.String())
}

func TestNQuadsWriteGraph(t *testing.T) {
	g := NewNamedGraph(ex("g"))
	g.Assert(NewTriple(ex("s"), ex("p"), ex("o")))
	var buf bytes.Buffer
	require.NoError(t, NewNQuadsWriter().WriteGraph(&buf, g))
	assert.Equal(t, "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .\n", buf.String())

	bad := NewNamedGraph(lit("g"))
	bad.Assert(NewTriple(ex("s"), ex("p"), ex("o")))
	assert.ErrorIs(t, NewNQuadsWriter().WriteGraph(io.Discard, bad), ErrUnserializable)
}
