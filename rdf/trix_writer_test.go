package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriXDataset(t *testing.T) {
	ds := NewDataset()
	ds.Add(Quad{S: ex("s"), P: ex("p"), O: NewLangLiteral("o", "en")})
	ds.Add(Quad{S: BlankNode{ID: "b"}, P: ex("p"), O: NewTypedLiteral("1", XSDInteger), G: ex("g")})
	ds.Graph(ex("empty"))

	var buf bytes.Buffer
	require.NoError(t, NewTriXWriter(OptSingleThreaded()).WriteDataset(context.Background(), &buf, ds))
	want := `<?xml version="1.0" encoding="UTF-8"?>
<TriX xmlns="http://www.w3.org/2004/03/trix/trix-1/">
  <graph>
    <triple>
      <uri>http://example.org/s</uri>
      <uri>http://example.org/p</uri>
      <plainLiteral xml:lang="en">o</plainLiteral>
    </triple>
  </graph>
  <graph>
    <uri>http://example.org/g</uri>
    <triple>
      <id>b</id>
      <uri>http://example.org/p</uri>
      <typedLiteral datatype="http://www.w3.org/2001/XMLSchema#integer">1</typedLiteral>
    </triple>
  </graph>
</TriX>
`
	assert.Equal(t, want, buf.String())
}

func TestTriXEscapesAndRejects(t *testing.T) {
	g := NewGraph()
	g.Assert(NewTriple(ex("s"), ex("p"), lit("<a & b>")))
	var buf bytes.Buffer
	require.NoError(t, NewTriXWriter().WriteGraph(&buf, g))
	assert.Contains(t, buf.String(), "<plainLiteral>&lt;a &amp; b&gt;</plainLiteral>")

	bad := NewGraph()
	bad.Assert(NewTriple(ex("s"), ex("p"), Literal{Lexical: "x", Lang: "en", Datatype: XSDInteger}))
	assert.ErrorIs(t, NewTriXWriter().WriteGraph(&bytes.Buffer{}, bad), ErrUnserializable)
}

func TestTriXParallelKeepsGraphElementsWhole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTriXWriter(OptThreads(4)).WriteDataset(context.Background(), &buf, sampleDataset()))
	out := buf.String()
	assert.Equal(t, 4, strings.Count(out, "  <graph>\n"))
	assert.Equal(t, 4, strings.Count(out, "  </graph>\n"))
	for _, name := range []string{"g1", "g2", "g3"} {
		assert.Contains(t, out, "  <graph>\n    <uri>http://example.org/"+name+"</uri>\n")
	}
}
