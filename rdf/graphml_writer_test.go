package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visualGraph() *Graph {
	g := withEx(NewGraph())
	g.Assert(
		NewTriple(ex("s"), ex("p"), ex("o")),
		NewTriple(ex("s"), ex("name"), lit("n")),
	)
	return g
}

func TestGraphMLWriteGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGraphMLWriter().WriteGraph(&buf, visualGraph()))
	want := `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <key id="label" for="all" attr.name="label" attr.type="string"/>
  <key id="kind" for="node" attr.name="kind" attr.type="string"/>
  <graph id="G1" edgedefault="directed">
    <node id="G1n0">
      <data key="label">ex:s</data>
      <data key="kind">iri</data>
    </node>
    <node id="G1n1">
      <data key="label">ex:o</data>
      <data key="kind">iri</data>
    </node>
    <node id="G1n2">
      <data key="label">&quot;n&quot;</data>
      <data key="kind">literal</data>
    </node>
    <edge source="G1n0" target="G1n1"><data key="label">ex:p</data></edge>
    <edge source="G1n0" target="G1n2"><data key="label">ex:name</data></edge>
  </graph>
</graphml>
`
	assert.Equal(t, want, buf.String())
}

func TestGraphMLCollapseLiterals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGraphMLWriter(OptCollapseLiterals()).WriteGraph(&buf, visualGraph()))
	out := buf.String()
	assert.Contains(t, out, `<key id="literal" for="node" attr.name="literal" attr.type="string"/>`)
	assert.Contains(t, out, `<data key="literal">ex:name &quot;n&quot;</data>`)
	assert.Equal(t, 2, strings.Count(out, "<node "))
	assert.Equal(t, 1, strings.Count(out, "<edge "))
}

func TestGraphMLWriteDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGraphMLWriter().WriteDataset(context.Background(), &buf, sampleDataset()))
	out := buf.String()
	for _, id := range []string{"G1", "G2", "G3", "G4"} {
		assert.Contains(t, out, `<graph id="`+id+`" edgedefault="directed">`)
	}
	assert.Contains(t, out, `<graph id="G2" edgedefault="directed">`+"\n"+`    <data key="label">ex:g1</data>`)
	assert.Contains(t, out, `<data key="kind">bnode</data>`)
}

func TestDOTWriteGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDOTWriter().WriteGraph(&buf, visualGraph()))
	want := `digraph "G" {
  charset="UTF-8";
  n0 [label="ex:s", shape=ellipse];
  n1 [label="ex:o", shape=ellipse];
  n2 [label="\"n\"", shape=box];
  n0 -> n1 [label="ex:p"];
  n0 -> n2 [label="ex:name"];
}
`
	assert.Equal(t, want, buf.String())
}

func TestDOTCollapseLiterals(t *testing.T) {
	g := visualGraph()
	g.Assert(NewTriple(g.BlankNode("b"), ex("p"), ex("o")))
	var buf bytes.Buffer
	require.NoError(t, NewDOTWriter(OptCollapseLiterals()).WriteGraph(&buf, g))
	want := `digraph "G" {
  charset="UTF-8";
  n0 [label="ex:s\nex:name = \"n\"", shape=ellipse];
  n1 [label="ex:o", shape=ellipse];
  n2 [label="_:b", shape=circle];
  n0 -> n1 [label="ex:p"];
  n2 -> n1 [label="ex:p"];
}
`
	assert.Equal(t, want, buf.String())
}
