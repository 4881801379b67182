package rdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLDCompactsAgainstPrefixes(t *testing.T) {
	g := withEx(NewGraph())
	g.Assert(NewTriple(ex("s"), ex("p"), lit("o")))
	var buf bytes.Buffer
	require.NoError(t, NewJSONLDWriter().WriteGraph(&buf, g))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	want := map[string]any{
		"@context": map[string]any{"ex": exNS},
		"@id":      "ex:s",
		"ex:p":     "o",
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLDExpandedWithoutCompression(t *testing.T) {
	g := withEx(NewGraph())
	g.Assert(NewTriple(ex("s"), ex("p"), lit("o")))
	var buf bytes.Buffer
	require.NoError(t, NewJSONLDWriter(OptCompression(CompressionNone)).WriteGraph(&buf, g))
	assert.Equal(t, `[{"@id":"http://example.org/s","http://example.org/p":[{"@value":"o"}]}]`+"\n", buf.String())
}

func TestJSONLDNativeTypesAndLanguage(t *testing.T) {
	g := NewGraph()
	g.Assert(
		NewTriple(ex("s"), ex("n"), NewTypedLiteral("1", XSDInteger)),
		NewTriple(ex("s"), ex("l"), NewLangLiteral("chat", "fr")),
	)
	var buf bytes.Buffer
	require.NoError(t, NewJSONLDWriter(OptJSONLDNativeTypes()).WriteGraph(&buf, g))

	var doc []any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 1)
	node := doc[0].(map[string]any)
	assert.Equal(t, []any{map[string]any{"@value": float64(1)}}, node[exNS+"n"])
	assert.Equal(t, []any{map[string]any{"@value": "chat", "@language": "fr"}}, node[exNS+"l"])
}

func TestJSONLDExplicitContext(t *testing.T) {
	g := NewGraph()
	g.Assert(NewTriple(ex("s"), ex("name"), lit("n")))
	var buf bytes.Buffer
	ctx := map[string]any{"name": exNS + "name"}
	require.NoError(t, NewJSONLDWriter(OptJSONLDContext(ctx)).WriteGraph(&buf, g))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "n", doc["name"])
	assert.Equal(t, exNS+"s", doc["@id"])
}

func TestJSONLDDataset(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONLDWriter(OptPretty()).WriteDataset(context.Background(), &buf, sampleDataset()))
	out := buf.String()
	assert.Contains(t, out, `"@graph"`)
	for _, name := range []string{"ex:g1", "ex:g2", "ex:g3"} {
		assert.Contains(t, out, `"`+name+`"`)
	}
	assert.Contains(t, out, "\n  ")
}

func TestJSONLDRejectsLiteralGraphName(t *testing.T) {
	g := NewNamedGraph(lit("g"))
	g.Assert(NewTriple(ex("s"), ex("p"), ex("o")))
	assert.ErrorIs(t, NewJSONLDWriter().WriteGraph(&bytes.Buffer{}, g), ErrUnserializable)
}
