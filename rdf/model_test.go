package rdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermKinds(t *testing.T) {
	assert.Equal(t, TermIRI, ex("a").Kind())
	assert.Equal(t, TermBlankNode, BlankNode{ID: "b"}.Kind())
	assert.Equal(t, TermLiteral, lit("x").Kind())
	assert.Equal(t, "bnode", TermBlankNode.String())
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, `"x"`, lit("x").String())
	assert.Equal(t, `"chat"@fr`, NewLangLiteral("chat", "fr").String())
	assert.Equal(t, `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`, NewTypedLiteral("1", XSDInteger).String())
}

func TestTermsAreMapKeys(t *testing.T) {
	seen := map[Term]int{}
	seen[ex("a")]++
	seen[NewIRI(exNS+"a")]++
	seen[lit("a")]++
	seen[BlankNode{ID: "a", Scope: "g1"}]++
	seen[BlankNode{ID: "a", Scope: "g2"}]++
	assert.Len(t, seen, 4)
	assert.Equal(t, 2, seen[ex("a")])
}

func TestTripleSet(t *testing.T) {
	tr := NewTriple(ex("s"), ex("p"), lit("o"))
	set := NewTripleSet()
	assert.True(t, set.Add(tr))
	assert.False(t, set.Add(NewTriple(ex("s"), ex("p"), lit("o"))))
	assert.True(t, set.Contains(tr))
	set.Remove(tr)
	assert.Zero(t, set.Len())
}

func TestGraphIndices(t *testing.T) {
	g := NewGraph()
	b := g.BlankNode("b")
	ts := []Triple{
		NewTriple(ex("s"), ex("p"), b),
		NewTriple(b, ex("q"), lit("1")),
		NewTriple(b, ex("q"), lit("2")),
		NewTriple(ex("s"), ex("p"), b),
	}
	assert.Equal(t, 3, g.Assert(ts...))
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Contains(ts[1]))

	if diff := cmp.Diff(ts[:3], g.Triples()); diff != "" {
		t.Fatalf("insertion order lost (-want +got):\n%s", diff)
	}
	assert.Len(t, g.TriplesWithSubject(b), 2)
	assert.Len(t, g.TriplesWithObject(b), 1)
	assert.Len(t, g.TriplesWithSubjectPredicate(b, ex("q")), 2)
	assert.Len(t, g.TriplesWithPredicateObject(ex("q"), lit("2")), 1)
	assert.Len(t, g.TriplesWithPredicate(ex("p")), 1)
	assert.Equal(t, ts[:3], g.TriplesMentioning(b))
	assert.Equal(t, []BlankNode{b}, g.BlankNodes())
	assert.Equal(t, []Term{ex("s"), b}, g.Subjects())
}

func TestGraphIgnoresIncompleteTriples(t *testing.T) {
	g := NewGraph()
	assert.Zero(t, g.Assert(Triple{S: ex("s"), P: ex("p")}, Triple{S: ex("s"), O: lit("o")}))
	assert.True(t, g.IsEmpty())
}

func TestGraphNewBlankNodeIsFresh(t *testing.T) {
	g := NewGraph()
	g.Assert(NewTriple(g.BlankNode("autos1"), ex("p"), lit("o")))
	b := g.NewBlankNode()
	assert.NotEqual(t, "autos1", b.ID)
	assert.Equal(t, g.ID(), b.Scope)
}

func TestGraphMergeKeepsBlankNodesApart(t *testing.T) {
	g1, g2 := NewGraph(), NewGraph()
	g1.Assert(NewTriple(g1.BlankNode("x"), ex("p"), lit("1")))
	g2.Assert(NewTriple(g2.BlankNode("x"), ex("p"), lit("2")))
	g2.Namespaces.Add("ex", exNS)

	g1.Merge(g2)
	require.Equal(t, 2, g1.Len())
	assert.Len(t, g1.BlankNodes(), 2)
	ns, ok := g1.Namespaces.Lookup("ex")
	assert.True(t, ok)
	assert.Equal(t, exNS, ns)
}

func TestDatasetScopesBlankNodesPerGraph(t *testing.T) {
	ds := NewDataset()
	b := BlankNode{ID: "b"}
	assert.True(t, ds.Add(Quad{S: b, P: ex("p"), O: lit("1")}))
	assert.True(t, ds.Add(Quad{S: b, P: ex("p"), O: lit("1"), G: ex("g")}))
	assert.False(t, ds.Add(Quad{S: b, P: ex("p"), O: lit("1"), G: ex("g")}))

	def := ds.DefaultGraph().Triples()[0].S.(BlankNode)
	named := ds.Graph(ex("g")).Triples()[0].S.(BlankNode)
	assert.Equal(t, "b", def.ID)
	assert.Equal(t, "b", named.ID)
	assert.NotEqual(t, def, named)

	assert.Equal(t, 2, ds.Len())
	assert.True(t, ds.HasNamedGraphs())
	assert.Len(t, ds.Quads(), 2)
	assert.Len(t, ds.Graphs(), 2)

	_, ok := ds.Lookup(ex("missing"))
	assert.False(t, ok)
}

func TestDatasetScopesBlankGraphName(t *testing.T) {
	ds := NewDataset()
	name := BlankNode{ID: "g"}
	require.True(t, ds.Add(Quad{S: name, P: ex("p"), O: lit("1"), G: name}))
	require.True(t, ds.Add(Quad{S: ex("s"), P: ex("p"), O: lit("1"), G: ex("other")}))

	g, ok := ds.Lookup(name)
	require.True(t, ok)
	assert.Equal(t, g.Triples()[0].S, g.Name())
	assert.NotEqual(t, Term(name), g.Name())

	again, ok := ds.Lookup(g.Name())
	require.True(t, ok)
	assert.Same(t, g, again)
	assert.Same(t, g, ds.Graph(name))
	assert.Len(t, ds.Graphs(), 3)

	quads := ds.Quads()
	require.Len(t, quads, 2)
	assert.Equal(t, quads[0].S, quads[0].G)
}

func TestDatasetEmptyNamedGraphs(t *testing.T) {
	ds := NewDataset()
	ds.Graph(ex("empty"))
	assert.False(t, ds.HasNamedGraphs())
	assert.Empty(t, nonEmptyGraphs(ds))
}

func TestNamespaceReduce(t *testing.T) {
	ns := NewNamespaceMap()
	ns.Add("ex", exNS)
	ns.Add("exa", exNS+"a/")
	ns.Add("", "http://default.org/")
	ns.Add("1bad", "http://numeric.org/")

	tests := []struct {
		iri  string
		want string
		ok   bool
	}{
		{exNS + "thing", "ex:thing", true},
		{exNS + "a/thing", "exa:thing", true},
		{"http://default.org/x", ":x", true},
		{exNS + "1bad", "", false},
		{exNS + "trailing.", "", false},
		{exNS, "", false},
		{"http://other.org/x", "", false},
		{"http://numeric.org/x", "", false},
	}
	for _, tt := range tests {
		got, ok := ns.Reduce(tt.iri)
		assert.Equal(t, tt.ok, ok, tt.iri)
		assert.Equal(t, tt.want, got, tt.iri)
	}
}

func TestNamespaceMapBindings(t *testing.T) {
	ns := NamespacesFrom(map[string]string{"b": exNS, "a": exNS})
	prefix, ok := ns.PrefixFor(exNS)
	require.True(t, ok)
	assert.Equal(t, "a", prefix)
	assert.Equal(t, []string{"a", "b"}, ns.Prefixes())

	ns.Add("a", "http://other.org/")
	prefix, _ = ns.PrefixFor(exNS)
	assert.Equal(t, "b", prefix)

	clone := ns.Clone()
	clone.Add("c", "http://c.org/")
	assert.Equal(t, 2, ns.Len())
	assert.Equal(t, 3, clone.Len())

	other := NamespacesFrom(map[string]string{"a": "http://ignored.org/", "d": "http://d.org/"})
	ns.Merge(other)
	got, _ := ns.Lookup("a")
	assert.Equal(t, "http://other.org/", got)
	_, ok = ns.Lookup("d")
	assert.True(t, ok)
}

func TestSplitIRI(t *testing.T) {
	ns, local, ok := SplitIRI(RDFNamespace + "type")
	require.True(t, ok)
	assert.Equal(t, RDFNamespace, ns)
	assert.Equal(t, "type", local)

	_, _, ok = SplitIRI("http://example.org/1")
	assert.False(t, ok)
	_, _, ok = SplitIRI("http://example.org/")
	assert.False(t, ok)
}

func TestCompareTerms(t *testing.T) {
	assert.Equal(t, -1, CompareTerms(ex("z"), BlankNode{ID: "a"}))
	assert.Equal(t, -1, CompareTerms(BlankNode{ID: "z"}, lit("a")))
	assert.Equal(t, 1, CompareTerms(ex("b"), ex("a")))
	assert.Equal(t, 0, CompareTerms(lit("a"), lit("a")))
	assert.Equal(t, -1, CompareTerms(nil, ex("a")))
}

func TestGroupBySubjectPutsTypeFirst(t *testing.T) {
	ts := []Triple{
		NewTriple(ex("s"), ex("b"), lit("2")),
		NewTriple(ex("s"), ex("a"), lit("1")),
		NewTriple(ex("s"), RDFType, ex("T")),
		NewTriple(ex("r"), ex("a"), lit("0")),
	}
	groups := GroupBySubject(ts)
	require.Len(t, groups, 2)
	assert.Equal(t, Term(ex("r")), groups[0].Subject)
	pgs := groups[1].PredicateGroups()
	require.Len(t, pgs, 3)
	assert.Equal(t, RDFType, pgs[0].Predicate)
	assert.Equal(t, ex("a"), pgs[1].Predicate)
	assert.Equal(t, ex("b"), pgs[2].Predicate)
}

func TestBlankLabeler(t *testing.T) {
	l := newBlankLabeler()
	a := BlankNode{ID: "x", Scope: "1"}
	b := BlankNode{ID: "x", Scope: "2"}
	c := BlankNode{ID: "not valid", Scope: "1"}
	assert.Equal(t, "x", l.label(a))
	assert.Equal(t, "b0", l.label(b))
	assert.Equal(t, "b1", l.label(c))
	assert.Equal(t, "x", l.label(a))
}

func TestValidateIRI(t *testing.T) {
	assert.NoError(t, ValidateIRI("http://example.org/a#b"))
	assert.NoError(t, ValidateIRI("relative/path"))
	assert.Error(t, ValidateIRI(""))
	assert.Error(t, ValidateIRI("http://example.org/a b"))
	assert.Error(t, ValidateIRI("http://example.org/<a>"))
}

func TestResolveIRI(t *testing.T) {
	base := "http://example.org/dir/doc"
	assert.Equal(t, "http://example.org/dir/other", resolveIRI(base, "other"))
	assert.Equal(t, "http://example.org/x", resolveIRI(base, "/x"))
	assert.Equal(t, "http://example.org/dir/doc#frag", resolveIRI(base, "#frag"))
	assert.Equal(t, "urn:x:y", resolveIRI(base, "urn:x:y"))
	assert.Equal(t, "rel", resolveIRI("", "rel"))
}
