package rdf

import (
	"strconv"

	"github.com/google/uuid"
)

type subjectPredicate struct {
	s Term
	p IRI
}

type predicateObject struct {
	p IRI
	o Term
}

// Graph is an in-memory set of triples with the lookup indices the writers
// need.
//
// A Graph is not safe for concurrent mutation. Concurrent reads are safe
// once the graph is fully built, which is how the dataset writers use it.
type Graph struct {
	// BaseIRI is written as the document base by syntaxes that support one.
	BaseIRI string
	// Namespaces holds the prefix map used for QName reduction.
	Namespaces *NamespaceMap

	id      string
	name    Term
	triples []Triple
	index   map[Triple]int

	bySubject   map[Term][]int
	byObject    map[Term][]int
	byPredicate map[IRI][]int
	bySP        map[subjectPredicate][]int
	byPO        map[predicateObject][]int

	blanks  []BlankNode
	seen    map[Term]struct{}
	subj    []Term
	autoSeq int
}

// NewGraph returns an empty default (unnamed) graph.
func NewGraph() *Graph {
	return NewNamedGraph(nil)
}

// NewNamedGraph returns an empty graph with the given name.
func NewNamedGraph(name Term) *Graph {
	return &Graph{
		Namespaces:  NewNamespaceMap(),
		id:          uuid.NewString(),
		name:        name,
		index:       map[Triple]int{},
		bySubject:   map[Term][]int{},
		byObject:    map[Term][]int{},
		byPredicate: map[IRI][]int{},
		bySP:        map[subjectPredicate][]int{},
		byPO:        map[predicateObject][]int{},
		seen:        map[Term]struct{}{},
	}
}

// ID returns the graph identity used to scope its blank nodes.
func (g *Graph) ID() string { return g.id }

// Name returns the graph name, or nil for a default graph.
func (g *Graph) Name() Term { return g.name }

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// IsEmpty reports whether the graph holds no triples.
func (g *Graph) IsEmpty() bool { return len(g.triples) == 0 }

// NewBlankNode mints a fresh blank node scoped to this graph.
func (g *Graph) NewBlankNode() BlankNode {
	for {
		g.autoSeq++
		b := BlankNode{ID: "autos" + strconv.Itoa(g.autoSeq), Scope: g.id}
		if _, used := g.seen[b]; !used {
			return b
		}
	}
}

// BlankNode returns the blank node with the given label in this graph.
func (g *Graph) BlankNode(id string) BlankNode {
	return BlankNode{ID: id, Scope: g.id}
}

// Assert adds triples to the graph and returns how many were new.
func (g *Graph) Assert(ts ...Triple) int {
	added := 0
	for _, t := range ts {
		if t.S == nil || t.O == nil || t.P.Value == "" {
			continue
		}
		if _, ok := g.index[t]; ok {
			continue
		}
		pos := len(g.triples)
		g.triples = append(g.triples, t)
		g.index[t] = pos
		g.bySubject[t.S] = append(g.bySubject[t.S], pos)
		g.byObject[t.O] = append(g.byObject[t.O], pos)
		g.byPredicate[t.P] = append(g.byPredicate[t.P], pos)
		sp := subjectPredicate{s: t.S, p: t.P}
		g.bySP[sp] = append(g.bySP[sp], pos)
		po := predicateObject{p: t.P, o: t.O}
		g.byPO[po] = append(g.byPO[po], pos)
		if len(g.bySubject[t.S]) == 1 {
			g.subj = append(g.subj, t.S)
		}
		g.noteNode(t.S)
		g.noteNode(t.O)
		added++
	}
	return added
}

func (g *Graph) noteNode(n Term) {
	if _, ok := g.seen[n]; ok {
		return
	}
	g.seen[n] = struct{}{}
	if b, ok := n.(BlankNode); ok {
		g.blanks = append(g.blanks, b)
	}
}

// Contains reports whether the graph holds t.
func (g *Graph) Contains(t Triple) bool {
	_, ok := g.index[t]
	return ok
}

// Triples returns all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// TriplesWithSubject returns triples whose subject is n.
func (g *Graph) TriplesWithSubject(n Term) []Triple {
	return g.collect(g.bySubject[n])
}

// TriplesWithObject returns triples whose object is n.
func (g *Graph) TriplesWithObject(n Term) []Triple {
	return g.collect(g.byObject[n])
}

// TriplesWithPredicate returns triples using predicate p.
func (g *Graph) TriplesWithPredicate(p IRI) []Triple {
	return g.collect(g.byPredicate[p])
}

// TriplesWithSubjectPredicate returns triples matching (s, p, ?).
func (g *Graph) TriplesWithSubjectPredicate(s Term, p IRI) []Triple {
	return g.collect(g.bySP[subjectPredicate{s: s, p: p}])
}

// TriplesWithPredicateObject returns triples matching (?, p, o).
func (g *Graph) TriplesWithPredicateObject(p IRI, o Term) []Triple {
	return g.collect(g.byPO[predicateObject{p: p, o: o}])
}

// TriplesMentioning returns triples that use n as subject or object. A
// triple using n in both positions is returned once.
func (g *Graph) TriplesMentioning(n Term) []Triple {
	subj := g.bySubject[n]
	obj := g.byObject[n]
	positions := make([]int, 0, len(subj)+len(obj))
	i, j := 0, 0
	for i < len(subj) || j < len(obj) {
		switch {
		case j >= len(obj) || (i < len(subj) && subj[i] < obj[j]):
			positions = append(positions, subj[i])
			i++
		case i >= len(subj) || obj[j] < subj[i]:
			positions = append(positions, obj[j])
			j++
		default:
			positions = append(positions, subj[i])
			i++
			j++
		}
	}
	return g.collect(positions)
}

// BlankNodes returns the distinct blank nodes in first-appearance order.
func (g *Graph) BlankNodes() []BlankNode {
	out := make([]BlankNode, len(g.blanks))
	copy(out, g.blanks)
	return out
}

// Subjects returns the distinct subjects in first-appearance order.
func (g *Graph) Subjects() []Term {
	out := make([]Term, len(g.subj))
	copy(out, g.subj)
	return out
}

// Merge copies the triples of other into g. Blank nodes from other scopes
// are mapped to fresh nodes of g so they cannot collide with g's own.
func (g *Graph) Merge(other *Graph) {
	if other == nil || other == g {
		return
	}
	mapping := map[BlankNode]BlankNode{}
	remap := func(n Term) Term {
		b, ok := n.(BlankNode)
		if !ok || b.Scope == g.id {
			return n
		}
		if mapped, ok := mapping[b]; ok {
			return mapped
		}
		mapped := g.NewBlankNode()
		mapping[b] = mapped
		return mapped
	}
	for _, t := range other.triples {
		g.Assert(Triple{S: remap(t.S), P: t.P, O: remap(t.O)})
	}
	g.Namespaces.Merge(other.Namespaces)
	if g.BaseIRI == "" {
		g.BaseIRI = other.BaseIRI
	}
}

func (g *Graph) collect(positions []int) []Triple {
	if len(positions) == 0 {
		return nil
	}
	out := make([]Triple, len(positions))
	for i, pos := range positions {
		out[i] = g.triples[pos]
	}
	return out
}
