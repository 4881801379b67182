package rdf

import (
	"fmt"
	"strconv"
)

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case TermIRI:
		return "iri"
	case TermBlankNode:
		return "bnode"
	case TermLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is a value that can appear in RDF statements.
//
// All implementations are comparable values so terms can be used directly
// as map keys and inside Triple keys.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
//
// Identity is the pair (ID, Scope). Scope is the identity of the graph that
// minted the node, so equal labels coming from different graphs stay
// distinct.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
	// Scope is the owning graph identity; empty for free-standing nodes.
	Scope string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return strconv.Quote(l.Lexical)
}

// NewIRI returns an IRI term.
func NewIRI(value string) IRI { return IRI{Value: value} }

// NewLiteral returns a plain literal.
func NewLiteral(lexical string) Literal { return Literal{Lexical: lexical} }

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(lexical, lang string) Literal { return Literal{Lexical: lexical, Lang: lang} }

// NewTypedLiteral returns a datatyped literal.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype}
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// NewTriple builds a triple.
func NewTriple(s Term, p IRI, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// Mentions reports whether the term is the subject or object of the triple.
func (t Triple) Mentions(n Term) bool {
	return t.S == n || t.O == n
}

// String returns an N-Triples like rendering, useful in test output.
func (t Triple) String() string {
	return renderTerm(t.S) + " " + renderIRI(t.P) + " " + renderTerm(t.O) + " ."
}

// ToQuad converts a triple to a quad in the default graph.
func (t Triple) ToQuad() Quad {
	return Quad{S: t.S, P: t.P, O: t.O}
}

// ToQuadInGraph converts a triple to a quad in a named graph.
func (t Triple) ToQuadInGraph(graph Term) Quad {
	return Quad{S: t.S, P: t.P, O: t.O, G: graph}
}

// Quad is an RDF quad (triple + optional graph name).
type Quad struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
	// G is the graph name, or nil for the default graph.
	G Term
}

// IsZero reports whether the quad has no subject/predicate/object.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// ToTriple extracts the triple from a quad (ignores graph).
func (q Quad) ToTriple() Triple {
	return Triple{S: q.S, P: q.P, O: q.O}
}

// InDefaultGraph reports whether the quad is in the default graph (no named graph).
func (q Quad) InDefaultGraph() bool {
	return q.G == nil
}

// TripleSet is a set of triples compared by value.
type TripleSet map[Triple]struct{}

// NewTripleSet returns a set holding the given triples.
func NewTripleSet(ts ...Triple) TripleSet {
	set := make(TripleSet, len(ts))
	for _, t := range ts {
		set[t] = struct{}{}
	}
	return set
}

// Add inserts t and reports whether it was absent.
func (s TripleSet) Add(t Triple) bool {
	if _, ok := s[t]; ok {
		return false
	}
	s[t] = struct{}{}
	return true
}

// Contains reports whether t is in the set.
func (s TripleSet) Contains(t Triple) bool {
	_, ok := s[t]
	return ok
}

// Remove deletes t from the set.
func (s TripleSet) Remove(t Triple) {
	delete(s, t)
}

// Len returns the number of triples in the set.
func (s TripleSet) Len() int { return len(s) }
