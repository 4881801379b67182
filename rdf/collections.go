package rdf

// CollectionMode selects which compressible structures FindCollections
// looks for.
type CollectionMode int

const (
	// CollectionsAll detects both RDF lists and single-use blank nodes.
	CollectionsAll CollectionMode = iota
	// CollectionsImplicitOnly detects only rdf:first/rdf:rest lists.
	CollectionsImplicitOnly
	// CollectionsExplicitOnly detects only single-use blank nodes.
	CollectionsExplicitOnly
)

// OutputCollection is a structure a writer can render with nested syntax:
// an explicit "[ p o ; ... ]" blank node or an implicit "( a b c )" list.
//
// The triple list is immutable once detection finishes; writers consume it
// through a cursor so the same collection can be inspected more than once.
type OutputCollection struct {
	explicit bool
	triples  []Triple
	cursor   int
	written  bool
}

// IsExplicit reports whether the collection is a bracketed blank node
// rather than an RDF list.
func (c *OutputCollection) IsExplicit() bool { return c.explicit }

// Triples returns the ordered triples of the collection. For lists these are
// the rdf:first triples, head first.
func (c *OutputCollection) Triples() []Triple {
	out := make([]Triple, len(c.triples))
	copy(out, c.triples)
	return out
}

// Len returns the number of triples in the collection.
func (c *OutputCollection) Len() int { return len(c.triples) }

// Remaining returns the number of triples not yet consumed.
func (c *OutputCollection) Remaining() int { return len(c.triples) - c.cursor }

// Next returns the next unconsumed triple.
func (c *OutputCollection) Next() (Triple, bool) {
	if c.cursor >= len(c.triples) {
		return Triple{}, false
	}
	t := c.triples[c.cursor]
	c.cursor++
	return t, true
}

// Reset rewinds the cursor and clears the written flag.
func (c *OutputCollection) Reset() {
	c.cursor = 0
	c.written = false
}

// HasBeenWritten reports whether a writer already rendered the collection.
func (c *OutputCollection) HasBeenWritten() bool { return c.written }

// MarkWritten records that the collection has been rendered.
func (c *OutputCollection) MarkWritten() { c.written = true }

// structuralTriples returns every graph triple the nested syntax accounts
// for. Lists also imply their rdf:rest links.
func (c *OutputCollection) structuralTriples() []Triple {
	if c.explicit {
		return c.triples
	}
	out := make([]Triple, 0, 2*len(c.triples))
	for i, t := range c.triples {
		out = append(out, t)
		var next Term = RDFNil
		if i+1 < len(c.triples) {
			next = c.triples[i+1].S
		}
		out = append(out, Triple{S: t.S, P: RDFRest, O: next})
	}
	return out
}

// CollectionSet is the result of FindCollections.
type CollectionSet struct {
	// Collections maps the anchoring node to its collection.
	Collections map[Term]*OutputCollection
	// Done holds triples already accounted for by a collection; writers skip
	// them in their flat statement loop.
	Done TripleSet

	order []Term
}

func newCollectionSet() *CollectionSet {
	return &CollectionSet{Collections: map[Term]*OutputCollection{}, Done: TripleSet{}}
}

// Lookup returns the collection anchored at n.
func (cs *CollectionSet) Lookup(n Term) (*OutputCollection, bool) {
	if cs == nil {
		return nil, false
	}
	c, ok := cs.Collections[n]
	return c, ok
}

// IsDone reports whether t is rendered through a collection.
func (cs *CollectionSet) IsDone(t Triple) bool {
	return cs != nil && cs.Done.Contains(t)
}

// Keys returns the collection keys in discovery order.
func (cs *CollectionSet) Keys() []Term {
	out := make([]Term, 0, len(cs.Collections))
	for _, key := range cs.order {
		if _, ok := cs.Collections[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

// Discard drops the collection anchored at key and returns its triples to
// flat rendering.
func (cs *CollectionSet) Discard(key Term) {
	c, ok := cs.Collections[key]
	if !ok {
		return
	}
	for _, t := range c.structuralTriples() {
		cs.Done.Remove(t)
	}
	delete(cs.Collections, key)
}

func (cs *CollectionSet) add(key Term, c *OutputCollection) {
	cs.Collections[key] = c
	cs.order = append(cs.order, key)
}

// FindCollections scans g for RDF lists and single-use blank nodes that can
// be written with nested syntax without losing or duplicating triples.
//
// A list cell with more than one rdf:first value fails the whole pass with a
// *MalformedCollectionError; callers fall back to flat output. Every other
// rejection is silent. The graph is only read.
func FindCollections(g *Graph, mode CollectionMode) (*CollectionSet, error) {
	cs := newCollectionSet()
	cells := map[Term]struct{}{}
	if mode == CollectionsAll || mode == CollectionsImplicitOnly {
		if err := findImplicitCollections(g, cs, cells); err != nil {
			return nil, err
		}
	}
	if mode == CollectionsAll || mode == CollectionsExplicitOnly {
		findExplicitCollections(g, cs, cells)
	}
	cs.removeIneligible(g)
	cs.removeCycles()
	for _, key := range cs.Keys() {
		for _, t := range cs.Collections[key].structuralTriples() {
			cs.Done.Add(t)
		}
	}
	cs.discardUnplaceable(g)
	return cs, nil
}

func findImplicitCollections(g *Graph, cs *CollectionSet, cells map[Term]struct{}) error {
	for _, end := range g.TriplesWithPredicateObject(RDFRest, RDFNil) {
		if end.S.Kind() != TermBlankNode {
			continue
		}
		items, ok, err := walkList(g, end.S)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		key := items[0].S
		if _, exists := cs.Collections[key]; exists {
			continue
		}
		cs.add(key, &OutputCollection{triples: items})
		for _, t := range items {
			cells[t.S] = struct{}{}
		}
	}
	return nil
}

// walkList follows rdf:rest links backwards from the last cell of a list and
// returns the rdf:first triples head first. ok is false when the list cannot
// be compressed.
func walkList(g *Graph, last Term) ([]Triple, bool, error) {
	var reversed []Triple
	visited := map[Term]struct{}{}
	compressible := true
	cell := last
	for {
		if _, seen := visited[cell]; seen {
			return nil, false, nil
		}
		visited[cell] = struct{}{}

		first, found, err := listFirst(g, cell)
		if err != nil {
			return nil, false, err
		}
		if !found || cell.Kind() != TermBlankNode || len(g.TriplesWithSubjectPredicate(cell, RDFRest)) != 1 {
			compressible = false
		}
		reversed = append(reversed, first)

		preds := g.TriplesWithPredicateObject(RDFRest, cell)
		if len(preds) == 0 {
			break
		}
		if len(preds) > 1 {
			for _, p := range preds {
				if _, _, err := listFirst(g, p.S); err != nil {
					return nil, false, err
				}
			}
			return nil, false, nil
		}
		cell = preds[0].S
	}
	if !compressible {
		return nil, false, nil
	}
	items := make([]Triple, len(reversed))
	for i, t := range reversed {
		items[len(reversed)-1-i] = t
	}
	return items, true, nil
}

func listFirst(g *Graph, cell Term) (Triple, bool, error) {
	firsts := g.TriplesWithSubjectPredicate(cell, RDFFirst)
	switch len(firsts) {
	case 0:
		return Triple{}, false, nil
	case 1:
		return firsts[0], true, nil
	default:
		return Triple{}, false, &MalformedCollectionError{Node: cell, Count: len(firsts)}
	}
}

func findExplicitCollections(g *Graph, cs *CollectionSet, cells map[Term]struct{}) {
	for _, b := range g.BlankNodes() {
		if _, ok := cs.Collections[b]; ok {
			continue
		}
		if _, ok := cells[b]; ok {
			continue
		}
		var ts []Triple
		for _, t := range g.TriplesMentioning(b) {
			if !isListPredicate(t.P) {
				ts = append(ts, t)
			}
		}
		if len(ts) == 0 || (len(ts) == 1 && (ts[0].S != b || len(g.TriplesWithObject(b)) == 0)) {
			cs.add(b, &OutputCollection{explicit: true})
			continue
		}
		if len(g.TriplesWithObject(b)) == 1 {
			kept := ts[:0]
			for _, t := range ts {
				if t.O != b {
					kept = append(kept, t)
				}
			}
			ts = kept
		}
		cs.add(b, &OutputCollection{explicit: true, triples: ts})
	}
}

func (cs *CollectionSet) removeIneligible(g *Graph) {
	for _, key := range cs.Keys() {
		c := cs.Collections[key]
		if c.explicit {
			if n := len(c.triples); n > 0 && n == len(g.TriplesMentioning(key)) {
				delete(cs.Collections, key)
				continue
			}
			for _, t := range c.triples {
				if t.S != key {
					delete(cs.Collections, key)
					break
				}
			}
			continue
		}
		mentions := 0
		for _, t := range c.triples {
			mentions += len(g.TriplesMentioning(t.S))
		}
		expected := 3*len(c.triples) - 1
		if expected == mentions || mentions-expected != 1 {
			delete(cs.Collections, key)
		}
	}
}

// removeCycles drops every collection that can reach itself through the
// objects of its triples; nested syntax cannot express such structures.
func (cs *CollectionSet) removeCycles() {
	deps := map[Term][]Term{}
	keys := cs.Keys()
	for _, key := range keys {
		for _, t := range cs.Collections[key].triples {
			if _, ok := cs.Collections[t.O]; ok {
				deps[key] = append(deps[key], t.O)
			}
		}
	}
	var cyclic []Term
	for _, key := range keys {
		if reachable(deps, key, key) {
			cyclic = append(cyclic, key)
		}
	}
	for _, key := range cyclic {
		delete(cs.Collections, key)
	}
}

func reachable(deps map[Term][]Term, from, target Term) bool {
	visited := map[Term]struct{}{}
	stack := append([]Term(nil), deps[from]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if _, ok := visited[n]; ok {
			continue
		}
		visited[n] = struct{}{}
		stack = append(stack, deps[n]...)
	}
	return false
}

// discardUnplaceable drops collections whose nested rendering would not
// land exactly once in the output. An empty bracketed node may be used in
// one position of any kind. A bracketed node with content, and the head of
// a list, need exactly one object reference outside their own triples; the
// inner cells of a list need none.
func (cs *CollectionSet) discardUnplaceable(g *Graph) {
	for _, key := range cs.Keys() {
		c := cs.Collections[key]
		own := NewTripleSet(c.structuralTriples()...)
		subj, obj := usesOutside(g, key, own)
		if c.explicit && len(c.triples) == 0 {
			if subj+obj > 1 {
				cs.Discard(key)
			}
			continue
		}
		if subj != 0 || obj != 1 {
			cs.Discard(key)
			continue
		}
		if c.explicit {
			continue
		}
		for _, t := range c.triples[1:] {
			if subj, obj := usesOutside(g, t.S, own); subj+obj != 0 {
				cs.Discard(key)
				break
			}
		}
	}
}

// usesOutside counts the subject and object positions holding n across the
// triples that are not in own.
func usesOutside(g *Graph, n Term, own TripleSet) (subj, obj int) {
	for _, t := range g.TriplesMentioning(n) {
		if own.Contains(t) {
			continue
		}
		if t.S == n {
			subj++
		}
		if t.O == n {
			obj++
		}
	}
	return subj, obj
}
