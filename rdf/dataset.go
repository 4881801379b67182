package rdf

// Dataset is a collection of graphs: one default graph plus any number of
// named graphs. It is the "store" the dataset writers serialize.
type Dataset struct {
	// BaseIRI is propagated to writers that support a document base.
	BaseIRI string
	// Namespaces is shared by every graph of the dataset when writing.
	Namespaces *NamespaceMap

	def   *Graph
	named map[Term]*Graph
	order []*Graph
}

// NewDataset returns a dataset holding an empty default graph.
func NewDataset() *Dataset {
	def := NewGraph()
	return &Dataset{
		Namespaces: NewNamespaceMap(),
		def:        def,
		named:      map[Term]*Graph{},
	}
}

// DefaultGraph returns the default graph.
func (d *Dataset) DefaultGraph() *Graph { return d.def }

// Graph returns the graph with the given name, creating it when missing.
// A nil name returns the default graph. An unscoped blank node name is
// scoped to the new graph, so it denotes the same node as that label
// inside the graph; both forms find the graph afterwards.
func (d *Dataset) Graph(name Term) *Graph {
	if name == nil {
		return d.def
	}
	if g, ok := d.named[name]; ok {
		return g
	}
	g := NewNamedGraph(name)
	d.named[name] = g
	if b, ok := name.(BlankNode); ok && b.Scope == "" {
		g.name = g.BlankNode(b.ID)
		d.named[g.name] = g
	}
	d.order = append(d.order, g)
	return g
}

// Lookup returns the named graph if present.
func (d *Dataset) Lookup(name Term) (*Graph, bool) {
	if name == nil {
		return d.def, true
	}
	g, ok := d.named[name]
	return g, ok
}

// AddGraph inserts g under its own name, merging into an existing graph of
// the same name.
func (d *Dataset) AddGraph(g *Graph) {
	if g == nil {
		return
	}
	if g.Name() == nil {
		d.def.Merge(g)
		return
	}
	if existing, ok := d.named[g.Name()]; ok {
		existing.Merge(g)
		return
	}
	d.named[g.Name()] = g
	d.order = append(d.order, g)
}

// Graphs returns the default graph followed by named graphs in creation order.
func (d *Dataset) Graphs() []*Graph {
	out := make([]*Graph, 0, len(d.order)+1)
	out = append(out, d.def)
	out = append(out, d.order...)
	return out
}

// HasNamedGraphs reports whether any named graph holds triples.
func (d *Dataset) HasNamedGraphs() bool {
	for _, g := range d.order {
		if !g.IsEmpty() {
			return true
		}
	}
	return false
}

// Add inserts a quad. Blank nodes, including a blank graph name, are scoped
// to the target graph, so the same label in two graphs denotes two
// different nodes.
func (d *Dataset) Add(q Quad) bool {
	g := d.Graph(q.G)
	return g.Assert(Triple{S: scopeTo(g, q.S), P: q.P, O: scopeTo(g, q.O)}) == 1
}

// Len returns the number of quads across all graphs.
func (d *Dataset) Len() int {
	n := d.def.Len()
	for _, g := range d.order {
		n += g.Len()
	}
	return n
}

// Quads returns all quads, graph by graph.
func (d *Dataset) Quads() []Quad {
	out := make([]Quad, 0, d.Len())
	for _, g := range d.Graphs() {
		for _, t := range g.triples {
			out = append(out, t.ToQuadInGraph(g.Name()))
		}
	}
	return out
}

// namespacesFor returns the prefixes to use when writing g as part of d.
func (d *Dataset) namespacesFor(g *Graph) *NamespaceMap {
	ns := d.Namespaces.Clone()
	ns.Merge(g.Namespaces)
	return ns
}

func scopeTo(g *Graph, n Term) Term {
	if b, ok := n.(BlankNode); ok && b.Scope == "" {
		return g.BlankNode(b.ID)
	}
	return n
}
