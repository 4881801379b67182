package rdf

import (
	"sort"
	"strings"
)

// NamespaceMap maps prefixes to namespace IRIs.
type NamespaceMap struct {
	byPrefix map[string]string
	byNS     map[string]string
}

// NewNamespaceMap returns an empty namespace map.
func NewNamespaceMap() *NamespaceMap {
	return &NamespaceMap{byPrefix: map[string]string{}, byNS: map[string]string{}}
}

// NamespacesFrom builds a map from prefix -> namespace pairs.
func NamespacesFrom(prefixes map[string]string) *NamespaceMap {
	m := NewNamespaceMap()
	for prefix, ns := range prefixes {
		m.Add(prefix, ns)
	}
	return m
}

// Add binds prefix to ns, replacing an earlier binding of the prefix.
func (m *NamespaceMap) Add(prefix, ns string) {
	if old, ok := m.byPrefix[prefix]; ok && m.byNS[old] == prefix {
		delete(m.byNS, old)
		for p, ns := range m.byPrefix {
			if p == prefix || ns != old {
				continue
			}
			if cur, ok := m.byNS[old]; !ok || p < cur {
				m.byNS[old] = p
			}
		}
	}
	m.byPrefix[prefix] = ns
	if existing, ok := m.byNS[ns]; !ok || prefix < existing {
		m.byNS[ns] = prefix
	}
}

// Lookup returns the namespace bound to prefix.
func (m *NamespaceMap) Lookup(prefix string) (string, bool) {
	ns, ok := m.byPrefix[prefix]
	return ns, ok
}

// PrefixFor returns the prefix bound to ns.
func (m *NamespaceMap) PrefixFor(ns string) (string, bool) {
	prefix, ok := m.byNS[ns]
	return prefix, ok
}

// Len returns the number of bound prefixes.
func (m *NamespaceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byPrefix)
}

// Prefixes returns the bound prefixes in sorted order.
func (m *NamespaceMap) Prefixes() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.byPrefix))
	for key := range m.byPrefix {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (m *NamespaceMap) Clone() *NamespaceMap {
	out := NewNamespaceMap()
	out.Merge(m)
	return out
}

// Merge adds the bindings of other whose prefix is not bound yet.
func (m *NamespaceMap) Merge(other *NamespaceMap) {
	if other == nil {
		return
	}
	for _, prefix := range other.Prefixes() {
		if _, ok := m.byPrefix[prefix]; ok {
			continue
		}
		m.Add(prefix, other.byPrefix[prefix])
	}
}

// Reduce abbreviates iri to a prefixed name using the longest matching
// namespace whose remainder is a valid local name. Prefixes that are not
// valid prefix names are never used.
func (m *NamespaceMap) Reduce(iri string) (string, bool) {
	if m.Len() == 0 {
		return "", false
	}
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range m.byPrefix {
		if !IsPrefixName(prefix) || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !isQNameLocal(iri[len(ns):]) {
			continue
		}
		if !found || len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}

// SplitIRI splits an IRI into namespace and local name on the last '#' or
// '/', as needed for XML element names.
func SplitIRI(iri string) (string, string, bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns := iri[:idx+1]
	local := iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return ns, local, true
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}

// IsPrefixName reports whether prefix can be declared in Turtle, TriG and
// RDFa output. The empty prefix is valid.
func IsPrefixName(prefix string) bool {
	return prefix == "" || isQNameLocal(prefix)
}
