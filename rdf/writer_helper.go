package rdf

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CompareTerms orders terms: IRIs, then blank nodes, then literals, each
// by value. It returns -1, 0 or 1.
func CompareTerms(a, b Term) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if a.Kind() != b.Kind() {
		if a.Kind() < b.Kind() {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case IRI:
		return strings.Compare(x.Value, b.(IRI).Value)
	case BlankNode:
		y := b.(BlankNode)
		if c := strings.Compare(x.ID, y.ID); c != 0 {
			return c
		}
		return strings.Compare(x.Scope, y.Scope)
	case Literal:
		y := b.(Literal)
		if c := strings.Compare(x.Lexical, y.Lexical); c != 0 {
			return c
		}
		if c := strings.Compare(x.Datatype.Value, y.Datatype.Value); c != 0 {
			return c
		}
		return strings.Compare(x.Lang, y.Lang)
	}
	return strings.Compare(a.String(), b.String())
}

// SortTriples sorts triples by subject, predicate, then object.
func SortTriples(ts []Triple) {
	sort.SliceStable(ts, func(i, j int) bool {
		return compareTriples(ts[i], ts[j]) < 0
	})
}

func compareTriples(a, b Triple) int {
	if c := CompareTerms(a.S, b.S); c != 0 {
		return c
	}
	if c := strings.Compare(a.P.Value, b.P.Value); c != 0 {
		return c
	}
	return CompareTerms(a.O, b.O)
}

// SubjectGroup holds the triples sharing one subject, sorted by predicate
// and object.
type SubjectGroup struct {
	Subject Term
	Triples []Triple
}

// PredicateGroup holds the objects written for one subject and predicate.
type PredicateGroup struct {
	Predicate IRI
	Objects   []Term
}

// GroupBySubject sorts ts and splits it into per-subject groups.
func GroupBySubject(ts []Triple) []SubjectGroup {
	sorted := make([]Triple, len(ts))
	copy(sorted, ts)
	SortTriples(sorted)
	var groups []SubjectGroup
	for _, t := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Subject == t.S {
			groups[n-1].Triples = append(groups[n-1].Triples, t)
			continue
		}
		groups = append(groups, SubjectGroup{Subject: t.S, Triples: []Triple{t}})
	}
	return groups
}

// PredicateGroups splits a subject group by predicate. rdf:type comes
// first, matching the "a" shorthand convention.
func (sg SubjectGroup) PredicateGroups() []PredicateGroup {
	var groups []PredicateGroup
	for _, t := range sg.Triples {
		if n := len(groups); n > 0 && groups[n-1].Predicate == t.P {
			groups[n-1].Objects = append(groups[n-1].Objects, t.O)
			continue
		}
		groups = append(groups, PredicateGroup{Predicate: t.P, Objects: []Term{t.O}})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Predicate == RDFType && groups[j].Predicate != RDFType
	})
	return groups
}

// blankLabeler assigns syntax-safe labels to blank nodes for one write.
// Labels that are valid and unique are kept; others get "bN". Dataset
// writers share one labeler across their workers.
type blankLabeler struct {
	mu     sync.Mutex
	labels map[BlankNode]string
	used   map[string]BlankNode
	seq    int
}

func newBlankLabeler() *blankLabeler {
	return &blankLabeler{labels: map[BlankNode]string{}, used: map[string]BlankNode{}}
}

func (l *blankLabeler) label(b BlankNode) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if label, ok := l.labels[b]; ok {
		return label
	}
	label := b.ID
	if owner, taken := l.used[label]; !isQNameLocal(label) || (taken && owner != b) {
		for {
			label = "b" + strconv.Itoa(l.seq)
			l.seq++
			if _, taken := l.used[label]; !taken {
				break
			}
		}
	}
	l.labels[b] = label
	l.used[label] = b
	return label
}

// escapeNTriplesString escapes a literal lexical form for N-Triples,
// N-Quads, Turtle short strings and TSV.
func escapeNTriplesString(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				b.WriteString(strings.Repeat("0", 4-len(hex)))
				b.WriteString(strings.ToUpper(hex))
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeLongString escapes a lexical form for a Turtle """long string""".
func escapeLongString(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func escapeIRI(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case r <= 0x20, r == '<', r == '>', r == '"', r == '{', r == '}', r == '|', r == '^', r == '`', r == '\\':
			hex := strconv.FormatInt(int64(r), 16)
			b.WriteString(`\u`)
			b.WriteString(strings.Repeat("0", 4-len(hex)))
			b.WriteString(strings.ToUpper(hex))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

var (
	integerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
	doublePattern  = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)[eE][+-]?[0-9]+$`)
)

// literalShorthand returns the bare Turtle token for numeric and boolean
// literals whose lexical form the grammar accepts unquoted.
func literalShorthand(l Literal) (string, bool) {
	if l.Lang != "" {
		return "", false
	}
	switch l.Datatype {
	case XSDInteger:
		return l.Lexical, integerPattern.MatchString(l.Lexical)
	case XSDDecimal:
		return l.Lexical, decimalPattern.MatchString(l.Lexical)
	case XSDDouble:
		return l.Lexical, doublePattern.MatchString(l.Lexical)
	case XSDBoolean:
		return l.Lexical, l.Lexical == "true" || l.Lexical == "false"
	}
	return "", false
}

// textWriter buffers writer output and keeps the first write error.
type textWriter struct {
	w   *bufio.Writer
	err error
}

func newTextWriter(w io.Writer) *textWriter {
	return &textWriter{w: bufio.NewWriter(w)}
}

func (t *textWriter) str(parts ...string) {
	for _, part := range parts {
		if t.err != nil {
			return
		}
		_, t.err = t.w.WriteString(part)
	}
}

func (t *textWriter) Write(p []byte) (int, error) {
	if t.err != nil {
		return 0, t.err
	}
	n, err := t.w.Write(p)
	t.err = err
	return n, err
}

func (t *textWriter) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}
