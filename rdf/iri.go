package rdf

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateIRI reports IRIs that no writer can emit: empty values, control
// characters, spaces and the delimiters that terminate an IRI reference.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	for i, r := range iri {
		switch {
		case r <= 0x20:
			return fmt.Errorf("invalid character %U at position %d in IRI %q", r, i, iri)
		case strings.ContainsRune(`<>"{}|^`+"`"+`\`, r):
			return fmt.Errorf("invalid character '%c' at position %d in IRI %q", r, i, iri)
		}
	}
	return nil
}

// isAbsoluteIRI reports whether iri carries a scheme.
func isAbsoluteIRI(iri string) bool {
	colon := strings.IndexByte(iri, ':')
	if colon <= 0 {
		return false
	}
	scheme := iri[:colon]
	first := scheme[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for _, r := range scheme[1:] {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

// resolveIRI resolves a relative reference against base (RFC 3986).
func resolveIRI(base, relative string) string {
	if base == "" || isAbsoluteIRI(relative) {
		return relative
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return base[:strings.LastIndex(base, "/")+1] + relative
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return base[:strings.LastIndex(base, "/")+1] + relative
	}
	return baseURL.ResolveReference(relURL).String()
}
