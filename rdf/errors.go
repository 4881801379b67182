package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeMalformedCollection indicates an RDF list node with several rdf:first values.
	ErrCodeMalformedCollection ErrorCode = "MALFORMED_COLLECTION"
	// ErrCodeUnserializable indicates data the selected syntax cannot express.
	ErrCodeUnserializable ErrorCode = "UNSERIALIZABLE"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrMalformedCollection indicates an RDF list that is not well formed.
	ErrMalformedCollection = errors.New("rdf: malformed collection")
	// ErrUnserializable indicates data that cannot be written in the selected syntax.
	ErrUnserializable = errors.New("rdf: unserializable input")
)

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrMalformedCollection):
		return ErrCodeMalformedCollection
	case errors.Is(err, ErrUnserializable):
		return ErrCodeUnserializable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return ErrCodeParseError
	}
	return ErrCodeIOError
}

// MalformedCollectionError reports an RDF list cell with more than one
// rdf:first value. Collection compression cannot render such a list without
// losing triples, so the whole detection pass fails.
type MalformedCollectionError struct {
	Node  Term // list cell carrying the duplicate rdf:first triples
	Count int  // number of rdf:first triples found
}

func (e *MalformedCollectionError) Error() string {
	return fmt.Sprintf("rdf: malformed collection: node %s has %d rdf:first values", e.Node, e.Count)
}

func (e *MalformedCollectionError) Unwrap() error { return ErrMalformedCollection }

// OutputError describes input a writer cannot express in its syntax.
type OutputError struct {
	Format string // writer format name
	Reason string
}

func (e *OutputError) Error() string {
	return e.Format + ": " + e.Reason
}

func (e *OutputError) Unwrap() error { return ErrUnserializable }

func outputErrorf(format Format, msg string, args ...interface{}) error {
	return &OutputError{Format: string(format), Reason: fmt.Sprintf(msg, args...)}
}

// ParseError provides structured context for reader failures.
type ParseError struct {
	Format    string // Format name (e.g., "ntriples", "nquads")
	Statement string // Offending statement or input excerpt
	Line      int    // 1-based line number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		fmt.Fprintf(&msg, ":%d", e.Line)
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	if e.Statement != "" {
		const maxExcerptLen = 80
		excerpt := e.Statement
		if len(excerpt) > maxExcerptLen {
			excerpt = excerpt[:maxExcerptLen] + "..."
		}
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }
