package rdf

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// CompressionLevel controls how compact the Turtle-family and RDF/XML
// output is.
type CompressionLevel int

const (
	// CompressionNone writes full IRIs, one statement per line.
	CompressionNone CompressionLevel = iota
	// CompressionMinimal adds prefixed names and literal shorthands.
	CompressionMinimal
	// CompressionMedium groups statements by subject and predicate.
	CompressionMedium
	// CompressionHigh also nests lists and single-use blank nodes.
	CompressionHigh
)

var compressionNames = [...]string{"none", "minimal", "medium", "high"}

func (c CompressionLevel) String() string {
	if c < 0 || int(c) >= len(compressionNames) {
		return "CompressionLevel(" + strconv.Itoa(int(c)) + ")"
	}
	return compressionNames[c]
}

// ParseCompressionLevel parses "none", "minimal", "medium" or "high".
func ParseCompressionLevel(s string) (CompressionLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range compressionNames {
		if n == name {
			return CompressionLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compression level %q", s)
}

// DefaultThreads is the worker count of the dataset writers.
const DefaultThreads = 4

// Option configures writer behavior.
type Option func(*Options)

// Options configures writers.
type Options struct {
	// Context cancels dataset writers.
	Context context.Context
	// Logger receives debug diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger

	Compression CompressionLevel
	// HighSpeed caps compression at CompressionMinimal.
	HighSpeed bool
	Pretty    bool
	Indent    string

	// Prefixes are added to the graph's own namespace map.
	Prefixes map[string]string
	// BaseIRI overrides the graph's base IRI when set.
	BaseIRI string

	// Threads is the number of dataset writer workers; 1 writes serially.
	Threads int

	// Stylesheet is linked from HTML output when set.
	Stylesheet string

	// JSONLDContext compacts JSON-LD output against this context when set.
	JSONLDContext interface{}
	// JSONLDNativeTypes writes numbers and booleans as JSON values.
	JSONLDNativeTypes bool

	// CollapseLiterals writes literal objects as node data in GraphML and
	// DOT instead of as separate nodes.
	CollapseLiterals bool
}

// OptContext sets the context for cancellation of dataset writers.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptLogger sets the logger used for debug diagnostics.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// OptCompression sets the compression level.
func OptCompression(level CompressionLevel) Option {
	return func(opts *Options) {
		opts.Compression = level
	}
}

// OptHighSpeed disables grouping and collection detection.
func OptHighSpeed() Option {
	return func(opts *Options) {
		opts.HighSpeed = true
	}
}

// OptPretty enables indented output where the syntax allows it.
func OptPretty() Option {
	return func(opts *Options) {
		opts.Pretty = true
	}
}

// OptIndent sets the indentation unit and enables pretty output.
func OptIndent(indent string) Option {
	return func(opts *Options) {
		opts.Pretty = true
		opts.Indent = indent
	}
}

// OptPrefixes adds namespace prefixes.
func OptPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		if opts.Prefixes == nil {
			opts.Prefixes = map[string]string{}
		}
		for prefix, ns := range prefixes {
			opts.Prefixes[prefix] = ns
		}
	}
}

// OptBaseIRI sets the document base IRI.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// OptThreads sets the number of dataset writer workers.
func OptThreads(n int) Option {
	return func(opts *Options) {
		opts.Threads = n
	}
}

// OptSingleThreaded makes dataset writers render graphs serially, in
// dataset order.
func OptSingleThreaded() Option {
	return func(opts *Options) {
		opts.Threads = 1
	}
}

// OptStylesheet links a CSS stylesheet from HTML output.
func OptStylesheet(href string) Option {
	return func(opts *Options) {
		opts.Stylesheet = href
	}
}

// OptJSONLDContext compacts JSON-LD output against ctx.
func OptJSONLDContext(ctx interface{}) Option {
	return func(opts *Options) {
		opts.JSONLDContext = ctx
	}
}

// OptJSONLDNativeTypes writes numeric and boolean literals as JSON values.
func OptJSONLDNativeTypes() Option {
	return func(opts *Options) {
		opts.JSONLDNativeTypes = true
	}
}

// OptCollapseLiterals keeps literals off the node set of GraphML and DOT
// output.
func OptCollapseLiterals() Option {
	return func(opts *Options) {
		opts.CollapseLiterals = true
	}
}

func defaultOptions() Options {
	return Options{
		Context:     context.Background(),
		Logger:      slog.New(slog.DiscardHandler),
		Compression: CompressionHigh,
		Indent:      "  ",
		Threads:     DefaultThreads,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.Indent == "" {
		options.Indent = "  "
	}
	if options.Threads < 1 {
		options.Threads = 1
	}
	return options
}

// compression returns the effective level.
func (o Options) compression() CompressionLevel {
	if o.HighSpeed && o.Compression > CompressionMinimal {
		return CompressionMinimal
	}
	return o.Compression
}

// namespaces returns the prefixes to write for g: the option prefixes
// first, then the graph's own.
func (o Options) namespaces(g *Graph) *NamespaceMap {
	ns := NamespacesFrom(o.Prefixes)
	if g != nil {
		ns.Merge(g.Namespaces)
	}
	return ns
}

func (o Options) baseIRI(g *Graph) string {
	if o.BaseIRI != "" || g == nil {
		return o.BaseIRI
	}
	return g.BaseIRI
}

// findCollections runs collection detection for writers at
// CompressionHigh. A malformed list downgrades the graph to flat output.
func (o Options) findCollections(g *Graph, mode CollectionMode, format Format) *CollectionSet {
	if o.compression() < CompressionHigh {
		return newCollectionSet()
	}
	cs, err := FindCollections(g, mode)
	if err != nil {
		o.Logger.Debug("collection compression disabled", "format", string(format), "graph", graphLabel(g), "error", err)
		return newCollectionSet()
	}
	return cs
}

func graphLabel(g *Graph) string {
	if g == nil || g.Name() == nil {
		return "default"
	}
	return g.Name().String()
}
