package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-writers/rdf"
)

var (
	convertTo          string
	convertFrom        string
	convertOut         string
	convertCompression string
	convertThreads     int
	convertPrefixes    []string
	convertBase        string
	convertConfig      string
	convertPretty      bool
	convertHighSpeed   bool
	convertVerbose     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [inputs...]",
	Short: "Convert N-Triples or N-Quads files to another RDF syntax",
	Long: `Reads every input (paths or ** glob patterns, "-" for stdin) into one
dataset and writes it in the target syntax.

Inputs ending in .gz or .zst are decompressed. The output is compressed
the same way when --out ends in .gz or .zst. The target syntax comes
from --to, the config file, or the --out extension, in that order.`,
	Example: `  rdfconvert convert --to turtle data.nt
  rdfconvert convert --out dump.trig.gz 'data/**/*.nq'
  rdfconvert convert --config rdfconvert.yaml --prefix ex=http://example.org/ in.nq`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "Output format (see 'rdfconvert formats')")
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "Input format for stdin and unrecognised extensions (ntriples or nquads)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file (default stdout)")
	convertCmd.Flags().StringVar(&convertCompression, "compression", "", "Compression level: none, minimal, medium or high")
	convertCmd.Flags().IntVar(&convertThreads, "threads", 0, "Dataset writer workers (1 writes graphs in order)")
	convertCmd.Flags().StringArrayVar(&convertPrefixes, "prefix", nil, "Namespace prefix as p=namespace (repeatable)")
	convertCmd.Flags().StringVar(&convertBase, "base", "", "Base IRI for resolving input and writing output")
	convertCmd.Flags().StringVar(&convertConfig, "config", "", "YAML configuration file")
	convertCmd.Flags().BoolVar(&convertPretty, "pretty", false, "Indent JSON output and separate subjects")
	convertCmd.Flags().BoolVar(&convertHighSpeed, "high-speed", false, "Skip subject grouping and collection detection")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "Log debug diagnostics to stderr")
}

// convertJob is a fully resolved conversion request.
type convertJob struct {
	inputs  []string
	from    rdf.Format
	to      rdf.Format
	out     string
	base    string
	options []rdf.Option
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), convertVerbose)
	cfg, err := loadConfig(convertConfig)
	if err != nil {
		return err
	}
	job, err := resolveJob(cmd, cfg, args)
	if err != nil {
		return err
	}
	return job.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveJob merges config values and flags. Flags win when set.
func resolveJob(cmd *cobra.Command, cfg *Config, args []string) (*convertJob, error) {
	flags := cmd.Flags()
	if flags.Changed("compression") {
		cfg.Compression = convertCompression
	}
	if cfg.Compression != "" {
		if _, err := rdf.ParseCompressionLevel(cfg.Compression); err != nil {
			return nil, err
		}
	}
	if flags.Changed("threads") {
		cfg.Threads = convertThreads
	}
	if flags.Changed("pretty") {
		cfg.Pretty = convertPretty
	}
	if flags.Changed("high-speed") {
		cfg.HighSpeed = convertHighSpeed
	}
	if flags.Changed("base") {
		cfg.Base = convertBase
	}
	if len(convertPrefixes) > 0 && cfg.Prefixes == nil {
		cfg.Prefixes = map[string]string{}
	}
	for _, decl := range convertPrefixes {
		prefix, ns, ok := strings.Cut(decl, "=")
		if !ok || ns == "" {
			return nil, fmt.Errorf("invalid --prefix %q, want p=namespace", decl)
		}
		if !rdf.IsPrefixName(prefix) {
			return nil, fmt.Errorf("invalid --prefix %q: %q is not a valid prefix name", decl, prefix)
		}
		cfg.Prefixes[prefix] = ns
	}

	job := &convertJob{out: convertOut, base: cfg.Base, options: cfg.options()}
	name := cfg.Format
	if flags.Changed("to") {
		name = convertTo
	}
	if name != "" {
		f, ok := rdf.ParseFormat(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", rdf.ErrUnsupportedFormat, name)
		}
		job.to = f
	} else if f, ok := rdf.FormatFromPath(stripCodec(convertOut)); ok && convertOut != "" {
		job.to = f
	} else {
		return nil, errors.New("output format unknown: pass --to or an --out file with a known extension")
	}
	if job.to.IsResultsFormat() {
		return nil, fmt.Errorf("%s is a SPARQL results format and cannot hold RDF data", job.to)
	}

	if convertFrom != "" {
		f, ok := rdf.ParseFormat(convertFrom)
		if !ok || (f != rdf.FormatNTriples && f != rdf.FormatNQuads) {
			return nil, fmt.Errorf("%w: cannot read %q", rdf.ErrUnsupportedFormat, convertFrom)
		}
		job.from = f
	}

	inputs, err := expandInputs(args)
	if err != nil {
		return nil, err
	}
	job.inputs = inputs
	return job, nil
}

// expandInputs resolves glob patterns. Plain paths are kept even when they
// do not exist so that opening them reports the error.
func expandInputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{"-"}, nil
	}
	var out []string
	for _, arg := range args {
		if arg == "-" || !strings.ContainsAny(arg, "*?[{") {
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func (j *convertJob) run(ctx context.Context, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ds := rdf.NewDataset()
	ds.BaseIRI = j.base
	for _, input := range j.inputs {
		loaded, err := j.load(ctx, input, stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		for _, g := range loaded.Graphs() {
			ds.AddGraph(g)
		}
		logger.Debug("input loaded", "path", input, "quads", loaded.Len())
	}

	w, closeOut, err := openOutput(j.out, stdout)
	if err != nil {
		return err
	}
	opts := append([]rdf.Option{rdf.OptContext(ctx), rdf.OptLogger(logger)}, j.options...)
	if err := rdf.SerializeDataset(ctx, w, j.to, ds, opts...); err != nil {
		closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	logger.Info("converted", "inputs", len(j.inputs), "quads", ds.Len(), "format", string(j.to))
	return nil
}

func (j *convertJob) load(ctx context.Context, input string, stdin io.Reader) (*rdf.Dataset, error) {
	from := j.from
	if input != "-" {
		if f, ok := rdf.FormatFromPath(stripCodec(input)); ok && (f == rdf.FormatNTriples || f == rdf.FormatNQuads) {
			from = f
		}
	}
	if from == "" {
		from = rdf.FormatNQuads
	}
	r, closeIn, err := openInput(input, stdin)
	if err != nil {
		return nil, err
	}
	defer closeIn()
	return rdf.LoadDatasetWithBase(ctx, r, from, j.base)
}

// stripCodec removes a compression suffix from path.
func stripCodec(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

func openInput(path string, stdin io.Reader) (io.Reader, func() error, error) {
	var (
		src     io.Reader = stdin
		closers []func() error
	)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		src = f
		closers = append(closers, f.Close)
	}
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	switch lower := strings.ToLower(path); {
	case strings.HasSuffix(lower, ".gz"):
		zr, err := gzip.NewReader(src)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		closers = append(closers, zr.Close)
		src = zr
	case strings.HasSuffix(lower, ".zst"):
		zr, err := zstd.NewReader(src)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		closers = append(closers, func() error { zr.Close(); return nil })
		src = zr
	}
	return src, closeAll, nil
}

// openOutput returns the destination writer and a close function that
// flushes any compressor before closing the file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	switch lower := strings.ToLower(path); {
	case strings.HasSuffix(lower, ".gz"):
		zw := gzip.NewWriter(f)
		return zw, func() error { return errors.Join(zw.Close(), f.Close()) }, nil
	case strings.HasSuffix(lower, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		return zw, func() error { return errors.Join(zw.Close(), f.Close()) }, nil
	}
	return f, f.Close, nil
}
