package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-writers/rdf"
)

const sampleNQuads = `<http://example.org/s> <http://example.org/p> "o" .
<http://example.org/s> <http://example.org/list> _:l1 <http://example.org/g> .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "a" <http://example.org/g> .
_:l1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> <http://example.org/g> .
`

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "rdfconvert", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.True(t, rootCmd.HasSubCommands())
	assert.NotNil(t, convertCmd.RunE)
	assert.NotNil(t, formatsCmd.RunE)
}

func TestFormatsCommand(t *testing.T) {
	var out bytes.Buffer
	formatsCmd.SetOut(&out)
	defer formatsCmd.SetOut(nil)

	require.NoError(t, runFormats(formatsCmd, nil))
	text := out.String()
	assert.Contains(t, text, "FORMAT")
	for _, f := range rdf.Formats() {
		assert.Contains(t, text, string(f))
	}
	assert.Contains(t, text, "text/turtle")
}

func TestStripCodec(t *testing.T) {
	tests := map[string]string{
		"data.nq":       "data.nq",
		"data.nq.gz":    "data.nq",
		"data.ttl.zst":  "data.ttl",
		"DATA.TRIG.GZ":  "DATA.TRIG",
		"archive.gzip":  "archive.gzip",
		"dir.gz/file.n": "dir.gz/file.n",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodec(in), in)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.nq", sampleNQuads)
	writeFile(t, dir, "nested/b.nq", sampleNQuads)
	writeFile(t, dir, "nested/deeper/c.nt", "")

	got, err := expandInputs([]string{filepath.Join(dir, "**", "*.nq")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.nq"),
		filepath.Join(dir, "nested", "b.nq"),
	}, got)

	got, err = expandInputs(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-"}, got)

	got, err = expandInputs([]string{"missing.nt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing.nt"}, got)

	_, err = expandInputs([]string{filepath.Join(dir, "*.ttl")})
	assert.Error(t, err)
}

func TestConvertToTriG(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.nq", sampleNQuads)

	job := &convertJob{
		inputs:  []string{in},
		to:      rdf.FormatTriG,
		options: []rdf.Option{rdf.OptPrefixes(map[string]string{"ex": "http://example.org/"}), rdf.OptSingleThreaded()},
	}
	var out bytes.Buffer
	require.NoError(t, job.run(context.Background(), nil, &out, quietLogger()))

	text := out.String()
	assert.Contains(t, text, "@prefix ex: <http://example.org/> .")
	assert.Contains(t, text, "ex:g {")
	assert.Contains(t, text, `ex:list ( "a" )`)
	assert.NotContains(t, text, "rdf:first")
}

func TestConvertGraphOnlyFormatRejectsNamedGraphs(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.nq", sampleNQuads)

	job := &convertJob{inputs: []string{in}, to: rdf.FormatTurtle}
	err := job.run(context.Background(), nil, io.Discard, quietLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, rdf.ErrUnserializable)
}

func TestConvertCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(sampleNQuads))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	in := writeFile(t, dir, "in.nq.gz", gz.String())

	out := filepath.Join(dir, "out.nq.zst")
	job := &convertJob{inputs: []string{in}, to: rdf.FormatNQuads, out: out, options: []rdf.Option{rdf.OptSingleThreaded()}}
	require.NoError(t, job.run(context.Background(), nil, io.Discard, quietLogger()))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	ds, err := rdf.LoadDataset(context.Background(), zr, rdf.FormatNQuads)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Len())
}

func TestConvertStdinWithBase(t *testing.T) {
	input := "<s> <http://example.org/p> <o> .\n"
	job := &convertJob{inputs: []string{"-"}, from: rdf.FormatNTriples, to: rdf.FormatNTriples, base: "http://example.org/base/"}
	var out bytes.Buffer
	require.NoError(t, job.run(context.Background(), strings.NewReader(input), &out, quietLogger()))
	assert.Equal(t, "<http://example.org/base/s> <http://example.org/p> <http://example.org/base/o> .\n", out.String())
}

func TestConvertReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "bad.nt", "<http://example.org/s> <http://example.org/p> .\n")

	job := &convertJob{inputs: []string{in}, to: rdf.FormatNTriples}
	err := job.run(context.Background(), nil, io.Discard, quietLogger())
	require.Error(t, err)
	assert.Equal(t, rdf.ErrCodeParseError, rdf.Code(err))
	assert.Contains(t, err.Error(), "bad.nt")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rdfconvert.yaml", "format: trig\ncompression: high\nprefixes:\n  ex: http://example.org/\n")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "trig", cfg.Format)
	assert.Equal(t, map[string]string{"ex": "http://example.org/"}, cfg.Prefixes)

	path = writeFile(t, dir, "bad.yaml", "prefixes:\n  1ex: http://example.org/\n")
	_, err = loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid prefix "1ex"`)
}

func TestResolveJobRejectsInvalidPrefix(t *testing.T) {
	defer func() { convertPrefixes = nil }()

	convertPrefixes = []string{"1ex=http://example.org/"}
	_, err := resolveJob(convertCmd, &Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid prefix name")

	convertPrefixes = []string{"ex"}
	_, err = resolveJob(convertCmd, &Config{}, nil)
	assert.Error(t, err)
}
