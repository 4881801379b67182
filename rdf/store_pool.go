package rdf

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// graphRenderer renders one graph of a dataset into buf.
type graphRenderer func(g *Graph, buf *bytes.Buffer) error

// writeGraphs renders graphs with up to threads workers and appends each
// finished rendering to out. Serial runs keep dataset order; parallel runs
// write in completion order. The first failure cancels the remaining work.
func writeGraphs(ctx context.Context, graphs []*Graph, threads int, logger *slog.Logger, render graphRenderer, out io.Writer) error {
	if threads <= 1 || len(graphs) <= 1 {
		var buf bytes.Buffer
		for _, g := range graphs {
			if err := ctx.Err(); err != nil {
				return err
			}
			buf.Reset()
			if err := render(g, &buf); err != nil {
				return err
			}
			if _, err := out.Write(buf.Bytes()); err != nil {
				return err
			}
		}
		return nil
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(threads)
	var mu sync.Mutex
	for _, g := range graphs {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := render(g, &buf); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if _, err := out.Write(buf.Bytes()); err != nil {
				return err
			}
			logger.Debug("graph written", "graph", graphLabel(g), "triples", g.Len(), "bytes", buf.Len())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// nonEmptyGraphs returns the graphs of ds that hold triples.
func nonEmptyGraphs(ds *Dataset) []*Graph {
	var out []*Graph
	for _, g := range ds.Graphs() {
		if !g.IsEmpty() {
			out = append(out, g)
		}
	}
	return out
}
