// Package main provides the rdfconvert CLI.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-writers/rdf"
)

// Version is the current rdfconvert version
var Version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:           "rdfconvert",
	Short:         "rdfconvert - write RDF data in any supported syntax",
	Long:          `rdfconvert reads N-Triples and N-Quads and writes Turtle, TriG, RDF/XML, JSON-LD and the other syntaxes of the rdf package, with list and blank node compression.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported output formats",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tEXTENSION\tCONTENT TYPE\tDATASETS")
	for _, f := range rdf.Formats() {
		datasets := "no"
		switch {
		case f.IsResultsFormat():
			datasets = "results"
		case f.SupportsDatasets():
			datasets = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f, f.Extension(), f.ContentType(), datasets)
	}
	return tw.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
