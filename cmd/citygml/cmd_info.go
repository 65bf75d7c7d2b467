package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func newInfoCmd(cfg config) *cobra.Command {
	var flags parseFlags
	var listIssues bool

	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Summarize CityGML documents",
		Long: `Parse each document and print its reference system, extent, object
counts by kind, appearance themes and the issues met while parsing.

Examples:
  citygml info 53392633_bldg_6697_op.gml
  citygml info --issues --dest-srs EPSG:3857 udx/bldg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			parser := citygml.NewParser()
			for _, path := range paths {
				m, err := parser.ParseWithOptions(path, flags.options())
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				printInfo(cmd.OutOrStdout(), path, m, listIssues)
			}
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().BoolVar(&listIssues, "issues", false, "list every issue instead of counts")
	return cmd
}

func printInfo(out io.Writer, path string, m *citygml.CityModel, listIssues bool) {
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  model:    %s\n", m.ID)
	fmt.Fprintf(out, "  srs:      %s\n", m.SRSName)
	if m.Envelope.Valid() {
		fmt.Fprintf(out, "  envelope: %v - %v\n", m.Envelope.Lower, m.Envelope.Upper)
	}
	if themes := m.Themes(); len(themes) > 0 {
		fmt.Fprintf(out, "  themes:   %v\n", themes)
	}

	counts := map[string]int{}
	for _, obj := range m.AllObjects() {
		counts[obj.Kind.String()]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  objects:\t%d\n", len(m.AllObjects()))
	for _, k := range kinds {
		fmt.Fprintf(w, "    %s\t%d\n", k, counts[k])
	}
	w.Flush()

	issues := m.Diagnostics.Issues()
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(out, "  issues:   %d\n", len(issues))
	if listIssues {
		for _, issue := range issues {
			fmt.Fprintf(out, "    %s\n", issue)
		}
		return
	}
	byKind := map[citygml.IssueKind]int{}
	for _, issue := range issues {
		byKind[issue.Kind]++
	}
	for _, k := range []citygml.IssueKind{
		citygml.IssueStructuralError, citygml.IssueSchemaDeviation, citygml.IssueReferenceMiss,
		citygml.IssueDataQuality, citygml.IssueExternalService,
	} {
		if byKind[k] > 0 {
			fmt.Fprintf(out, "    %s: %d\n", k, byKind[k])
		}
	}
}
