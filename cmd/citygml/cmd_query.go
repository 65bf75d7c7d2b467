package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

func newQueryCmd(cfg config) *cobra.Command {
	var (
		flags     parseFlags
		where     string
		kinds     []string
		bbox      string
		attrs     []string
		rootsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "query PATH...",
		Short: "Find city objects by area, kind and attributes",
		Long: `Load the documents, index their objects and print those matching the
query, one per line: id, kind, document and the requested attributes.

The bounding box is given in the documents' (or --dest-srs) axis order as
minX,minY,minZ,maxX,maxY,maxZ.

Examples:
  citygml query udx/bldg --kind Building --where "measuredHeight > 60"
  citygml query block.gml --bbox 35.68,139.76,0,35.69,139.77,500 --attr usage`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := citygml.QueryOptions{RootsOnly: rootsOnly}
			for _, name := range kinds {
				k, ok := citygml.ParseKind(name)
				if !ok {
					return fmt.Errorf("unknown kind %q", name)
				}
				q.Kinds = append(q.Kinds, k)
			}
			if where != "" {
				f, err := citygml.NewFilter(where)
				if err != nil {
					return err
				}
				q.Filter = f
			}
			bounds, err := parseBBox(bbox)
			if err != nil {
				return err
			}

			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			opts := citygml.DefaultLoadOptions()
			opts.Workers = cfg.Workers
			opts.ParseOptions = flags.options()
			opts.ErrorLog = cmd.ErrOrStderr()
			models, _ := citygml.LoadModelsParallel(paths, citygml.NewParser(), opts)

			idx := citygml.BuildIndex(models...)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, entry := range idx.Query(bounds, q) {
				fields := []string{entry.Object.ID, entry.Object.Kind.String(), entry.Path}
				for _, a := range attrs {
					v, _ := entry.Object.Attribute(a)
					fields = append(fields, v)
				}
				fmt.Fprintln(w, strings.Join(fields, "\t"))
			}
			return w.Flush()
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVarP(&where, "where", "w", "", "attribute expression, e.g. \"measuredHeight > 20\"")
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "restrict to these kinds (e.g. Building,RoofSurface)")
	cmd.Flags().StringVar(&bbox, "bbox", "", "minX,minY,minZ,maxX,maxY,maxZ")
	cmd.Flags().StringSliceVarP(&attrs, "attr", "a", nil, "attributes to print")
	cmd.Flags().BoolVar(&rootsOnly, "roots", false, "only top-level objects")
	return cmd
}

// parseBBox reads six comma-separated numbers. An empty string means no
// spatial restriction.
func parseBBox(s string) (*citygml.Envelope, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return nil, fmt.Errorf("bbox needs 6 numbers, got %d", len(parts))
	}
	var v [6]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox: %w", err)
		}
		v[i] = f
	}
	return citygml.NewEnvelope(citygml.Vec3{v[0], v[1], v[2]}, citygml.Vec3{v[3], v[4], v[5]}), nil
}
