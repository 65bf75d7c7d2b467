package main

import (
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/citygml/pkg/citygml"
)

// config holds flag defaults taken from the environment (and .env).
type config struct {
	DestSRS     string
	SrcSRS      string
	Verbosity   int
	Workers     int
	MetricsAddr string
}

func loadConfig() config {
	return config{
		DestSRS:     os.Getenv("CITYGML_DEST_SRS"),
		SrcSRS:      os.Getenv("CITYGML_SRC_SRS"),
		Verbosity:   envInt("CITYGML_LOG_VERBOSITY", 0),
		Workers:     envInt("CITYGML_WORKERS", runtime.NumCPU()),
		MetricsAddr: os.Getenv("CITYGML_METRICS_ADDR"),
	}
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// parseFlags binds the parse option flags shared by every command.
type parseFlags struct {
	destSRS          string
	srcSRS           string
	noTessellate     bool
	ignoreGeometries bool
	keepVertices     bool
	optimize         bool
	noValidate       bool
}

func (f *parseFlags) register(cmd *cobra.Command, cfg config) {
	cmd.Flags().StringVar(&f.destSRS, "dest-srs", cfg.DestSRS, "reproject into this reference system (env CITYGML_DEST_SRS)")
	cmd.Flags().StringVar(&f.srcSRS, "src-srs", cfg.SrcSRS, "override the documents' reference system (env CITYGML_SRC_SRS)")
	cmd.Flags().BoolVar(&f.noTessellate, "no-tessellate", false, "keep polygons as rings instead of triangulating them")
	cmd.Flags().BoolVar(&f.ignoreGeometries, "ignore-geometries", false, "skip geometry and appearance content")
	cmd.Flags().BoolVar(&f.keepVertices, "keep-vertices", false, "keep ring vertices after triangulation")
	cmd.Flags().BoolVar(&f.optimize, "optimize", false, "weld identical mesh vertices")
	cmd.Flags().BoolVar(&f.noValidate, "no-validate", false, "skip coordinate bounds checks")
}

func (f *parseFlags) options() citygml.ParseOptions {
	opts := citygml.DefaultParseOptions()
	opts.DestSRS = f.destSRS
	opts.SrcSRS = f.srcSRS
	opts.Tesselate = !f.noTessellate
	opts.IgnoreGeometries = f.ignoreGeometries
	opts.KeepVertices = f.keepVertices
	opts.Optimize = f.optimize
	opts.ValidateGeometry = !f.noValidate
	return opts
}

// expandPaths replaces directories with the documents below them.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		docs, err := citygml.FindDocuments(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, docs...)
	}
	return paths, nil
}
