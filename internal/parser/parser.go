package parser

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/beetlebugorg/citygml/internal/model"
)

// Parser reads CityGML documents into City Models.
//
// A document is read in one pass: the XML tokenizer emits start/end events,
// the DocumentParser routes them through a stack of element parsers, and
// the finished model is postprocessed (tessellation, ring de-duplication,
// cross-reference resolution and optional reprojection).
type Parser interface {
	// Parse reads a CityGML file with default options.
	Parse(filename string) (*model.CityModel, error)

	// ParseWithOptions reads a CityGML file.
	ParseWithOptions(filename string, opts ParseOptions) (*model.CityModel, error)

	// ParseReader reads a document from r. opts.DocumentPath is used to
	// resolve relative code list locations.
	ParseReader(r io.Reader, opts ParseOptions) (*model.CityModel, error)
}

// CodeListResolver maps a code to its label using the code list named by
// codeSpace. Implementations fall back to the key when the list cannot be
// loaded.
type CodeListResolver interface {
	Resolve(codeSpace, documentPath, key string) string
}

// Transformer reprojects points in place from srcSRS to dstSRS.
type Transformer interface {
	Transform(points []model.Vec3, srcSRS, dstSRS string) error
}

// ParseOptions configures parsing behavior
type ParseOptions struct {
	// IgnoreGeometries skips all geometry and appearance content.
	IgnoreGeometries bool

	// Optimize welds identical mesh vertices after triangulation.
	Optimize bool

	// Tesselate triangulates polygons into meshes.
	// Default: true
	Tesselate bool

	// KeepVertices retains ring vertices after triangulation.
	KeepVertices bool

	// ValidateGeometry checks positions against their reference system's
	// bounds before triangulation and reports violations as data quality
	// issues.
	ValidateGeometry bool

	// DestSRS is the reference system to reproject into; empty means no
	// reprojection.
	DestSRS string

	// SrcSRS overrides the reference system declared by the document.
	SrcSRS string

	// DocumentPath is the location of the document being read.
	DocumentPath string

	Tessellator model.Tessellator
	Transformer Transformer
	CodeLists   CodeListResolver
}

// DefaultParseOptions returns parse options with defaults
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		IgnoreGeometries: false,
		Optimize:         false,
		Tesselate:        true,
		KeepVertices:     false,
		ValidateGeometry: true,
	}
}

// defaultParser implements the Parser interface
type defaultParser struct{}

// NewParser creates a new CityGML parser
func NewParser() Parser {
	return &defaultParser{}
}

// Parse reads a CityGML file with default options
func (p *defaultParser) Parse(filename string) (*model.CityModel, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

// ParseWithOptions reads a CityGML file
func (p *defaultParser) ParseWithOptions(filename string, opts ParseOptions) (*model.CityModel, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer f.Close()

	if abs, err := filepath.Abs(filename); err == nil {
		opts.DocumentPath = abs
	} else {
		opts.DocumentPath = filename
	}
	return p.ParseReader(f, opts)
}

// ParseReader reads a document from r
func (p *defaultParser) ParseReader(r io.Reader, opts ParseOptions) (*model.CityModel, error) {
	d := NewDocumentParser(opts)
	if err := Feed(r, d); err != nil {
		return nil, err
	}
	return d.EndDocument()
}
