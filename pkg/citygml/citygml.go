package citygml

import (
	"io"
	"time"

	"github.com/tliron/commonlog"

	"github.com/beetlebugorg/citygml/internal/codelist"
	"github.com/beetlebugorg/citygml/internal/metrics"
	"github.com/beetlebugorg/citygml/internal/model"
	"github.com/beetlebugorg/citygml/internal/parser"
	"github.com/beetlebugorg/citygml/internal/reproject"
	"github.com/beetlebugorg/citygml/internal/tessellate"
)

// Model types.
type (
	CityModel        = model.CityModel
	CityObject       = model.CityObject
	Kind             = model.Kind
	Envelope         = model.Envelope
	Vec3             = model.Vec3
	Geometry         = model.Geometry
	Polygon          = model.Polygon
	LinearRing       = model.LinearRing
	Mesh             = model.Mesh
	AttributeValue   = model.AttributeValue
	AttributeSet     = model.AttributeSet
	Diagnostics      = model.Diagnostics
	Issue            = model.Issue
	IssueKind        = model.IssueKind
	Tessellator      = model.Tessellator
	Transformer      = parser.Transformer
	CodeListResolver = parser.CodeListResolver
)

// Errors returned by Parse. Match them with errors.As.
type (
	ErrStructural      = parser.ErrStructural
	ErrExternalService = parser.ErrExternalService
)

// Frequently used kinds. ParseKind covers the rest.
const (
	KindUnknown         = model.KindUnknown
	KindBuilding        = model.KindBuilding
	KindBuildingPart    = model.KindBuildingPart
	KindWallSurface     = model.KindWallSurface
	KindRoofSurface     = model.KindRoofSurface
	KindGroundSurface   = model.KindGroundSurface
	KindRoad            = model.KindRoad
	KindCityFurniture   = model.KindCityFurniture
	KindPlantCover      = model.KindPlantCover
	KindWaterBody       = model.KindWaterBody
	KindLandUse         = model.KindLandUse
	KindBridge          = model.KindBridge
	KindTunnel          = model.KindTunnel
	KindCityObjectGroup = model.KindCityObjectGroup
	KindReliefFeature   = model.KindReliefFeature
)

// Issue kinds recorded in a model's Diagnostics.
const (
	IssueStructuralError = model.IssueStructuralError
	IssueSchemaDeviation = model.IssueSchemaDeviation
	IssueReferenceMiss   = model.IssueReferenceMiss
	IssueDataQuality     = model.IssueDataQuality
	IssueExternalService = model.IssueExternalService
)

// ParseKind returns the kind named by an element-style name such as
// "Building".
func ParseKind(name string) (Kind, bool) {
	return model.ParseKind(name)
}

// Parser reads CityGML documents.
//
// Create a parser with NewParser and use Parse, ParseWithOptions or
// ParseReader to read documents. A Parser is safe for concurrent use; the
// code lists it loads are cached and shared between parses.
type Parser interface {
	// Parse reads a CityGML file with default options.
	Parse(filename string) (*CityModel, error)

	// ParseWithOptions reads a CityGML file.
	ParseWithOptions(filename string, opts ParseOptions) (*CityModel, error)

	// ParseReader reads a CityGML document from r. Relative code list
	// locations are resolved against the working directory.
	ParseReader(r io.Reader, opts ParseOptions) (*CityModel, error)
}

// NewParser creates a new CityGML parser with default settings.
//
// Example:
//
//	p := citygml.NewParser()
//	m, err := p.Parse("53392633_bldg_6697_op.gml")
func NewParser() Parser {
	return &parserWrapper{
		internal:    parser.NewParser(),
		codeLists:   codelist.NewResolver(nil),
		tessellator: tessellate.New(),
		transformer: reproject.New(),
		log:         commonlog.GetLogger("citygml"),
	}
}

// parserWrapper wraps the internal parser and fills in the default services.
type parserWrapper struct {
	internal    parser.Parser
	codeLists   *codelist.Resolver
	tessellator *tessellate.EarClipper
	transformer *reproject.Transformer
	log         commonlog.Logger
}

func (p *parserWrapper) Parse(filename string) (*CityModel, error) {
	return p.ParseWithOptions(filename, DefaultParseOptions())
}

func (p *parserWrapper) ParseWithOptions(filename string, opts ParseOptions) (*CityModel, error) {
	start := time.Now()
	m, err := p.internal.ParseWithOptions(filename, p.internalOptions(opts))
	p.observe(filename, m, start, err)
	return m, err
}

func (p *parserWrapper) ParseReader(r io.Reader, opts ParseOptions) (*CityModel, error) {
	start := time.Now()
	m, err := p.internal.ParseReader(r, p.internalOptions(opts))
	p.observe("<reader>", m, start, err)
	return m, err
}

func (p *parserWrapper) internalOptions(opts ParseOptions) parser.ParseOptions {
	out := parser.ParseOptions{
		IgnoreGeometries: opts.IgnoreGeometries,
		Optimize:         opts.Optimize,
		Tesselate:        opts.Tesselate,
		KeepVertices:     opts.KeepVertices,
		ValidateGeometry: opts.ValidateGeometry,
		DestSRS:          opts.DestSRS,
		SrcSRS:           opts.SrcSRS,
		DocumentPath:     opts.DocumentPath,
		Tessellator:      opts.Tessellator,
		Transformer:      opts.Transformer,
		CodeLists:        opts.CodeLists,
	}
	if out.Tessellator == nil {
		out.Tessellator = p.tessellator
	}
	if out.Transformer == nil {
		out.Transformer = p.transformer
	}
	if out.CodeLists == nil {
		out.CodeLists = p.codeLists
	}
	return out
}

func (p *parserWrapper) observe(name string, m *CityModel, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.ObserveParse(m, elapsed, err)
	if err != nil {
		p.log.Errorf("%s: %s", name, err)
		return
	}
	p.log.Infof("%s: %d objects, %d issues in %s", name, len(m.AllObjects()), m.Diagnostics.Len(), elapsed)
}
