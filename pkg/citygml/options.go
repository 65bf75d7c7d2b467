package citygml

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// IgnoreGeometries skips all geometry and appearance content.
	IgnoreGeometries bool

	// Optimize welds identical mesh vertices after triangulation.
	Optimize bool

	// Tesselate triangulates polygons into meshes.
	Tesselate bool

	// KeepVertices retains the ring vertices after triangulation. Without
	// it only the meshes hold positions.
	KeepVertices bool

	// ValidateGeometry reports positions outside their reference system's
	// bounds as data quality issues.
	ValidateGeometry bool

	// DestSRS reprojects the model into this reference system. Empty means
	// the model keeps the document's reference system.
	DestSRS string

	// SrcSRS overrides the reference system declared by the document.
	SrcSRS string

	// DocumentPath locates the document for ParseReader, so that relative
	// code list locations can be resolved. ParseWithOptions sets it from
	// the file name.
	DocumentPath string

	// Tessellator triangulates polygons. If nil, the built-in ear clipper
	// is used.
	Tessellator Tessellator

	// Transformer reprojects positions. If nil, the built-in transformer
	// (EPSG systems of the wgs84 repository) is used.
	Transformer Transformer

	// CodeLists resolves code list values. If nil, the parser's shared
	// resolver reads gml:Dictionary files relative to the document.
	CodeLists CodeListResolver
}

// DefaultParseOptions returns default options.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		IgnoreGeometries: false,
		Optimize:         false,
		Tesselate:        true,
		KeepVertices:     false,
		ValidateGeometry: true,
	}
}
