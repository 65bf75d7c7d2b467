// Package citygml reads CityGML 1.0 and 2.0 documents into an in-memory
// city model.
//
// # Basic Usage
//
//	parser := citygml.NewParser()
//	m, err := parser.Parse("53392633_bldg_6697_op.gml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, b := range m.ObjectsByKind(citygml.KindBuilding) {
//	    h, _ := b.Attribute("measuredHeight")
//	    fmt.Printf("%s: %s m\n", b.ID, h)
//	}
//
// A parse either returns a complete model or one fatal error. Problems the
// parser recovers from (unknown extension elements, dangling references,
// malformed code lists, polygons that cannot be triangulated) are recorded
// in the model's Diagnostics:
//
//	for _, issue := range m.Diagnostics.Issues() {
//	    fmt.Println(issue)
//	}
//
// # Options
//
// Polygons are triangulated by default with a built-in ear clipper; set
// Tesselate to false to keep only the ring vertices, or supply another
// Tessellator. DestSRS reprojects the finished model:
//
//	opts := citygml.DefaultParseOptions()
//	opts.DestSRS = "EPSG:3857"
//	m, err := parser.ParseWithOptions(path, opts)
//
// The built-in Transformer converts between the EPSG systems of the wgs84
// repository, for example EPSG:6697 or CRS84 to web mercator or to the
// JGD2011 plane rectangular zones (EPSG:6669 to EPSG:6687). Geographic
// positions keep the GML latitude-first axis order.
//
// Code list values (elements carrying a codeSpace) are looked up in
// gml:Dictionary files located relative to the document. Lists are cached
// per Parser.
//
// # Many Documents
//
// LoadModelsParallel parses a set of files with a worker pool, and
// BuildIndex puts the objects of the resulting models into an R-tree:
//
//	idx, errs, err := citygml.BuildIndexFromDir("udx/bldg", citygml.NewParser(), citygml.DefaultLoadOptions())
//	filter, _ := citygml.NewFilter("kind == 'Building' && measuredHeight > 60")
//	tall := idx.Query(area, citygml.QueryOptions{Filter: filter})
package citygml
