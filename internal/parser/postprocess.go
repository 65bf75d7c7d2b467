package parser

import (
	"github.com/pkg/errors"

	"github.com/beetlebugorg/citygml/internal/model"
)

// postprocess finishes a parsed model. Stages run in a fixed order:
// texture attachment, geometry validation, tessellation, de-duplication,
// cross-reference resolution, envelopes and lookup maps, then optional
// reprojection. Only a reprojection failure is fatal.
func (d *DocumentParser) postprocess(m *model.CityModel) error {
	b := d.builder
	b.close(m)

	if d.opts.ValidateGeometry {
		d.validate(m)
	}

	seen := make(map[*model.LinearRing]bool)
	if d.opts.Tesselate {
		d.tessellate(m, seen)
	}
	d.removeDuplicateVertices(m, seen)

	resolved, missed := b.deferred.resolveAll()
	d.log.Infof("resolved %d cross-references, %d missing", resolved, missed)

	d.computeEnvelopes(m)
	m.Finalize()

	if d.opts.DestSRS != "" {
		if err := d.reproject(m); err != nil {
			d.log.Errorf("%v", err)
			return err
		}
	}
	return nil
}

// validate reports geometries with positions outside their reference
// system's bounds. Short rings and missing exteriors are reported while
// reading and tessellating, so only coordinate errors are added here.
// Invalid geometries are kept.
func (d *DocumentParser) validate(m *model.CityModel) {
	invalid := 0
	for _, obj := range m.AllObjects() {
		for _, g := range obj.Geometries() {
			err := model.ValidateGeometry(g, m.SRSName)
			if err == nil {
				continue
			}
			invalid++
			var coord *model.ErrInvalidCoordinate
			if errors.As(err, &coord) {
				d.builder.warn(model.IssueDataQuality, "", "%s: %v", obj, err)
			} else {
				d.log.Debugf("%s: %v", obj, err)
			}
		}
	}
	d.log.Infof("validated geometries, %d invalid", invalid)
}

// tessellate de-duplicates and triangulates every polygon. A polygon that
// cannot be triangulated keeps an empty mesh.
func (d *DocumentParser) tessellate(m *model.CityModel, seen map[*model.LinearRing]bool) {
	if d.opts.Tessellator == nil {
		d.builder.warn(model.IssueExternalService, "", "no tessellator configured, polygons are not triangulated")
		return
	}
	d.log.Infof("tessellating polygons")
	opts := model.FinishOptions{
		Tessellator:  d.opts.Tessellator,
		Optimize:     d.opts.Optimize,
		KeepVertices: d.opts.KeepVertices,
	}
	count := 0
	m.Polygons(func(obj *model.CityObject, p *model.Polygon) {
		for _, rd := range p.RemoveDuplicateVertices() {
			d.reportDedup(obj, rd.Ring, rd.Report, seen)
		}
		if err := p.Triangulate(opts); err != nil {
			kind := model.IssueExternalService
			if p.Exterior == nil || p.Exterior.Len() < 3 {
				kind = model.IssueDataQuality
			}
			d.builder.warn(kind, "", "%s: %v", obj, err)
			return
		}
		count++
	})
	d.log.Infof("tessellated %d polygons", count)
}

// removeDuplicateVertices covers rings that were not triangulated. For
// triangulated rings it finds nothing left to remove.
func (d *DocumentParser) removeDuplicateVertices(m *model.CityModel, seen map[*model.LinearRing]bool) {
	removed := 0
	m.Rings(func(obj *model.CityObject, _ *model.Polygon, r *model.LinearRing) {
		rep := r.RemoveDuplicateVertices()
		removed += rep.Removed
		d.reportDedup(obj, r, rep, seen)
	})
	d.log.Infof("removed %d duplicate vertices", removed)
}

// reportDedup reports the texture coordinate problems of a ring once.
func (d *DocumentParser) reportDedup(obj *model.CityObject, r *model.LinearRing, rep model.DedupReport, seen map[*model.LinearRing]bool) {
	if seen[r] || (len(rep.Mismatched) == 0 && len(rep.Broken) == 0) {
		return
	}
	seen[r] = true
	for _, tc := range rep.Mismatched {
		d.builder.warn(model.IssueDataQuality, "app:textureCoordinates",
			"%s: ring %q has %d vertices but theme %q has %d texture coordinates",
			obj, r.ID, len(r.Vertices), tc.Theme, len(tc.Coords))
	}
	for _, tc := range rep.Broken {
		d.log.Errorf("%s: ring %q lost alignment with theme %q during de-duplication", obj, r.ID, tc.Theme)
		d.builder.diag.Add(model.IssueDataQuality, "integrity",
			"ring %q and theme %q texture coordinates differ in length after de-duplication", r.ID, tc.Theme)
	}
}

// computeEnvelopes gives every object an envelope and derives the model's
// from its roots when the document declared none.
func (d *DocumentParser) computeEnvelopes(m *model.CityModel) {
	derived := &model.Envelope{SRSName: m.SRSName}
	for _, root := range m.Roots() {
		if env := root.ComputeEnvelope(); env.Valid() {
			derived.Expand(env.Lower)
			derived.Expand(env.Upper)
		}
	}
	if !m.Envelope.Valid() && derived.Valid() {
		m.Envelope = derived
	}
}

// reproject transforms every position of the model into DestSRS.
func (d *DocumentParser) reproject(m *model.CityModel) error {
	dst := d.opts.DestSRS
	src := d.opts.SrcSRS
	if src == "" {
		src = m.SRSName
	}
	if src == "" {
		return errors.WithStack(&ErrExternalService{
			Service: "reprojection",
			Err:     errors.Errorf("document declares no reference system to reproject to %s from", dst),
		})
	}
	if d.opts.Transformer == nil {
		return errors.WithStack(&ErrExternalService{
			Service: "reprojection",
			Err:     errors.New("no coordinate transformer configured"),
		})
	}

	d.log.Infof("reprojecting from %s to %s", src, dst)
	err := m.TransformVertices(func(points []model.Vec3) error {
		return d.opts.Transformer.Transform(points, src, dst)
	})
	if err != nil {
		return errors.WithStack(&ErrExternalService{Service: "reprojection", Err: err})
	}

	m.SRSName = dst
	if m.Envelope != nil {
		m.Envelope.SRSName = dst
	}
	for _, obj := range m.AllObjects() {
		if obj.Envelope != nil {
			obj.Envelope.SRSName = dst
		}
		for _, g := range obj.Geometries() {
			g.Walk(func(geom *model.Geometry) { geom.SRSName = dst })
		}
		for _, ig := range obj.ImplicitGeometries() {
			ig.SRSName = dst
		}
	}
	return nil
}
