package model

import (
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCoordinate indicates a position outside its reference system's
// valid bounds or a non-finite component.
type ErrInvalidCoordinate struct {
	Position Vec3
	Reason   string
}

func (e *ErrInvalidCoordinate) Error() string {
	return fmt.Sprintf("invalid coordinate (%g %g %g): %s",
		e.Position[0], e.Position[1], e.Position[2], e.Reason)
}

// ErrInvalidGeometry indicates a geometry that cannot be used as-is.
type ErrInvalidGeometry struct {
	ID     string
	Reason string
	Err    error
}

func (e *ErrInvalidGeometry) Unwrap() error { return e.Err }

func (e *ErrInvalidGeometry) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid geometry %q: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s", e.Reason)
}

// IsGeographic reports whether srsName names a lat/lon reference system.
func IsGeographic(srsName string) bool {
	s := strings.ToUpper(srsName)
	for _, code := range []string{"4326", "4979", "6697", "6668", "CRS84", "4258"} {
		if strings.HasSuffix(s, ":"+code) || strings.HasSuffix(s, "/"+code) {
			return true
		}
	}
	return false
}

// ValidateCoordinate checks that v is finite and, for geographic reference
// systems, within latitude/longitude bounds. The axis order is taken from
// the reference system: CRS84 is lon/lat, EPSG geographic codes are lat/lon.
func ValidateCoordinate(v Vec3, srsName string) error {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return &ErrInvalidCoordinate{Position: v, Reason: "non-finite component"}
		}
	}
	if !IsGeographic(srsName) {
		return nil
	}
	lat, lon := v[0], v[1]
	if strings.Contains(strings.ToUpper(srsName), "CRS84") {
		lat, lon = v[1], v[0]
	}
	if lat < -90 || lat > 90 {
		return &ErrInvalidCoordinate{Position: v, Reason: "latitude must be within ±90"}
	}
	if lon < -180 || lon > 180 {
		return &ErrInvalidCoordinate{Position: v, Reason: "longitude must be within ±180"}
	}
	return nil
}

// ValidatePolygon checks that the polygon has an exterior ring with at least
// three vertices and that every vertex is a valid coordinate.
func ValidatePolygon(p *Polygon, srsName string) error {
	if p == nil {
		return &ErrInvalidGeometry{Reason: "polygon is nil"}
	}
	if p.Exterior == nil {
		return &ErrInvalidGeometry{ID: p.ID, Reason: "no exterior ring"}
	}
	for _, r := range p.Rings() {
		// Rings whose vertices were moved into a mesh are not checked again.
		if r.Len() == 0 && p.Mesh != nil {
			continue
		}
		if r.Len() < 3 {
			return &ErrInvalidGeometry{ID: p.ID,
				Reason: fmt.Sprintf("ring %q has %d vertices, need at least 3", r.ID, r.Len())}
		}
		for i, v := range r.Vertices {
			if err := ValidateCoordinate(v, srsName); err != nil {
				return &ErrInvalidGeometry{ID: p.ID,
					Reason: fmt.Sprintf("ring %q vertex %d: %v", r.ID, i, err), Err: err}
			}
		}
	}
	return nil
}

// ValidateGeometry validates every polygon and line string of g and its
// children. Geometries without their own srsName are checked against
// srsName.
func ValidateGeometry(g *Geometry, srsName string) error {
	if g == nil {
		return &ErrInvalidGeometry{Reason: "geometry is nil"}
	}
	var err error
	g.Walk(func(geom *Geometry) {
		if err != nil {
			return
		}
		srs := geom.SRSName
		if srs == "" {
			srs = g.SRSName
		}
		if srs == "" {
			srs = srsName
		}
		for _, p := range geom.Polygons {
			if err = ValidatePolygon(p, srs); err != nil {
				return
			}
		}
		for _, l := range geom.LineStrings {
			if len(l.Vertices) < 2 {
				err = &ErrInvalidGeometry{ID: l.ID, Reason: "line string needs at least 2 vertices"}
				return
			}
		}
	})
	return err
}
