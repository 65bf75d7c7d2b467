// Package reproject converts positions between EPSG reference systems.
// Projections come from the wgs84 EPSG repository; geographic systems are
// recognised by name so that their GML axis order (latitude first) is kept.
package reproject

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"github.com/wroge/wgs84"

	"github.com/beetlebugorg/citygml/internal/model"
)

// maxMercatorLat is the latitude at which web mercator becomes square.
const maxMercatorLat = 85.05112878

const (
	codeWGS84    = 4326
	codeJGD2011  = 6668
	codeMercator = 3857
)

// geographicCodes maps geographic and compound codes onto the 2-D
// geographic system the repository knows.
var geographicCodes = map[string]int{
	"4326":  codeWGS84,
	"4979":  codeWGS84,
	"4019":  codeWGS84,
	"4258":  4258,
	"6668":  codeJGD2011,
	"6697":  codeJGD2011,
	"CRS84": codeWGS84,
}

var mercatorAliases = map[string]bool{"3857": true, "900913": true, "3785": true, "102100": true}

var codeRE = regexp.MustCompile(`(?i)(EPSG|OGC|CRS)[:/](?:[0-9.]*[:/]+)?([A-Z0-9]+)$`)

var repository = wgs84.EPSG()

// crs is a reference system resolved to a repository code.
type crs struct {
	code       int
	geographic bool
	latFirst   bool
}

// classify resolves an srsName. It accepts the short form (EPSG:4326), OGC
// URNs (urn:ogc:def:crs:EPSG::4326) and OGC URLs
// (http://www.opengis.net/def/crs/EPSG/0/4326).
func classify(srsName string) (crs, bool) {
	s := strings.TrimSpace(srsName)
	if strings.EqualFold(s, "CRS:84") {
		return crs{code: codeWGS84, geographic: true}, true
	}
	m := codeRE.FindStringSubmatch(s)
	if m == nil {
		return crs{}, false
	}
	name := strings.ToUpper(m[2])
	if code, ok := geographicCodes[name]; ok {
		return crs{code: code, geographic: true, latFirst: name != "CRS84"}, true
	}
	if mercatorAliases[name] {
		return crs{code: codeMercator}, true
	}
	code, err := strconv.Atoi(name)
	if err != nil || !strings.EqualFold(m[1], "EPSG") {
		return crs{}, false
	}
	if _, err := repository.SafeTransform(code, codeWGS84); err != nil {
		return crs{}, false
	}
	return crs{code: code}, true
}

// Supported reports whether srsName names a reference system the
// transformer understands.
func Supported(srsName string) bool {
	_, ok := classify(srsName)
	return ok
}

// Transformer reprojects between EPSG reference systems. Geographic datums
// are treated as equivalent to each other; a projected system is reached
// through its own datum. Heights pass through unchanged. Projected
// positions are easting first. Transformer is safe for concurrent use.
type Transformer struct {
	log commonlog.Logger
}

// New creates a transformer.
func New() *Transformer {
	return &Transformer{log: commonlog.GetLogger("citygml.reproject")}
}

// Transform converts points in place from srcSRS to dstSRS. Points are
// written back only when every one of them converted; on error none is
// modified.
func (t *Transformer) Transform(points []model.Vec3, srcSRS, dstSRS string) error {
	src, ok := classify(srcSRS)
	if !ok {
		return errors.Errorf("unsupported source reference system %q", srcSRS)
	}
	dst, ok := classify(dstSRS)
	if !ok {
		return errors.Errorf("unsupported target reference system %q", dstSRS)
	}
	if src == dst {
		return nil
	}

	var fn func(a, b, c float64) (float64, float64, float64)
	if src.geographic && dst.geographic {
		if src.code != dst.code {
			t.log.Debugf("treating %s and %s as the same datum", srcSRS, dstSRS)
		}
		fn = func(a, b, c float64) (float64, float64, float64) { return a, b, c }
	} else {
		f, err := repository.SafeTransform(src.code, dst.code)
		if err != nil {
			return errors.Wrapf(err, "transform %s to %s", srcSRS, dstSRS)
		}
		fn = f
	}

	out := make([]model.Vec3, len(points))
	for i, p := range points {
		a, b, err := src.planar(p)
		if err != nil {
			return errors.Wrapf(err, "point %d", i)
		}
		if src.geographic && dst.code == codeMercator {
			b = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, b))
		}
		x, y, _ := fn(a, b, p[2])
		if !finite(x) || !finite(y) {
			return errors.Wrapf(&model.ErrInvalidCoordinate{Position: p, Reason: "no position in " + dstSRS}, "point %d", i)
		}
		out[i] = dst.point(x, y, p[2])
	}
	copy(points, out)
	return nil
}

// planar returns p as (lon, lat) or (easting, northing).
func (c crs) planar(p model.Vec3) (float64, float64, error) {
	if !finite(p[0]) || !finite(p[1]) {
		return 0, 0, &model.ErrInvalidCoordinate{Position: p, Reason: "non-finite component"}
	}
	if !c.geographic {
		return p[0], p[1], nil
	}
	lon, lat := p[0], p[1]
	if c.latFirst {
		lon, lat = p[1], p[0]
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, &model.ErrInvalidCoordinate{Position: p, Reason: "outside geographic bounds"}
	}
	return lon, lat, nil
}

func (c crs) point(x, y, h float64) model.Vec3 {
	if c.latFirst {
		return model.Vec3{y, x, h}
	}
	return model.Vec3{x, y, h}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
