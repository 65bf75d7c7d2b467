package parser

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/beetlebugorg/citygml/internal/model"
)

// City object kinds by element. Several elements collapse onto one kind.
var kindsByElement = map[string]model.Kind{
	"gen:GenericCityObject":          model.KindGenericCityObject,
	"bldg:Building":                  model.KindBuilding,
	"bldg:BuildingPart":              model.KindBuildingPart,
	"bldg:Room":                      model.KindRoom,
	"bldg:BuildingInstallation":      model.KindBuildingInstallation,
	"bldg:IntBuildingInstallation":   model.KindIntBuildingInstallation,
	"bldg:BuildingFurniture":         model.KindBuildingFurniture,
	"bldg:Door":                      model.KindDoor,
	"bldg:Window":                    model.KindWindow,
	"bldg:CityFurniture":             model.KindCityFurniture,
	"frn:CityFurniture":              model.KindCityFurniture,
	"tran:Track":                     model.KindTrack,
	"tran:Road":                      model.KindRoad,
	"tran:Railway":                   model.KindRailway,
	"tran:Square":                    model.KindSquare,
	"tran:TransportationComplex":     model.KindTransportationObject,
	"tran:TrafficArea":               model.KindTransportationObject,
	"tran:AuxiliaryTrafficArea":      model.KindTransportationObject,
	"veg:PlantCover":                 model.KindPlantCover,
	"veg:SolitaryVegetationObject":   model.KindSolitaryVegetationObject,
	"wtr:WaterBody":                  model.KindWaterBody,
	"wtr:WaterSurface":               model.KindWaterSurface,
	"wtr:WaterGroundSurface":         model.KindWaterSurface,
	"wtr:WaterClosureSurface":        model.KindWaterSurface,
	"luse:LandUse":                   model.KindLandUse,
	"tun:Tunnel":                     model.KindTunnel,
	"brid:Bridge":                    model.KindBridge,
	"brid:BridgeConstructionElement": model.KindBridgeConstructionElement,
	"brid:BridgeInstallation":        model.KindBridgeInstallation,
	"brid:BridgePart":                model.KindBridgePart,
	"bldg:WallSurface":               model.KindWallSurface,
	"bldg:RoofSurface":               model.KindRoofSurface,
	"bldg:GroundSurface":             model.KindGroundSurface,
	"bldg:ClosureSurface":            model.KindClosureSurface,
	"bldg:FloorSurface":              model.KindFloorSurface,
	"bldg:InteriorWallSurface":       model.KindInteriorWallSurface,
	"bldg:CeilingSurface":            model.KindCeilingSurface,
	"bldg:OuterCeilingSurface":       model.KindOuterCeilingSurface,
	"bldg:OuterFloorSurface":         model.KindOuterFloorSurface,
	"grp:CityObjectGroup":            model.KindCityObjectGroup,
	"dem:ReliefFeature":              model.KindReliefFeature,
	"dem:ReliefComponent":            model.KindReliefComponent,
	"dem:TINRelief":                  model.KindTINRelief,
	"dem:MassPointRelief":            model.KindMassPointRelief,
	"dem:BreaklineRelief":            model.KindBreaklineRelief,
	"dem:RasterRelief":               model.KindRasterRelief,
}

// kindTable is the type-id keyed form of kindsByElement.
var kindTable = sync.OnceValue(func() map[NodeType]model.Kind {
	out := make(map[NodeType]model.Kind, len(kindsByElement))
	for qname, kind := range kindsByElement {
		n := Lookup(qname)
		if !n.Valid() {
			panic(fmt.Sprintf("kind table names unregistered element %s", qname))
		}
		out[n.Type] = kind
	}
	return out
})

// KindFor classifies an element. Elements that are not in the table get
// KindUnknown.
func KindFor(n Node) (model.Kind, bool) {
	k, ok := kindTable()[n.Type]
	if !ok {
		return model.KindUnknown, false
	}
	return k, true
}

//go:embed attributes.csv
// Typed scalar attributes of city objects: qualified element name and
// value type.
var attributesCSV string

type attributeTypes struct {
	byName map[string]model.AttributeType
	byType map[NodeType]model.AttributeType
}

func (a *attributeTypes) names() []string {
	out := make([]string, 0, len(a.byName))
	for n := range a.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var attributeTable = sync.OnceValue(func() *attributeTypes {
	a := &attributeTypes{byName: make(map[string]model.AttributeType)}
	records, err := csv.NewReader(strings.NewReader(attributesCSV)).ReadAll()
	if err != nil {
		panic(fmt.Sprintf("embedded attribute table: %v", err))
	}
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, ok := model.ParseAttributeType(strings.TrimSpace(record[1]))
		if !ok {
			panic(fmt.Sprintf("embedded attribute table: unknown type %q", record[1]))
		}
		a.byName[strings.TrimSpace(record[0])] = t
	}
	return a
})

// typedAttributes maps registered attribute elements to their value type.
// It is derived after the registry so it can be keyed by type id.
var typedAttributes = sync.OnceValue(func() map[NodeType]model.AttributeType {
	a := attributeTable()
	out := make(map[NodeType]model.AttributeType, len(a.byName))
	for qname, t := range a.byName {
		out[Lookup(qname).Type] = t
	}
	return out
})

// AttributeTypeFor returns the value type of a typed scalar attribute
// element.
func AttributeTypeFor(n Node) (model.AttributeType, bool) {
	if !n.Valid() {
		return model.AttributeString, false
	}
	t, ok := typedAttributes()[n.Type]
	return t, ok
}

// genericAttributeTypes maps gen:*Attribute elements to their value type.
var genericAttributeTypes = map[string]model.AttributeType{
	"gen:stringAttribute":  model.AttributeString,
	"gen:doubleAttribute":  model.AttributeDouble,
	"gen:intAttribute":     model.AttributeInteger,
	"gen:dateAttribute":    model.AttributeDate,
	"gen:uriAttribute":     model.AttributeUri,
	"gen:measureAttribute": model.AttributeMeasure,
}

// geometryMode tells the city object parser how to read a geometry
// property's content.
type geometryMode int

const (
	// modeChoice lets the first child choose between polygon, line string
	// and general geometry.
	modeChoice geometryMode = iota
	// modeImplicit reads an implicit geometry.
	modeImplicit
	// modeRelief reads geometry at the LOD given by the object's dem:lod.
	modeRelief
)

// geometryProperty describes a property element holding geometry.
type geometryProperty struct {
	LOD  int
	Mode geometryMode
	// Kind, when not KindUnknown, replaces the owner's kind when typing the
	// geometry (footprints are ground, roof edges are roof).
	Kind model.Kind
}

type geometryProperties map[string]geometryProperty

func (g geometryProperties) names() []string {
	out := make([]string, 0, len(g))
	for n := range g {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var geometryPropertyTable = sync.OnceValue(func() geometryProperties {
	t := geometryProperties{}
	add := func(prefix string, lods []int, mode geometryMode, suffixes ...string) {
		for _, lod := range lods {
			for _, s := range suffixes {
				t[fmt.Sprintf("%s:lod%d%s", prefix, lod, s)] = geometryProperty{LOD: lod, Mode: mode}
			}
		}
	}
	all := []int{0, 1, 2, 3, 4}
	oneToFour := []int{1, 2, 3, 4}
	twoToFour := []int{2, 3, 4}

	add(prefixGen, all, modeChoice, "Geometry", "TerrainIntersection")
	add(prefixGen, all, modeImplicit, "ImplicitRepresentation")
	add(prefixWtr, []int{0, 1}, modeChoice, "MultiCurve", "MultiSurface")
	add(prefixWtr, []int{1}, modeChoice, "Solid")
	add(prefixWtr, twoToFour, modeChoice, "Solid", "Surface")
	for _, p := range []string{prefixBldg, prefixBrid, prefixTun} {
		add(p, oneToFour, modeChoice, "MultiCurve", "MultiSurface", "Solid", "TerrainIntersection")
		add(p, twoToFour, modeChoice, "Geometry")
		add(p, twoToFour, modeImplicit, "ImplicitRepresentation")
	}
	add(prefixFrn, oneToFour, modeChoice, "Geometry", "TerrainIntersection")
	add(prefixFrn, oneToFour, modeImplicit, "ImplicitRepresentation")
	add(prefixVeg, oneToFour, modeChoice, "Geometry")
	add(prefixVeg, oneToFour, modeImplicit, "ImplicitRepresentation")
	add(prefixLuse, oneToFour, modeChoice, "MultiSurface")
	add(prefixTran, oneToFour, modeChoice, "MultiSurface")

	t["bldg:lod0FootPrint"] = geometryProperty{LOD: 0, Mode: modeChoice, Kind: model.KindGroundSurface}
	t["bldg:lod0RoofEdge"] = geometryProperty{LOD: 0, Mode: modeChoice, Kind: model.KindRoofSurface}
	for _, n := range []string{"dem:extent", "dem:tin", "dem:reliefPoints", "dem:ridgeOrValleyLines", "dem:breaklines"} {
		t[n] = geometryProperty{Mode: modeRelief}
	}
	return t
})

// geometryPropertyFor returns the geometry property described by n.
func geometryPropertyFor(n Node) (geometryProperty, bool) {
	if !n.Valid() {
		return geometryProperty{}, false
	}
	p, ok := geometryPropertyTable()[n.QualifiedName()]
	return p, ok
}
