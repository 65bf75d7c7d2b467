package parser

import (
	"fmt"
	"strings"
	"sync"
)

// NodeType identifies a registered element. Values are assigned once when
// the registry is built and never change afterwards.
type NodeType int

// NodeInvalid is the type of every element the registry does not know.
const NodeInvalid NodeType = 0

// Node describes one element occurrence: its canonical prefix, local name
// and registered type.
type Node struct {
	Prefix string
	Name   string
	Type   NodeType
}

// Valid reports whether the element is registered.
func (n Node) Valid() bool {
	return n.Type != NodeInvalid
}

// QualifiedName returns "prefix:name", or the bare name without a prefix.
func (n Node) QualifiedName() string {
	if n.Prefix == "" {
		return n.Name
	}
	return n.Prefix + ":" + n.Name
}

// Is reports whether n is the registered element named by qname.
func (n Node) Is(qname string) bool {
	return n.Valid() && n.Type == Lookup(qname).Type
}

func (n Node) String() string {
	return n.QualifiedName()
}

// Namespace prefixes used by the registry.
const (
	prefixCore  = "core"
	prefixGen   = "gen"
	prefixGrp   = "grp"
	prefixApp   = "app"
	prefixBldg  = "bldg"
	prefixFrn   = "frn"
	prefixVeg   = "veg"
	prefixTran  = "tran"
	prefixLuse  = "luse"
	prefixDem   = "dem"
	prefixWtr   = "wtr"
	prefixTun   = "tun"
	prefixBrid  = "brid"
	prefixGML   = "gml"
	prefixXAL   = "xAL"
	prefixXLink = "xlink"
	prefixURO   = "uro"
)

// prefixAliases maps prefixes seen in the wild onto the canonical ones.
var prefixAliases = map[string]string{
	"trans": prefixTran,
	"xal":   prefixXAL,
	"sub":   prefixTun,
	"dem2":  prefixDem,
}

// CanonicalPrefix returns the registry's spelling of prefix.
func CanonicalPrefix(prefix string) string {
	if p, ok := prefixAliases[prefix]; ok {
		return p
	}
	return prefix
}

// structuralNodes are the elements the parsers dispatch on by name.
var structuralNodes = []string{
	// core
	"core:CityModel", "core:cityObjectMember", "core:creationDate", "core:terminationDate",
	"core:externalReference", "core:informationSystem", "core:externalObject", "core:name",
	"core:uri", "core:generalizesTo", "core:address", "core:Address", "core:xalAddress",
	"core:ImplicitGeometry", "core:mimeType", "core:transformationMatrix", "core:libraryObject",
	"core:relativeGMLGeometry", "core:referencePoint",

	// generics
	"gen:GenericCityObject", "gen:stringAttribute", "gen:doubleAttribute", "gen:intAttribute",
	"gen:dateAttribute", "gen:uriAttribute", "gen:measureAttribute", "gen:genericAttributeSet",
	"gen:value",

	// groups
	"grp:CityObjectGroup", "grp:groupMember", "grp:parent", "grp:geometry",

	// building
	"bldg:Building", "bldg:BuildingPart", "bldg:Room", "bldg:BuildingInstallation",
	"bldg:IntBuildingInstallation", "bldg:BuildingFurniture", "bldg:Door", "bldg:Window",
	"bldg:CityFurniture", "bldg:WallSurface", "bldg:RoofSurface", "bldg:GroundSurface",
	"bldg:ClosureSurface", "bldg:FloorSurface", "bldg:InteriorWallSurface", "bldg:CeilingSurface",
	"bldg:OuterCeilingSurface", "bldg:OuterFloorSurface", "bldg:boundedBy",
	"bldg:outerBuildingInstallation", "bldg:interiorBuildingInstallation", "bldg:interiorFurniture",
	"bldg:roomInstallation", "bldg:interiorRoom", "bldg:opening", "bldg:consistsOfBuildingPart",
	"bldg:address", "bldg:lod0FootPrint", "bldg:lod0RoofEdge",

	// city furniture, vegetation
	"frn:CityFurniture", "veg:PlantCover", "veg:SolitaryVegetationObject",

	// transportation
	"tran:TransportationComplex", "tran:Track", "tran:Road", "tran:Railway", "tran:Square",
	"tran:TrafficArea", "tran:AuxiliaryTrafficArea", "tran:trafficArea",
	"tran:auxiliaryTrafficArea", "tran:lod0Network",

	// water, land use, tunnel, bridge
	"wtr:WaterBody", "wtr:WaterSurface", "wtr:WaterGroundSurface", "wtr:WaterClosureSurface",
	"wtr:boundedBy", "luse:LandUse", "tun:Tunnel", "brid:Bridge", "brid:BridgeConstructionElement",
	"brid:BridgeInstallation", "brid:BridgePart", "brid:boundedBy", "brid:consistsOfBridgePart",
	"brid:outerBridgeConstructionElement", "brid:outerBridgeInstallation", "tun:boundedBy",

	// relief
	"dem:ReliefFeature", "dem:ReliefComponent", "dem:TINRelief", "dem:MassPointRelief",
	"dem:BreaklineRelief", "dem:RasterRelief", "dem:reliefComponent", "dem:grid", "dem:extent",
	"dem:tin", "dem:reliefPoints", "dem:ridgeOrValleyLines", "dem:breaklines",

	// appearance
	"app:Appearance", "app:appearanceMember", "app:appearance", "app:theme", "app:surfaceDataMember",
	"app:ParameterizedTexture", "app:GeoreferencedTexture", "app:X3DMaterial", "app:imageURI",
	"app:mimeType", "app:wrapMode", "app:textureType", "app:borderColor", "app:target",
	"app:TexCoordList", "app:textureCoordinates", "app:TexCoordGen", "app:diffuseColor",
	"app:emissiveColor", "app:specularColor", "app:ambientIntensity", "app:shininess",
	"app:transparency", "app:isSmooth", "app:isFront",

	// gml
	"gml:featureMember", "gml:Envelope", "gml:lowerCorner", "gml:upperCorner", "gml:boundedBy", "gml:name",
	"gml:description", "gml:identifier", "gml:descriptionReference", "gml:metaDataProperty",
	"gml:pos", "gml:posList", "gml:coordinates", "gml:coord", "gml:X", "gml:Y", "gml:Z",
	"gml:Point", "gml:LinearRing", "gml:Ring", "gml:Polygon", "gml:Triangle", "gml:Rectangle",
	"gml:PolygonPatch", "gml:exterior", "gml:interior", "gml:outerBoundaryIs", "gml:innerBoundaryIs",
	"gml:Solid", "gml:CompositeSolid", "gml:MultiSolid", "gml:MultiSurface", "gml:CompositeSurface",
	"gml:Surface", "gml:OrientableSurface", "gml:TriangulatedSurface", "gml:Tin", "gml:Shell",
	"gml:MultiCurve", "gml:CompositeCurve", "gml:MultiGeometry", "gml:LineString", "gml:MultiPoint",
	"gml:RectifiedGridCoverage", "gml:surfaceMember", "gml:surfaceMembers", "gml:solidMember",
	"gml:solidMembers", "gml:curveMember", "gml:curveMembers", "gml:geometryMember",
	"gml:geometryMembers", "gml:trianglePatches", "gml:patches", "gml:baseSurface",
	"gml:pointMember", "gml:curveMember",

	// xAL
	"xAL:AddressDetails", "xAL:Country", "xAL:CountryName", "xAL:Locality", "xAL:LocalityName",
	"xAL:Thoroughfare", "xAL:ThoroughfareNumber", "xAL:ThoroughfareName", "xAL:PostalCode",
	"xAL:PostalCodeNumber",

	// i-UR
	"uro:extendedAttribute", "uro:KeyValuePair", "uro:KeyValuePairAttribute", "uro:key",
	"uro:codeValue",
}

type nodeRegistry struct {
	byName map[string]Node
	byType []Node
}

func (r *nodeRegistry) add(qname string) {
	if _, ok := r.byName[qname]; ok {
		return
	}
	prefix, name, _ := strings.Cut(qname, ":")
	n := Node{Prefix: prefix, Name: name, Type: NodeType(len(r.byType))}
	r.byType = append(r.byType, n)
	r.byName[qname] = n
}

// registry is built once, on first use, and is read-only afterwards.
var registry = sync.OnceValue(func() *nodeRegistry {
	r := &nodeRegistry{
		byName: make(map[string]Node),
		byType: []Node{{Name: "", Type: NodeInvalid}},
	}
	for _, q := range structuralNodes {
		r.add(q)
	}
	for _, q := range attributeTable().names() {
		r.add(q)
	}
	for _, q := range geometryPropertyTable().names() {
		r.add(q)
	}
	return r
})

// Lookup resolves a qualified name to its descriptor. Unregistered names
// keep their prefix and local name but have type NodeInvalid.
func Lookup(qname string) Node {
	prefix, name, found := strings.Cut(qname, ":")
	if found {
		prefix = CanonicalPrefix(prefix)
		qname = prefix + ":" + name
	} else {
		prefix, name = "", qname
	}
	if n, ok := registry().byName[qname]; ok {
		return n
	}
	return Node{Prefix: prefix, Name: name, Type: NodeInvalid}
}

// NodeFor returns the descriptor registered under type t.
func NodeFor(t NodeType) (Node, error) {
	r := registry()
	if t <= NodeInvalid || int(t) >= len(r.byType) {
		return Node{}, fmt.Errorf("unknown node type %d", t)
	}
	return r.byType[t], nil
}

// RegisteredNodes returns the number of registered element types.
func RegisteredNodes() int {
	return len(registry().byType) - 1
}
