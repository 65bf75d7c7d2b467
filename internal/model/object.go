package model

import "fmt"

// Kind classifies a city object. Several grammar elements collapse onto one
// kind (e.g. every traffic area is a TransportationObject).
type Kind int

const (
	KindUnknown Kind = iota
	KindGenericCityObject
	KindBuilding
	KindBuildingPart
	KindRoom
	KindBuildingInstallation
	KindIntBuildingInstallation
	KindBuildingFurniture
	KindDoor
	KindWindow
	KindCityFurniture
	KindTrack
	KindRoad
	KindRailway
	KindSquare
	KindTransportationObject
	KindPlantCover
	KindSolitaryVegetationObject
	KindWaterBody
	KindWaterSurface
	KindLandUse
	KindTunnel
	KindBridge
	KindBridgeConstructionElement
	KindBridgeInstallation
	KindBridgePart
	KindWallSurface
	KindRoofSurface
	KindGroundSurface
	KindClosureSurface
	KindFloorSurface
	KindInteriorWallSurface
	KindCeilingSurface
	KindOuterCeilingSurface
	KindOuterFloorSurface
	KindCityObjectGroup
	KindReliefFeature
	KindReliefComponent
	KindTINRelief
	KindMassPointRelief
	KindBreaklineRelief
	KindRasterRelief
)

var kindNames = [...]string{
	KindUnknown:                   "Unknown",
	KindGenericCityObject:         "GenericCityObject",
	KindBuilding:                  "Building",
	KindBuildingPart:              "BuildingPart",
	KindRoom:                      "Room",
	KindBuildingInstallation:      "BuildingInstallation",
	KindIntBuildingInstallation:   "IntBuildingInstallation",
	KindBuildingFurniture:         "BuildingFurniture",
	KindDoor:                      "Door",
	KindWindow:                    "Window",
	KindCityFurniture:             "CityFurniture",
	KindTrack:                     "Track",
	KindRoad:                      "Road",
	KindRailway:                   "Railway",
	KindSquare:                    "Square",
	KindTransportationObject:      "TransportationObject",
	KindPlantCover:                "PlantCover",
	KindSolitaryVegetationObject:  "SolitaryVegetationObject",
	KindWaterBody:                 "WaterBody",
	KindWaterSurface:              "WaterSurface",
	KindLandUse:                   "LandUse",
	KindTunnel:                    "Tunnel",
	KindBridge:                    "Bridge",
	KindBridgeConstructionElement: "BridgeConstructionElement",
	KindBridgeInstallation:        "BridgeInstallation",
	KindBridgePart:                "BridgePart",
	KindWallSurface:               "WallSurface",
	KindRoofSurface:               "RoofSurface",
	KindGroundSurface:             "GroundSurface",
	KindClosureSurface:            "ClosureSurface",
	KindFloorSurface:              "FloorSurface",
	KindInteriorWallSurface:       "InteriorWallSurface",
	KindCeilingSurface:            "CeilingSurface",
	KindOuterCeilingSurface:       "OuterCeilingSurface",
	KindOuterFloorSurface:         "OuterFloorSurface",
	KindCityObjectGroup:           "CityObjectGroup",
	KindReliefFeature:             "ReliefFeature",
	KindReliefComponent:           "ReliefComponent",
	KindTINRelief:                 "TINRelief",
	KindMassPointRelief:           "MassPointRelief",
	KindBreaklineRelief:           "BreaklineRelief",
	KindRasterRelief:              "RasterRelief",
}

// String returns the kind's element-style name (e.g. "Building").
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Ref addresses a city object inside its Arena. Refs are stable for the
// lifetime of the arena.
type Ref int32

// NoRef is the zero back-reference (no parent).
const NoRef Ref = -1

// Arena stores every city object of one document. Objects refer to each
// other by Ref: the parent link is a non-owning back-reference and shared
// group members are additional non-owning Ref lists, so the object graph
// may contain cycles without any object owning another twice.
type Arena struct {
	objects []*CityObject
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// New allocates a city object in the arena.
func (a *Arena) New(id string, kind Kind) *CityObject {
	obj := &CityObject{
		ID:         id,
		Kind:       kind,
		Attributes: AttributeSet{},
		ref:        Ref(len(a.objects)),
		parent:     NoRef,
		arena:      a,
	}
	a.objects = append(a.objects, obj)
	return obj
}

// Get returns the object addressed by r, or nil when r is out of range.
func (a *Arena) Get(r Ref) *CityObject {
	if r < 0 || int(r) >= len(a.objects) {
		return nil
	}
	return a.objects[r]
}

// Len returns the number of allocated objects.
func (a *Arena) Len() int {
	return len(a.objects)
}

// CityObject is one feature of the city model (a building, a wall surface,
// a road, ...).
//
// Children added with AddChild are exclusively owned by this object; edges
// added with AddShared come from cross-references resolved after the whole
// document was read and may point at objects owned elsewhere.
type CityObject struct {
	ID                string
	Kind              Kind
	Attributes        AttributeSet
	Envelope          *Envelope
	Address           *Address
	ExternalReference *ExternalReference

	geometries []*Geometry
	implicit   []*ImplicitGeometry

	ref      Ref
	parent   Ref
	children []Ref
	shared   []Ref
	arena    *Arena
}

// Ref returns the object's arena address.
func (o *CityObject) Ref() Ref {
	return o.ref
}

// Parent returns the owning object, or nil for root objects.
func (o *CityObject) Parent() *CityObject {
	if o.parent == NoRef {
		return nil
	}
	return o.arena.Get(o.parent)
}

// AddChild transfers ownership of child to o.
func (o *CityObject) AddChild(child *CityObject) {
	child.parent = o.ref
	o.children = append(o.children, child.ref)
}

// Children returns the owned child objects in document order.
func (o *CityObject) Children() []*CityObject {
	return o.resolve(o.children)
}

// AddShared records a non-owning reference to member.
func (o *CityObject) AddShared(member *CityObject) {
	o.shared = append(o.shared, member.ref)
}

// SharedChildren returns members attached through resolved cross-references.
func (o *CityObject) SharedChildren() []*CityObject {
	return o.resolve(o.shared)
}

func (o *CityObject) resolve(refs []Ref) []*CityObject {
	out := make([]*CityObject, 0, len(refs))
	for _, r := range refs {
		if c := o.arena.Get(r); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SetAttribute stores a typed attribute value, replacing any previous value.
func (o *CityObject) SetAttribute(name string, value AttributeValue) {
	o.Attributes[name] = value
}

// Attribute returns the attribute's text form and whether it exists.
func (o *CityObject) Attribute(name string) (string, bool) {
	v, ok := o.Attributes[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// AddGeometry appends a geometry representation.
func (o *CityObject) AddGeometry(g *Geometry) {
	o.geometries = append(o.geometries, g)
}

// Geometries returns every geometry of every level of detail.
func (o *CityObject) Geometries() []*Geometry {
	return o.geometries
}

// GeometriesForLOD returns the geometries tagged with the given LOD.
func (o *CityObject) GeometriesForLOD(lod int) []*Geometry {
	var out []*Geometry
	for _, g := range o.geometries {
		if g.LOD == lod {
			out = append(out, g)
		}
	}
	return out
}

// AddImplicitGeometry appends an implicit (instanced) representation.
func (o *CityObject) AddImplicitGeometry(g *ImplicitGeometry) {
	o.implicit = append(o.implicit, g)
}

// ImplicitGeometries returns the implicit representations.
func (o *CityObject) ImplicitGeometries() []*ImplicitGeometry {
	return o.implicit
}

// ComputeEnvelope derives an envelope from the object's geometry when the
// document did not provide one. It returns the (possibly existing) envelope.
func (o *CityObject) ComputeEnvelope() *Envelope {
	if o.Envelope != nil && o.Envelope.Valid() {
		return o.Envelope
	}
	env := &Envelope{}
	for _, g := range o.geometries {
		g.Walk(func(geom *Geometry) {
			if env.SRSName == "" {
				env.SRSName = geom.SRSName
			}
			for _, p := range geom.Polygons {
				for _, r := range p.Rings() {
					for _, v := range r.Vertices {
						env.Expand(v)
					}
				}
				if p.Mesh != nil {
					for _, v := range p.Mesh.Vertices {
						env.Expand(v)
					}
				}
			}
			for _, l := range geom.LineStrings {
				for _, v := range l.Vertices {
					env.Expand(v)
				}
			}
		})
	}
	for _, c := range o.Children() {
		if ce := c.ComputeEnvelope(); ce != nil && ce.Valid() {
			env.Expand(ce.Lower)
			env.Expand(ce.Upper)
		}
	}
	if !env.Valid() {
		return o.Envelope
	}
	if o.Envelope != nil && o.Envelope.SRSName != "" {
		env.SRSName = o.Envelope.SRSName
	}
	o.Envelope = env
	return env
}

// String returns a short description such as "Building(id=B1)".
func (o *CityObject) String() string {
	return fmt.Sprintf("%s(id=%s)", o.Kind, o.ID)
}
