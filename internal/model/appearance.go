package model

// Appearance groups surface data (textures, materials) under one theme.
type Appearance struct {
	ID        string
	Theme     string
	Textures  []*Texture
	Materials []*Material
}

// Texture is a parameterized texture image. Coordinates are the per-ring
// texture coordinate lists it contributes; each is also attached to the
// ring it targets once the ring is known.
type Texture struct {
	ID          string
	ImageURI    string
	MimeType    string
	WrapMode    string
	Targets     []string
	Coordinates []*TextureCoordinates
}

// Material is an X3D material.
type Material struct {
	ID               string
	Diffuse          Vec3
	Emissive         Vec3
	Specular         Vec3
	AmbientIntensity float64
	Shininess        float64
	Transparency     float64
	IsSmooth         bool
	Targets          []string
}

// DefaultMaterial returns the X3D defaults.
func DefaultMaterial(id string) *Material {
	return &Material{
		ID:               id,
		Diffuse:          Vec3{0.8, 0.8, 0.8},
		AmbientIntensity: 0.2,
		Shininess:        0.2,
	}
}
