package parser

import (
	"strconv"
	"strings"

	"github.com/beetlebugorg/citygml/internal/model"
)

// appearanceParser reads an app:Appearance. The finished appearance goes to
// the builder, which hands it to the model once the document is complete.
type appearanceParser struct {
	element
	app *model.Appearance
}

func newAppearanceParser(doc *DocumentParser) *appearanceParser {
	p := &appearanceParser{}
	p.init(doc, p)
	return p
}

func (p *appearanceParser) Name() string { return "appearance" }

func (p *appearanceParser) Handles(n Node) bool { return n.Is("app:Appearance") }

func (p *appearanceParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.app = &model.Appearance{ID: attrs.IDOrEmpty()}
	return true, nil
}

func (p *appearanceParser) endBound(Node, string) error {
	for _, t := range p.app.Textures {
		for _, tc := range t.Coordinates {
			tc.Theme = p.app.Theme
		}
	}
	p.doc.builder.addAppearance(p.app)
	return nil
}

func (p *appearanceParser) startChild(n Node, attrs *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "app:theme":
		return true, nil
	case "app:surfaceDataMember":
		if attrs.HasXLink() {
			p.doc.log.Infof("appearance %q: shared surface data %q is not resolved", p.app.ID, attrs.XLinkValue())
		}
		return true, nil
	case "app:ParameterizedTexture", "app:GeoreferencedTexture":
		return p.delegate(newTextureParser(p.doc, func(t *model.Texture) {
			p.app.Textures = append(p.app.Textures, t)
		}), n, attrs)
	case "app:X3DMaterial":
		return p.delegate(newMaterialParser(p.doc, func(m *model.Material) {
			p.app.Materials = append(p.app.Materials, m)
		}), n, attrs)
	}
	return false, nil
}

func (p *appearanceParser) endChild(n Node, text string) (bool, error) {
	switch n.QualifiedName() {
	case "app:theme":
		p.app.Theme = text
		return true, nil
	case "app:surfaceDataMember":
		return true, nil
	}
	return false, nil
}

// textureParser reads a parameterized or georeferenced texture with its
// per-ring texture coordinates.
type textureParser struct {
	element
	deliver func(*model.Texture)

	tex    *model.Texture
	target string
}

func newTextureParser(doc *DocumentParser, deliver func(*model.Texture)) *textureParser {
	p := &textureParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *textureParser) Name() string { return "texture" }

func (p *textureParser) Handles(n Node) bool {
	return n.Is("app:ParameterizedTexture") || n.Is("app:GeoreferencedTexture")
}

func (p *textureParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.tex = &model.Texture{ID: attrs.IDOrEmpty()}
	return true, nil
}

func (p *textureParser) endBound(Node, string) error {
	p.deliver(p.tex)
	return nil
}

func (p *textureParser) startChild(n Node, attrs *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "app:imageURI", "app:mimeType", "app:wrapMode", "app:textureType", "app:borderColor",
		"app:isFront", "app:TexCoordList", "gml:name", "gml:description":
		return true, nil
	case "app:target":
		p.target = strings.TrimPrefix(attrs.Value("uri"), "#")
		if p.target != "" {
			p.tex.Targets = append(p.tex.Targets, p.target)
		}
		return true, nil
	case "app:textureCoordinates":
		p.tex.Coordinates = append(p.tex.Coordinates, &model.TextureCoordinates{
			ID:   p.target,
			Ring: strings.TrimPrefix(attrs.Value("ring"), "#"),
		})
		return true, nil
	case "app:TexCoordGen":
		p.doc.log.Infof("texture %q: generated texture coordinates are not supported", p.tex.ID)
		p.doc.Push(newBoundSkipParser(p.doc, n))
		return true, nil
	}
	if n.Prefix == prefixApp {
		// Georeferenced placement and similar content we do not model.
		p.doc.Push(newBoundSkipParser(p.doc, n))
		return true, nil
	}
	return false, nil
}

func (p *textureParser) endChild(n Node, text string) (bool, error) {
	switch n.QualifiedName() {
	case "app:imageURI":
		p.tex.ImageURI = text
	case "app:mimeType":
		p.tex.MimeType = text
	case "app:wrapMode":
		p.tex.WrapMode = text
	case "app:target":
		// Georeferenced textures name their target in the text.
		if p.target == "" && text != "" {
			p.tex.Targets = append(p.tex.Targets, strings.TrimPrefix(text, "#"))
		}
		p.target = ""
	case "app:textureCoordinates":
		p.readCoordinates(n, text)
	case "app:textureType", "app:borderColor", "app:isFront", "app:TexCoordList", "gml:name", "gml:description":
	default:
		return false, nil
	}
	return true, nil
}

func (p *textureParser) readCoordinates(n Node, text string) {
	tc := p.tex.Coordinates[len(p.tex.Coordinates)-1]
	values, err := parseFloats(text)
	if err != nil || len(values)%2 != 0 {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "texture %q: invalid coordinates for ring %q", p.tex.ID, tc.Ring)
		p.tex.Coordinates = p.tex.Coordinates[:len(p.tex.Coordinates)-1]
		return
	}
	tc.Coords = make([]model.Vec2, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		tc.Coords = append(tc.Coords, model.Vec2{values[i], values[i+1]})
	}
	p.doc.builder.addTextureCoordinates(tc)
}

// materialParser reads an app:X3DMaterial.
type materialParser struct {
	element
	deliver func(*model.Material)
	mat     *model.Material
}

func newMaterialParser(doc *DocumentParser, deliver func(*model.Material)) *materialParser {
	p := &materialParser{deliver: deliver}
	p.init(doc, p)
	return p
}

func (p *materialParser) Name() string { return "material" }

func (p *materialParser) Handles(n Node) bool { return n.Is("app:X3DMaterial") }

func (p *materialParser) startBound(n Node, attrs *Attributes) (bool, error) {
	if !p.Handles(n) {
		return false, nil
	}
	p.mat = model.DefaultMaterial(attrs.IDOrEmpty())
	return true, nil
}

func (p *materialParser) endBound(Node, string) error {
	p.deliver(p.mat)
	return nil
}

func (p *materialParser) startChild(n Node, _ *Attributes) (bool, error) {
	switch n.QualifiedName() {
	case "app:diffuseColor", "app:emissiveColor", "app:specularColor", "app:ambientIntensity",
		"app:shininess", "app:transparency", "app:isSmooth", "app:target", "app:isFront",
		"gml:name", "gml:description":
		return true, nil
	}
	return false, nil
}

func (p *materialParser) endChild(n Node, text string) (bool, error) {
	var err error
	switch n.QualifiedName() {
	case "app:diffuseColor":
		p.mat.Diffuse, err = parseColor(text)
	case "app:emissiveColor":
		p.mat.Emissive, err = parseColor(text)
	case "app:specularColor":
		p.mat.Specular, err = parseColor(text)
	case "app:ambientIntensity":
		p.mat.AmbientIntensity, err = strconv.ParseFloat(text, 64)
	case "app:shininess":
		p.mat.Shininess, err = strconv.ParseFloat(text, 64)
	case "app:transparency":
		p.mat.Transparency, err = strconv.ParseFloat(text, 64)
	case "app:isSmooth":
		p.mat.IsSmooth, err = strconv.ParseBool(text)
	case "app:target":
		if text != "" {
			p.mat.Targets = append(p.mat.Targets, strings.TrimPrefix(text, "#"))
		}
	case "app:isFront", "gml:name", "gml:description":
	default:
		return false, nil
	}
	if err != nil {
		p.doc.builder.warn(model.IssueDataQuality, n.QualifiedName(), "material %q: invalid value %q", p.mat.ID, text)
	}
	return true, nil
}

func parseColor(text string) (model.Vec3, error) {
	values, err := parseFloats(text)
	if err != nil {
		return model.Vec3{}, err
	}
	if len(values) != 3 {
		return model.Vec3{}, strconv.ErrSyntax
	}
	return model.Vec3{values[0], values[1], values[2]}, nil
}
