package loader

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser

	// textures memoizes decoded images by glTF texture index.
	textures map[int]*graph.Texture
}

// gltfMaterialExtractor converts glTF materials into graph materials, decoding base colour textures on the way.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index.
	// A base colour texture that fails to decode is logged and dropped; the factor still applies.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - graph.Material: the extracted material
	//   - error: error if the index is invalid
	ExtractMaterial(materialIndex int) (graph.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{
		parser:   parser,
		textures: make(map[int]*graph.Texture),
	}
}

// defaultMaterial is the glTF default: opaque white.
func defaultMaterial() graph.Material {
	return graph.Material{Color: mgl32.Vec4{1, 1, 1, 1}}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (graph.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return graph.Material{}, errNoDocument
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return graph.Material{}, fmt.Errorf("material index %d out of range", materialIndex)
	}

	src := &doc.Materials[materialIndex]
	mat := defaultMaterial()
	pbr := src.PbrMetallicRoughness
	if pbr == nil {
		return mat, nil
	}
	if pbr.BaseColorFactor != nil {
		mat.Color = mgl32.Vec4(*pbr.BaseColorFactor)
	}
	if pbr.BaseColorTexture != nil {
		tex, err := e.loadTexture(pbr.BaseColorTexture.Index)
		if err != nil {
			log.Printf("[Assets] material %q: base colour texture dropped: %v", src.Name, err)
		} else {
			mat.Map = tex
		}
	}
	return mat, nil
}

// loadTexture decodes the image behind a glTF texture, whether embedded in a buffer view or referenced by URI.
func (e *gltfMaterialExtractorImpl) loadTexture(textureIndex int) (*graph.Texture, error) {
	if tex, ok := e.textures[textureIndex]; ok {
		return tex, nil
	}

	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIndex)
	}
	source := doc.Textures[textureIndex].Source
	if source == nil || *source < 0 || *source >= len(doc.Images) {
		return nil, fmt.Errorf("texture %d has no valid image source", textureIndex)
	}
	img := &doc.Images[*source]

	var (
		data []byte
		err  error
		name string
	)
	switch {
	case img.BufferView != nil:
		data, err = e.parser.ReadBufferView(*img.BufferView)
		name = fmt.Sprintf("image#%d", *source)
	case img.URI != "":
		data, err = e.parser.Resolve(img.URI)
		name = img.URI
	default:
		return nil, fmt.Errorf("image %d has neither bufferView nor uri", *source)
	}
	if err != nil {
		return nil, err
	}

	tex, err := decodeImage(name, data)
	if err != nil {
		return nil, err
	}
	e.textures[textureIndex] = tex
	return tex, nil
}
