package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"unicode"

	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned when fetched bytes are neither a supported image nor a glTF model.
	ErrUnsupportedFormat = errors.New("unsupported asset format")
)

// sniffKind names the detected content type for log and error messages.
func sniffKind(data []byte) string {
	if isGLB(data) {
		return "model/gltf-binary"
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "unknown"
	}
	return kind.MIME.Value
}

// isGLTFJSON reports whether data looks like a glTF JSON document.
func isGLTFJSON(data []byte) bool {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeImage decodes PNG, JPEG or WebP bytes into an RGBA texture.
//
// Parameters:
//   - source: the URL or label used for the texture and in errors
//   - data: the encoded image
//
// Returns:
//   - *graph.Texture: the decoded texture
//   - error: error if the bytes are not a supported image
func decodeImage(source string, data []byte) (*graph.Texture, error) {
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%s (%s): %w", source, sniffKind(data), ErrUnsupportedFormat)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", source, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &graph.Texture{
		Source: source,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}, nil
}

// decodeModel imports glTF JSON or GLB bytes into a node tree.
func decodeModel(source string, data []byte, resolve uriResolver) (*graph.Node, error) {
	if !isGLB(data) && !isGLTFJSON(data) {
		return nil, fmt.Errorf("%s (%s): %w", source, sniffKind(data), ErrUnsupportedFormat)
	}
	return newGLTFImporter().Import(source, data, resolve)
}
