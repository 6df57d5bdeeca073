package storefront

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-storefront/common"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `id: store-1
imageUrl: shop.png
models:
  - id: chair-1
    url: chair.glb
    position: {x: 1, y: 0, z: 2}
    size: 1.5
  - id: lamp-1
    url: lamp.glb
    position: {x: -2, y: 0, z: 0}
`

const tomlDoc = `id = "store-1"
imageUrl = "shop.png"

[[models]]
id = "chair-1"
url = "chair.glb"
size = 1.5
position = { x = 1.0, y = 0.0, z = 2.0 }

[[models]]
id = "lamp-1"
url = "lamp.glb"
position = { x = -2.0, y = 0.0, z = 0.0 }
`

const jsonDoc = `{
  "id": "store-1",
  "imageUrl": "shop.png",
  "models": [
    {"id": "chair-1", "url": "chair.glb", "position": {"x": 1, "y": 0, "z": 2}, "size": 1.5},
    {"id": "lamp-1", "url": "lamp.glb", "position": {"x": -2, "y": 0, "z": 0}}
  ]
}`

func TestParseFormats(t *testing.T) {
	want := &SceneDocument{
		ID:       "store-1",
		ImageURL: "shop.png",
		Models: []ModelEntry{
			{ID: "chair-1", URL: "chair.glb", Position: common.Position{X: 1, Z: 2}, Size: 1.5},
			{ID: "lamp-1", URL: "lamp.glb", Position: common.Position{X: -2}},
		},
	}

	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"yaml", yamlDoc, FormatYAML},
		{"toml", tomlDoc, FormatTOML},
		{"json", jsonDoc, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, want, doc)
		})
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"missing id", "imageUrl: shop.png\n", ErrMissingSceneID},
		{"missing image", "id: store-1\n", ErrMissingImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("id: s\nimageUrl: i\nmodels:\n  - {id: a, url: a.glb}\n  - {id: a, url: b.glb}\n"), FormatYAML)
	assert.ErrorContains(t, err, "used twice")

	_, err = Parse([]byte("id: s\nimageUrl: i\nmodels:\n  - {id: a}\n"), FormatYAML)
	assert.ErrorContains(t, err, "no url")

	_, err = Parse([]byte("{"), FormatJSON)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.toml": FormatTOML,
		"a.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("scene.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSaveAndLoad(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			doc, err := Parse([]byte(yamlDoc), FormatYAML)
			require.NoError(t, err)
			require.True(t, doc.SetPosition("lamp-1", common.Position{X: 4, Y: 1, Z: -3}))

			path := filepath.Join(t.TempDir(), "scene"+ext)
			data, err := Save(path, doc)
			require.NoError(t, err)

			onDisk, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, data, onDisk)

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, doc, loaded)

			leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".scene*"))
			require.NoError(t, err)
			assert.Empty(t, leftovers)
		})
	}
}

func TestSpecsDefaultSize(t *testing.T) {
	doc, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)

	specs := doc.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "chair-1", specs[0].ID)
	assert.Equal(t, mgl32.Vec3{1, 0, 2}, specs[0].Position)
	assert.Equal(t, float32(1.5), specs[0].Size)
	assert.Equal(t, float32(1), specs[1].Size)
}

func TestSetPositionAndClone(t *testing.T) {
	doc, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)

	c := doc.Clone()
	assert.False(t, doc.SetPosition("sofa-1", common.Position{X: 1}))
	assert.True(t, doc.SetPosition("chair-1", common.Position{X: 9}))

	assert.Equal(t, float32(9), doc.Models[0].Position.X)
	assert.Equal(t, float32(1), c.Models[0].Position.X)
}
