package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/engine/cache"
	"github.com/Carmen-Shannon/oxy-storefront/engine/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned bytes and can hold every fetch until released.
type fakeFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
	gate  chan struct{}
}

func newFakeFetcher(files map[string][]byte) *fakeFetcher {
	return &fakeFetcher{files: files, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	f.calls[rawURL]++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	data, ok := f.files[rawURL]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// triangleGLTF returns a glTF JSON document with one indexed triangle stored in a data URI buffer.
func triangleGLTF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, positions))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2}))
	buf.Write([]byte{0, 0}) // pad to 4 bytes

	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"nodes": []int{0}}},
		"nodes": []any{map[string]any{
			"name":        "tri",
			"mesh":        0,
			"translation": []float32{0, 2, 0},
		}},
		"meshes": []any{map[string]any{
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
				"material":   0,
			}},
		}},
		"materials": []any{map[string]any{
			"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{1, 0, 0, 1}},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{map[string]any{
			"byteLength": buf.Len(),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// wrapGLB packs a glTF JSON document into a GLB container with no binary chunk.
func wrapGLB(t *testing.T, jsonDoc []byte) []byte {
	t.Helper()
	for len(jsonDoc)%4 != 0 {
		jsonDoc = append(jsonDoc, ' ')
	}
	var out bytes.Buffer
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBHeader{
		Magic:   gltfGLBMagic,
		Version: gltfGLBVersion,
		Length:  uint32(12 + 8 + len(jsonDoc)),
	}))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{
		ChunkLength: uint32(len(jsonDoc)),
		ChunkType:   gltfGLBChunkJSON,
	}))
	out.Write(jsonDoc)
	return out.Bytes()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newTestLoader builds a loader with isolated caches whose callbacks land on the returned channel.
func newTestLoader(f Fetcher) (Loader, chan func()) {
	posted := make(chan func(), 16)
	l := NewLoader(
		WithFetcher(f),
		WithModelCache(cache.New[*graph.Node]()),
		WithTextureCache(cache.New[*graph.Texture]()),
		WithPoster(PosterFunc(func(fn func()) { posted <- fn })),
		WithWorkers(2),
	)
	return l, posted
}

func drain(t *testing.T, posted chan func()) {
	t.Helper()
	select {
	case fn := <-posted:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a posted callback")
	}
}

func TestParseGLTFTriangle(t *testing.T) {
	root, err := decodeModel("tri.gltf", triangleGLTF(t), nil)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)

	tri := root.Children()[0]
	assert.Equal(t, "tri", tri.Name)
	require.NotNil(t, tri.Mesh)
	assert.Len(t, tri.Mesh.Geometry.Positions, 3)
	assert.Equal(t, []uint32{0, 1, 2}, tri.Mesh.Geometry.Indices)
	assert.Equal(t, float32(1), tri.Mesh.Material.Color[0])
	assert.InDelta(t, 2, tri.Position[1], 1e-6)

	box := root.Bounds()
	assert.InDelta(t, 2, box.Min[1], 1e-6)
	assert.InDelta(t, 3, box.Max[1], 1e-6)
}

func TestParseGLB(t *testing.T) {
	root, err := decodeModel("tri.glb", wrapGLB(t, triangleGLTF(t)), nil)
	require.NoError(t, err)
	require.Len(t, root.Children(), 1)
}

func TestDecodeRejectsUnknownBytes(t *testing.T) {
	_, err := decodeModel("x.bin", []byte{0x01, 0x02, 0x03, 0x04}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = decodeImage("x.png", []byte("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := decodeModel("old.gltf", []byte(`{"asset":{"version":"1.0"}}`), nil)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestLoadModelCachesAndServesHitsInline(t *testing.T) {
	f := newFakeFetcher(map[string][]byte{"m.gltf": triangleGLTF(t)})
	l, posted := newTestLoader(f)
	defer l.Close()

	var first ModelResult
	l.LoadModel("m.gltf", func(r ModelResult) { first = r })
	drain(t, posted)
	require.NoError(t, first.Err)
	assert.False(t, first.FromCache)

	var second ModelResult
	l.LoadModel("m.gltf", func(r ModelResult) { second = r })
	require.True(t, second.FromCache, "cache hits are delivered synchronously")
	assert.Same(t, first.Model, second.Model)
	assert.Equal(t, 1, f.callCount("m.gltf"))
}

func TestLoadModelCoalescesConcurrentFirstLoads(t *testing.T) {
	f := newFakeFetcher(map[string][]byte{"m.gltf": triangleGLTF(t)})
	f.gate = make(chan struct{})
	l, posted := newTestLoader(f)
	defer l.Close()

	var results []ModelResult
	l.LoadModel("m.gltf", func(r ModelResult) { results = append(results, r) })
	l.LoadModel("m.gltf", func(r ModelResult) { results = append(results, r) })

	require.Eventually(t, func() bool { return f.callCount("m.gltf") == 1 }, 2*time.Second, 5*time.Millisecond)
	close(f.gate)

	drain(t, posted)
	drain(t, posted)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Same(t, results[0].Model, results[1].Model)
	assert.Equal(t, 1, f.callCount("m.gltf"))
	assert.EqualValues(t, 1, l.FetchCount())
}

func TestLoadModelFailureIsReportedNotCached(t *testing.T) {
	f := newFakeFetcher(nil)
	l, posted := newTestLoader(f)
	defer l.Close()

	var res ModelResult
	l.LoadModel("missing.glb", func(r ModelResult) { res = r })
	drain(t, posted)
	assert.Error(t, res.Err)
	assert.Nil(t, res.Model)
	assert.Zero(t, l.Models().Len())
}

func TestLoadImageDecodesPNG(t *testing.T) {
	f := newFakeFetcher(map[string][]byte{"bg.png": tinyPNG(t)})
	l, posted := newTestLoader(f)
	defer l.Close()

	var res ImageResult
	l.LoadImage("bg.png", func(r ImageResult) { res = r })
	drain(t, posted)
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Texture.Width)
	assert.Equal(t, 2, res.Texture.Height)
	assert.Len(t, res.Texture.Pixels, 16)
	assert.Equal(t, byte(255), res.Texture.Pixels[0])
}

func TestCloseFailsLaterMisses(t *testing.T) {
	f := newFakeFetcher(map[string][]byte{"m.gltf": triangleGLTF(t), "bg.png": tinyPNG(t)})
	l, posted := newTestLoader(f)

	var cached ModelResult
	l.LoadModel("m.gltf", func(r ModelResult) { cached = r })
	drain(t, posted)
	require.NoError(t, cached.Err)

	l.Close()
	l.Close()

	var hit ModelResult
	l.LoadModel("m.gltf", func(r ModelResult) { hit = r })
	assert.True(t, hit.FromCache)

	var img ImageResult
	l.LoadImage("bg.png", func(r ImageResult) { img = r })
	drain(t, posted)
	assert.ErrorIs(t, img.Err, ErrClosed)
	assert.Equal(t, 0, f.callCount("bg.png"))
}

func TestResolveReference(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/models/buf.bin", resolveReference("https://cdn.example.com/models/a.gltf", "buf.bin"))
	assert.Equal(t, "https://other.example.com/x.bin", resolveReference("https://cdn.example.com/a.gltf", "https://other.example.com/x.bin"))
	assert.Equal(t, "assets/models/buf.bin", resolveReference("assets/models/a.gltf", "buf.bin"))
	assert.Equal(t, "file:///srv/models/buf.bin", resolveReference("file:///srv/models/a.gltf", "buf.bin"))
}
