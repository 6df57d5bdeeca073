package storefront

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsSettledContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: a\n"), 0o644))

	changes := make(chan string, 8)
	w, err := Watch(path, 50*time.Millisecond, func(data []byte) {
		changes <- string(data)
	})
	require.NoError(t, err)
	defer w.Close()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("id: b\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("id: c\n"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, "id: c\n", got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchSeesAtomicSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	doc, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	_, err = Save(path, doc)
	require.NoError(t, err)

	changes := make(chan []byte, 8)
	w, err := Watch(path, 20*time.Millisecond, func(data []byte) {
		changes <- data
	})
	require.NoError(t, err)

	doc.Models[0].Size = 3
	saved, err := Save(path, doc)
	require.NoError(t, err)

	select {
	case got := <-changes:
		assert.Equal(t, saved, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
