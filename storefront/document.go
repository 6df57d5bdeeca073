package storefront

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-storefront/common"
	"github.com/Carmen-Shannon/oxy-storefront/engine/scene"
)

var (
	// ErrMissingSceneID is returned for a document without an id.
	ErrMissingSceneID = errors.New("scene document has no id")
	// ErrMissingImage is returned for a document without a backdrop image.
	ErrMissingImage = errors.New("scene document has no imageUrl")
)

// ModelEntry is one placeable object of a scene.
type ModelEntry struct {
	ID       string          `json:"id" yaml:"id" toml:"id"`
	URL      string          `json:"url" yaml:"url" toml:"url"`
	Position common.Position `json:"position" yaml:"position" toml:"position"`
	// Size is the uniform scale the object grows to; 0 means 1.
	Size float32 `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
}

// SceneDocument is the upstream configuration of one storefront scene.
type SceneDocument struct {
	ID       string       `json:"id" yaml:"id" toml:"id"`
	ImageURL string       `json:"imageUrl" yaml:"imageUrl" toml:"imageUrl"`
	Models   []ModelEntry `json:"models" yaml:"models" toml:"models"`
}

// Validate checks the fields a viewer cannot do without.
func (d *SceneDocument) Validate() error {
	if d.ID == "" {
		return ErrMissingSceneID
	}
	if d.ImageURL == "" {
		return ErrMissingImage
	}
	seen := make(map[string]bool, len(d.Models))
	for i, m := range d.Models {
		if m.ID == "" {
			return fmt.Errorf("model %d has no id", i)
		}
		if m.URL == "" {
			return fmt.Errorf("model %q has no url", m.ID)
		}
		if seen[m.ID] {
			return fmt.Errorf("model id %q is used twice", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// Specs converts the models into the list a scene session reconciles against.
func (d *SceneDocument) Specs() []scene.ObjectSpec {
	specs := make([]scene.ObjectSpec, 0, len(d.Models))
	for _, m := range d.Models {
		size := m.Size
		if size <= 0 {
			size = 1
		}
		specs = append(specs, scene.ObjectSpec{
			ID:       m.ID,
			URL:      m.URL,
			Position: m.Position.Vec3(),
			Size:     size,
		})
	}
	return specs
}

// SetPosition updates the position of one model.
//
// Parameters:
//   - id: the model id
//   - pos: the new position
//
// Returns:
//   - bool: false if no model has that id
func (d *SceneDocument) SetPosition(id string, pos common.Position) bool {
	for i := range d.Models {
		if d.Models[i].ID == id {
			d.Models[i].Position = pos
			return true
		}
	}
	return false
}

// Clone returns a copy that shares nothing with d.
func (d *SceneDocument) Clone() *SceneDocument {
	c := *d
	c.Models = append([]ModelEntry(nil), d.Models...)
	return &c
}
